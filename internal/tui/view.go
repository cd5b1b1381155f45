package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddClass:
		content = docStyle.Render(m.form.View())
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			paneStyle.Render(m.roster.View()),
			paneStyle.Render(m.week.View()),
		)
	}

	parts := []string{titleStyle.Render("freeweek"), content, statusStyle.Render(m.status)}
	if m.err != nil {
		parts = append(parts, dangerStyle.Render("Error: "+m.err.Error()))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
