package week

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/utils"
)

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(6)

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Bold(true)

	overlapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

// Model shows the common free intervals of the selection, one row per school day.
type Model struct {
	viewport viewport.Model
	free     []models.FreeInterval
	overlaps []models.Overlap
	current  string
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetWeek replaces the grid contents. current is the id of the free interval
// holding the highlighted gap, or empty.
func (m *Model) SetWeek(free []models.FreeInterval, overlaps []models.Overlap, current string) {
	m.free = free
	m.overlaps = overlaps
	m.current = current
	m.Render()
}

func (m *Model) Render() {
	if m.free == nil && m.overlaps == nil {
		m.viewport.SetContent("Select people to see common free time.")
		return
	}

	var b strings.Builder
	for d := models.Monday; d <= models.Friday; d++ {
		var spans []string
		for _, f := range m.free {
			if f.Day != d {
				continue
			}
			label := utils.FormatClock12(f.Start) + "-" + utils.FormatClock12(f.End)
			if f.ID == m.current {
				spans = append(spans, currentStyle.Render(label))
			} else {
				spans = append(spans, freeStyle.Render(label))
			}
		}
		if len(spans) == 0 {
			spans = append(spans, "busy")
		}
		b.WriteString(dayStyle.Render(d.String()) + strings.Join(spans, "  ") + "\n")

		for _, o := range m.overlaps {
			if o.Day != d {
				continue
			}
			b.WriteString(dayStyle.Render("") + overlapStyle.Render(
				"both in class "+utils.FormatClock12(o.Start)+"-"+utils.FormatClock12(o.End)) + "\n")
		}
	}
	m.viewport.SetContent(b.String())
}
