package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/freeweek/internal/schedule"
	"github.com/julianstephens/freeweek/internal/tui/components/roster"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tickMsg:
		m.recompute()
		return m, tick()
	}

	if m.state == StateAddClass {
		return m, m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case roster.ToggleMsg:
		m.selection.Toggle(msg.ID)
		m.recompute()
		return m, nil

	case roster.AddClassMsg:
		m.formOwner = msg.Person
		m.classForm = &ClassFormModel{}
		m.form = NewClassForm(m.classForm, msg.Person.Label())
		m.err = nil
		m.state = StateAddClass
		return m, m.form.Init()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.cursor = m.cursor.Next(len(m.gaps))
			m.refreshCursor()
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.cursor = m.cursor.Prev(len(m.gaps))
			m.refreshCursor()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.selection = schedule.NewSelection()
			m.recompute()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.err = m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.roster, cmd = m.roster.Update(msg)
	return m, cmd
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Cancel) {
		m.state = StateBrowse
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveClassForm(); err != nil {
			// Stay in the form so the entry can be fixed or canceled.
			m.err = err
			m.form.State = huh.StateNormal
			return cmd
		}
		m.err = nil
		m.state = StateBrowse
	case huh.StateAborted:
		m.state = StateBrowse
	}
	return cmd
}

func (m *Model) resize() {
	inner := max(m.height-6, 3)
	left := max(m.width/3, 20)
	m.roster.SetSize(left, inner)
	m.week.SetSize(max(m.width-left-6, 20), inner)
}
