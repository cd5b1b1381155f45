package roster

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/schedule"
)

// ToggleMsg asks the parent to flip a person's selection.
type ToggleMsg struct {
	ID string
}

// AddClassMsg asks the parent to open the manual class form for a person.
type AddClassMsg struct {
	Person models.Person
}

type Item struct {
	Person   models.Person
	Classes  int
	Selected bool
}

func (i Item) Title() string {
	box := "[ ]"
	if i.Selected {
		box = "[x]"
	}
	return box + " " + i.Person.Label()
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%d class meeting(s)", i.Classes)
	if i.Person.Hidden {
		desc += " | hidden"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Person.Label() }

type KeyMap struct {
	Toggle key.Binding
	Add    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "select"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add class"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "People"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add}
	}
	return Model{list: l, keys: keys}
}

// SetPeople refreshes the rows, keeping the cursor where it was.
func (m *Model) SetPeople(people []models.Person, counts map[string]int, selected schedule.Selection) {
	items := make([]list.Item, len(people))
	for i, p := range people {
		items[i] = Item{Person: p, Classes: counts[p.ID], Selected: selected.Has(p.ID)}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleMsg{ID: i.Person.ID} }
			}
		case key.Matches(msg, m.keys.Add):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return AddClassMsg{Person: i.Person} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No people yet.\n  Add one with 'freeweek person add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
