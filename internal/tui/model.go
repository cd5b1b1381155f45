package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/schedule"
	"github.com/julianstephens/freeweek/internal/storage"
	"github.com/julianstephens/freeweek/internal/tui/components/roster"
	"github.com/julianstephens/freeweek/internal/tui/components/week"
)

type SessionState int

const (
	StateBrowse SessionState = iota
	StateAddClass
)

// Options configure a new Model.
type Options struct {
	Store          storage.Provider
	SyncWindow models.DayWindow
	// Now defaults to time.Now.
	Now func() time.Time
}

type ClassFormModel struct {
	Title string
	Days  []models.Weekday
	Start string
	End   string
}

type Model struct {
	ctx       context.Context
	store     storage.Provider
	window    models.DayWindow
	now       func() time.Time
	state     SessionState
	keys      KeyMap
	help      help.Model
	roster    roster.Model
	week      week.Model
	form      *huh.Form
	classForm *ClassFormModel
	formOwner models.Person

	people    []models.Person
	meetings  []models.ClassMeeting
	selection schedule.Selection
	blocks    []models.BusyBlock
	free      []models.FreeInterval
	overlaps  []models.Overlap
	gaps      []models.Gap
	cursor    schedule.GapCursor

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

// tickMsg re-evaluates which gaps are still ahead.
type tickMsg time.Time

func NewModel(ctx context.Context, opts Options) (Model, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		window:    opts.SyncWindow,
		now:       now,
		state:     StateBrowse,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		roster:    roster.New(0, 0),
		week:      week.New(0, 0),
		selection: schedule.NewSelection(),
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == StateAddClass {
		return []key.Binding{m.keys.Cancel}
	}
	return []key.Binding{m.keys.Toggle, m.keys.Prev, m.keys.Next, m.keys.Add, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Clear},
		{m.keys.Prev, m.keys.Next, m.keys.Add, m.keys.Refresh},
		{m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// reload reads people and classes from the store and recomputes the week.
func (m *Model) reload() error {
	people, err := m.store.GetAllPeople(m.ctx, false)
	if err != nil {
		return fmt.Errorf("failed to load people: %w", err)
	}
	meetings, err := m.store.GetAllClasses(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to load classes: %w", err)
	}
	m.people = people
	m.meetings = meetings

	// Drop selections for people that no longer appear.
	known := make(map[string]bool, len(people))
	for _, p := range people {
		known[p.ID] = true
	}
	for _, id := range m.selection.IDs() {
		if !known[id] {
			m.selection.Toggle(id)
		}
	}
	m.recompute()
	return nil
}

// recompute derives free time and gaps for the current selection.
func (m *Model) recompute() {
	counts := make(map[string]int)
	for _, c := range m.meetings {
		counts[c.OwnerID]++
	}
	m.roster.SetPeople(m.people, counts, m.selection)

	m.blocks = schedule.BlocksFromMeetings(m.meetings)
	m.cursor = m.cursor.Sync(schedule.ScheduleKey(m.selection, m.blocks))
	if m.selection.Len() == 0 {
		m.free, m.overlaps, m.gaps = nil, nil, nil
	} else {
		m.free = schedule.ComputeCommonFree(m.blocks, m.selection, m.window)
		m.overlaps = schedule.ComputeOverlaps(m.blocks, m.selection)
		m.gaps = schedule.SelectGaps(m.free, m.now(), time.Time{})
	}
	m.refreshCursor()
}

// refreshCursor redraws the highlight and status after the cursor moves.
func (m *Model) refreshCursor() {
	current := ""
	if g, ok := m.cursor.Current(m.gaps); ok {
		current = g.ID
	}
	m.week.SetWeek(m.free, m.overlaps, current)
	m.status = schedule.GapStatus(m.gaps, m.cursor, m.selectedNames())
}

func (m Model) selectedNames() []string {
	var names []string
	for _, p := range m.people {
		if m.selection.Has(p.ID) {
			names = append(names, p.Label())
		}
	}
	return names
}

// Status returns the gap status line shown under the week.
func (m Model) Status() string {
	return m.status
}
