package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/storage/sqlite"
	"github.com/julianstephens/freeweek/internal/tui/components/roster"
)

func setupModel(t *testing.T) (Model, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "freeweek.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, p := range []models.Person{{ID: "ana", DisplayName: "Ana"}, {ID: "ben", DisplayName: "Ben"}} {
		if err := store.AddPerson(ctx, p); err != nil {
			t.Fatalf("AddPerson failed: %v", err)
		}
	}
	ana := []models.ClassMeeting{{Title: "CSE 142", Day: models.Monday, StartTime: "09:00:00", EndTime: "10:20:00"}}
	if err := store.SaveManualGroup(ctx, "ana", "manual:cse", ana); err != nil {
		t.Fatal(err)
	}
	ben := []models.ClassMeeting{{Title: "MATH 124", Day: models.Monday, StartTime: "13:00:00", EndTime: "14:00:00"}}
	if err := store.SaveManualGroup(ctx, "ben", "manual:math", ben); err != nil {
		t.Fatal(err)
	}

	m, err := NewModel(ctx, Options{
		Store:      store,
		SyncWindow: models.DayWindow{StartHour: 7, EndHour: 23},
		Now:        func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return m, store
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func TestModel_GapStepping(t *testing.T) {
	m, _ := setupModel(t)
	if got := m.Status(); got != "Select friends to see synced gaps." {
		t.Errorf("initial status = %q", got)
	}

	m = send(t, m, roster.ToggleMsg{ID: "ana"})
	if got, want := m.Status(), "Next synced gap with Ana is today at 8:00 AM."; got != want {
		t.Errorf("status = %q, want %q", got, want)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got, want := m.Status(), "Next synced gap with Ana is today at 10:20 AM."; got != want {
		t.Errorf("after next, status = %q, want %q", got, want)
	}

	// Changing the selection starts over from the first gap.
	m = send(t, m, roster.ToggleMsg{ID: "ben"})
	if got, want := m.Status(), "Next synced gap with Ana and Ben is today at 8:00 AM."; got != want {
		t.Errorf("after toggle, status = %q, want %q", got, want)
	}
	if len(m.overlaps) != 0 {
		t.Errorf("expected no overlaps, got %+v", m.overlaps)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if !strings.Contains(m.Status(), "8:00 AM") {
		t.Errorf("prev at the first gap should stay put, got %q", m.Status())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if m.selection.Len() != 0 || m.gaps != nil {
		t.Errorf("clear should drop the selection, got %v", m.selection.IDs())
	}
}

func TestModel_SaveClassForm(t *testing.T) {
	m, store := setupModel(t)
	m = send(t, m, roster.ToggleMsg{ID: "ana"})
	m = send(t, m, roster.AddClassMsg{Person: models.Person{ID: "ana", DisplayName: "Ana"}})
	if m.state != StateAddClass || m.form == nil {
		t.Fatalf("expected the class form to open, state=%v", m.state)
	}

	m.classForm.Title = "Chem Lab"
	m.classForm.Days = []models.Weekday{models.Monday, models.Thursday}
	m.classForm.Start = "8am"
	m.classForm.End = "8:50am"
	if err := m.saveClassForm(); err != nil {
		t.Fatalf("saveClassForm failed: %v", err)
	}

	classes, err := store.GetClasses(context.Background(), "ana")
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 3 {
		t.Fatalf("expected 3 meetings for ana, got %d", len(classes))
	}
	if got, want := m.Status(), "Next synced gap with Ana is today at 8:50 AM."; got != want {
		t.Errorf("status = %q, want %q", got, want)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateBrowse {
		t.Errorf("esc should close the form, state=%v", m.state)
	}
}

func TestModel_SaveClassFormRejectsBadTimes(t *testing.T) {
	m, _ := setupModel(t)
	m.formOwner = models.Person{ID: "ana"}
	m.classForm = &ClassFormModel{Title: "Lab", Days: []models.Weekday{models.Tuesday}, Start: "2pm", End: "1pm"}
	if err := m.saveClassForm(); err == nil {
		t.Error("expected an error for an end before the start")
	}
}
