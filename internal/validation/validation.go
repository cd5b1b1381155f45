package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingClasses ConflictType = "overlapping_classes"
	ConflictOutsideWindow      ConflictType = "outside_window"
	ConflictInvalidTime        ConflictType = "invalid_time"
	ConflictUnknownOwner       ConflictType = "unknown_owner"
	ConflictNoClasses          ConflictType = "no_classes"
)

// Conflict represents one problem found in a stored schedule.
type Conflict struct {
	Type        ConflictType
	Description string
	PersonID    string
	Day         models.Weekday
	Items       []string // Class titles involved
	TimeRange   string   // Human-readable time range (if applicable)
	MeetingIDs  []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts of type t were found.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks stored schedules for problems the free-time views would hide.
type Validator struct {
	// Window flags classes that start before or end after it. A zero window disables the check.
	Window models.DayWindow
}

// New creates a new Validator
func New(window models.DayWindow) *Validator {
	return &Validator{Window: window}
}

type span struct {
	meeting    models.ClassMeeting
	start, end int
}

// ValidateSchedule checks every person's classes. Overlaps are reported only
// within one owner; different owners overlapping is the normal case.
func (v *Validator) ValidateSchedule(people []models.Person, meetings []models.ClassMeeting) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	names := make(map[string]string, len(people))
	counts := make(map[string]int, len(people))
	for _, p := range people {
		names[p.ID] = p.Label()
	}

	byOwnerDay := make(map[string]map[models.Weekday][]span)
	for _, m := range meetings {
		counts[m.OwnerID]++
		if _, ok := names[m.OwnerID]; !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownOwner,
				Description: fmt.Sprintf("Class \"%s\" belongs to unknown person %s", m.Title, m.OwnerID),
				PersonID:    m.OwnerID,
				Items:       []string{m.Title},
				MeetingIDs:  []string{m.ID},
			})
			continue
		}

		start, okStart := utils.ClockToMinutes(m.StartTime)
		end, okEnd := utils.ClockToMinutes(m.EndTime)
		if !okStart || !okEnd || end <= start || !m.Day.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("%s: class \"%s\" has an invalid time %s-%s", names[m.OwnerID], m.Title, m.StartTime, m.EndTime),
				PersonID:    m.OwnerID,
				Day:         m.Day,
				Items:       []string{m.Title},
				MeetingIDs:  []string{m.ID},
			})
			continue
		}

		if v.Window.EndHour > v.Window.StartHour && (start < v.Window.StartMinutes() || end > v.Window.EndMinutes()) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictOutsideWindow,
				Description: fmt.Sprintf("%s: class \"%s\" on %s (%s) falls outside %s-%s",
					names[m.OwnerID], m.Title, m.Day, timeRange(start, end),
					utils.FormatClock12(v.Window.StartMinutes()), utils.FormatClock12(v.Window.EndMinutes())),
				PersonID:   m.OwnerID,
				Day:        m.Day,
				Items:      []string{m.Title},
				TimeRange:  timeRange(start, end),
				MeetingIDs: []string{m.ID},
			})
		}

		days, ok := byOwnerDay[m.OwnerID]
		if !ok {
			days = make(map[models.Weekday][]span)
			byOwnerDay[m.OwnerID] = days
		}
		days[m.Day] = append(days[m.Day], span{meeting: m, start: start, end: end})
	}

	owners := make([]string, 0, len(byOwnerDay))
	for owner := range byOwnerDay {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		for day := models.Monday; day <= models.Sunday; day++ {
			spans := byOwnerDay[owner][day]
			sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
			for i := 0; i < len(spans); i++ {
				for j := i + 1; j < len(spans); j++ {
					a, b := spans[i], spans[j]
					if b.start >= a.end {
						break
					}
					start, end := max(a.start, b.start), min(a.end, b.end)
					result.Conflicts = append(result.Conflicts, Conflict{
						Type: ConflictOverlappingClasses,
						Description: fmt.Sprintf("%s: \"%s\" and \"%s\" overlap on %s (%s)",
							names[owner], a.meeting.Title, b.meeting.Title, day, timeRange(start, end)),
						PersonID:   owner,
						Day:        day,
						Items:      []string{a.meeting.Title, b.meeting.Title},
						TimeRange:  timeRange(start, end),
						MeetingIDs: []string{a.meeting.ID, b.meeting.ID},
					})
				}
			}
		}
	}

	for _, p := range people {
		if counts[p.ID] == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNoClasses,
				Description: fmt.Sprintf("%s has no classes yet; import a calendar or add one with 'freeweek class add'", p.Label()),
				PersonID:    p.ID,
			})
		}
	}

	return result
}

func timeRange(start, end int) string {
	return utils.FormatClock12(start) + "-" + utils.FormatClock12(end)
}
