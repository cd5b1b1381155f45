package schedule

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/utils"
)

// EntryError is a problem with a manual class entry, worded for the user.
type EntryError string

func (e EntryError) Error() string { return string(e) }

const (
	ErrNoDays         EntryError = "Select at least one day."
	ErrNoTitle        EntryError = "Add a title."
	ErrTimeFormat     EntryError = "Enter a time like 530pm, 5:30pm, or 17:30."
	ErrEndBeforeStart EntryError = "End time must be after start time."
)

// ManualEntry is a class typed in by hand that repeats on one or more days.
type ManualEntry struct {
	OwnerID string
	Title   string
	Days    []models.Weekday
	Start   string
	End     string
	// Source is the existing group key when editing; empty for a new group.
	Source string
}

// NewManualGroup expands entry into one meeting per distinct day, all sharing
// a manual source key. It returns the key alongside the meetings.
func NewManualGroup(entry ManualEntry) (string, []models.ClassMeeting, error) {
	days := uniqueDays(entry.Days)
	if len(days) == 0 {
		return "", nil, ErrNoDays
	}
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return "", nil, ErrNoTitle
	}
	start, err := utils.NormalizeClock(entry.Start)
	if err != nil {
		return "", nil, ErrTimeFormat
	}
	end, err := utils.NormalizeClock(entry.End)
	if err != nil {
		return "", nil, ErrTimeFormat
	}
	startMin, _ := utils.ClockToMinutes(start)
	endMin, _ := utils.ClockToMinutes(end)
	if endMin <= startMin {
		return "", nil, ErrEndBeforeStart
	}

	source := entry.Source
	if source == "" {
		source = models.ManualSourcePrefix + uuid.New().String()
	}

	meetings := make([]models.ClassMeeting, 0, len(days))
	for _, d := range days {
		meetings = append(meetings, models.ClassMeeting{
			ID:        uuid.New().String(),
			OwnerID:   entry.OwnerID,
			Title:     title,
			Day:       d,
			StartTime: start,
			EndTime:   end,
			Source:    source,
		})
	}
	return source, meetings, nil
}

func uniqueDays(days []models.Weekday) []models.Weekday {
	seen := make(map[models.Weekday]bool, len(days))
	out := make([]models.Weekday, 0, len(days))
	for _, d := range days {
		if !d.Valid() || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
