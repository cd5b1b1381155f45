package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/freeweek/internal/constants"
)

const (
	// SourceICS marks meetings created by an iCalendar import.
	SourceICS = "ics"
	// ManualSourcePrefix prefixes the group key of manually entered meetings.
	ManualSourcePrefix = "manual:"
)

// ClassMeeting is one weekly recurring class slot for a person.
type ClassMeeting struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"owner_id"`
	Title     string  `json:"title"`
	Day       Weekday `json:"day"`
	StartTime string  `json:"start_time"` // HH:MM:SS format
	EndTime   string  `json:"end_time"`   // HH:MM:SS format
	Source    string  `json:"source,omitempty"`
}

// IsManual reports whether the meeting belongs to a manual entry group.
func (m ClassMeeting) IsManual() bool {
	return strings.HasPrefix(m.Source, ManualSourcePrefix)
}

// IsImported reports whether the meeting came from an ICS import.
// Rows without a source predate manual entry and count as imported.
func (m ClassMeeting) IsImported() bool {
	return m.Source == "" || m.Source == SourceICS
}

// DedupKey identifies meetings that render identically for a single owner.
func (m ClassMeeting) DedupKey() string {
	return fmt.Sprintf("%s|%d|%s|%s", m.Title, m.Day, m.StartTime, m.EndTime)
}

// Validate checks the stored shape of the meeting.
func (m ClassMeeting) Validate() error {
	if strings.TrimSpace(m.OwnerID) == "" {
		return fmt.Errorf("meeting %q has no owner", m.Title)
	}
	if !m.Day.Valid() {
		return fmt.Errorf("meeting %q has invalid day %d", m.Title, m.Day)
	}
	start, err := time.Parse(constants.ClockFormat, m.StartTime)
	if err != nil {
		return fmt.Errorf("meeting %q has invalid start time %q", m.Title, m.StartTime)
	}
	end, err := time.Parse(constants.ClockFormat, m.EndTime)
	if err != nil {
		return fmt.Errorf("meeting %q has invalid end time %q", m.Title, m.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("meeting %q ends (%s) before it starts (%s)", m.Title, m.EndTime, m.StartTime)
	}
	return nil
}

// DedupeMeetings keeps the first meeting for each DedupKey, preserving order.
func DedupeMeetings(meetings []ClassMeeting) []ClassMeeting {
	seen := make(map[string]bool, len(meetings))
	out := make([]ClassMeeting, 0, len(meetings))
	for _, m := range meetings {
		key := m.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// RawEvent is a VEVENT reduced to the properties the importer reads.
type RawEvent struct {
	Summary string
	DTStart string
	DTEnd   string
	RRule   string
}

// CleanStoredMeetings drops rows whose clock times do not parse and collapses
// exact duplicates across owner, title, day, times, and source.
func CleanStoredMeetings(meetings []ClassMeeting) []ClassMeeting {
	seen := make(map[string]bool, len(meetings))
	out := make([]ClassMeeting, 0, len(meetings))
	for _, m := range meetings {
		if !validClock(m.StartTime) || !validClock(m.EndTime) || !m.Day.Valid() {
			continue
		}
		key := m.OwnerID + "|" + m.DedupKey() + "|" + m.Source
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

func validClock(s string) bool {
	_, err := time.Parse(constants.ClockFormat, s)
	return err == nil
}

// PrepareForWrite stamps ownerID and source onto copies of meetings, assigns
// ids where missing, and validates every row. It fails on the first bad row.
func PrepareForWrite(ownerID, source string, meetings []ClassMeeting) ([]ClassMeeting, error) {
	out := make([]ClassMeeting, 0, len(meetings))
	for _, m := range meetings {
		if m.OwnerID != "" && m.OwnerID != ownerID {
			return nil, fmt.Errorf("meeting %q belongs to %s, not %s", m.Title, m.OwnerID, ownerID)
		}
		m.OwnerID = ownerID
		m.Source = source
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
