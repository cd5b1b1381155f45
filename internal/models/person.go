package models

import "fmt"

type Person struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Hidden      bool           `json:"hidden,omitempty"`
	CreatedAt   string         `json:"created_at,omitempty"` // RFC3339 timestamp
	Meetings    []ClassMeeting `json:"meetings,omitempty"`
}

// Label returns the display name, falling back to the id.
func (p Person) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}

// DayWindow bounds free-time computations to [StartHour, EndHour).
type DayWindow struct {
	StartHour int `json:"start_hour" yaml:"start_hour"`
	EndHour   int `json:"end_hour" yaml:"end_hour"`
}

// StartMinutes returns the window start in minutes since midnight.
func (w DayWindow) StartMinutes() int {
	return w.StartHour * 60
}

// EndMinutes returns the window end in minutes since midnight.
func (w DayWindow) EndMinutes() int {
	return w.EndHour * 60
}

// Validate reports whether the window is a non-empty range of hours within a day.
func (w DayWindow) Validate() error {
	if w.StartHour < 0 || w.StartHour > 24 || w.EndHour < 0 || w.EndHour > 24 {
		return fmt.Errorf("window hours must be between 0 and 24, got %d-%d", w.StartHour, w.EndHour)
	}
	if w.StartHour >= w.EndHour {
		return fmt.Errorf("window start hour %d must be before end hour %d", w.StartHour, w.EndHour)
	}
	return nil
}
