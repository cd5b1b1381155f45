package models

import "time"

// Interval is a half-open [Start, End) span in minutes since midnight.
type Interval struct {
	Day   Weekday `json:"day"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int {
	return i.End - i.Start
}

// Empty reports whether the interval covers no time.
func (i Interval) Empty() bool {
	return i.End <= i.Start
}

// FreeBlock is a personal free span produced from HH:MM:SS strings.
type FreeBlock struct {
	Day       Weekday `json:"day"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
}

// BusyBlock is one owner's class meeting expressed in minutes.
type BusyBlock struct {
	ID     string  `json:"id"`
	Owner  string  `json:"owner"`
	Title  string  `json:"title"`
	Day    Weekday `json:"day"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Source string  `json:"source,omitempty"`
}

// Overlap is the intersection of two different owners' busy blocks.
type Overlap struct {
	ID     string    `json:"id"`
	Day    Weekday   `json:"day"`
	Start  int       `json:"start"`
	End    int       `json:"end"`
	Owners [2]string `json:"owners"`
}

// FreeInterval is a span where every selected person is free.
type FreeInterval struct {
	ID    string  `json:"id"`
	Day   Weekday `json:"day"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Gap is a common free interval placed on a concrete date of the current week.
type Gap struct {
	FreeInterval
	Date           time.Time `json:"date"`
	EffectiveStart int       `json:"effective_start"`
	IsToday        bool      `json:"is_today"`
}
