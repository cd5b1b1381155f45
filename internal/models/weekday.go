package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a Monday-origin day index: Monday=0 ... Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of weekday slots in a weekly template.
const DaysPerWeek = 7

var weekdayNames = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayFromTime shifts Go's Sunday-origin weekday to the Monday-origin index.
func WeekdayFromTime(wd time.Weekday) Weekday {
	return Weekday((int(wd) + 6) % 7)
}

// Valid reports whether d is within 0..6.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// IsSchoolDay reports whether d is Monday through Friday.
func (d Weekday) IsSchoolDay() bool {
	return d >= Monday && d <= Friday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Day"
	}
	return weekdayNames[d]
}

// ParseWeekday accepts short or long English names, or a Monday-origin index.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	dayMap := map[string]Weekday{
		"mon": Monday, "monday": Monday,
		"tue": Tuesday, "tues": Tuesday, "tuesday": Tuesday,
		"wed": Wednesday, "wednesday": Wednesday,
		"thu": Thursday, "thur": Thursday, "thurs": Thursday, "thursday": Thursday,
		"fri": Friday, "friday": Friday,
		"sat": Saturday, "saturday": Saturday,
		"sun": Sunday, "sunday": Sunday,
	}
	if wd, ok := dayMap[s]; ok {
		return wd, nil
	}
	n, err := strconv.Atoi(s)
	if err == nil && Weekday(n).Valid() {
		return Weekday(n), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// ParseWeekdays parses a comma-separated list of weekdays.
func ParseWeekdays(s string) ([]Weekday, error) {
	var days []Weekday
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		wd, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	return days, nil
}

// JoinWeekdays renders days as "Mon/Wed/Fri".
func JoinWeekdays(days []Weekday) string {
	labels := make([]string, 0, len(days))
	for _, d := range days {
		if d.Valid() {
			labels = append(labels, d.String())
		}
	}
	return strings.Join(labels, "/")
}
