package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/julianstephens/freeweek/internal/constants"
	"github.com/julianstephens/freeweek/internal/models"
)

var freqNames = map[rrule.Frequency]string{
	rrule.YEARLY:   "yearly",
	rrule.MONTHLY:  "monthly",
	rrule.WEEKLY:   "weekly",
	rrule.DAILY:    "daily",
	rrule.HOURLY:   "hourly",
	rrule.MINUTELY: "minutely",
	rrule.SECONDLY: "secondly",
}

var freqUnits = map[rrule.Frequency]string{
	rrule.YEARLY:   "year",
	rrule.MONTHLY:  "month",
	rrule.WEEKLY:   "week",
	rrule.DAILY:    "day",
	rrule.HOURLY:   "hour",
	rrule.MINUTELY: "minute",
	rrule.SECONDLY: "second",
}

// DescribeRRule summarizes a recurrence rule anchored at start, such as
// "weekly on Mon/Wed, 28 sessions until 2024-05-01". Recurrences are only
// described, never expanded into meetings.
func DescribeRRule(raw string, start time.Time) (string, error) {
	r, err := rrule.StrToRRule(raw)
	if err != nil {
		return "", fmt.Errorf("invalid RRULE %q: %w", raw, err)
	}
	r.DTStart(start)
	opts := r.OrigOptions

	var b strings.Builder
	if opts.Interval > 1 {
		fmt.Fprintf(&b, "every %d %ss", opts.Interval, freqUnits[opts.Freq])
	} else {
		b.WriteString(freqNames[opts.Freq])
	}

	if len(opts.Byweekday) > 0 {
		days := make([]models.Weekday, 0, len(opts.Byweekday))
		for i := range opts.Byweekday {
			days = append(days, models.Weekday(opts.Byweekday[i].Day()))
		}
		b.WriteString(" on ")
		b.WriteString(models.JoinWeekdays(days))
	}

	if opts.Count > 0 || !opts.Until.IsZero() {
		n := len(r.Between(start, start.AddDate(1, 0, 0), true))
		fmt.Fprintf(&b, ", %d sessions", n)
	}
	if !opts.Until.IsZero() {
		fmt.Fprintf(&b, " until %s", opts.Until.Format(constants.DateFormat))
	}
	return b.String(), nil
}

// NextOccurrence returns the first occurrence at or after t, if any.
func NextOccurrence(raw string, start, t time.Time) (time.Time, bool) {
	r, err := rrule.StrToRRule(raw)
	if err != nil {
		return time.Time{}, false
	}
	r.DTStart(start)
	next := r.After(t, true)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}
