package ics

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-ical"
)

// LintReport summarizes a strict RFC 5545 decode of an ICS blob.
// The lenient parser does not depend on it; it explains why an import
// produced fewer meetings than expected.
type LintReport struct {
	Calendars int
	Events    int
	Recurring int
	AllDay    int
	Timezones int
	Err       error
}

// OK reports whether the strict decoder accepted the whole input.
func (r LintReport) OK() bool {
	return r.Err == nil
}

func (r LintReport) String() string {
	if r.Err != nil {
		return fmt.Sprintf("strict decode failed after %d event(s): %v", r.Events, r.Err)
	}
	return fmt.Sprintf("%d calendar(s), %d event(s), %d recurring, %d all-day, %d timezone(s)",
		r.Calendars, r.Events, r.Recurring, r.AllDay, r.Timezones)
}

// Lint decodes text with a strict iCalendar decoder and counts what it finds.
func Lint(text string) LintReport {
	var report LintReport
	if !strings.Contains(text, "BEGIN:VCALENDAR") {
		report.Err = fmt.Errorf("missing BEGIN:VCALENDAR")
		return report
	}

	decoder := ical.NewDecoder(strings.NewReader(text))
	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Err = err
			return report
		}
		report.Calendars++

		for _, comp := range cal.Children {
			switch comp.Name {
			case ical.CompTimezone:
				report.Timezones++
			case ical.CompEvent:
				report.Events++
				if comp.Props.Get(ical.PropRecurrenceRule) != nil {
					report.Recurring++
				}
				if start := comp.Props.Get(ical.PropDateTimeStart); start != nil {
					if start.ValueType() == ical.ValueDate || dateOnlyRe.MatchString(start.Value) {
						report.AllDay++
					}
				}
			}
		}
	}
	return report
}
