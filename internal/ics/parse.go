// Package ics turns iCalendar exports into weekly class meetings.
//
// The parser is lenient. It reads only BEGIN/END:VEVENT, DTSTART, DTEND,
// SUMMARY and RRULE, skips any event it cannot use and never fails on
// malformed input.
package ics

import (
	"strings"
	"time"

	"github.com/julianstephens/freeweek/internal/constants"
	"github.com/julianstephens/freeweek/internal/models"
)

// SkipReason names why an event did not become a meeting.
type SkipReason string

const (
	SkipMissingField  SkipReason = "missing_field"
	SkipUndecodable   SkipReason = "undecodable"
	SkipAllDay        SkipReason = "all_day"
	SkipBlocklist     SkipReason = "blocklist"
	SkipDuration      SkipReason = "duration"
	SkipNotCourseCode SkipReason = "not_course_code"
	SkipDuplicate     SkipReason = "duplicate"
)

// SkipReasons lists every reason in reporting order.
var SkipReasons = []SkipReason{
	SkipMissingField,
	SkipUndecodable,
	SkipAllDay,
	SkipBlocklist,
	SkipDuration,
	SkipNotCourseCode,
	SkipDuplicate,
}

// Accepted pairs a kept meeting with the rule that accepted it.
type Accepted struct {
	Meeting models.ClassMeeting
	Rule    string
	RRule   string
	Start   time.Time
}

// Result is the outcome of parsing one ICS blob.
type Result struct {
	Events   int
	Meetings []models.ClassMeeting
	Accepted []Accepted
	Skipped  map[SkipReason]int
}

// SkippedTotal returns the number of events that produced no meeting.
func (r Result) SkippedTotal() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// ParseToClassMeetings returns the class-like meetings in text on the local clock.
func ParseToClassMeetings(text string) []models.ClassMeeting {
	return Parse(text).Meetings
}

// Parse parses text on the local clock.
func Parse(text string) Result {
	return ParseInLocation(text, time.Local)
}

// ParseInLocation parses text, projecting floating and UTC times onto loc.
func ParseInLocation(text string, loc *time.Location) Result {
	if loc == nil {
		loc = time.Local
	}
	res := Result{
		Meetings: []models.ClassMeeting{},
		Skipped:  make(map[SkipReason]int),
	}

	events, dropped := Tokenize(Unfold(text))
	res.Events = len(events) + dropped
	if dropped > 0 {
		res.Skipped[SkipMissingField] = dropped
	}

	seen := make(map[string]bool, len(events))
	for _, ev := range events {
		start, err := DecodeDateTime(ev.DTStart, loc)
		if err != nil {
			res.Skipped[decodeReason(err)]++
			continue
		}
		end, err := DecodeDateTime(ev.DTEnd, loc)
		if err != nil {
			res.Skipped[decodeReason(err)]++
			continue
		}

		ok, rule := Classify(Candidate{Summary: ev.Summary, Start: start, End: end, RRule: ev.RRule}, Rules)
		if !ok {
			res.Skipped[rule.Reason]++
			continue
		}

		meeting := project(ev, start.In(loc), end.In(loc))
		// A session that wraps past midnight has no single weekday slot.
		if meeting.EndTime <= meeting.StartTime {
			res.Skipped[SkipDuration]++
			continue
		}
		key := meeting.DedupKey()
		if seen[key] {
			res.Skipped[SkipDuplicate]++
			continue
		}
		seen[key] = true

		res.Meetings = append(res.Meetings, meeting)
		res.Accepted = append(res.Accepted, Accepted{
			Meeting: meeting,
			Rule:    rule.Name,
			RRule:   ev.RRule,
			Start:   start.In(loc),
		})
	}

	return res
}

func project(ev models.RawEvent, start, end time.Time) models.ClassMeeting {
	title := strings.TrimSpace(ev.Summary)
	if title == "" {
		title = constants.DefaultClassTitle
	}
	return models.ClassMeeting{
		Title:     title,
		Day:       models.WeekdayFromTime(start.Weekday()),
		StartTime: start.Format(constants.ClockFormat),
		EndTime:   end.Format(constants.ClockFormat),
		Source:    models.SourceICS,
	}
}

func decodeReason(err error) SkipReason {
	if IsDateOnly(err) {
		return SkipAllDay
	}
	return SkipUndecodable
}
