package ics

import (
	"regexp"
	"strings"
	"time"

	"github.com/julianstephens/freeweek/internal/constants"
)

// Verdict is the outcome of a single classification rule.
type Verdict int

const (
	// Continue defers the decision to the next rule.
	Continue Verdict = iota
	Accept
	Reject
)

// Candidate is a decoded event awaiting classification.
type Candidate struct {
	Summary string
	Start   time.Time
	End     time.Time
	RRule   string
}

// Rule is one step of the class-likeness filter.
type Rule struct {
	Name   string
	Reason SkipReason
	Check  func(Candidate) Verdict
}

// Blocklist lists summary fragments that mark coursework rather than class sessions.
var Blocklist = []string{
	"assignment",
	"homework",
	"quiz",
	"exam",
	"midterm",
	"final",
	"due",
	"submission",
	"reading",
	"project",
	"grade",
	"office hours",
}

var courseCodeRe = regexp.MustCompile(`(?i)\b[A-Z]{2,5}\s?\d{3}[A-Z]?\b`)

// Rules is the ordered class-likeness filter. The first non-Continue verdict wins.
var Rules = []Rule{
	{Name: "blocklist", Reason: SkipBlocklist, Check: blocklistRule},
	{Name: "duration", Reason: SkipDuration, Check: durationRule},
	{Name: "rrule", Check: rruleRule},
	{Name: "course_code", Reason: SkipNotCourseCode, Check: courseCodeRule},
}

func blocklistRule(c Candidate) Verdict {
	text := strings.ToLower(c.Summary)
	for _, word := range Blocklist {
		if strings.Contains(text, word) {
			return Reject
		}
	}
	return Continue
}

func durationRule(c Candidate) Verdict {
	minutes := c.End.Sub(c.Start).Minutes()
	if minutes < constants.MinClassDurationMin || minutes > constants.MaxClassDurationMin {
		return Reject
	}
	return Continue
}

func rruleRule(c Candidate) Verdict {
	if c.RRule != "" {
		return Accept
	}
	return Continue
}

func courseCodeRule(c Candidate) Verdict {
	if LooksLikeCourseCode(c.Summary) {
		return Accept
	}
	return Reject
}

// LooksLikeCourseCode reports whether text contains something like "CSE 142" or "MATH124A".
func LooksLikeCourseCode(text string) bool {
	return courseCodeRe.MatchString(text)
}

// Classify runs the rules in order and returns the deciding rule.
// An event no rule decides on is rejected.
func Classify(c Candidate, rules []Rule) (bool, Rule) {
	for _, r := range rules {
		switch r.Check(c) {
		case Accept:
			return true, r
		case Reject:
			return false, r
		}
	}
	return false, Rule{Name: "none", Reason: SkipNotCourseCode}
}
