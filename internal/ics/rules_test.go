package ics

import (
	"testing"
	"time"
)

func candidate(summary string, minutes int, rrule string) Candidate {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return Candidate{
		Summary: summary,
		Start:   start,
		End:     start.Add(time.Duration(minutes) * time.Minute),
		RRule:   rrule,
	}
}

func TestBlocklistRule(t *testing.T) {
	tests := []struct {
		summary string
		want    Verdict
	}{
		{"CSE 142", Continue},
		{"Homework 3", Reject},
		{"MATH 124 Midterm", Reject},
		{"Office Hours with TA", Reject},
		{"Office hour", Continue},
		{"Reading group", Reject},
		{"Capstone Project", Reject},
		{"Lecture", Continue},
	}
	for _, tt := range tests {
		if got := blocklistRule(candidate(tt.summary, 60, "")); got != tt.want {
			t.Errorf("blocklistRule(%q) = %v, want %v", tt.summary, got, tt.want)
		}
	}
}

func TestDurationRule(t *testing.T) {
	tests := []struct {
		minutes int
		want    Verdict
	}{
		{29, Reject},
		{30, Continue},
		{90, Continue},
		{240, Continue},
		{241, Reject},
		{-60, Reject},
	}
	for _, tt := range tests {
		if got := durationRule(candidate("CSE 142", tt.minutes, "")); got != tt.want {
			t.Errorf("durationRule(%d min) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}

func TestRRuleRule(t *testing.T) {
	if got := rruleRule(candidate("x", 60, "FREQ=WEEKLY")); got != Accept {
		t.Errorf("expected Accept with rrule, got %v", got)
	}
	if got := rruleRule(candidate("x", 60, "")); got != Continue {
		t.Errorf("expected Continue without rrule, got %v", got)
	}
}

func TestLooksLikeCourseCode(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"CSE 142", true},
		{"MATH124A", true},
		{"cse142", true},
		{"Intro to PSYCH 101 lecture", true},
		{"CS 1010", false},
		{"A 101", false},
		{"Team standup", false},
	}
	for _, tt := range tests {
		if got := LooksLikeCourseCode(tt.text); got != tt.want {
			t.Errorf("LooksLikeCourseCode(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestClassify_Order(t *testing.T) {
	tests := []struct {
		name     string
		c        Candidate
		wantOK   bool
		wantRule string
	}{
		{"blocklist beats rrule", candidate("Quiz section", 60, "FREQ=WEEKLY"), false, "blocklist"},
		{"duration beats rrule", candidate("Lab", 300, "FREQ=WEEKLY"), false, "duration"},
		{"rrule accepts", candidate("Lab", 120, "FREQ=WEEKLY"), true, "rrule"},
		{"course code accepts", candidate("CHEM 152", 50, ""), true, "course_code"},
		{"course code rejects", candidate("Lunch", 50, ""), false, "course_code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, rule := Classify(tt.c, Rules)
			if ok != tt.wantOK || rule.Name != tt.wantRule {
				t.Errorf("Classify() = (%v, %s), want (%v, %s)", ok, rule.Name, tt.wantOK, tt.wantRule)
			}
		})
	}
}

func TestClassify_NoRulesRejects(t *testing.T) {
	ok, rule := Classify(candidate("CSE 142", 60, ""), nil)
	if ok {
		t.Error("expected rejection with an empty rule list")
	}
	if rule.Reason != SkipNotCourseCode {
		t.Errorf("unexpected reason %s", rule.Reason)
	}
}
