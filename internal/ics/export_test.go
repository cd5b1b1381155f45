package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/julianstephens/freeweek/internal/models"
)

func TestExport_ParsesBack(t *testing.T) {
	weekStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	blocks := []ExportBlock{
		{ID: "free-0-540-660", Title: "Free together", Day: models.Monday, Start: 540, End: 660},
		{ID: "free-2-780-900", Title: "Free together", Day: models.Wednesday, Start: 780, End: 900},
		{ID: "empty", Title: "Empty", Day: models.Friday, Start: 600, End: 600},
	}

	out := Export("Free time", blocks, weekStart, now)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("exported calendar does not parse: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if p := events[0].GetProperty(ical.ComponentPropertyRrule); p == nil || p.Value != "FREQ=WEEKLY" {
		t.Errorf("expected weekly RRULE on exported event")
	}

	meetings := ParseInLocation(out, time.UTC).Meetings
	if len(meetings) != 2 {
		t.Fatalf("expected exported blocks to re-import as 2 meetings, got %d", len(meetings))
	}
	if meetings[1].Day != models.Wednesday || meetings[1].StartTime != "13:00:00" || meetings[1].EndTime != "15:00:00" {
		t.Errorf("unexpected re-imported meeting %+v", meetings[1])
	}
}

func TestLint(t *testing.T) {
	text := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//test//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:1@test\r\n" +
		"DTSTAMP:20240101T000000Z\r\n" +
		"SUMMARY:CSE 142\r\n" +
		"DTSTART:20240101T090000Z\r\n" +
		"DTEND:20240101T095000Z\r\n" +
		"RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:2@test\r\n" +
		"DTSTAMP:20240101T000000Z\r\n" +
		"SUMMARY:Holiday\r\n" +
		"DTSTART;VALUE=DATE:20240115\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	report := Lint(text)
	if !report.OK() {
		t.Fatalf("unexpected lint error: %v", report.Err)
	}
	if report.Calendars != 1 || report.Events != 2 || report.Recurring != 1 || report.AllDay != 1 {
		t.Errorf("unexpected report: %s", report)
	}
}

func TestLint_NotACalendar(t *testing.T) {
	report := Lint("hello")
	if report.OK() {
		t.Error("expected lint failure for non-calendar input")
	}
}

func TestDescribeRRule(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		rule    string
		want    string
		wantErr bool
	}{
		{"FREQ=WEEKLY;BYDAY=MO,WE", "weekly on Mon/Wed", false},
		{"FREQ=WEEKLY;INTERVAL=2", "every 2 weeks", false},
		{"FREQ=WEEKLY;BYDAY=MO;COUNT=10", "weekly on Mon, 10 sessions", false},
		{"FREQ=SOMETIMES", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			got, err := DescribeRRule(tt.rule, start)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DescribeRRule() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DescribeRRule() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	next, ok := NextOccurrence("FREQ=WEEKLY;BYDAY=WE", start, start)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	want := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextOccurrence() = %v, want %v", next, want)
	}
	if _, ok := NextOccurrence("FREQ=WEEKLY;COUNT=1", start, start.AddDate(0, 0, 1)); ok {
		t.Error("expected no occurrence after a single-count rule")
	}
}
