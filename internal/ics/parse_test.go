package ics

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/freeweek/internal/models"
)

func calendar(events ...string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\n")
	for _, ev := range events {
		b.WriteString(ev)
	}
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func vevent(lines ...string) string {
	return "BEGIN:VEVENT\r\n" + strings.Join(lines, "\r\n") + "\r\nEND:VEVENT\r\n"
}

func TestParse_HeuristicCases(t *testing.T) {
	tests := []struct {
		name       string
		event      string
		wantKept   bool
		wantReason SkipReason
	}{
		{
			name:     "course code without rrule",
			event:    vevent("SUMMARY:CSE 142", "DTSTART:20240101T090000", "DTEND:20240101T095000"),
			wantKept: true,
		},
		{
			name:       "blocklisted homework",
			event:      vevent("SUMMARY:Homework 3 due", "DTSTART:20240101T090000", "DTEND:20240101T100000"),
			wantReason: SkipBlocklist,
		},
		{
			name:     "rrule overrides course code",
			event:    vevent("SUMMARY:Study group", "DTSTART:20240101T090000", "DTEND:20240101T103000", "RRULE:FREQ=WEEKLY"),
			wantKept: true,
		},
		{
			name:       "final exam with rrule",
			event:      vevent("SUMMARY:Final Exam", "DTSTART:20240101T090000", "DTEND:20240101T110000", "RRULE:FREQ=WEEKLY"),
			wantReason: SkipBlocklist,
		},
		{
			name:       "all day event",
			event:      vevent("SUMMARY:CSE 142", "DTSTART;VALUE=DATE:20240101", "DTEND;VALUE=DATE:20240102"),
			wantReason: SkipAllDay,
		},
		{
			name:       "too short",
			event:      vevent("SUMMARY:CSE 142", "DTSTART:20240101T090000", "DTEND:20240101T092000"),
			wantReason: SkipDuration,
		},
		{
			name:       "too long",
			event:      vevent("SUMMARY:CSE 142", "DTSTART:20240101T090000", "DTEND:20240101T140000"),
			wantReason: SkipDuration,
		},
		{
			name:       "no course code and no rrule",
			event:      vevent("SUMMARY:Coffee with Sam", "DTSTART:20240101T090000", "DTEND:20240101T100000"),
			wantReason: SkipNotCourseCode,
		},
		{
			name:       "missing dtend",
			event:      vevent("SUMMARY:CSE 142", "DTSTART:20240101T090000"),
			wantReason: SkipMissingField,
		},
		{
			name:       "garbage datetime",
			event:      vevent("SUMMARY:CSE 142", "DTSTART:tomorrow", "DTEND:20240101T100000"),
			wantReason: SkipUndecodable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseInLocation(calendar(tt.event), time.UTC)
			if tt.wantKept {
				if len(res.Meetings) != 1 {
					t.Fatalf("expected 1 meeting, got %d (skipped %v)", len(res.Meetings), res.Skipped)
				}
				return
			}
			if len(res.Meetings) != 0 {
				t.Fatalf("expected no meetings, got %+v", res.Meetings)
			}
			if res.Skipped[tt.wantReason] != 1 {
				t.Errorf("expected skip reason %s, got %v", tt.wantReason, res.Skipped)
			}
		})
	}
}

func TestParse_Projection(t *testing.T) {
	text := calendar(vevent(
		"SUMMARY:  MATH124A  ",
		"DTSTART:20240103T131500",
		"DTEND:20240103T143000",
	))
	got := ParseInLocation(text, time.UTC).Meetings
	want := []models.ClassMeeting{{
		Title:     "MATH124A",
		Day:       models.Wednesday,
		StartTime: "13:15:00",
		EndTime:   "14:30:00",
		Source:    models.SourceICS,
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParse_UTCProjectedOntoLocation(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)
	text := calendar(vevent(
		"SUMMARY:CSE 142",
		"DTSTART:20240102T170000Z",
		"DTEND:20240102T182000Z",
	))
	got := ParseInLocation(text, loc).Meetings
	if len(got) != 1 {
		t.Fatalf("expected 1 meeting, got %d", len(got))
	}
	if got[0].Day != models.Tuesday || got[0].StartTime != "09:00:00" || got[0].EndTime != "10:20:00" {
		t.Errorf("unexpected projection: %+v", got[0])
	}
}

func TestParse_SundayIsLastDay(t *testing.T) {
	text := calendar(vevent("SUMMARY:PHIL 101", "DTSTART:20240107T100000", "DTEND:20240107T110000"))
	got := ParseInLocation(text, time.UTC).Meetings
	if len(got) != 1 || got[0].Day != models.Sunday {
		t.Fatalf("expected one Sunday meeting, got %+v", got)
	}
}

func TestParse_Dedup(t *testing.T) {
	ev := vevent("SUMMARY:CSE 142", "DTSTART:20240101T090000", "DTEND:20240101T095000")
	res := ParseInLocation(calendar(ev, ev), time.UTC)
	if len(res.Meetings) != 1 {
		t.Fatalf("expected 1 meeting, got %d", len(res.Meetings))
	}
	if res.Skipped[SkipDuplicate] != 1 {
		t.Errorf("expected one duplicate skip, got %v", res.Skipped)
	}
	if res.Events != 2 {
		t.Errorf("expected 2 events seen, got %d", res.Events)
	}
}

func TestParse_DifferentWeeksSameSlotDedup(t *testing.T) {
	text := calendar(
		vevent("SUMMARY:CSE 142", "DTSTART:20240101T090000", "DTEND:20240101T095000"),
		vevent("SUMMARY:CSE 142", "DTSTART:20240108T090000", "DTEND:20240108T095000"),
		vevent("SUMMARY:CSE 142", "DTSTART:20240103T090000", "DTEND:20240103T095000"),
	)
	got := ParseInLocation(text, time.UTC).Meetings
	if len(got) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(got))
	}
	if got[0].Day != models.Monday || got[1].Day != models.Wednesday {
		t.Errorf("expected insertion order Mon, Wed; got %v, %v", got[0].Day, got[1].Day)
	}
}

func TestParse_Idempotent(t *testing.T) {
	text := calendar(
		vevent("SUMMARY:BIO 180", "DTSTART:20240102T110000", "DTEND:20240102T122000"),
		vevent("SUMMARY:CSE 142", "DTSTART:20240101T090000", "DTEND:20240101T095000"),
		vevent("SUMMARY:Lab", "DTSTART:20240104T140000", "DTEND:20240104T165000", "RRULE:FREQ=WEEKLY;BYDAY=TH"),
	)
	first := ParseInLocation(text, time.UTC).Meetings
	second := ParseInLocation(text, time.UTC).Meetings
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parse is not idempotent:\n%+v\n%+v", first, second)
	}
	if len(first) != 3 || first[0].Title != "BIO 180" {
		t.Errorf("expected insertion order preserved, got %+v", first)
	}
}

func TestParse_EmptyAndGarbageInput(t *testing.T) {
	for _, text := range []string{"", "not a calendar", "BEGIN:VEVENT\nSUMMARY:CSE 142\n"} {
		got := ParseToClassMeetings(text)
		if got == nil || len(got) != 0 {
			t.Errorf("ParseToClassMeetings(%q) = %v, want empty list", text, got)
		}
	}
}

func TestParse_FoldedSummaryAndColons(t *testing.T) {
	text := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nSUMMARY:CSE 142: Intro\n  to Programming\nDTSTART;TZID=America/Los_Angeles:20240101T090000\nDTEND;TZID=America/Los_Angeles:20240101T095000\nEND:VEVENT\nEND:VCALENDAR\n"
	got := ParseInLocation(text, time.UTC).Meetings
	if len(got) != 1 {
		t.Fatalf("expected 1 meeting, got %d", len(got))
	}
	if got[0].Title != "CSE 142: Introto Programming" {
		t.Errorf("unexpected title %q", got[0].Title)
	}
}

func TestParse_EmptySummaryDefaultsTitle(t *testing.T) {
	text := calendar(vevent("SUMMARY:", "DTSTART:20240101T090000", "DTEND:20240101T100000", "RRULE:FREQ=WEEKLY"))
	got := ParseInLocation(text, time.UTC).Meetings
	if len(got) != 1 || got[0].Title != "Class" {
		t.Fatalf("expected default title, got %+v", got)
	}
}

func TestParse_AcceptedCarriesRule(t *testing.T) {
	text := calendar(
		vevent("SUMMARY:Seminar", "DTSTART:20240101T090000", "DTEND:20240101T100000", "RRULE:FREQ=WEEKLY;BYDAY=MO"),
		vevent("SUMMARY:CSE 142", "DTSTART:20240102T090000", "DTEND:20240102T100000"),
	)
	res := ParseInLocation(text, time.UTC)
	if len(res.Accepted) != 2 {
		t.Fatalf("expected 2 accepted, got %d", len(res.Accepted))
	}
	if res.Accepted[0].Rule != "rrule" || res.Accepted[0].RRule != "FREQ=WEEKLY;BYDAY=MO" {
		t.Errorf("unexpected first accepted: %+v", res.Accepted[0])
	}
	if res.Accepted[1].Rule != "course_code" {
		t.Errorf("unexpected second rule: %s", res.Accepted[1].Rule)
	}
}

func TestParse_OvernightSkipped(t *testing.T) {
	text := calendar(vevent("SUMMARY:ASTR 101", "DTSTART:20240101T230000", "DTEND:20240102T010000"))
	res := ParseInLocation(text, time.UTC)
	if len(res.Meetings) != 0 || res.Skipped[SkipDuration] != 1 {
		t.Errorf("expected overnight session skipped, got %+v %v", res.Meetings, res.Skipped)
	}
}

func TestUnfold(t *testing.T) {
	got := Unfold("A:1\r\n B\n\tC\nD:2 \n")
	want := []string{"A:1BC", "D:2", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unfold() = %q, want %q", got, want)
	}
}

func TestTokenize(t *testing.T) {
	lines := []string{
		"SUMMARY:outside",
		"BEGIN:VEVENT",
		"DTSTART:20240101T090000",
		"DTEND:20240101T100000",
		"SUMMARY:A:B:C",
		"RRULE:FREQ=WEEKLY",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"DTSTART:20240101T090000",
		"END:VEVENT",
	}
	events, dropped := Tokenize(lines)
	if dropped != 1 {
		t.Errorf("expected 1 dropped block, got %d", dropped)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Summary != "A:B:C" || events[0].RRule != "FREQ=WEEKLY" {
		t.Errorf("unexpected event %+v", events[0])
	}
}

func TestDecodeDateTime(t *testing.T) {
	loc := time.FixedZone("test", 3600)
	tests := []struct {
		value    string
		want     time.Time
		wantErr  bool
		dateOnly bool
	}{
		{"20240101T090000", time.Date(2024, 1, 1, 9, 0, 0, 0, loc), false, false},
		{"20240101T0930", time.Date(2024, 1, 1, 9, 30, 0, 0, loc), false, false},
		{"20240101T090015Z", time.Date(2024, 1, 1, 9, 0, 15, 0, time.UTC), false, false},
		{"20240101", time.Time{}, true, true},
		{"20240101Z", time.Time{}, true, true},
		{"2024-01-01T09:00", time.Time{}, true, false},
		{"", time.Time{}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := DecodeDateTime(tt.value, loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeDateTime(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if IsDateOnly(err) != tt.dateOnly {
				t.Errorf("IsDateOnly = %v, want %v", IsDateOnly(err), tt.dateOnly)
			}
			if !got.Equal(tt.want) {
				t.Errorf("DecodeDateTime(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
