package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/freeweek/internal/models"
)

var window = models.DayWindow{StartHour: 8, EndHour: 20}

func class(id, owner, title string, day models.Weekday, start, end string) models.ClassMeeting {
	return models.ClassMeeting{ID: id, OwnerID: owner, Title: title, Day: day, StartTime: start, EndTime: end, Source: models.SourceICS}
}

func TestValidateSchedule_OverlappingClasses(t *testing.T) {
	people := []models.Person{{ID: "ana", DisplayName: "Ana"}, {ID: "ben", DisplayName: "Ben"}}
	meetings := []models.ClassMeeting{
		class("1", "ana", "CSE 142", models.Monday, "09:00:00", "10:20:00"),
		class("2", "ana", "MATH 124", models.Monday, "10:00:00", "11:00:00"),
		class("3", "ana", "Lab", models.Monday, "11:00:00", "12:00:00"),
		class("4", "ben", "ECON 200", models.Monday, "09:30:00", "10:30:00"),
	}

	result := New(window).ValidateSchedule(people, meetings)
	if got := result.Count(ConflictOverlappingClasses); got != 1 {
		t.Fatalf("expected 1 same-owner overlap, got %d: %+v", got, result.Conflicts)
	}
	c := result.Conflicts[0]
	if c.PersonID != "ana" || c.TimeRange != "10:00 AM-10:20 AM" || c.Day != models.Monday {
		t.Errorf("unexpected conflict %+v", c)
	}
	if !strings.Contains(result.FormatReport(), `"CSE 142" and "MATH 124" overlap on Mon`) {
		t.Errorf("unexpected report:\n%s", result.FormatReport())
	}
}

func TestValidateSchedule_OtherConflicts(t *testing.T) {
	tests := []struct {
		name     string
		people   []models.Person
		meetings []models.ClassMeeting
		want     ConflictType
	}{
		{
			name:     "outside window",
			people:   []models.Person{{ID: "ana"}},
			meetings: []models.ClassMeeting{class("1", "ana", "Night seminar", models.Tuesday, "19:00:00", "21:00:00")},
			want:     ConflictOutsideWindow,
		},
		{
			name:     "invalid time",
			people:   []models.Person{{ID: "ana"}},
			meetings: []models.ClassMeeting{class("1", "ana", "Broken", models.Tuesday, "11:00:00", "10:00:00")},
			want:     ConflictInvalidTime,
		},
		{
			name:     "unknown owner",
			people:   []models.Person{{ID: "ana"}},
			meetings: []models.ClassMeeting{class("1", "ana", "CSE 142", models.Monday, "09:00:00", "10:00:00"), class("2", "ghost", "CSE 142", models.Monday, "09:00:00", "10:00:00")},
			want:     ConflictUnknownOwner,
		},
		{
			name:   "no classes",
			people: []models.Person{{ID: "ana", DisplayName: "Ana"}},
			want:   ConflictNoClasses,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(window).ValidateSchedule(tt.people, tt.meetings)
			if len(result.Conflicts) != 1 || result.Conflicts[0].Type != tt.want {
				t.Errorf("expected a single %s conflict, got %+v", tt.want, result.Conflicts)
			}
		})
	}
}

func TestValidateSchedule_Clean(t *testing.T) {
	people := []models.Person{{ID: "ana"}}
	meetings := []models.ClassMeeting{
		class("1", "ana", "CSE 142", models.Monday, "09:00:00", "10:00:00"),
		class("2", "ana", "CSE 142", models.Monday, "10:00:00", "11:00:00"),
	}
	result := New(models.DayWindow{}).ValidateSchedule(people, meetings)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got %+v", result.Conflicts)
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", result.FormatReport())
	}
}
