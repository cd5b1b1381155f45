package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/freeweek/internal/models"
)

func sampleFree() []models.FreeInterval {
	return []models.FreeInterval{
		freeInterval(models.Wednesday, 13*60, 15*60),
		freeInterval(models.Monday, 9*60, 11*60),
	}
}

func TestSelectGaps_MondayMorning(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) // Monday
	gaps := SelectGaps(sampleFree(), now, time.Time{})
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(gaps))
	}

	var cursor GapCursor
	first, ok := cursor.Current(gaps)
	if !ok {
		t.Fatal("expected a current gap")
	}
	if first.Day != models.Monday || first.EffectiveStart != 600 || first.End != 660 || !first.IsToday {
		t.Errorf("unexpected first gap %+v", first)
	}

	cursor = cursor.Next(len(gaps))
	second, _ := cursor.Current(gaps)
	if second.Day != models.Wednesday || second.EffectiveStart != 780 || second.End != 900 || second.IsToday {
		t.Errorf("unexpected second gap %+v", second)
	}
	wantDate := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if !second.Date.Equal(wantDate) {
		t.Errorf("second gap date = %v, want %v", second.Date, wantDate)
	}
}

func TestSelectGaps_DropsPastBlocks(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantDays []models.Weekday
	}{
		{"tuesday drops monday", time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), []models.Weekday{models.Wednesday}},
		{"wednesday after the gap", time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC), nil},
		{"wednesday during the gap", time.Date(2024, 1, 3, 14, 30, 0, 0, time.UTC), []models.Weekday{models.Wednesday}},
		{"saturday has no gaps", time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC), nil},
		{"sunday has no gaps", time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC), nil},
		{"monday before the gap", time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC), []models.Weekday{models.Monday, models.Wednesday}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var days []models.Weekday
			for _, g := range SelectGaps(sampleFree(), tt.now, time.Time{}) {
				days = append(days, g.Day)
			}
			if !reflect.DeepEqual(days, tt.wantDays) {
				t.Errorf("gap days = %v, want %v", days, tt.wantDays)
			}
		})
	}
}

func TestSelectGaps_EffectiveStartNotClippedBeforeStart(t *testing.T) {
	now := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	gaps := SelectGaps(sampleFree(), now, time.Time{})
	if gaps[0].EffectiveStart != 540 {
		t.Errorf("expected effective start 540, got %d", gaps[0].EffectiveStart)
	}
}

func TestSelectGaps_SortsByEffectiveStart(t *testing.T) {
	free := []models.FreeInterval{
		freeInterval(models.Tuesday, 14*60, 15*60),
		freeInterval(models.Tuesday, 8*60, 9*60),
		freeInterval(models.Monday, 16*60, 17*60),
	}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	gaps := SelectGaps(free, now, time.Time{})
	var starts []int
	for _, g := range gaps {
		starts = append(starts, g.EffectiveStart)
	}
	if !reflect.DeepEqual(starts, []int{960, 480, 840}) {
		t.Errorf("unexpected order %v", starts)
	}
}

func TestSelectGaps_Idempotent(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	a := SelectGaps(sampleFree(), now, time.Time{})
	b := SelectGaps(sampleFree(), now, time.Time{})
	if !reflect.DeepEqual(a, b) {
		t.Error("SelectGaps is not idempotent")
	}
}

func TestSelectGaps_PanicsOnZeroNow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero now")
		}
	}()
	SelectGaps(sampleFree(), time.Time{}, time.Time{})
}

func TestGapCursor(t *testing.T) {
	var c GapCursor
	if _, ok := c.Current(nil); ok {
		t.Error("expected no gap for an empty list")
	}
	if !c.AtStart(0) || !c.AtEnd(0) {
		t.Error("empty list should be at both ends")
	}

	c = c.Next(3).Next(3).Next(3).Next(3)
	if c.Index(3) != 2 || !c.AtEnd(3) {
		t.Errorf("expected cursor clamped to 2, got %d", c.Index(3))
	}
	c = c.Prev(3).Prev(3).Prev(3)
	if c.Index(3) != 0 || !c.AtStart(3) {
		t.Errorf("expected cursor clamped to 0, got %d", c.Index(3))
	}

	c = c.Seek(2, 3)
	if c.Index(1) != 0 {
		t.Errorf("expected index clamped to a shorter list, got %d", c.Index(1))
	}
}

func TestGapCursor_Sync(t *testing.T) {
	c := GapCursor{}.Sync("alice|bob#1").Next(5).Next(5)
	if c.Index(5) != 2 {
		t.Fatalf("expected index 2, got %d", c.Index(5))
	}
	if c = c.Sync("alice|bob#1"); c.Index(5) != 2 {
		t.Errorf("same key should keep the position, got %d", c.Index(5))
	}
	if c = c.Sync("alice#1"); c.Index(5) != 0 {
		t.Errorf("changed key should reset the position, got %d", c.Index(5))
	}
}

func TestGapStatus(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	gaps := SelectGaps(sampleFree(), now, time.Time{})

	tests := []struct {
		name   string
		gaps   []models.Gap
		cursor GapCursor
		names  []string
		want   string
	}{
		{"today", gaps, GapCursor{}, []string{"Ana"}, "Next synced gap with Ana is today at 10:00 AM."},
		{"later day", gaps, GapCursor{}.Next(len(gaps)), []string{"Ana", "Ben"}, "Next synced gap with Ana and Ben is Wed at 1:00 PM."},
		{"none this week", nil, GapCursor{}, []string{"Ana"}, "No synced gaps available this week."},
		{"nobody selected", nil, GapCursor{}, nil, "Select friends to see synced gaps."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GapStatus(tt.gaps, tt.cursor, tt.names); got != tt.want {
				t.Errorf("GapStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
