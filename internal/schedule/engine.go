package schedule

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/utils"
)

// BlocksFromMeetings maps stored meetings to minute-based busy blocks for the
// Monday to Friday sync views. Rows with unparseable or empty times are
// dropped, and rows repeating an owner's title and slot are kept once.
func BlocksFromMeetings(meetings []models.ClassMeeting) []models.BusyBlock {
	seen := make(map[string]bool, len(meetings))
	blocks := make([]models.BusyBlock, 0, len(meetings))
	for _, m := range meetings {
		if !m.Day.IsSchoolDay() {
			continue
		}
		start, ok := utils.ClockToMinutes(m.StartTime)
		if !ok {
			continue
		}
		end, ok := utils.ClockToMinutes(m.EndTime)
		if !ok || end <= start {
			continue
		}
		key := fmt.Sprintf("%s|%s|%d|%d|%d", m.OwnerID, m.Title, m.Day, start, end)
		if seen[key] {
			continue
		}
		seen[key] = true
		blocks = append(blocks, models.BusyBlock{
			ID:     m.ID,
			Owner:  m.OwnerID,
			Title:  m.Title,
			Day:    m.Day,
			Start:  start,
			End:    end,
			Source: m.Source,
		})
	}
	return blocks
}

// ComputeOverlaps intersects every pair of selected busy blocks that share a
// weekday and belong to different owners. Each pair contributes its own
// interval; nothing is merged.
func ComputeOverlaps(blocks []models.BusyBlock, selected Selection) []models.Overlap {
	picked := make([]models.BusyBlock, 0, len(blocks))
	for _, b := range blocks {
		if selected.Has(b.Owner) && b.Day.IsSchoolDay() {
			picked = append(picked, b)
		}
	}

	overlaps := []models.Overlap{}
	for i := 0; i < len(picked); i++ {
		for j := i + 1; j < len(picked); j++ {
			a, b := picked[i], picked[j]
			if a.Day != b.Day || a.Owner == b.Owner {
				continue
			}
			start := max(a.Start, b.Start)
			end := min(a.End, b.End)
			if start < end {
				overlaps = append(overlaps, models.Overlap{
					ID:     a.ID + "-" + b.ID,
					Day:    a.Day,
					Start:  start,
					End:    end,
					Owners: [2]string{a.Owner, b.Owner},
				})
			}
		}
	}
	return overlaps
}

// MergeIntervals folds overlapping or touching intervals of one day into a
// minimal cover sorted by start.
func MergeIntervals(intervals []models.Interval) []models.Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]models.Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := []models.Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start > last.End {
			merged = append(merged, iv)
			continue
		}
		last.End = max(last.End, iv.End)
	}
	return merged
}

// ComputeCommonFree returns the Monday to Friday spans inside window where no
// selected person is busy. An empty selection yields no intervals.
func ComputeCommonFree(blocks []models.BusyBlock, selected Selection, window models.DayWindow) []models.FreeInterval {
	mustWindow(window)
	free := []models.FreeInterval{}
	if selected.Len() == 0 {
		return free
	}

	minStart, minEnd := window.StartMinutes(), window.EndMinutes()
	var busy [models.DaysPerWeek][]models.Interval
	for _, b := range blocks {
		if !selected.Has(b.Owner) || !b.Day.IsSchoolDay() {
			continue
		}
		start := max(minStart, b.Start)
		end := min(minEnd, b.End)
		if end <= start {
			continue
		}
		busy[b.Day] = append(busy[b.Day], models.Interval{Day: b.Day, Start: start, End: end})
	}

	for day := models.Monday; day <= models.Friday; day++ {
		cursor := minStart
		for _, slot := range MergeIntervals(busy[day]) {
			if slot.Start > cursor {
				free = append(free, freeInterval(day, cursor, slot.Start))
			}
			cursor = max(cursor, slot.End)
		}
		if cursor < minEnd {
			free = append(free, freeInterval(day, cursor, minEnd))
		}
	}
	return free
}

func freeInterval(day models.Weekday, start, end int) models.FreeInterval {
	return models.FreeInterval{
		ID:    fmt.Sprintf("free-%d-%d-%d", day, start, end),
		Day:   day,
		Start: start,
		End:   end,
	}
}

// ScheduleKey fingerprints a selection together with the busy blocks it was
// computed from. A changed key means any gap cursor should start over.
func ScheduleKey(selected Selection, blocks []models.BusyBlock) string {
	h := fnv.New64a()
	for _, b := range blocks {
		fmt.Fprintf(h, "%s|%s|%d|%d|%d;", b.ID, b.Owner, b.Day, b.Start, b.End)
	}
	return fmt.Sprintf("%s#%x", selected.Key(), h.Sum64())
}
