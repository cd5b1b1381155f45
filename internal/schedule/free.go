// Package schedule derives free time from weekly class meetings.
//
// Every function here is pure: callers pass meetings, the selected people
// and the current instant, and get interval sets back. Caller contract
// violations such as an inverted day window panic.
package schedule

import (
	"fmt"
	"sort"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/utils"
)

func mustWindow(w models.DayWindow) {
	if err := w.Validate(); err != nil {
		panic(fmt.Sprintf("schedule: %v", err))
	}
}

func mustWeekday(d models.Weekday) {
	if !d.Valid() {
		panic(fmt.Sprintf("schedule: weekday %d out of range 0..6", d))
	}
}

// ComputeFreeBlocks returns one person's free blocks for every weekday within
// [startHour, endHour). Overlapping meetings are absorbed by the scan cursor,
// so blocks never overlap each other or a meeting.
func ComputeFreeBlocks(meetings []models.ClassMeeting, startHour, endHour int) []models.FreeBlock {
	mustWindow(models.DayWindow{StartHour: startHour, EndHour: endHour})

	var byDay [models.DaysPerWeek][]models.ClassMeeting
	for _, m := range meetings {
		mustWeekday(m.Day)
		byDay[m.Day] = append(byDay[m.Day], m)
	}

	dayStart := utils.HourClock(startHour)
	dayEnd := utils.HourClock(endHour)
	free := []models.FreeBlock{}

	for day := models.Monday; day <= models.Sunday; day++ {
		list := byDay[day]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].StartTime < list[j].StartTime
		})

		cursor := dayStart
		for _, m := range list {
			if gapEnd := minClock(m.StartTime, dayEnd); gapEnd > cursor {
				free = append(free, models.FreeBlock{Day: day, StartTime: cursor, EndTime: gapEnd})
			}
			if m.EndTime > cursor {
				cursor = m.EndTime
			}
		}

		if cursor < dayEnd {
			free = append(free, models.FreeBlock{Day: day, StartTime: cursor, EndTime: dayEnd})
		}
	}

	return free
}

func minClock(a, b string) string {
	if a < b {
		return a
	}
	return b
}

// FreeBlocksForWindow is ComputeFreeBlocks over a configured window.
func FreeBlocksForWindow(meetings []models.ClassMeeting, w models.DayWindow) []models.FreeBlock {
	return ComputeFreeBlocks(meetings, w.StartHour, w.EndHour)
}

// FilterSchoolDays keeps only Monday through Friday blocks.
func FilterSchoolDays(blocks []models.FreeBlock) []models.FreeBlock {
	out := make([]models.FreeBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Day.IsSchoolDay() {
			out = append(out, b)
		}
	}
	return out
}
