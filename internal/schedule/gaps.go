package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/utils"
)

// SelectGaps places common free intervals on the dates of the current week and
// returns the ones still ahead of now, ordered by date and effective start.
// A zero weekStart means the week containing now.
func SelectGaps(free []models.FreeInterval, now, weekStart time.Time) []models.Gap {
	if now.IsZero() {
		panic("schedule: SelectGaps requires a non-zero now")
	}
	if weekStart.IsZero() {
		weekStart = utils.WeekStart(now)
	}
	today := models.WeekdayFromTime(now.Weekday())
	nowMinutes := utils.MinutesIntoDay(now)

	gaps := make([]models.Gap, 0, len(free))
	for _, block := range free {
		if !block.Day.IsSchoolDay() || block.Day < today {
			continue
		}
		date := weekStart.AddDate(0, 0, int(block.Day))
		gap := models.Gap{
			FreeInterval:   block,
			Date:           date,
			EffectiveStart: block.Start,
			IsToday:        utils.SameDate(date, now),
		}
		if gap.IsToday {
			if block.End <= nowMinutes {
				continue
			}
			gap.EffectiveStart = max(block.Start, nowMinutes)
		}
		gaps = append(gaps, gap)
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if !gaps[i].Date.Equal(gaps[j].Date) {
			return gaps[i].Date.Before(gaps[j].Date)
		}
		return gaps[i].EffectiveStart < gaps[j].EffectiveStart
	})
	return gaps
}

// GapCursor is a caller-owned position in a gap list. The zero value points
// at the first gap.
type GapCursor struct {
	index int
	key   string
}

// Index returns the position clamped to a list of n gaps.
func (c GapCursor) Index(n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(c.index, 0), n-1)
}

// Next steps forward, stopping at the last gap.
func (c GapCursor) Next(n int) GapCursor {
	c.index = min(c.Index(n)+1, max(n-1, 0))
	return c
}

// Prev steps back, stopping at the first gap.
func (c GapCursor) Prev(n int) GapCursor {
	c.index = max(c.Index(n)-1, 0)
	return c
}

// Seek moves to index i, clamped to the list.
func (c GapCursor) Seek(i, n int) GapCursor {
	c.index = GapCursor{index: i}.Index(n)
	return c
}

// AtStart reports whether stepping back would not move.
func (c GapCursor) AtStart(n int) bool {
	return n == 0 || c.Index(n) == 0
}

// AtEnd reports whether stepping forward would not move.
func (c GapCursor) AtEnd(n int) bool {
	return n == 0 || c.Index(n) == n-1
}

// Sync resets the cursor to the first gap when key differs from the key it
// was last synced with. Pass ScheduleKey of the current selection and data.
func (c GapCursor) Sync(key string) GapCursor {
	if c.key != key {
		c.index = 0
		c.key = key
	}
	return c
}

// Current returns the gap under the cursor, or false when there are none.
func (c GapCursor) Current(gaps []models.Gap) (models.Gap, bool) {
	if len(gaps) == 0 {
		return models.Gap{}, false
	}
	return gaps[c.Index(len(gaps))], true
}

// GapDayLabel returns "today" or the short weekday name.
func GapDayLabel(g models.Gap) string {
	if g.IsToday {
		return "today"
	}
	return g.Day.String()
}

// GapStatus renders the status line for the gap under the cursor.
func GapStatus(gaps []models.Gap, cursor GapCursor, names []string) string {
	if gap, ok := cursor.Current(gaps); ok {
		return fmt.Sprintf("Next synced gap with %s is %s at %s.",
			FormatNames(names), GapDayLabel(gap), utils.FormatClock12(gap.EffectiveStart))
	}
	if len(names) > 0 {
		return "No synced gaps available this week."
	}
	return "Select friends to see synced gaps."
}
