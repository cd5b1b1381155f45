package schedule

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/utils"
)

var (
	spaceRe       = regexp.MustCompile(`\s+`)
	groupCourseRe = regexp.MustCompile(`(?i)[A-Z]{1,4}(?:\s+[A-Z]{1,4})?\s+\d{3}[A-Z]?`)
)

// ScheduleGroup is a set of a person's meetings that share a title, a time
// slot and a source, shown as one line such as "CSE 142  Mon/Wed/Fri".
type ScheduleGroup struct {
	Title    string
	Start    int
	End      int
	Source   string
	Days     []models.Weekday
	DayLabel string
}

// TimeLabel renders the slot as "9:00 AM-10:20 AM".
func (g ScheduleGroup) TimeLabel() string {
	return utils.FormatClock12(g.Start) + "-" + utils.FormatClock12(g.End)
}

// IsManual reports whether the group was entered by hand.
func (g ScheduleGroup) IsManual() bool {
	return strings.HasPrefix(g.Source, models.ManualSourcePrefix)
}

// NormalizeTitle collapses whitespace, drops anything after the first colon
// and, when a course code is present, reduces the title to it.
func NormalizeTitle(title string) string {
	cleaned := spaceRe.ReplaceAllString(strings.TrimSpace(title), " ")
	head, _, _ := strings.Cut(cleaned, ":")
	head = strings.TrimSpace(head)
	if code := groupCourseRe.FindString(head); code != "" {
		return spaceRe.ReplaceAllString(cases.Upper(language.English).String(code), " ")
	}
	if head != "" {
		return head
	}
	return cleaned
}

// GroupSchedule groups one person's meetings by normalized title, slot and
// source, in first-seen order.
func GroupSchedule(meetings []models.ClassMeeting) []ScheduleGroup {
	index := make(map[string]int)
	var groups []ScheduleGroup
	for _, m := range meetings {
		start, ok := utils.ClockToMinutes(m.StartTime)
		if !ok {
			continue
		}
		end, ok := utils.ClockToMinutes(m.EndTime)
		if !ok {
			continue
		}
		title := NormalizeTitle(m.Title)
		if title == "" {
			title = m.Title
		}
		key := fmt.Sprintf("%s|%d|%d|%s", title, start, end, m.Source)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ScheduleGroup{Title: title, Start: start, End: end, Source: m.Source})
		}
		groups[i].Days = append(groups[i].Days, m.Day)
	}

	for i := range groups {
		groups[i].Days = uniqueDays(groups[i].Days)
		groups[i].DayLabel = models.JoinWeekdays(groups[i].Days)
		if groups[i].DayLabel == "" {
			groups[i].DayLabel = "Day"
		}
	}
	return groups
}

// FormatNames joins names as "A", "A and B" or "A, B, and C".
func FormatNames(names []string) string {
	switch len(names) {
	case 0:
		return "no friends"
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
