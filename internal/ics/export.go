package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/julianstephens/freeweek/internal/constants"
	"github.com/julianstephens/freeweek/internal/models"
)

// ExportBlock is one weekly span to publish as a recurring VEVENT.
type ExportBlock struct {
	ID    string
	Title string
	Day   models.Weekday
	Start int // minutes since midnight
	End   int
}

// Export renders blocks as a weekly recurring calendar anchored on the week
// that begins at weekStart. Empty blocks are left out.
func Export(name string, blocks []ExportBlock, weekStart time.Time, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(fmt.Sprintf("-//%s//%s//EN", constants.AppName, constants.Version))
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, b := range blocks {
		if b.End <= b.Start || !b.Day.Valid() {
			continue
		}
		date := weekStart.AddDate(0, 0, int(b.Day))
		start := date.Add(time.Duration(b.Start) * time.Minute)
		end := date.Add(time.Duration(b.End) * time.Minute)

		id := b.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d-%d-%d", constants.AppName, b.Day, b.Start, b.End)
		}
		event := cal.AddEvent(id + "@" + constants.AppName)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(b.Title)
		event.AddRrule("FREQ=WEEKLY")
	}

	return cal.Serialize()
}
