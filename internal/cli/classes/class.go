package classes

import (
	"fmt"
	"strings"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/schedule"
	"github.com/julianstephens/freeweek/internal/utils"
)

type ClassAddCmd struct {
	Person string `short:"p" help:"Person id or name." required:""`
	Title  string `short:"t" help:"Class or commitment title." required:""`
	Days   string `short:"d" help:"Comma-separated weekdays, e.g. mon,wed." required:""`
	Start  string `short:"s" help:"Start time (9am, 0930, 9:30, 17:00)." required:""`
	End    string `short:"e" help:"End time." required:""`
}

func (c *ClassAddCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePerson(ctx.Ctx(), c.Person)
	if err != nil {
		return err
	}
	days, err := cli.ParseWeekdays(c.Days)
	if err != nil {
		return err
	}

	source, meetings, err := schedule.NewManualGroup(schedule.ManualEntry{
		OwnerID: p.ID,
		Title:   c.Title,
		Days:    days,
		Start:   c.Start,
		End:     c.End,
	})
	if err != nil {
		return err
	}
	if err := ctx.Store.SaveManualGroup(ctx.Ctx(), p.ID, source, meetings); err != nil {
		return fmt.Errorf("failed to save class: %w", err)
	}

	ctx.Printf("Added %s for %s on %s (%s-%s)\n", strings.TrimSpace(c.Title), p.Label(),
		models.JoinWeekdays(days), utils.FormatClockString(meetings[0].StartTime), utils.FormatClockString(meetings[0].EndTime))
	ctx.Printf("  Source: %s\n", source)
	return nil
}

type ClassEditCmd struct {
	Source string `arg:"" help:"Manual group source key (see 'freeweek class list')."`
	Person string `short:"p" help:"Person id or name." required:""`
	Title  string `short:"t" help:"New title."`
	Days   string `short:"d" help:"New comma-separated weekdays."`
	Start  string `short:"s" help:"New start time."`
	End    string `short:"e" help:"New end time."`
}

func (c *ClassEditCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePerson(ctx.Ctx(), c.Person)
	if err != nil {
		return err
	}
	existing, err := manualGroup(ctx, p.ID, c.Source)
	if err != nil {
		return err
	}

	entry := schedule.ManualEntry{
		OwnerID: p.ID,
		Title:   existing[0].Title,
		Start:   existing[0].StartTime,
		End:     existing[0].EndTime,
		Source:  c.Source,
	}
	for _, m := range existing {
		entry.Days = append(entry.Days, m.Day)
	}
	if c.Title != "" {
		entry.Title = c.Title
	}
	if c.Days != "" {
		if entry.Days, err = cli.ParseWeekdays(c.Days); err != nil {
			return err
		}
	}
	if c.Start != "" {
		entry.Start = c.Start
	}
	if c.End != "" {
		entry.End = c.End
	}

	source, meetings, err := schedule.NewManualGroup(entry)
	if err != nil {
		return err
	}
	if err := ctx.Store.SaveManualGroup(ctx.Ctx(), p.ID, source, meetings); err != nil {
		return fmt.Errorf("failed to save class: %w", err)
	}
	ctx.Printf("Updated %s for %s\n", meetings[0].Title, p.Label())
	return nil
}

type ClassDeleteCmd struct {
	Source string `arg:"" help:"Manual group source key."`
	Person string `short:"p" help:"Person id or name." required:""`
}

func (c *ClassDeleteCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePerson(ctx.Ctx(), c.Person)
	if err != nil {
		return err
	}
	existing, err := manualGroup(ctx, p.ID, c.Source)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteManualGroup(ctx.Ctx(), p.ID, c.Source); err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	ctx.Printf("Deleted %s (%d meeting(s)) for %s\n", existing[0].Title, len(existing), p.Label())
	return nil
}

type ClassListCmd struct {
	Person string `short:"p" help:"Person id or name." required:""`
}

func (c *ClassListCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePerson(ctx.Ctx(), c.Person)
	if err != nil {
		return err
	}
	meetings, err := ctx.Store.GetClasses(ctx.Ctx(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to get classes: %w", err)
	}
	groups := schedule.GroupSchedule(meetings)
	if len(groups) == 0 {
		ctx.Printf("%s has no classes. Import a calendar or add one with 'freeweek class add'.\n", p.Label())
		return nil
	}

	ctx.Printf("Classes for %s:\n", p.Label())
	for _, g := range groups {
		kind := "imported"
		if g.IsManual() {
			kind = g.Source
		}
		ctx.Printf("  %-24s %-12s %s  [%s]\n", g.Title, g.DayLabel, g.TimeLabel(), kind)
	}
	return nil
}

// manualGroup loads the rows of one manual group, which must exist.
func manualGroup(ctx *cli.Context, ownerID, source string) ([]models.ClassMeeting, error) {
	if !strings.HasPrefix(source, models.ManualSourcePrefix) {
		return nil, fmt.Errorf("%q is not a manual class; imported classes change only by re-importing", source)
	}
	meetings, err := ctx.Store.GetClasses(ctx.Ctx(), ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get classes: %w", err)
	}
	var group []models.ClassMeeting
	for _, m := range meetings {
		if m.Source == source {
			group = append(group, m)
		}
	}
	if len(group) == 0 {
		return nil, fmt.Errorf("no manual class %s for this person", source)
	}
	return group, nil
}
