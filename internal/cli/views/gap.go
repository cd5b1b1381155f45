package views

import (
	"fmt"
	"time"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/constants"
	"github.com/julianstephens/freeweek/internal/schedule"
	"github.com/julianstephens/freeweek/internal/utils"
)

type GapCmd struct {
	With  string `short:"w" help:"Comma-separated person ids or names." required:""`
	At    string `help:"Pretend it is this moment, e.g. \"tomorrow 10am\" or \"2024-01-03 14:30\"."`
	Index int    `short:"i" help:"Show the gap at this position (0 is the next one)." default:"0"`
}

func (c *GapCmd) Run(ctx *cli.Context) error {
	if c.Index < 0 {
		return fmt.Errorf("--index must not be negative")
	}
	now := ctx.CurrentTime()
	if c.At != "" {
		t, err := utils.ParseMoment(c.At, now)
		if err != nil {
			return err
		}
		now = t
	}

	roster, err := ctx.LoadRoster(ctx.Ctx(), c.With)
	if err != nil {
		return err
	}
	free := schedule.ComputeCommonFree(roster.Blocks, roster.Selection, ctx.Settings().SyncWindow)
	gaps := schedule.SelectGaps(free, now, time.Time{})

	cursor := schedule.GapCursor{}.
		Sync(schedule.ScheduleKey(roster.Selection, roster.Blocks)).
		Seek(c.Index, len(gaps))
	ctx.Println(schedule.GapStatus(gaps, cursor, roster.Names()))

	current := cursor.Index(len(gaps))
	for i, g := range gaps {
		marker := " "
		if i == current {
			marker = ">"
		}
		ctx.Printf("%s %d. %s %-5s %s-%s\n", marker, i, g.Date.Format(constants.DateFormat), schedule.GapDayLabel(g),
			utils.FormatClock12(g.EffectiveStart), utils.FormatClock12(g.End))
	}
	return nil
}
