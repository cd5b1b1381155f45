package views

import (
	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/schedule"
	"github.com/julianstephens/freeweek/internal/utils"
)

type CommonCmd struct {
	With string `short:"w" help:"Comma-separated person ids or names." required:""`
}

func (c *CommonCmd) Run(ctx *cli.Context) error {
	roster, err := ctx.LoadRoster(ctx.Ctx(), c.With)
	if err != nil {
		return err
	}
	window := ctx.Settings().SyncWindow
	free := schedule.ComputeCommonFree(roster.Blocks, roster.Selection, window)

	ctx.Printf("Common free time for %s (%s-%s, Mon-Fri):\n", schedule.FormatNames(roster.Names()),
		utils.FormatClock12(window.StartMinutes()), utils.FormatClock12(window.EndMinutes()))
	if len(free) == 0 {
		ctx.Println("  None this week.")
		return nil
	}
	for _, f := range free {
		ctx.Printf("  %s  (%dh%02dm)\n", cli.DayLine(f.Day, f.Start, f.End), (f.End-f.Start)/60, (f.End-f.Start)%60)
	}
	return nil
}
