package views

import (
	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/schedule"
)

type OverlapCmd struct {
	With string `short:"w" help:"Comma-separated person ids or names." required:""`
}

func (c *OverlapCmd) Run(ctx *cli.Context) error {
	roster, err := ctx.LoadRoster(ctx.Ctx(), c.With)
	if err != nil {
		return err
	}
	labels := make(map[string]string, len(roster.People))
	for _, p := range roster.People {
		labels[p.ID] = p.Label()
	}

	overlaps := schedule.ComputeOverlaps(roster.Blocks, roster.Selection)
	if len(overlaps) == 0 {
		ctx.Printf("No class overlaps between %s.\n", schedule.FormatNames(roster.Names()))
		return nil
	}
	ctx.Printf("Class overlaps between %s:\n", schedule.FormatNames(roster.Names()))
	for _, o := range overlaps {
		ctx.Printf("  %s  %s & %s\n", cli.DayLine(o.Day, o.Start, o.End), labels[o.Owners[0]], labels[o.Owners[1]])
	}
	return nil
}
