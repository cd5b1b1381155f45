package views

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/ics"
	"github.com/julianstephens/freeweek/internal/schedule"
	"github.com/julianstephens/freeweek/internal/utils"
)

type ExportCmd struct {
	With     string `short:"w" help:"Comma-separated person ids or names." required:""`
	Personal bool   `help:"Export one person's own free blocks instead of common free time."`
	Output   string `short:"o" help:"Output file; '-' writes to stdout." default:"-"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	roster, err := ctx.LoadRoster(ctx.Ctx(), c.With)
	if err != nil {
		return err
	}

	var (
		blocks []ics.ExportBlock
		name   string
	)
	if c.Personal {
		if len(roster.People) != 1 {
			return errors.New("--personal takes exactly one person")
		}
		name = "Free time: " + roster.People[0].Label()
		for _, b := range PersonalFree(ctx, roster.Meetings, false) {
			start, _ := utils.ClockToMinutes(b.StartTime)
			end, _ := utils.ClockToMinutes(b.EndTime)
			blocks = append(blocks, ics.ExportBlock{Title: "Free", Day: b.Day, Start: start, End: end})
		}
	} else {
		names := schedule.FormatNames(roster.Names())
		name = "Free with " + names
		for _, f := range schedule.ComputeCommonFree(roster.Blocks, roster.Selection, ctx.Settings().SyncWindow) {
			blocks = append(blocks, ics.ExportBlock{ID: f.ID, Title: "Free with " + names, Day: f.Day, Start: f.Start, End: f.End})
		}
	}

	now := ctx.CurrentTime()
	out := ics.Export(name, blocks, utils.WeekStart(now), now)
	if c.Output == "" || c.Output == "-" {
		ctx.Printf("%s", out)
		return nil
	}
	path, err := utils.ExpandPath(c.Output)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	ctx.Printf("Wrote %d block(s) to %s\n", len(blocks), path)
	return nil
}
