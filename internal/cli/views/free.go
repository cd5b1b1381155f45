package views

import (
	"fmt"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/schedule"
	"github.com/julianstephens/freeweek/internal/utils"
)

type FreeCmd struct {
	Person  string `short:"p" help:"Person id or name." required:""`
	AllDays bool   `help:"Include Saturday and Sunday."`
}

func (c *FreeCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePerson(ctx.Ctx(), c.Person)
	if err != nil {
		return err
	}
	meetings, err := ctx.Store.GetClasses(ctx.Ctx(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to get classes: %w", err)
	}

	blocks := PersonalFree(ctx, meetings, c.AllDays)
	window := ctx.Settings().PersonalWindow
	ctx.Printf("Free time for %s (%s-%s):\n", p.Label(),
		utils.FormatClock12(window.StartMinutes()), utils.FormatClock12(window.EndMinutes()))
	if len(blocks) == 0 {
		ctx.Println("  No free time in the window.")
		return nil
	}
	for _, b := range blocks {
		ctx.Printf("  %-4s %s-%s\n", b.Day, utils.FormatClockString(b.StartTime), utils.FormatClockString(b.EndTime))
	}
	return nil
}

// PersonalFree derives a person's free blocks with the configured window and day filter.
func PersonalFree(ctx *cli.Context, meetings []models.ClassMeeting, allDays bool) []models.FreeBlock {
	blocks := schedule.FreeBlocksForWindow(meetings, ctx.Settings().PersonalWindow)
	if !allDays && ctx.Settings().ShowWeekdaysOnly() {
		blocks = schedule.FilterSchoolDays(blocks)
	}
	return blocks
}
