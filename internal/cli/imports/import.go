package imports

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/constants"
	"github.com/julianstephens/freeweek/internal/ics"
	"github.com/julianstephens/freeweek/internal/importer"
)

type ImportCmd struct {
	Location string `arg:"" help:"ICS file path or http(s)/webcal URL."`
	Person   string `short:"p" help:"Person id or name." required:""`
	Check    bool   `help:"Only run the strict iCalendar check; change nothing."`
	DryRun   bool   `help:"Show what would be imported without saving."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePerson(ctx.Ctx(), c.Person)
	if err != nil {
		return err
	}

	report, err := ctx.Importer().Import(ctx.Ctx(), p.ID, c.Location, importer.Options{Check: c.Check, DryRun: c.DryRun})
	defer ctx.WriteMetrics()
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	PrintReport(ctx, p.Label(), report)
	return nil
}

// PrintReport writes the human-readable summary of one import.
func PrintReport(ctx *cli.Context, name string, r importer.Report) {
	source := r.Location
	if r.FromCache {
		source += " (cached copy)"
	}
	ctx.Printf("Calendar: %s\n", source)
	if r.Lint.OK() {
		ctx.Printf("  Strict check: %s\n", r.Lint)
	} else {
		ctx.Printf("  Strict check: %s (the lenient parser still reads what it can)\n", r.Lint)
	}
	if r.Events == 0 && len(r.Meetings) == 0 && !r.Stored {
		return
	}

	ctx.Printf("  Events: %d, kept %d class meeting(s), skipped %d\n", r.Events, len(r.Meetings), r.SkippedTotal())
	for _, reason := range ics.SkipReasons {
		if n := r.Skipped[reason]; n > 0 {
			ctx.Printf("    %-16s %d\n", reason, n)
		}
	}
	for _, rec := range r.Recurring {
		line := fmt.Sprintf("  %s (%s): %s", rec.Title, rec.Day, rec.Pattern)
		if !rec.Next.IsZero() {
			line += ", next " + rec.Next.Format(constants.DateFormat)
		}
		ctx.Println(line)
	}

	switch {
	case r.Stored:
		ctx.Printf("✓ Replaced imported classes for %s\n", name)
		if r.Backup != "" {
			ctx.Printf("  Backup: %s\n", filepath.Base(r.Backup))
		}
	default:
		ctx.Println("Dry run: nothing was saved.")
	}
}
