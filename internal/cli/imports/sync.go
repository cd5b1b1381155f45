package imports

import (
	"errors"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/importer"
	"github.com/julianstephens/freeweek/internal/utils"
	"github.com/julianstephens/freeweek/internal/watch"
)

type SyncCmd struct {
	Watch       bool   `help:"Keep running and re-sync on the configured refresh schedule."`
	MetricsAddr string `help:"With --watch, serve Prometheus metrics on this address (e.g. :9464)."`
}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Settings()
	if len(cfg.Sources) == 0 {
		return errors.New("no sources configured; add them under 'sources' in " + cfg.Path())
	}

	metricsFile := cfg.MetricsFile
	if metricsFile != "" {
		expanded, err := utils.ExpandPath(metricsFile)
		if err != nil {
			return err
		}
		metricsFile = expanded
	}

	w := &watch.Watcher{
		Importer:    ctx.Importer(),
		Sources:     cfg.Sources,
		Spec:        cfg.Refresh,
		Location:    ctx.Location(),
		Metrics:     ctx.Metrics(),
		MetricsFile: metricsFile,
		MetricsAddr: c.MetricsAddr,
		OnRun:       func(results []importer.SourceResult) { printResults(ctx, results) },
	}

	if c.Watch {
		ctx.Printf("Watching %d source(s) on %q. Press Ctrl+C to stop.\n", len(cfg.Sources), cfg.Refresh)
		return w.Run(ctx.Ctx())
	}

	results, err := w.RunOnce(ctx.Ctx())
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			return errors.New("one or more sources failed to sync")
		}
	}
	return nil
}

func printResults(ctx *cli.Context, results []importer.SourceResult) {
	for _, r := range results {
		if r.Err != nil {
			ctx.Printf("✗ %s: %v\n", r.Source.Person, r.Err)
			continue
		}
		ctx.Printf("✓ %s: %d class meeting(s), skipped %d\n", r.Source.Person, len(r.Report.Meetings), r.Report.SkippedTotal())
	}
}
