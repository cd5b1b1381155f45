// Package watch re-imports configured calendar sources on a cron schedule.
package watch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/freeweek/internal/config"
	"github.com/julianstephens/freeweek/internal/importer"
	"github.com/julianstephens/freeweek/internal/logger"
	"github.com/julianstephens/freeweek/internal/metrics"
)

// Watcher runs Importer over Sources every time Spec fires.
type Watcher struct {
	Importer *importer.Importer
	Sources  []config.Source
	Spec     string
	Location *time.Location

	// Metrics, when set, is written to MetricsFile after each run and
	// served on MetricsAddr.
	Metrics     *metrics.Recorder
	MetricsFile string
	MetricsAddr string

	// OnRun observes each completed run.
	OnRun func([]importer.SourceResult)

	mu      sync.Mutex
	running bool
}

// RunOnce imports every source now. Overlapping calls are skipped.
func (w *Watcher) RunOnce(ctx context.Context) ([]importer.SourceResult, error) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil, errors.New("a sync is already running")
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	log := logger.Component("watch")
	log.Info("sync started", "sources", len(w.Sources))
	results := w.Importer.ImportSources(ctx, w.Sources)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Info("sync finished", "sources", len(results), "failed", failed)

	if w.Metrics != nil && w.MetricsFile != "" {
		if err := w.Metrics.WriteTextfile(w.MetricsFile); err != nil {
			log.Warn("failed to write metrics file", "path", w.MetricsFile, "error", err)
		}
	}
	if w.OnRun != nil {
		w.OnRun(results)
	}
	return results, nil
}

// Run syncs once, then on every tick of Spec until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.Sources) == 0 {
		return errors.New("no sources configured; add them under 'sources' in the config file")
	}
	schedule, err := cron.ParseStandard(w.Spec)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", w.Spec, err)
	}

	log := logger.Component("watch")
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}

	var srv *http.Server
	if w.Metrics != nil && w.MetricsAddr != "" {
		ln, err := net.Listen("tcp", w.MetricsAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", w.MetricsAddr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", w.Metrics.Handler())
		srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", "error", err)
			}
		}()
		log.Info("serving metrics", "addr", ln.Addr().String())
	}

	c := cron.New(cron.WithLocation(loc))
	c.Schedule(schedule, cron.FuncJob(func() {
		if _, err := w.RunOnce(ctx); err != nil {
			log.Warn("skipped scheduled sync", "error", err)
		}
	}))

	if _, err := w.RunOnce(ctx); err != nil {
		log.Warn("initial sync skipped", "error", err)
	}
	c.Start()
	log.Info("watching sources", "schedule", w.Spec, "next", schedule.Next(time.Now().In(loc)).Format(time.RFC3339))

	<-ctx.Done()
	<-c.Stop().Done()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	log.Info("watch stopped")
	return nil
}
