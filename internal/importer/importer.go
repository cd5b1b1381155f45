// Package importer runs one calendar import end to end: read the feed,
// lint it, parse it, back up the database and replace the person's
// imported classes.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/freeweek/internal/config"
	"github.com/julianstephens/freeweek/internal/fetch"
	"github.com/julianstephens/freeweek/internal/ics"
	"github.com/julianstephens/freeweek/internal/logger"
	"github.com/julianstephens/freeweek/internal/metrics"
	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/storage"
)

// ErrNotCalendar is returned when the input has no VCALENDAR at all.
// Such input never clears a person's classes.
var ErrNotCalendar = errors.New("input is not an iCalendar file")

// Options control how far an import goes.
type Options struct {
	// Check stops after the strict lint.
	Check bool
	// DryRun parses and reports but writes nothing.
	DryRun bool
}

// Recurring describes one kept event that carried an RRULE.
type Recurring struct {
	Title   string
	Day     models.Weekday
	Pattern string
	Next    time.Time
}

// Report is what an import found and did.
type Report struct {
	PersonID  string
	Location  string
	FromCache bool
	Lint      ics.LintReport
	Events    int
	Meetings  []models.ClassMeeting
	Skipped   map[ics.SkipReason]int
	Recurring []Recurring
	Backup    string
	Stored    bool
}

// SkippedTotal returns the number of events that produced no meeting.
func (r Report) SkippedTotal() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// BackupFunc snapshots the database before classes are replaced.
type BackupFunc func() (string, error)

// Importer wires the import steps together.
type Importer struct {
	Store    storage.Provider
	Fetcher  *fetch.Fetcher
	Metrics  *metrics.Recorder
	Backup   BackupFunc
	Location *time.Location
	Now      func() time.Time
}

func (im *Importer) now() time.Time {
	if im.Now != nil {
		return im.Now()
	}
	return time.Now()
}

// Import reads location (a path or URL) and replaces personID's imported classes.
func (im *Importer) Import(ctx context.Context, personID, location string, opts Options) (Report, error) {
	log := logger.Component("import")
	report := Report{PersonID: personID, Location: fetch.Redact(location)}
	started := im.now()

	report, err := im.run(ctx, report, location, opts)
	if err != nil {
		if im.Metrics != nil && !opts.Check && !opts.DryRun {
			im.Metrics.ImportFailed()
		}
		log.Error("import failed", "person", personID, "location", report.Location, "error", err)
		return report, err
	}

	if report.Stored && im.Metrics != nil {
		skipped := make(map[string]int, len(report.Skipped))
		for reason, n := range report.Skipped {
			skipped[string(reason)] = n
		}
		finished := im.now()
		im.Metrics.ImportSucceeded(personID, len(report.Meetings), skipped, finished.Sub(started), finished)
	}
	log.Info("import finished",
		"person", personID,
		"location", report.Location,
		"meetings", len(report.Meetings),
		"skipped", report.SkippedTotal(),
		"stored", report.Stored)
	return report, nil
}

func (im *Importer) run(ctx context.Context, report Report, location string, opts Options) (Report, error) {
	if _, err := im.Store.GetPerson(ctx, report.PersonID); err != nil {
		if storage.IsNotFound(err) {
			return report, fmt.Errorf("unknown person %q", report.PersonID)
		}
		return report, err
	}

	res, err := im.Fetcher.Fetch(ctx, location)
	if err != nil {
		return report, err
	}
	report.FromCache = res.FromCache
	if im.Metrics != nil && fetch.IsURL(location) {
		im.Metrics.Fetched(res.FromCache)
	}

	text := string(res.Body)
	report.Lint = ics.Lint(text)
	if opts.Check {
		return report, nil
	}
	if !strings.Contains(strings.ToUpper(text), "BEGIN:VCALENDAR") {
		return report, ErrNotCalendar
	}

	parsed := ics.ParseInLocation(text, im.Location)
	report.Events = parsed.Events
	report.Meetings = parsed.Meetings
	report.Skipped = parsed.Skipped
	report.Recurring = im.describe(parsed.Accepted)
	if opts.DryRun {
		return report, nil
	}

	if im.Backup != nil {
		path, err := im.Backup()
		if err != nil {
			logger.Warn("backup before import failed", "error", err)
		}
		report.Backup = path
	}

	if err := im.Store.ReplaceImportedClasses(ctx, report.PersonID, parsed.Meetings); err != nil {
		return report, fmt.Errorf("failed to store classes: %w", err)
	}
	report.Stored = true
	return report, nil
}

func (im *Importer) describe(accepted []ics.Accepted) []Recurring {
	now := im.now()
	var out []Recurring
	for _, a := range accepted {
		if a.RRule == "" {
			continue
		}
		pattern, err := ics.DescribeRRule(a.RRule, a.Start)
		if err != nil {
			logger.Debug("unreadable recurrence", "title", a.Meeting.Title, "error", err)
			continue
		}
		rec := Recurring{Title: a.Meeting.Title, Day: a.Meeting.Day, Pattern: pattern}
		if next, ok := ics.NextOccurrence(a.RRule, a.Start, now); ok {
			rec.Next = next
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// SourceResult is the outcome of importing one configured source.
type SourceResult struct {
	Source config.Source
	Report Report
	Err    error
}

// ImportSources imports every source in order. A failing source does not
// stop the rest; ctx cancellation does.
func (im *Importer) ImportSources(ctx context.Context, sources []config.Source) []SourceResult {
	results := make([]SourceResult, 0, len(sources))
	for _, src := range sources {
		if ctx.Err() != nil {
			results = append(results, SourceResult{Source: src, Err: ctx.Err()})
			continue
		}
		report, err := im.Import(ctx, src.Person, src.Location(), Options{})
		results = append(results, SourceResult{Source: src, Report: report, Err: err})
	}
	return results
}
