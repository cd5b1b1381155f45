package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/freeweek/internal/backup"
	"github.com/julianstephens/freeweek/internal/config"
	"github.com/julianstephens/freeweek/internal/constants"
	"github.com/julianstephens/freeweek/internal/fetch"
	"github.com/julianstephens/freeweek/internal/importer"
	"github.com/julianstephens/freeweek/internal/logger"
	"github.com/julianstephens/freeweek/internal/metrics"
	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/schedule"
	"github.com/julianstephens/freeweek/internal/storage"
	"github.com/julianstephens/freeweek/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
	// Out receives command output; nil means stdout.
	Out io.Writer
	// Now overrides the wall clock in tests.
	Now func() time.Time
	// Base is canceled on SIGINT/SIGTERM.
	Base context.Context

	metrics *metrics.Recorder
}

// Ctx returns the command's base context.
func (c *Context) Ctx() context.Context {
	if c.Base == nil {
		return context.Background()
	}
	return c.Base
}

// Settings returns the loaded config, or defaults when none was loaded.
func (c *Context) Settings() *config.Config {
	if c.Config == nil {
		c.Config = config.DefaultConfig()
	}
	return c.Config
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Location returns the configured timezone, falling back to the system zone.
func (c *Context) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Settings().Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using local time", "timezone", c.Settings().Timezone, "error", err)
		return time.Local
	}
	return loc
}

// CurrentTime returns now in the configured timezone.
func (c *Context) CurrentTime() time.Time {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	return now.In(c.Location())
}

// Metrics returns the process-wide recorder.
func (c *Context) Metrics() *metrics.Recorder {
	if c.metrics == nil {
		c.metrics = metrics.New()
	}
	return c.metrics
}

// WriteMetrics writes the textfile collector output when metrics_file is set.
func (c *Context) WriteMetrics() {
	path := c.Settings().MetricsFile
	if path == "" || c.metrics == nil {
		return
	}
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		logger.Warn("invalid metrics file path", "path", path, "error", err)
		return
	}
	if err := c.metrics.WriteTextfile(expanded); err != nil {
		logger.Warn("failed to write metrics file", "path", expanded, "error", err)
	}
}

// Backups returns the backup manager for the current database.
func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.Backups().CreateBackup(); err != nil && !errors.Is(err, backup.ErrNotFileBacked) {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Importer assembles the import pipeline from the current settings.
func (c *Context) Importer() *importer.Importer {
	cfg := c.Settings()
	cacheDir := ""
	if cfg.Path() != "" {
		cacheDir = filepath.Join(cfg.Dir(), constants.FetchCacheDir)
	}
	im := &importer.Importer{
		Store:    c.Store,
		Fetcher:  fetch.NewFetcher(cacheDir, &http.Client{Timeout: constants.FetchTimeoutSec * time.Second}),
		Metrics:  c.Metrics(),
		Location: c.Location(),
		Now:      c.Now,
	}
	if cfg.ShouldBackup() {
		mgr := c.Backups()
		im.Backup = func() (string, error) {
			path, err := mgr.CreateBackup()
			if errors.Is(err, backup.ErrNotFileBacked) {
				return "", nil
			}
			return path, err
		}
	}
	return im
}

// ResolvePerson finds a person by id, or by display name ignoring case.
func (c *Context) ResolvePerson(ctx context.Context, ref string) (models.Person, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Person{}, errors.New("no person given")
	}
	p, err := c.Store.GetPerson(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !storage.IsNotFound(err) {
		return models.Person{}, err
	}

	people, err := c.Store.GetAllPeople(ctx, true)
	if err != nil {
		return models.Person{}, err
	}
	var matches []models.Person
	for _, p := range people {
		if strings.EqualFold(p.DisplayName, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return models.Person{}, fmt.Errorf("no person with id or name %q; see 'freeweek person list'", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Person{}, fmt.Errorf("%q matches %d people; use an id instead", ref, len(matches))
	}
}

// ResolvePeople resolves a comma-separated list of ids or names, keeping order
// and dropping repeats.
func (c *Context) ResolvePeople(ctx context.Context, list string) ([]models.Person, error) {
	var people []models.Person
	seen := make(map[string]bool)
	for _, ref := range strings.Split(list, ",") {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		p, err := c.ResolvePerson(ctx, ref)
		if err != nil {
			return nil, err
		}
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		people = append(people, p)
	}
	if len(people) == 0 {
		return nil, errors.New("select at least one person with --with")
	}
	return people, nil
}

// Roster is a resolved set of people with their busy blocks.
type Roster struct {
	People    []models.Person
	Selection schedule.Selection
	Meetings  []models.ClassMeeting
	Blocks    []models.BusyBlock
}

// Names returns the display labels in selection order.
func (r Roster) Names() []string {
	names := make([]string, 0, len(r.People))
	for _, p := range r.People {
		names = append(names, p.Label())
	}
	return names
}

// LoadRoster resolves list and loads the classes of everyone in it.
func (c *Context) LoadRoster(ctx context.Context, list string) (Roster, error) {
	people, err := c.ResolvePeople(ctx, list)
	if err != nil {
		return Roster{}, err
	}
	ids := make([]string, 0, len(people))
	for _, p := range people {
		ids = append(ids, p.ID)
	}
	meetings, err := c.Store.GetClasses(ctx, ids...)
	if err != nil {
		return Roster{}, fmt.Errorf("failed to load classes: %w", err)
	}
	return Roster{
		People:    people,
		Selection: schedule.NewSelection(ids...),
		Meetings:  meetings,
		Blocks:    schedule.BlocksFromMeetings(meetings),
	}, nil
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]models.Weekday, error) {
	days, err := models.ParseWeekdays(s)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, errors.New("at least one day is required, e.g. --days mon,wed")
	}
	return days, nil
}

// DayLine renders `Mon  9:00 AM-10:20 AM` for listings.
func DayLine(day models.Weekday, start, end int) string {
	return fmt.Sprintf("%-4s %s-%s", day, utils.FormatClock12(start), utils.FormatClock12(end))
}
