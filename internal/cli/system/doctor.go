package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/ics"
	"github.com/julianstephens/freeweek/internal/keyring"
	"github.com/julianstephens/freeweek/internal/storage"
	"github.com/julianstephens/freeweek/internal/storage/sqlite"
	"github.com/julianstephens/freeweek/internal/utils"
	"github.com/julianstephens/freeweek/internal/validation"
)

type DoctorCmd struct {
	Sources bool `help:"Also fetch every configured source and run the strict iCalendar check."`
}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	// warnOnly failures do not fail the command.
	warnOnly bool
	run      func(*cli.Context) error
}

func (cmd *DoctorCmd) checks() []check {
	checks := []check{
		{name: "Config valid", run: checkConfig},
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
		{name: "Data validation", needsDB: true, run: checkValidation},
		{name: "Schedule warnings", needsDB: true, warnOnly: true, run: checkScheduleWarnings},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Keyring", warnOnly: true, run: checkKeyring},
	}
	if cmd.Sources {
		checks = append(checks, check{name: "Calendar sources", warnOnly: true, run: checkSources})
	}
	return checks
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range cmd.checks() {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetAllPeople(ctx.Ctx(), true); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkConfig(ctx *cli.Context) error {
	return ctx.Settings().Validate()
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	if st.Current == 0 {
		return errors.New("database has no schema version; run 'freeweek init'")
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if len(st.Pending) > 0 {
		return fmt.Errorf("%d pending migration(s); run 'freeweek migrate'", len(st.Pending))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := ctx.Backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'freeweek backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	result, err := validateSchedule(ctx)
	if err != nil {
		return err
	}
	if n := result.Count(validation.ConflictInvalidTime) + result.Count(validation.ConflictUnknownOwner); n > 0 {
		return fmt.Errorf("%d broken class row(s); see 'freeweek validate'", n)
	}
	return nil
}

func checkScheduleWarnings(ctx *cli.Context) error {
	result, err := validateSchedule(ctx)
	if err != nil {
		return err
	}
	overlaps := result.Count(validation.ConflictOverlappingClasses)
	outside := result.Count(validation.ConflictOutsideWindow)
	if overlaps+outside > 0 {
		return fmt.Errorf("%d overlapping class pair(s) and %d class(es) outside the personal window", overlaps, outside)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	tz := ctx.Settings().Timezone
	if !utils.ValidateTimezone(tz) {
		return fmt.Errorf("unknown timezone %q", tz)
	}
	now, err := utils.NowInTimezone(tz)
	if err != nil {
		return err
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsTarget(ctx.Settings().Database) {
		return nil
	}
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	if _, err := keyring.GetConnectionString(); err != nil {
		return fmt.Errorf("database is %q but %w; run 'freeweek keyring set'", keyring.Target, err)
	}
	return nil
}

func checkSources(ctx *cli.Context) error {
	cfg := ctx.Settings()
	if len(cfg.Sources) == 0 {
		return errors.New("no sources configured")
	}
	fetcher := ctx.Importer().Fetcher
	var failed []error
	for _, src := range cfg.Sources {
		res, err := fetcher.Fetch(ctx.Ctx(), src.Location())
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", src.Person, err))
			continue
		}
		if report := ics.Lint(string(res.Body)); !report.OK() {
			failed = append(failed, fmt.Errorf("%s: %s", src.Person, report))
		}
	}
	return errors.Join(failed...)
}
