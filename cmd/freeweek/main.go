package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/cli/backups"
	"github.com/julianstephens/freeweek/internal/cli/classes"
	"github.com/julianstephens/freeweek/internal/cli/imports"
	"github.com/julianstephens/freeweek/internal/cli/people"
	"github.com/julianstephens/freeweek/internal/cli/system"
	"github.com/julianstephens/freeweek/internal/cli/views"
	"github.com/julianstephens/freeweek/internal/config"
	"github.com/julianstephens/freeweek/internal/constants"
	"github.com/julianstephens/freeweek/internal/errors"
	"github.com/julianstephens/freeweek/internal/logger"
	"github.com/julianstephens/freeweek/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"string" default:"${config_path}"`
	Database string `help:"SQLite path, PostgreSQL connection string without a password, or \"keyring\". Overrides the config file." type:"string"`
	Debug    bool   `help:"Write debug logs."`

	Init     system.InitCmd     `cmd:"" help:"Initialize freeweek storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored classes for conflicts."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Person struct {
		Add    people.PersonAddCmd    `cmd:"" help:"Add a person."`
		List   people.PersonListCmd   `cmd:"" help:"List people."`
		Rename people.PersonRenameCmd `cmd:"" help:"Rename a person."`
		Hide   people.PersonHideCmd   `cmd:"" help:"Hide a person from the roster."`
		Delete people.PersonDeleteCmd `cmd:"" help:"Delete a person and their classes."`
	} `cmd:"" help:"Manage people."`
	Class struct {
		Add    classes.ClassAddCmd    `cmd:"" help:"Add a manual class."`
		Edit   classes.ClassEditCmd   `cmd:"" help:"Edit a manual class."`
		Delete classes.ClassDeleteCmd `cmd:"" help:"Delete a manual class."`
		List   classes.ClassListCmd   `cmd:"" help:"List a person's classes."`
	} `cmd:"" help:"Manage classes."`

	Free    views.FreeCmd     `cmd:"" help:"Show one person's free time."`
	Overlap views.OverlapCmd  `cmd:"" help:"Show where selected people share class time."`
	Common  views.CommonCmd   `cmd:"" help:"Show free time shared by selected people."`
	Gap     views.GapCmd      `cmd:"" help:"Show the next synced gaps this week."`
	Export  views.ExportCmd   `cmd:"" help:"Export free time as an iCalendar file."`
	Import  imports.ImportCmd `cmd:"" help:"Import a person's classes from an ICS file or URL."`
	Sync    imports.SyncCmd   `cmd:"" help:"Re-import every configured calendar source."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password hidden."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is usable."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Free-time finder for student class schedules"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)
	command := strings.Fields(kctx.Command())[0]

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(fmt.Errorf("failed to load config: %w", err))
	}
	if CLI.Database != "" {
		cfg.Database = CLI.Database
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: cfg.Dir(),
		Level:     cfg.LogLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	// doctor reports a bad config itself
	if command != "doctor" {
		if err := cfg.Validate(); err != nil {
			errors.Fatal(fmt.Errorf("invalid config %s: %w", cfg.Path(), err))
		}
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{
		Config: cfg,
		Base:   base,
	}

	// Keyring commands manage the credentials a "keyring" database needs,
	// so they run without a store.
	if command != "keyring" {
		store, err := storage.New(cfg.Database)
		if err != nil {
			errors.Fatal(err)
		}
		defer store.Close()
		appCtx.Store = store

		// Init and doctor handle their own loading
		if command != "init" && command != "doctor" {
			if err := store.Load(); err != nil {
				errors.Fatal(err)
			}
		}
	}

	if err := kctx.Run(appCtx); err != nil {
		logger.Error("command failed", "command", kctx.Command(), "error", err)
		fmt.Fprintln(os.Stderr, errors.Format(err))
		if appCtx.Store != nil {
			appCtx.Store.Close()
		}
		os.Exit(1)
	}
}
