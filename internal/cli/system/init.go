package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/storage"
	"github.com/julianstephens/freeweek/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); !ok {
			return fmt.Errorf("--force only works with a SQLite database")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			ctx.PerformAutomaticBackup()
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized freeweek storage at: %s\n", ctx.Store.GetConfigPath())
	if path := ctx.Settings().Path(); path != "" {
		ctx.Printf("Config file: %s\n", path)
	}

	if m, ok := ctx.Store.(storage.Migrator); ok {
		if st, err := m.MigrationStatus(); err == nil {
			ctx.Printf("Schema version: %d\n", st.Current)
		}
	}
	return nil
}
