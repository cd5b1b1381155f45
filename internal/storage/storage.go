package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/freeweek/internal/keyring"
	"github.com/julianstephens/freeweek/internal/migration"
	"github.com/julianstephens/freeweek/internal/storage/postgres"
	"github.com/julianstephens/freeweek/internal/storage/sqlite"
	"github.com/julianstephens/freeweek/internal/utils"
)

// Migrator is implemented by stores that expose their schema state.
type Migrator interface {
	Migrate() (int, error)
	MigrationStatus() (migration.Status, error)
}

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Migrator = (*sqlite.Store)(nil)
	_ Migrator = (*postgres.Store)(nil)
)

// New picks a backend for target: a PostgreSQL connection string, a SQLite
// path, or "keyring" for a connection string held in the OS keyring.
// Connection strings typed into config or flags must not carry a password.
func New(target string) (Provider, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.New("no database configured")
	}
	if keyring.IsTarget(target) {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("database is set to %q: %w", keyring.Target, err)
		}
		return postgres.New(connStr), nil
	}
	if postgres.IsConnString(target) {
		if _, err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		return postgres.New(target), nil
	}
	path, err := utils.ExpandPath(target)
	if err != nil {
		return nil, fmt.Errorf("invalid database path %q: %w", target, err)
	}
	return sqlite.NewStore(path), nil
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
