// Package config loads ~/.config/freeweek/config.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/freeweek/internal/constants"
	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/utils"
)

// Source is one ICS subscription re-imported by `sync`. Exactly one of Path and URL is set.
type Source struct {
	Person string `yaml:"person"`
	Path   string `yaml:"path,omitempty"`
	URL    string `yaml:"url,omitempty"`
}

// Location returns the path or URL the source reads from.
func (s Source) Location() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// Config is the top-level application configuration.
type Config struct {
	// Database is a SQLite path or a PostgreSQL connection string without a password.
	Database string `yaml:"database"`
	// Timezone is "Local" or an IANA name; it decides what "today" means for gaps.
	Timezone string `yaml:"timezone"`

	PersonalWindow models.DayWindow `yaml:"personal_window"`
	SyncWindow     models.DayWindow `yaml:"sync_window"`
	WeekdaysOnly   *bool            `yaml:"weekdays_only,omitempty"`

	Sources []Source `yaml:"sources"`
	// Refresh is the cron spec `sync --watch` runs on.
	Refresh string `yaml:"refresh"`

	MetricsFile    string `yaml:"metrics_file,omitempty"`
	BackupOnImport *bool  `yaml:"backup_on_import,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`

	path string
}

func boolPtr(b bool) *bool { return &b }

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills missing values with defaults so older or partial files still work.
func (c *Config) Normalize() {
	if c.Database == "" {
		c.Database = constants.DefaultDBPath
	}
	if c.Timezone == "" {
		c.Timezone = constants.DefaultTimezone
	}
	if c.PersonalWindow == (models.DayWindow{}) {
		c.PersonalWindow = models.DayWindow{StartHour: constants.DefaultPersonalStartHour, EndHour: constants.DefaultPersonalEndHour}
	}
	if c.SyncWindow == (models.DayWindow{}) {
		c.SyncWindow = models.DayWindow{StartHour: constants.DefaultSyncStartHour, EndHour: constants.DefaultSyncEndHour}
	}
	if c.WeekdaysOnly == nil {
		c.WeekdaysOnly = boolPtr(constants.DefaultWeekdaysOnly)
	}
	if c.Refresh == "" {
		c.Refresh = constants.DefaultRefreshCron
	}
	if c.BackupOnImport == nil {
		c.BackupOnImport = boolPtr(constants.DefaultBackupOnImport)
	}
	if c.Sources == nil {
		c.Sources = []Source{}
	}
}

// Validate reports the first setting that would break a command later.
func (c *Config) Validate() error {
	if err := c.PersonalWindow.Validate(); err != nil {
		return fmt.Errorf("personal_window: %w", err)
	}
	if err := c.SyncWindow.Validate(); err != nil {
		return fmt.Errorf("sync_window: %w", err)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("timezone: unknown zone %q", c.Timezone)
	}
	if _, err := cron.ParseStandard(c.Refresh); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Person) == "" {
			return fmt.Errorf("sources[%d]: person is required", i)
		}
		if (s.Path == "") == (s.URL == "") {
			return fmt.Errorf("sources[%d]: set exactly one of path or url", i)
		}
	}
	return nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Dir returns the directory holding the config file, logs, and caches.
func (c *Config) Dir() string { return filepath.Dir(c.path) }

// ShowWeekdaysOnly reports whether personal views hide Saturday and Sunday.
func (c *Config) ShowWeekdaysOnly() bool { return c.WeekdaysOnly == nil || *c.WeekdaysOnly }

// ShouldBackup reports whether imports snapshot the database first.
func (c *Config) ShouldBackup() bool { return c.BackupOnImport == nil || *c.BackupOnImport }

// Load reads path (writing defaults on first run), loads .env files, and
// applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	path, err := utils.ExpandPath(path)
	if err != nil {
		return nil, err
	}

	loadDotEnv(filepath.Dir(path))

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = DefaultConfig()
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.Normalize()
	}

	cfg.path = path
	cfg.applyEnv()
	if !postgresTarget(cfg.Database) {
		if cfg.Database, err = utils.ExpandPath(cfg.Database); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadDotEnv reads .env from the config dir and the working directory.
// Variables already set in the environment win.
func loadDotEnv(configDir string) {
	for _, p := range []string{filepath.Join(configDir, ".env"), ".env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); v != "" {
		c.Database = v
	}
	if v := strings.TrimSpace(os.Getenv(constants.EnvTimezone)); v != "" {
		c.Timezone = v
	}
}

func postgresTarget(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") || strings.Contains(s, "host=")
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+constants.AppName+"-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
