package constants

const (
	AppName            = "freeweek"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/freeweek"
	DefaultConfigPath  = "~/.config/freeweek/config.yaml"
	DefaultDBPath      = "~/.config/freeweek/freeweek.db"
	Version            = "v0.2.0"

	// EnvDBConnection overrides the configured database location.
	EnvDBConnection = "FREEWEEK_DB_CONNECTION"
	// EnvTimezone overrides the configured timezone.
	EnvTimezone = "FREEWEEK_TIMEZONE"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// ClockFormat is the stored time-of-day format (HH:MM:SS)
	ClockFormat = "15:04:05"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "freeweek-"
	BackupFileSuffix = ".db"

	// Fetch constants
	FetchTimeoutSec = 15
	FetchCacheDir   = "ics-cache"

	// DefaultClassTitle is used when an imported event has no summary.
	DefaultClassTitle = "Class"
)
