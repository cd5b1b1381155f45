package constants

const (
	// Personal free-block window in whole hours.
	DefaultPersonalStartHour = 8
	DefaultPersonalEndHour   = 20

	// Shared sync view window in whole hours.
	DefaultSyncStartHour = 7
	DefaultSyncEndHour   = 23

	DefaultTimezone       = "Local" // Use system local timezone by default
	DefaultRefreshCron    = "0 6 * * *"
	DefaultWeekdaysOnly   = true
	DefaultBackupOnImport = true

	// Class-likeness duration bounds in minutes.
	MinClassDurationMin = 30
	MaxClassDurationMin = 240
)
