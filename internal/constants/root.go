package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.3.0"

	// Environment variables
	EnvConfig       = "HABITUAL_CONFIG"
	EnvDebug        = "HABITUAL_DEBUG"
	EnvDBConnection = "HABITUAL_DB_CONNECTION"

	// MemoryConfigPath selects the process-local store
	MemoryConfigPath = ":memory:"

	// Storage keys
	KeyHabits       = "habits"
	KeySession      = "session"
	KeySettings     = "settings"
	KeyTodayColumns = "todayColumns"

	// StoreVersion is the version written into the JSON store envelope
	StoreVersion = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"

	// WeeklyWindowDays is the number of days in the weekly series
	WeeklyWindowDays = 7
	// DaysPerWeek is the divisor of the weekly streak policy
	DaysPerWeek = 7
)

const (
	// Session States
	StateHabits SessionState = iota
	StateInsights
	StateAddHabit
	StateConfirmDelete
	StateTasks
	StateAddTask
)
