package constants

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionState represents the current state of the TUI application
type SessionState int

// HabitFrequency represents how often a habit is practiced
type HabitFrequency string

// HabitLane represents the maturity stage of a habit
type HabitLane string

// ChallengeStatus represents the lifecycle status of a challenge
type ChallengeStatus string

// ConflictType represents the type of validation conflict
type ConflictType string

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	AppName            = "becoming"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/becoming/becoming.db"
	DefaultUserID      = "local"
	Version            = "v0.2.0"

	// MemoryConfigPath selects the in-process store instead of a database file
	MemoryConfigPath = ":memory:"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "becoming-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "becoming-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.becominglabs.becoming"

	// Habit Frequency constants
	FrequencyDaily  HabitFrequency = "daily"
	FrequencyWeekly HabitFrequency = "weekly"
	FrequencyCustom HabitFrequency = "custom"

	// Habit Lane constants
	LaneBecoming HabitLane = "becoming"
	LaneIAm      HabitLane = "i_am"

	// Challenge Status constants
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"

	// Conflict Types
	ConflictInvalidFrequency  ConflictType = "invalid_frequency"
	ConflictMissingTitle      ConflictType = "missing_title"
	ConflictDuplicateTitle    ConflictType = "duplicate_title"
	ConflictInvalidDateTime   ConflictType = "invalid_date_time"
	ConflictInvalidImpact     ConflictType = "invalid_impact"
	ConflictMissingDailyQuest ConflictType = "missing_daily_quest"

	// Session States
	StateHabits SessionState = iota
	StateEdge
	StateAddHabit
	StateAddQuality
	StateCheckInNote
	StateConfirmation
	StateConfirmDelete
)
