package constants

const (
	// Reminder Settings
	SettingMorningRitual    = "morning_ritual"
	SettingMorningTime      = "morning_time"
	SettingEveningReview    = "evening_review"
	SettingEveningTime      = "evening_time"
	SettingRemindersEnabled = "reminders_enabled"
	SettingTimezone         = "timezone"

	// Default Reminder Settings
	DefaultMorningRitual    = true
	DefaultMorningTime      = "07:00"
	DefaultEveningReview    = true
	DefaultEveningTime      = "22:00"
	DefaultRemindersEnabled = true
	DefaultTimezone         = "Local"
)
