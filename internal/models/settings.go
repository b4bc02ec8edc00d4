package models

// Settings represents reminder and locale settings for the application
type Settings struct {
	MorningRitual    bool   `json:"morning_ritual"`    // whether to send the morning identity-ritual reminder
	MorningTime      string `json:"morning_time"`      // when to send it, e.g. "07:00"
	EveningReview    bool   `json:"evening_review"`    // whether to send the evening review reminder
	EveningTime      string `json:"evening_time"`      // when to send it, e.g. "22:00"
	RemindersEnabled bool   `json:"reminders_enabled"` // master switch for all reminders
	Timezone         string `json:"timezone"`          // IANA timezone name, or "Local" for the system timezone
}
