package models

import (
	"time"

	"github.com/becominglabs/becoming/internal/constants"
)

// Frequency describes how often a habit is practiced. Custom frequencies
// carry a target number of days per week (1-7).
type Frequency struct {
	Type         constants.HabitFrequency `json:"type"`
	TargetDays   int                      `json:"target_days,omitempty"`
	SpecificDays []time.Weekday           `json:"specific_days,omitempty"`
}

// Habit represents a behavior the user is instilling. It starts in the
// "becoming" lane and graduates, once and irreversibly, to "i_am".
type Habit struct {
	ID               string              `json:"id"`
	UserID           string              `json:"user_id"`
	Title            string              `json:"title"`
	Description      string              `json:"description,omitempty"`
	Frequency        Frequency           `json:"frequency"`
	TinyHabitOption  string              `json:"tiny_habit_option,omitempty"`
	Lane             constants.HabitLane `json:"lane"`
	RequiredDays     int                 `json:"required_days"`
	CurrentDay       int                 `json:"current_day"`
	MissedDays       int                 `json:"missed_days"`
	GraceDaysUsed    int                 `json:"grace_days_used"`
	CurrentStreak    int                 `json:"current_streak"`
	LongestStreak    int                 `json:"longest_streak"`
	TotalCompletions int                 `json:"total_completions"`
	StartDate        time.Time           `json:"start_date"`
	GraduationDate   *time.Time          `json:"graduation_date,omitempty"`
	LastCheckIn      *time.Time          `json:"last_check_in,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// Graduated reports whether the habit has reached the i_am lane.
func (h Habit) Graduated() bool {
	return h.Lane == constants.LaneIAm
}

// ConsistencyRate returns the share of tracked days with a completion.
func (h Habit) ConsistencyRate() float64 {
	return float64(h.TotalCompletions) / float64(max(h.CurrentDay, 1))
}

// RequiredDaysFor returns the graduation threshold for a frequency. Daily
// practice reaches automaticity fastest; sparse custom schedules take as
// long as weekly ones.
func RequiredDaysFor(freq Frequency) int {
	switch freq.Type {
	case constants.FrequencyDaily:
		return constants.RequiredDaysDaily
	case constants.FrequencyWeekly:
		return constants.RequiredDaysWeekly
	case constants.FrequencyCustom:
		switch {
		case freq.TargetDays >= constants.CustomTargetHighDays:
			return constants.RequiredDaysCustomHigh
		case freq.TargetDays >= constants.CustomTargetMediumDays:
			return constants.RequiredDaysCustomMedium
		default:
			return constants.RequiredDaysCustomLow
		}
	}
	return constants.RequiredDaysDaily
}

// DailyCheckIn is one user-submitted record per habit per calendar day.
// Check-ins are append-only; a second submission for the same day is
// rejected, never overwritten.
type DailyCheckIn struct {
	ID            string    `json:"id"`
	HabitID       string    `json:"habit_id"`
	CheckInDate   string    `json:"check_in_date"` // YYYY-MM-DD format
	Completed     bool      `json:"completed"`
	TinyHabitUsed bool      `json:"tiny_habit_used"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// HabitStats is a derived, read-only view of a habit's progress.
type HabitStats struct {
	HabitID                   string  `json:"habit_id"`
	TotalDays                 int     `json:"total_days"`
	CompletedDays             int     `json:"completed_days"`
	ConsistencyRate           float64 `json:"consistency_rate"`
	CurrentStreak             int     `json:"current_streak"`
	LongestStreak             int     `json:"longest_streak"`
	AverageCompletionsPerWeek float64 `json:"average_completions_per_week"`
	Last7Days                 []bool  `json:"last_7_days"`
	Last30Days                []bool  `json:"last_30_days"`
}
