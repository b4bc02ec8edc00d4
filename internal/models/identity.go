package models

import (
	"time"

	"github.com/becominglabs/becoming/internal/constants"
)

// Quality is a character trait the user is cultivating (e.g. "disciplined").
// Strength is always clamped to [0, 100].
type Quality struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	QualityName   string     `json:"quality_name"`
	Category      string     `json:"category"`
	Strength      float64    `json:"strength"`
	EvidenceCount int        `json:"evidence_count"`
	LastEvidence  *time.Time `json:"last_evidence,omitempty"`
	GrowthRate    float64    `json:"growth_rate"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Evidence links a concrete user action to a quality. Records are
// append-only: created once, never mutated or deleted.
type Evidence struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	QualityID    string    `json:"quality_id"`
	EvidenceType string    `json:"evidence_type"`
	Action       string    `json:"action"`
	Description  string    `json:"description,omitempty"`
	TaskID       string    `json:"task_id,omitempty"`
	HabitID      string    `json:"habit_id,omitempty"`
	ChallengeID  string    `json:"challenge_id,omitempty"`
	ImpactScore  float64   `json:"impact_score"`
	CreatedAt    time.Time `json:"created_at"`
}

// Statement is an "I am ..." identity statement. Each user keeps at most
// five, ordered for display; strength grows as habits are linked to it.
type Statement struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Text            string    `json:"text"`
	Order           int       `json:"order"`
	Active          bool      `json:"active"`
	Strength        int       `json:"strength"`
	RelatedHabitIDs []string  `json:"related_habit_ids"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LinkedTo reports whether the habit already strengthens this statement.
func (s Statement) LinkedTo(habitID string) bool {
	for _, id := range s.RelatedHabitIDs {
		if id == habitID {
			return true
		}
	}
	return false
}

// DailyQuest is one day's exercise inside a challenge.
type DailyQuest struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// WisdomQuote is display copy attached to a challenge.
type WisdomQuote struct {
	Quote  string `json:"quote"`
	Author string `json:"author,omitempty"`
}

// Challenge is a 7-day structured exercise targeting one quality. Only one
// active challenge may exist per (user, quality) at a time.
type Challenge struct {
	ID              string                    `json:"id"`
	UserID          string                    `json:"user_id"`
	QualityTargetID string                    `json:"quality_target_id"`
	Title           string                    `json:"title"`
	Description     string                    `json:"description,omitempty"`
	Difficulty      string                    `json:"difficulty"`
	DailyQuests     []DailyQuest              `json:"daily_quests"`
	WisdomQuotes    []WisdomQuote             `json:"wisdom_quotes,omitempty"`
	Status          constants.ChallengeStatus `json:"status"`
	CompletedDays   []int                     `json:"completed_days"`
	CurrentDay      int                       `json:"current_day"`
	XPEarned        int                       `json:"xp_earned"`
	CreatedAt       time.Time                 `json:"created_at"`
	CompletedAt     *time.Time                `json:"completed_at,omitempty"`
}

// DayCompleted reports whether the given day number is already recorded.
func (c Challenge) DayCompleted(day int) bool {
	for _, d := range c.CompletedDays {
		if d == day {
			return true
		}
	}
	return false
}

// Milestone records a completed achievement, emitted when a challenge
// finishes. The core hands milestones to an injected sink rather than
// writing the collection itself.
type Milestone struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	QualityID       string         `json:"quality_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	MilestoneType   string         `json:"milestone_type"`
	AchievementData map[string]any `json:"achievement_data,omitempty"`
	XPReward        int            `json:"xp_reward"`
	CreatedAt       time.Time      `json:"created_at"`
}

// GrowthEdgeReport identifies the user's weakest quality and the
// recommendation tier it falls into. An empty quality set yields the
// sentinel report, not an error.
type GrowthEdgeReport struct {
	QualityID        string             `json:"quality_id"`
	QualityName      string             `json:"quality_name"`
	Strength         float64            `json:"strength"`
	EvidenceCount    int                `json:"evidence_count"`
	LastEvidence     *time.Time         `json:"last_evidence,omitempty"`
	Tier             constants.EdgeTier `json:"tier,omitempty"`
	Recommendation   string             `json:"recommendation"`
	SuggestedActions []string           `json:"suggested_actions"`
}

// Insight is a generated observation about the user's identity data.
type Insight struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	InsightType      string    `json:"insight_type"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	RelatedQualities []string  `json:"related_qualities,omitempty"`
	ActionItems      []string  `json:"action_items,omitempty"`
	Priority         int       `json:"priority"`
	Fingerprint      uint64    `json:"fingerprint"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}
