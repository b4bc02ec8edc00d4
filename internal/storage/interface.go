package storage

import (
	"errors"
	"time"

	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/models"
)

// ErrNotFound is returned by all backends when a requested record does not
// exist or is not owned by the given user.
var ErrNotFound = errors.New("record not found")

// Provider is the persistence interface shared by the memory, sqlite and
// postgres backends. All reads are scoped to the owning user; a mismatch is
// indistinguishable from absence (ErrNotFound).
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(userID, id string) (models.Habit, error)
	GetHabitByTitle(userID, title string) (models.Habit, error)
	// GetAllHabits returns the user's habits in creation order. An empty
	// lane returns every lane.
	GetAllHabits(userID string, lane constants.HabitLane) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(userID, id string) error

	// Check-ins (append-only)
	AddCheckIn(models.DailyCheckIn) error
	GetCheckIn(habitID, day string) (models.DailyCheckIn, error)
	GetCheckInsForHabit(habitID string) ([]models.DailyCheckIn, error)
	GetCheckInsForDay(userID, day string) ([]models.DailyCheckIn, error)

	// Qualities
	AddQuality(models.Quality) error
	GetQuality(userID, id string) (models.Quality, error)
	GetQualityByName(userID, name string) (models.Quality, error)
	// GetAllQualities returns qualities in creation order; growth-edge tie
	// breaking depends on this being stable.
	GetAllQualities(userID string) ([]models.Quality, error)
	UpdateQuality(models.Quality) error

	// Evidence (append-only)
	AddEvidence(models.Evidence) error
	// GetEvidence returns newest-first records, optionally filtered by
	// quality. limit <= 0 means no limit.
	GetEvidence(userID, qualityID string, limit int) ([]models.Evidence, error)
	CountEvidenceSince(qualityID string, since time.Time) (int, error)

	// Identity statements
	AddStatement(models.Statement) error
	GetStatement(userID, id string) (models.Statement, error)
	// GetAllStatements returns statements sorted by display order.
	GetAllStatements(userID string) ([]models.Statement, error)
	UpdateStatement(models.Statement) error
	DeleteStatement(userID, id string) error

	// Challenges
	AddChallenge(models.Challenge) error
	GetChallenge(userID, id string) (models.Challenge, error)
	GetAllChallenges(userID string, status constants.ChallengeStatus) ([]models.Challenge, error)
	GetActiveChallengeForQuality(userID, qualityID string) (models.Challenge, error)
	UpdateChallenge(models.Challenge) error

	// Milestones
	AddMilestone(models.Milestone) error
	GetAllMilestones(userID string) ([]models.Milestone, error)

	// Insights
	AddInsight(models.Insight) error
	GetAllInsights(userID string, unreadOnly bool) ([]models.Insight, error)
	HasInsightFingerprint(userID string, fingerprint uint64) (bool, error)
	MarkInsightRead(userID, id string) error

	// Utils
	GetConfigPath() string
}
