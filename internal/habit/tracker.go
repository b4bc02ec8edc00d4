package habit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/becominglabs/becoming/internal/constants"
	apperrors "github.com/becominglabs/becoming/internal/errors"
	"github.com/becominglabs/becoming/internal/logger"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
	"github.com/becominglabs/becoming/internal/utils"
	"github.com/becominglabs/becoming/internal/validation"
)

// Tracker owns the habit lifecycle: creation, daily check-ins, streak
// accounting and graduation between the becoming and i_am lanes. It holds no
// state of its own; every operation is a read-modify-write against the
// injected store.
type Tracker struct {
	store storage.Provider
	now   func() time.Time
}

// NewTracker creates a Tracker. A nil clock defaults to time.Now; tests
// inject a fixed clock for deterministic date math.
func NewTracker(store storage.Provider, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

// CreateInput holds the user-supplied definition of a new habit.
type CreateInput struct {
	Title           string
	Description     string
	Frequency       models.Frequency
	TinyHabitOption string
}

// CheckInInput holds one day's check-in submission.
type CheckInInput struct {
	Completed     bool
	TinyHabitUsed bool
	Note          string
}

// UpdateInput holds the mutable habit definition fields. Nil means leave
// unchanged; progress counters are never updated through this path.
type UpdateInput struct {
	Title           *string
	Description     *string
	TinyHabitOption *string
}

// Create validates the definition and persists a new habit in the becoming
// lane with all counters at zero. required_days is fixed for the habit's
// life at creation time.
func (t *Tracker) Create(userID string, in CreateInput) (models.Habit, error) {
	if in.Title == "" {
		return models.Habit{}, fmt.Errorf("habit title is required: %w", apperrors.ErrValidation)
	}

	if result := validation.New().ValidateFrequency(in.Frequency); result.HasConflicts() {
		return models.Habit{}, fmt.Errorf("%s: %w", result.Conflicts[0].Description, apperrors.ErrValidation)
	}

	now := t.now()
	habit := models.Habit{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           in.Title,
		Description:     in.Description,
		Frequency:       in.Frequency,
		TinyHabitOption: in.TinyHabitOption,
		Lane:            constants.LaneBecoming,
		RequiredDays:    models.RequiredDaysFor(in.Frequency),
		StartDate:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := t.store.AddHabit(habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to save habit: %w", err)
	}

	logger.Info("Created habit", "habit_id", habit.ID, "required_days", habit.RequiredDays)
	return habit, nil
}

// Get returns a single habit owned by the user.
func (t *Tracker) Get(userID, habitID string) (models.Habit, error) {
	habit, err := t.store.GetHabit(userID, habitID)
	if err != nil {
		if apperrors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, fmt.Errorf("habit %s: %w", habitID, apperrors.ErrNotFound)
		}
		return models.Habit{}, err
	}
	return habit, nil
}

// List returns the user's habits, optionally filtered by lane.
func (t *Tracker) List(userID string, lane constants.HabitLane) ([]models.Habit, error) {
	return t.store.GetAllHabits(userID, lane)
}

// Update changes the habit's definition fields. Lane and counters are
// untouchable from here.
func (t *Tracker) Update(userID, habitID string, in UpdateInput) (models.Habit, error) {
	habit, err := t.Get(userID, habitID)
	if err != nil {
		return models.Habit{}, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return models.Habit{}, fmt.Errorf("habit title must not be empty: %w", apperrors.ErrValidation)
		}
		habit.Title = *in.Title
	}
	if in.Description != nil {
		habit.Description = *in.Description
	}
	if in.TinyHabitOption != nil {
		habit.TinyHabitOption = *in.TinyHabitOption
	}
	habit.UpdatedAt = t.now()

	if err := t.store.UpdateHabit(habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

// Delete removes a habit.
func (t *Tracker) Delete(userID, habitID string) error {
	if err := t.store.DeleteHabit(userID, habitID); err != nil {
		if apperrors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("habit %s: %w", habitID, apperrors.ErrNotFound)
		}
		return err
	}
	return nil
}

// CheckIn records today's check-in for a habit. At most one check-in may
// exist per habit per calendar day; a completed day extends the streak, a
// missed day burns a grace day unless yesterday was also missed, in which
// case the streak resets.
func (t *Tracker) CheckIn(userID, habitID string, in CheckInInput) (models.DailyCheckIn, error) {
	habit, err := t.Get(userID, habitID)
	if err != nil {
		return models.DailyCheckIn{}, err
	}

	now := t.now()
	today := utils.DayString(now)

	if _, err := t.store.GetCheckIn(habitID, today); err == nil {
		return models.DailyCheckIn{}, fmt.Errorf("habit %s on %s: %w", habitID, today, apperrors.ErrDuplicateCheckIn)
	} else if !apperrors.Is(err, storage.ErrNotFound) {
		return models.DailyCheckIn{}, fmt.Errorf("failed to look up check-in: %w", err)
	}

	checkIn := models.DailyCheckIn{
		ID:            uuid.New().String(),
		HabitID:       habitID,
		CheckInDate:   today,
		Completed:     in.Completed,
		TinyHabitUsed: in.TinyHabitUsed,
		Note:          in.Note,
		CreatedAt:     now,
	}

	yesterday := utils.DayString(now.AddDate(0, 0, -1))

	if in.Completed {
		habit.TotalCompletions++
		habit.CurrentDay++
		if t.missedOn(habitID, yesterday) {
			// A recorded miss yesterday ends the old run even when it was
			// forgiven; today's completion starts a fresh streak.
			habit.CurrentStreak = 1
		} else {
			habit.CurrentStreak++
		}
		if habit.CurrentStreak > habit.LongestStreak {
			habit.LongestStreak = habit.CurrentStreak
		}
	} else {
		habit.MissedDays++
		if t.completedOn(habitID, yesterday) {
			// Isolated miss: the streak survives at the cost of a grace day.
			habit.GraceDaysUsed++
		} else {
			// Second consecutive miss resets the streak. Progress counters
			// are kept.
			habit.CurrentStreak = 0
		}
	}

	habit.LastCheckIn = &now
	habit.UpdatedAt = now

	// The check-in record goes in first so a failed write leaves the habit
	// counters untouched.
	if err := t.store.AddCheckIn(checkIn); err != nil {
		return models.DailyCheckIn{}, fmt.Errorf("failed to save check-in: %w", err)
	}
	if err := t.store.UpdateHabit(habit); err != nil {
		return models.DailyCheckIn{}, fmt.Errorf("failed to update habit: %w", err)
	}

	logger.Debug("Recorded check-in", "habit_id", habitID, "day", today, "completed", in.Completed)
	return checkIn, nil
}

// completedOn reports whether the habit has a completed check-in for the day.
func (t *Tracker) completedOn(habitID, day string) bool {
	checkIn, err := t.store.GetCheckIn(habitID, day)
	return err == nil && checkIn.Completed
}

// missedOn reports whether the habit has an explicit missed check-in for the
// day. A day with no check-in at all is not a miss.
func (t *Tracker) missedOn(habitID, day string) bool {
	checkIn, err := t.store.GetCheckIn(habitID, day)
	return err == nil && !checkIn.Completed
}

// Graduate moves a habit from becoming to i_am. Manual graduation needs 21
// tracked days; automatic graduation needs the habit's full required_days
// with at least 80% consistency. The transition is one-way and terminal.
func (t *Tracker) Graduate(userID, habitID string, manual bool, note string) (models.Habit, error) {
	habit, err := t.Get(userID, habitID)
	if err != nil {
		return models.Habit{}, err
	}

	if habit.Graduated() {
		return models.Habit{}, fmt.Errorf("habit %s: %w", habitID, apperrors.ErrAlreadyGraduated)
	}

	if manual {
		if habit.CurrentDay < constants.ManualGraduationMinDays {
			return models.Habit{}, fmt.Errorf("manual graduation requires %d days, have %d: %w",
				constants.ManualGraduationMinDays, habit.CurrentDay, apperrors.ErrInsufficientProgress)
		}
	} else {
		if habit.CurrentDay < habit.RequiredDays {
			return models.Habit{}, fmt.Errorf("automatic graduation requires %d days, have %d: %w",
				habit.RequiredDays, habit.CurrentDay, apperrors.ErrInsufficientProgress)
		}
		if habit.ConsistencyRate() < constants.AutoGraduationConsistency {
			return models.Habit{}, fmt.Errorf("automatic graduation requires %.0f%% consistency: %w",
				constants.AutoGraduationConsistency*100, apperrors.ErrInsufficientProgress)
		}
	}

	now := t.now()
	habit.Lane = constants.LaneIAm
	habit.GraduationDate = &now
	habit.UpdatedAt = now

	if err := t.store.UpdateHabit(habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}

	logger.Info("Graduated habit", "habit_id", habitID, "manual", manual, "note", note)
	return habit, nil
}

// Stats derives a read-only progress view for a habit: consistency rate,
// completion booleans for the trailing 7 and 30 days (today first), and the
// weekly completion average.
func (t *Tracker) Stats(userID, habitID string) (models.HabitStats, error) {
	habit, err := t.Get(userID, habitID)
	if err != nil {
		return models.HabitStats{}, err
	}

	checkIns, err := t.store.GetCheckInsForHabit(habitID)
	if err != nil {
		return models.HabitStats{}, fmt.Errorf("failed to load check-ins: %w", err)
	}

	completedOn := make(map[string]bool)
	for _, ci := range checkIns {
		if ci.Completed {
			completedOn[ci.CheckInDate] = true
		}
	}

	now := t.now()
	last30 := make([]bool, 30)
	for i := range last30 {
		last30[i] = completedOn[utils.DayString(now.AddDate(0, 0, -i))]
	}

	weeks := float64(habit.CurrentDay) / 7
	if weeks < 1 {
		weeks = 1
	}

	return models.HabitStats{
		HabitID:                   habitID,
		TotalDays:                 habit.CurrentDay,
		CompletedDays:             habit.TotalCompletions,
		ConsistencyRate:           habit.ConsistencyRate(),
		CurrentStreak:             habit.CurrentStreak,
		LongestStreak:             habit.LongestStreak,
		AverageCompletionsPerWeek: float64(habit.TotalCompletions) / weeks,
		Last7Days:                 last30[:7],
		Last30Days:                last30,
	}, nil
}
