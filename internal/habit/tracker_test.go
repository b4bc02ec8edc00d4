package habit

import (
	"errors"
	"testing"
	"time"

	"github.com/becominglabs/becoming/internal/constants"
	apperrors "github.com/becominglabs/becoming/internal/errors"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
	"github.com/becominglabs/becoming/internal/storage/memory"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) AdvanceDays(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

func setupTracker(t *testing.T) (*Tracker, *memory.Store, *testClock) {
	t.Helper()
	store := memory.NewStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewTracker(store, clock.Now), store, clock
}

func daily() models.Frequency {
	return models.Frequency{Type: constants.FrequencyDaily}
}

func TestCreateRequiredDays(t *testing.T) {
	tracker, _, _ := setupTracker(t)

	tests := []struct {
		name string
		freq models.Frequency
		want int
	}{
		{"daily", models.Frequency{Type: constants.FrequencyDaily}, 40},
		{"weekly", models.Frequency{Type: constants.FrequencyWeekly}, 90},
		{"custom 5 days", models.Frequency{Type: constants.FrequencyCustom, TargetDays: 5}, 50},
		{"custom 7 days", models.Frequency{Type: constants.FrequencyCustom, TargetDays: 7}, 50},
		{"custom 3 days", models.Frequency{Type: constants.FrequencyCustom, TargetDays: 3}, 60},
		{"custom 4 days", models.Frequency{Type: constants.FrequencyCustom, TargetDays: 4}, 60},
		{"custom 2 days", models.Frequency{Type: constants.FrequencyCustom, TargetDays: 2}, 90},
		{"custom 1 day", models.Frequency{Type: constants.FrequencyCustom, TargetDays: 1}, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habit, err := tracker.Create("user1", CreateInput{Title: "Read " + tt.name, Frequency: tt.freq})
			if err != nil {
				t.Fatalf("failed to create habit: %v", err)
			}
			if habit.RequiredDays != tt.want {
				t.Errorf("expected required_days %d, got %d", tt.want, habit.RequiredDays)
			}
			if habit.Lane != constants.LaneBecoming {
				t.Errorf("expected lane %q, got %q", constants.LaneBecoming, habit.Lane)
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	tracker, _, _ := setupTracker(t)

	if _, err := tracker.Create("user1", CreateInput{Frequency: daily()}); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for missing title, got %v", err)
	}

	badFreq := models.Frequency{Type: constants.FrequencyCustom, TargetDays: 0}
	if _, err := tracker.Create("user1", CreateInput{Title: "Stretch", Frequency: badFreq}); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for custom frequency without target_days, got %v", err)
	}
}

func TestCheckInDuplicateRejected(t *testing.T) {
	tracker, _, _ := setupTracker(t)

	habit, err := tracker.Create("user1", CreateInput{Title: "Meditate", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: true}); err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: false}); !apperrors.Is(err, apperrors.ErrDuplicateCheckIn) {
		t.Errorf("expected duplicate check-in error, got %v", err)
	}
}

func TestCheckInStreakGrowth(t *testing.T) {
	tracker, _, clock := setupTracker(t)

	habit, err := tracker.Create("user1", CreateInput{Title: "Run", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: true}); err != nil {
			t.Fatalf("check-in %d failed: %v", i+1, err)
		}
		clock.AdvanceDays(1)
	}

	got, err := tracker.Get("user1", habit.ID)
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	if got.CurrentStreak != 3 {
		t.Errorf("expected current_streak 3, got %d", got.CurrentStreak)
	}
	if got.LongestStreak != 3 {
		t.Errorf("expected longest_streak 3, got %d", got.LongestStreak)
	}
	if got.TotalCompletions != 3 || got.CurrentDay != 3 {
		t.Errorf("expected 3 completions over 3 days, got %d over %d", got.TotalCompletions, got.CurrentDay)
	}
}

func TestGraceRuleIsolatedMiss(t *testing.T) {
	tracker, _, clock := setupTracker(t)

	habit, err := tracker.Create("user1", CreateInput{Title: "Journal", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// Day 1 completed, day 2 missed, day 3 completed.
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: true}); err != nil {
		t.Fatalf("day 1 check-in failed: %v", err)
	}
	clock.AdvanceDays(1)
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: false}); err != nil {
		t.Fatalf("day 2 check-in failed: %v", err)
	}

	afterMiss, _ := tracker.Get("user1", habit.ID)
	if afterMiss.CurrentStreak != 1 {
		t.Errorf("expected streak preserved at 1 after forgiven miss, got %d", afterMiss.CurrentStreak)
	}
	if afterMiss.GraceDaysUsed != 1 {
		t.Errorf("expected 1 grace day used, got %d", afterMiss.GraceDaysUsed)
	}

	clock.AdvanceDays(1)
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: true}); err != nil {
		t.Fatalf("day 3 check-in failed: %v", err)
	}

	got, err := tracker.Get("user1", habit.ID)
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	if got.CurrentStreak != 1 {
		t.Errorf("expected streak 1 after restart, got %d", got.CurrentStreak)
	}
	if got.MissedDays != 1 {
		t.Errorf("expected 1 missed day, got %d", got.MissedDays)
	}
	if got.CurrentStreak > got.LongestStreak {
		t.Errorf("streak invariant violated: current %d > longest %d", got.CurrentStreak, got.LongestStreak)
	}
}

func TestTwoConsecutiveMissesResetStreak(t *testing.T) {
	tracker, _, clock := setupTracker(t)

	habit, err := tracker.Create("user1", CreateInput{Title: "Sleep early", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: true}); err != nil {
		t.Fatalf("day 1 check-in failed: %v", err)
	}
	clock.AdvanceDays(1)
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: false}); err != nil {
		t.Fatalf("day 2 check-in failed: %v", err)
	}
	clock.AdvanceDays(1)
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: false}); err != nil {
		t.Fatalf("day 3 check-in failed: %v", err)
	}

	got, _ := tracker.Get("user1", habit.ID)
	if got.CurrentStreak != 0 {
		t.Errorf("expected streak reset to 0, got %d", got.CurrentStreak)
	}
	if got.MissedDays != 2 {
		t.Errorf("expected 2 missed days, got %d", got.MissedDays)
	}
	if got.GraceDaysUsed != 1 {
		t.Errorf("expected 1 grace day used, got %d", got.GraceDaysUsed)
	}
	if got.TotalCompletions != 1 {
		t.Errorf("expected progress kept at 1 completion, got %d", got.TotalCompletions)
	}
}

func TestGraduateManual(t *testing.T) {
	tracker, store, _ := setupTracker(t)

	habit, err := tracker.Create("user1", CreateInput{Title: "Write", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	if _, err := tracker.Graduate("user1", habit.ID, true, ""); !apperrors.Is(err, apperrors.ErrInsufficientProgress) {
		t.Errorf("expected insufficient progress at day 0, got %v", err)
	}

	habit.CurrentDay = 21
	habit.TotalCompletions = 21
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("failed to seed habit state: %v", err)
	}

	graduated, err := tracker.Graduate("user1", habit.ID, true, "ready")
	if err != nil {
		t.Fatalf("manual graduation failed: %v", err)
	}
	if graduated.Lane != constants.LaneIAm {
		t.Errorf("expected lane %q, got %q", constants.LaneIAm, graduated.Lane)
	}
	if graduated.GraduationDate == nil {
		t.Error("expected graduation_date to be set")
	}

	// Graduation is terminal.
	if _, err := tracker.Graduate("user1", habit.ID, true, ""); !apperrors.Is(err, apperrors.ErrAlreadyGraduated) {
		t.Errorf("expected already graduated error, got %v", err)
	}
}

func TestGraduateAuto(t *testing.T) {
	tracker, store, _ := setupTracker(t)

	habit, err := tracker.Create("user1", CreateInput{Title: "Read", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// Below required_days: rejected even at perfect consistency.
	habit.CurrentDay = 30
	habit.TotalCompletions = 30
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("failed to seed habit state: %v", err)
	}
	if _, err := tracker.Graduate("user1", habit.ID, false, ""); !apperrors.Is(err, apperrors.ErrInsufficientProgress) {
		t.Errorf("expected insufficient progress below required days, got %v", err)
	}

	// Enough days but consistency under the 80% floor.
	habit.CurrentDay = 40
	habit.TotalCompletions = 30
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("failed to seed habit state: %v", err)
	}
	if _, err := tracker.Graduate("user1", habit.ID, false, ""); !apperrors.Is(err, apperrors.ErrInsufficientProgress) {
		t.Errorf("expected insufficient progress below consistency floor, got %v", err)
	}

	habit.TotalCompletions = 36
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("failed to seed habit state: %v", err)
	}
	graduated, err := tracker.Graduate("user1", habit.ID, false, "")
	if err != nil {
		t.Fatalf("auto graduation failed: %v", err)
	}
	if !graduated.Graduated() {
		t.Error("expected habit to be graduated")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	tracker, _, _ := setupTracker(t)

	habit, err := tracker.Create("user1", CreateInput{Title: "Cook", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	newTitle := "Cook dinner"
	updated, err := tracker.Update("user1", habit.ID, UpdateInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("failed to update habit: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("expected title %q, got %q", newTitle, updated.Title)
	}

	if err := tracker.Delete("user1", habit.ID); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}
	if _, err := tracker.Get("user1", habit.ID); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestListByLane(t *testing.T) {
	tracker, store, _ := setupTracker(t)

	becoming, err := tracker.Create("user1", CreateInput{Title: "Draw", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	graduatedHabit, err := tracker.Create("user1", CreateInput{Title: "Walk", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	graduatedHabit.CurrentDay = 21
	graduatedHabit.TotalCompletions = 21
	if err := store.UpdateHabit(graduatedHabit); err != nil {
		t.Fatalf("failed to seed habit state: %v", err)
	}
	if _, err := tracker.Graduate("user1", graduatedHabit.ID, true, ""); err != nil {
		t.Fatalf("failed to graduate habit: %v", err)
	}

	all, err := tracker.List("user1", "")
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(all))
	}

	iam, err := tracker.List("user1", constants.LaneIAm)
	if err != nil {
		t.Fatalf("failed to list i_am habits: %v", err)
	}
	if len(iam) != 1 || iam[0].ID != graduatedHabit.ID {
		t.Errorf("expected only the graduated habit in i_am lane")
	}

	lane, err := tracker.List("user1", constants.LaneBecoming)
	if err != nil {
		t.Fatalf("failed to list becoming habits: %v", err)
	}
	if len(lane) != 1 || lane[0].ID != becoming.ID {
		t.Errorf("expected only the active habit in becoming lane")
	}
}

func TestStats(t *testing.T) {
	tracker, _, clock := setupTracker(t)

	habit, err := tracker.Create("user1", CreateInput{Title: "Stretch", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// Completed, missed, completed over three days; stats read on day 3.
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: true}); err != nil {
		t.Fatalf("day 1 check-in failed: %v", err)
	}
	clock.AdvanceDays(1)
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: false}); err != nil {
		t.Fatalf("day 2 check-in failed: %v", err)
	}
	clock.AdvanceDays(1)
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: true}); err != nil {
		t.Fatalf("day 3 check-in failed: %v", err)
	}

	stats, err := tracker.Stats("user1", habit.ID)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.CompletedDays != 2 {
		t.Errorf("expected 2 completed days, got %d", stats.CompletedDays)
	}
	if len(stats.Last7Days) != 7 || len(stats.Last30Days) != 30 {
		t.Fatalf("expected 7/30 day windows, got %d/%d", len(stats.Last7Days), len(stats.Last30Days))
	}
	// Index 0 is today (completed), index 1 yesterday (missed), index 2 two
	// days ago (completed).
	if !stats.Last7Days[0] || stats.Last7Days[1] || !stats.Last7Days[2] {
		t.Errorf("unexpected last_7_days pattern: %v", stats.Last7Days)
	}
	if stats.CurrentStreak != 1 {
		t.Errorf("expected current streak 1, got %d", stats.CurrentStreak)
	}
}

// failingCheckInStore rejects check-in writes so persistence ordering can be
// observed from the outside.
type failingCheckInStore struct {
	storage.Provider
}

func (s *failingCheckInStore) AddCheckIn(models.DailyCheckIn) error {
	return errors.New("disk full")
}

func TestCheckInFailedWriteLeavesHabitUnchanged(t *testing.T) {
	tracker, store, clock := setupTracker(t)

	habit, err := tracker.Create("user1", CreateInput{Title: "Stretch", Frequency: daily()})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	if _, err := tracker.CheckIn("user1", habit.ID, CheckInInput{Completed: true}); err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}
	clock.AdvanceDays(1)

	before, err := tracker.Get("user1", habit.ID)
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}

	broken := NewTracker(&failingCheckInStore{Provider: store}, clock.Now)
	if _, err := broken.CheckIn("user1", habit.ID, CheckInInput{Completed: true}); err == nil {
		t.Fatal("expected check-in to fail")
	}

	after, err := tracker.Get("user1", habit.ID)
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	if after.CurrentStreak != before.CurrentStreak || after.TotalCompletions != before.TotalCompletions ||
		after.CurrentDay != before.CurrentDay {
		t.Errorf("failed write mutated habit: before streak=%d completions=%d day=%d, after streak=%d completions=%d day=%d",
			before.CurrentStreak, before.TotalCompletions, before.CurrentDay,
			after.CurrentStreak, after.TotalCompletions, after.CurrentDay)
	}
}
