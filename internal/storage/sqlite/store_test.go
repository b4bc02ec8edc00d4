package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/becominglabs/becoming/internal/constants"
	apperrors "github.com/becominglabs/becoming/internal/errors"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "becoming.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func testHabit(userID string) models.Habit {
	now := time.Now().UTC().Truncate(time.Second)
	return models.Habit{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  "Morning meditation",
		Frequency: models.Frequency{
			Type:         constants.FrequencyCustom,
			TargetDays:   5,
			SpecificDays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		},
		Lane:         constants.LaneBecoming,
		RequiredDays: 50,
		StartDate:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestHabitCRUD(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit("user1")
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	retrieved, err := store.GetHabit("user1", habit.ID)
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	if retrieved.Title != habit.Title {
		t.Errorf("expected title %q, got %q", habit.Title, retrieved.Title)
	}
	if retrieved.Frequency.Type != constants.FrequencyCustom || retrieved.Frequency.TargetDays != 5 {
		t.Errorf("frequency did not round-trip: %+v", retrieved.Frequency)
	}
	if len(retrieved.Frequency.SpecificDays) != 3 || retrieved.Frequency.SpecificDays[0] != time.Monday {
		t.Errorf("specific days did not round-trip: %v", retrieved.Frequency.SpecificDays)
	}
	if retrieved.GraduationDate != nil {
		t.Error("expected nil graduation date")
	}

	byTitle, err := store.GetHabitByTitle("user1", habit.Title)
	if err != nil {
		t.Fatalf("failed to get habit by title: %v", err)
	}
	if byTitle.ID != habit.ID {
		t.Errorf("expected ID %q, got %q", habit.ID, byTitle.ID)
	}

	// Another user cannot see it.
	if _, err := store.GetHabit("user2", habit.ID); !apperrors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found for other user, got %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	habit.Lane = constants.LaneIAm
	habit.GraduationDate = &now
	habit.CurrentStreak = 5
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("failed to update habit: %v", err)
	}

	updated, err := store.GetHabit("user1", habit.ID)
	if err != nil {
		t.Fatalf("failed to get updated habit: %v", err)
	}
	if updated.Lane != constants.LaneIAm || updated.GraduationDate == nil {
		t.Errorf("graduation did not persist: lane=%q date=%v", updated.Lane, updated.GraduationDate)
	}
	if updated.CurrentStreak != 5 {
		t.Errorf("expected streak 5, got %d", updated.CurrentStreak)
	}

	if err := store.DeleteHabit("user1", habit.ID); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}
	if _, err := store.GetHabit("user1", habit.ID); !apperrors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := store.DeleteHabit("user1", habit.ID); !apperrors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestGetAllHabitsByLane(t *testing.T) {
	store := setupTestStore(t)

	active := testHabit("user1")
	active.Title = "Stretch"
	if err := store.AddHabit(active); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	graduated := testHabit("user1")
	graduated.Title = "Walk"
	graduated.Lane = constants.LaneIAm
	graduated.GraduationDate = &now
	if err := store.AddHabit(graduated); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	all, err := store.GetAllHabits("user1", "")
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(all))
	}

	iam, err := store.GetAllHabits("user1", constants.LaneIAm)
	if err != nil {
		t.Fatalf("failed to list i_am habits: %v", err)
	}
	if len(iam) != 1 || iam[0].ID != graduated.ID {
		t.Errorf("expected only the graduated habit, got %d", len(iam))
	}
}

func TestCheckIns(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit("user1")
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	checkIn := models.DailyCheckIn{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		CheckInDate: "2025-03-01",
		Completed:   true,
		Note:        "felt good",
		CreatedAt:   now,
	}
	if err := store.AddCheckIn(checkIn); err != nil {
		t.Fatalf("failed to add check-in: %v", err)
	}

	got, err := store.GetCheckIn(habit.ID, "2025-03-01")
	if err != nil {
		t.Fatalf("failed to get check-in: %v", err)
	}
	if !got.Completed || got.Note != "felt good" {
		t.Errorf("check-in did not round-trip: %+v", got)
	}

	if _, err := store.GetCheckIn(habit.ID, "2025-03-02"); !apperrors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found for empty day, got %v", err)
	}

	// One check-in per (habit, day) is enforced by the schema.
	dup := checkIn
	dup.ID = uuid.New().String()
	if err := store.AddCheckIn(dup); err == nil {
		t.Error("expected unique constraint violation for duplicate day")
	}

	forHabit, err := store.GetCheckInsForHabit(habit.ID)
	if err != nil {
		t.Fatalf("failed to list check-ins: %v", err)
	}
	if len(forHabit) != 1 {
		t.Errorf("expected 1 check-in, got %d", len(forHabit))
	}

	forDay, err := store.GetCheckInsForDay("user1", "2025-03-01")
	if err != nil {
		t.Fatalf("failed to list check-ins for day: %v", err)
	}
	if len(forDay) != 1 {
		t.Errorf("expected 1 check-in for day, got %d", len(forDay))
	}
}

func TestQualitiesAndEvidence(t *testing.T) {
	store := setupTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	quality := models.Quality{
		ID:          uuid.New().String(),
		UserID:      "user1",
		QualityName: "disciplined",
		Category:    "character",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.AddQuality(quality); err != nil {
		t.Fatalf("failed to add quality: %v", err)
	}

	byName, err := store.GetQualityByName("user1", "disciplined")
	if err != nil {
		t.Fatalf("failed to get quality by name: %v", err)
	}
	if byName.ID != quality.ID {
		t.Errorf("expected ID %q, got %q", quality.ID, byName.ID)
	}

	for i := 0; i < 3; i++ {
		evidence := models.Evidence{
			ID:           uuid.New().String(),
			UserID:       "user1",
			QualityID:    quality.ID,
			EvidenceType: "task_completion",
			Action:       "Did the work",
			ImpactScore:  1,
			CreatedAt:    now.Add(time.Duration(i) * time.Hour),
		}
		if err := store.AddEvidence(evidence); err != nil {
			t.Fatalf("failed to add evidence %d: %v", i, err)
		}
	}

	records, err := store.GetEvidence("user1", quality.ID, 0)
	if err != nil {
		t.Fatalf("failed to get evidence: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 evidence records, got %d", len(records))
	}
	if !records[0].CreatedAt.After(records[2].CreatedAt) {
		t.Error("expected newest evidence first")
	}

	limited, err := store.GetEvidence("user1", quality.ID, 2)
	if err != nil {
		t.Fatalf("failed to get limited evidence: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 evidence records, got %d", len(limited))
	}

	count, err := store.CountEvidenceSince(quality.ID, now.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("failed to count evidence: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 evidence record since cutoff, got %d", count)
	}
}

func TestChallengesRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	quality := models.Quality{
		ID:          uuid.New().String(),
		UserID:      "user1",
		QualityName: "focused",
		Category:    "character",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.AddQuality(quality); err != nil {
		t.Fatalf("failed to add quality: %v", err)
	}

	challenge := models.Challenge{
		ID:              uuid.New().String(),
		UserID:          "user1",
		QualityTargetID: quality.ID,
		Title:           "7 days of focus",
		Difficulty:      "beginner",
		DailyQuests: []models.DailyQuest{
			{Day: 1, Title: "Plan the week"},
			{Day: 2, Title: "One deep work block"},
		},
		WisdomQuotes:  []models.WisdomQuote{{Quote: "We are what we repeatedly do.", Author: "Will Durant"}},
		Status:        constants.ChallengeActive,
		CompletedDays: []int{},
		CreatedAt:     now,
	}
	if err := store.AddChallenge(challenge); err != nil {
		t.Fatalf("failed to add challenge: %v", err)
	}

	active, err := store.GetActiveChallengeForQuality("user1", quality.ID)
	if err != nil {
		t.Fatalf("failed to get active challenge: %v", err)
	}
	if active.ID != challenge.ID {
		t.Errorf("expected challenge %q, got %q", challenge.ID, active.ID)
	}
	if len(active.DailyQuests) != 2 || active.DailyQuests[1].Title != "One deep work block" {
		t.Errorf("daily quests did not round-trip: %+v", active.DailyQuests)
	}

	challenge.CompletedDays = []int{1, 2, 3}
	challenge.Status = constants.ChallengeCompleted
	challenge.XPEarned = 50
	challenge.CompletedAt = &now
	if err := store.UpdateChallenge(challenge); err != nil {
		t.Fatalf("failed to update challenge: %v", err)
	}

	if _, err := store.GetActiveChallengeForQuality("user1", quality.ID); !apperrors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected no active challenge after completion, got %v", err)
	}

	completed, err := store.GetAllChallenges("user1", constants.ChallengeCompleted)
	if err != nil {
		t.Fatalf("failed to list completed challenges: %v", err)
	}
	if len(completed) != 1 || len(completed[0].CompletedDays) != 3 {
		t.Errorf("completed challenge did not round-trip: %+v", completed)
	}
}

func TestInsightsFingerprint(t *testing.T) {
	store := setupTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	insight := models.Insight{
		ID:          uuid.New().String(),
		UserID:      "user1",
		InsightType: "pattern",
		Title:       "Strong evidence momentum",
		Content:     "Lots of activity this week.",
		Priority:    8,
		// Larger than max int64 to exercise the TEXT fingerprint column.
		Fingerprint: 18446744073709551000,
		CreatedAt:   now,
	}
	if err := store.AddInsight(insight); err != nil {
		t.Fatalf("failed to add insight: %v", err)
	}

	exists, err := store.HasInsightFingerprint("user1", insight.Fingerprint)
	if err != nil {
		t.Fatalf("failed to check fingerprint: %v", err)
	}
	if !exists {
		t.Error("expected fingerprint to exist")
	}

	exists, err = store.HasInsightFingerprint("user1", 12345)
	if err != nil {
		t.Fatalf("failed to check fingerprint: %v", err)
	}
	if exists {
		t.Error("did not expect unknown fingerprint to exist")
	}

	unread, err := store.GetAllInsights("user1", true)
	if err != nil {
		t.Fatalf("failed to list unread insights: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread insight, got %d", len(unread))
	}
	if unread[0].Fingerprint != insight.Fingerprint {
		t.Errorf("fingerprint did not round-trip: %d", unread[0].Fingerprint)
	}

	if err := store.MarkInsightRead("user1", insight.ID); err != nil {
		t.Fatalf("failed to mark read: %v", err)
	}
	unread, err = store.GetAllInsights("user1", true)
	if err != nil {
		t.Fatalf("failed to list unread insights: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("expected no unread insights, got %d", len(unread))
	}

	if err := store.MarkInsightRead("user1", "missing"); !apperrors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found for unknown insight, got %v", err)
	}
}

func TestSettingsDefaultsSeeded(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.MorningTime != constants.DefaultMorningTime {
		t.Errorf("expected default morning time %q, got %q", constants.DefaultMorningTime, settings.MorningTime)
	}
	if !settings.RemindersEnabled {
		t.Error("expected reminders enabled by default")
	}

	settings.EveningTime = "21:30"
	settings.MorningRitual = false
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	reloaded, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to reload settings: %v", err)
	}
	if reloaded.EveningTime != "21:30" || reloaded.MorningRitual {
		t.Errorf("settings did not round-trip: %+v", reloaded)
	}
}

func TestStatementsRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	statement := models.Statement{
		ID:              uuid.New().String(),
		UserID:          "user1",
		Text:            "I am a writer",
		Order:           0,
		Active:          true,
		Strength:        40,
		RelatedHabitIDs: []string{"habit-1", "habit-2"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := store.AddStatement(statement); err != nil {
		t.Fatalf("failed to add statement: %v", err)
	}

	second := models.Statement{
		ID:        uuid.New().String(),
		UserID:    "user1",
		Text:      "I am a runner",
		Order:     1,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.AddStatement(second); err != nil {
		t.Fatalf("failed to add statement: %v", err)
	}

	got, err := store.GetStatement("user1", statement.ID)
	if err != nil {
		t.Fatalf("failed to get statement: %v", err)
	}
	if got.Text != statement.Text || got.Strength != 40 || !got.Active {
		t.Errorf("statement did not round-trip: %+v", got)
	}
	if len(got.RelatedHabitIDs) != 2 || got.RelatedHabitIDs[0] != "habit-1" {
		t.Errorf("related habit IDs did not round-trip: %v", got.RelatedHabitIDs)
	}

	all, err := store.GetAllStatements("user1")
	if err != nil {
		t.Fatalf("failed to list statements: %v", err)
	}
	if len(all) != 2 || all[0].ID != statement.ID || all[1].ID != second.ID {
		t.Errorf("expected 2 statements in display order, got %d", len(all))
	}

	if _, err := store.GetStatement("user2", statement.ID); err == nil {
		t.Error("expected not found for another user's statement")
	}

	if err := store.DeleteStatement("user1", statement.ID); err != nil {
		t.Fatalf("failed to delete statement: %v", err)
	}
	if err := store.DeleteStatement("user1", statement.ID); err == nil {
		t.Error("expected not found deleting twice")
	}
}
