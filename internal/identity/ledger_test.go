package identity

import (
	"testing"
	"time"

	"github.com/becominglabs/becoming/internal/constants"
	apperrors "github.com/becominglabs/becoming/internal/errors"
	"github.com/becominglabs/becoming/internal/models"
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

type captureSink struct {
	milestones []models.Milestone
}

func (s *captureSink) Record(m models.Milestone) error {
	s.milestones = append(s.milestones, m)
	return nil
}

func setupLedger(t *testing.T) (*Ledger, *captureSink, *testClock) {
	t.Helper()
	store := memory.NewStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	sink := &captureSink{}
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewLedger(store, sink, clock.Now), sink, clock
}

func TestTrackQualityDuplicate(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	quality, err := ledger.TrackQuality("user1", "disciplined", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}
	if quality.Strength != 0 {
		t.Errorf("expected new quality at strength 0, got %f", quality.Strength)
	}

	if _, err := ledger.TrackQuality("user1", "disciplined", "character"); !apperrors.Is(err, apperrors.ErrDuplicateQuality) {
		t.Errorf("expected duplicate quality error, got %v", err)
	}

	// Same name under another user is fine.
	if _, err := ledger.TrackQuality("user2", "disciplined", "character"); err != nil {
		t.Errorf("expected quality to be unique per user, got %v", err)
	}
}

func TestRecordEvidenceMovesStrength(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	quality, err := ledger.TrackQuality("user1", "focused", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}

	evidence, err := ledger.RecordEvidence("user1", EvidenceInput{
		QualityID:    quality.ID,
		EvidenceType: "task_completion",
		Action:       "Finished deep work block",
		ImpactScore:  10,
	})
	if err != nil {
		t.Fatalf("failed to record evidence: %v", err)
	}
	if evidence.ImpactScore != 10 {
		t.Errorf("expected impact 10, got %f", evidence.ImpactScore)
	}

	got, err := ledger.GetQuality("user1", quality.ID)
	if err != nil {
		t.Fatalf("failed to get quality: %v", err)
	}
	if got.Strength != 10 {
		t.Errorf("expected strength 10, got %f", got.Strength)
	}
	if got.EvidenceCount != 1 {
		t.Errorf("expected evidence_count 1, got %d", got.EvidenceCount)
	}
	if got.LastEvidence == nil {
		t.Error("expected last_evidence to be set")
	}
}

func TestRecordEvidenceClampsStrength(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	quality, err := ledger.TrackQuality("user1", "resilient", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}

	strength := 95.0
	if _, err := ledger.UpdateQuality("user1", quality.ID, &strength, nil); err != nil {
		t.Fatalf("failed to seed strength: %v", err)
	}

	if _, err := ledger.RecordEvidence("user1", EvidenceInput{
		QualityID:    quality.ID,
		EvidenceType: "milestone",
		Action:       "Pushed through a setback",
		ImpactScore:  10,
	}); err != nil {
		t.Fatalf("failed to record evidence: %v", err)
	}

	got, _ := ledger.GetQuality("user1", quality.ID)
	if got.Strength != 100 {
		t.Errorf("expected strength clamped to 100, got %f", got.Strength)
	}
}

func TestRecordEvidenceDefaultsAndValidation(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	quality, err := ledger.TrackQuality("user1", "honest", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}

	evidence, err := ledger.RecordEvidence("user1", EvidenceInput{
		QualityID:    quality.ID,
		EvidenceType: "reflection",
		Action:       "Owned a mistake",
	})
	if err != nil {
		t.Fatalf("failed to record evidence: %v", err)
	}
	if evidence.ImpactScore != 1.0 {
		t.Errorf("expected default impact 1.0, got %f", evidence.ImpactScore)
	}

	if _, err := ledger.RecordEvidence("user1", EvidenceInput{
		QualityID:    quality.ID,
		EvidenceType: "reflection",
		Action:       "Bad impact",
		ImpactScore:  -2,
	}); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for negative impact, got %v", err)
	}

	if _, err := ledger.RecordEvidence("user1", EvidenceInput{QualityID: "missing"}); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found for unknown quality, got %v", err)
	}
}

func TestUpdateQualityClamps(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	quality, err := ledger.TrackQuality("user1", "patient", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}

	over := 150.0
	got, err := ledger.UpdateQuality("user1", quality.ID, &over, nil)
	if err != nil {
		t.Fatalf("failed to update quality: %v", err)
	}
	if got.Strength != 100 {
		t.Errorf("expected strength clamped to 100, got %f", got.Strength)
	}

	under := -5.0
	got, err = ledger.UpdateQuality("user1", quality.ID, &under, nil)
	if err != nil {
		t.Fatalf("failed to update quality: %v", err)
	}
	if got.Strength != 0 {
		t.Errorf("expected strength clamped to 0, got %f", got.Strength)
	}
}

func TestGrowthEdge(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	// No qualities yet: sentinel report, not an error.
	report, err := ledger.GrowthEdge("user1")
	if err != nil {
		t.Fatalf("growth edge failed on empty set: %v", err)
	}
	if report.Recommendation != constants.EdgeEmptyRecommendation {
		t.Errorf("expected empty-state recommendation, got %q", report.Recommendation)
	}

	strong, err := ledger.TrackQuality("user1", "disciplined", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}
	weak, err := ledger.TrackQuality("user1", "patient", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}

	strongVal, weakVal := 60.0, 15.0
	if _, err := ledger.UpdateQuality("user1", strong.ID, &strongVal, nil); err != nil {
		t.Fatalf("failed to seed strength: %v", err)
	}
	if _, err := ledger.UpdateQuality("user1", weak.ID, &weakVal, nil); err != nil {
		t.Fatalf("failed to seed strength: %v", err)
	}

	report, err = ledger.GrowthEdge("user1")
	if err != nil {
		t.Fatalf("growth edge failed: %v", err)
	}
	if report.QualityID != weak.ID {
		t.Errorf("expected weakest quality %s, got %s", weak.ID, report.QualityID)
	}
	if report.Tier != constants.EdgeTierAttention {
		t.Errorf("expected attention tier at strength 15, got %q", report.Tier)
	}
	if report.Recommendation != constants.EdgeAttentionRecommendation {
		t.Errorf("unexpected recommendation %q", report.Recommendation)
	}
	if len(report.SuggestedActions) == 0 {
		t.Error("expected suggested actions")
	}

	// Pure read: asking again changes nothing.
	again, err := ledger.GrowthEdge("user1")
	if err != nil {
		t.Fatalf("growth edge failed: %v", err)
	}
	if again.QualityID != report.QualityID || again.Strength != report.Strength {
		t.Error("expected growth edge to be idempotent")
	}
}

func TestGrowthEdgeTieBreak(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	first, err := ledger.TrackQuality("user1", "brave", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}
	if _, err := ledger.TrackQuality("user1", "curious", "character"); err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}

	report, err := ledger.GrowthEdge("user1")
	if err != nil {
		t.Fatalf("growth edge failed: %v", err)
	}
	if report.QualityID != first.ID {
		t.Errorf("expected earliest-created quality on tie, got %s", report.QualityID)
	}
}

func TestStartChallengeGuards(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	quality, err := ledger.TrackQuality("user1", "disciplined", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}

	input := ChallengeInput{
		QualityTargetID: quality.ID,
		Title:           "Morning discipline",
		DailyQuests:     []models.DailyQuest{{Day: 1, Title: "Wake at 6"}},
	}

	if _, err := ledger.StartChallenge("user1", ChallengeInput{QualityTargetID: quality.ID}); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for missing title, got %v", err)
	}

	challenge, err := ledger.StartChallenge("user1", input)
	if err != nil {
		t.Fatalf("failed to start challenge: %v", err)
	}
	if challenge.Status != constants.ChallengeActive {
		t.Errorf("expected active status, got %q", challenge.Status)
	}

	if _, err := ledger.StartChallenge("user1", input); !apperrors.Is(err, apperrors.ErrActiveChallengeExists) {
		t.Errorf("expected active challenge conflict, got %v", err)
	}
}

func TestCompleteDayXPAndCompletion(t *testing.T) {
	ledger, sink, _ := setupLedger(t)

	quality, err := ledger.TrackQuality("user1", "disciplined", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}
	challenge, err := ledger.StartChallenge("user1", ChallengeInput{
		QualityTargetID: quality.ID,
		Title:           "7 days of focus",
		DailyQuests:     []models.DailyQuest{{Day: 1, Title: "Plan the week"}},
	})
	if err != nil {
		t.Fatalf("failed to start challenge: %v", err)
	}

	// First day: floor(10 * (1 + 0.1*1)) = 11.
	_, xp, err := ledger.CompleteDay("user1", challenge.ID, 1)
	if err != nil {
		t.Fatalf("failed to complete day 1: %v", err)
	}
	if xp != 11 {
		t.Errorf("expected 11 XP for day 1, got %d", xp)
	}

	if _, _, err := ledger.CompleteDay("user1", challenge.ID, 1); !apperrors.Is(err, apperrors.ErrDuplicateDay) {
		t.Errorf("expected duplicate day error, got %v", err)
	}
	if _, _, err := ledger.CompleteDay("user1", challenge.ID, 8); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for day 8, got %v", err)
	}

	var final models.Challenge
	for day := 2; day <= 7; day++ {
		final, _, err = ledger.CompleteDay("user1", challenge.ID, day)
		if err != nil {
			t.Fatalf("failed to complete day %d: %v", day, err)
		}
	}

	if final.Status != constants.ChallengeCompleted {
		t.Errorf("expected completed status, got %q", final.Status)
	}
	if final.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
	// Per-day XP is 11+12+13+14+15+16+17 = 98, plus the 100 completion bonus.
	if final.XPEarned != 198 {
		t.Errorf("expected 198 total XP, got %d", final.XPEarned)
	}
	if len(sink.milestones) != 1 {
		t.Fatalf("expected exactly 1 milestone, got %d", len(sink.milestones))
	}
	if sink.milestones[0].MilestoneType != "challenge_complete" {
		t.Errorf("unexpected milestone type %q", sink.milestones[0].MilestoneType)
	}

	// Completion is terminal.
	if _, _, err := ledger.CompleteDay("user1", challenge.ID, 1); !apperrors.Is(err, apperrors.ErrNotActive) {
		t.Errorf("expected not active error after completion, got %v", err)
	}
}

func TestAutoEvidenceForHabit(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	evidence, err := ledger.AutoEvidenceForHabit("user1", "habit-1")
	if err != nil {
		t.Fatalf("failed to record auto evidence: %v", err)
	}
	if evidence.ImpactScore != constants.AutoEvidenceImpact {
		t.Errorf("expected impact %f, got %f", constants.AutoEvidenceImpact, evidence.ImpactScore)
	}
	if evidence.HabitID != "habit-1" {
		t.Errorf("expected habit back-reference, got %q", evidence.HabitID)
	}

	// Second streak credit reuses the same quality.
	if _, err := ledger.AutoEvidenceForHabit("user1", "habit-1"); err != nil {
		t.Fatalf("failed to record second auto evidence: %v", err)
	}

	qualities, err := ledger.ListQualities("user1")
	if err != nil {
		t.Fatalf("failed to list qualities: %v", err)
	}
	if len(qualities) != 1 {
		t.Fatalf("expected a single shared quality, got %d", len(qualities))
	}
	if qualities[0].QualityName != constants.AutoEvidenceQuality {
		t.Errorf("expected quality %q, got %q", constants.AutoEvidenceQuality, qualities[0].QualityName)
	}
	if qualities[0].EvidenceCount != 2 {
		t.Errorf("expected 2 evidence records, got %d", qualities[0].EvidenceCount)
	}
	if qualities[0].Strength != 2.4 {
		t.Errorf("expected strength 2.4, got %f", qualities[0].Strength)
	}
}

func TestListEvidenceNewestFirst(t *testing.T) {
	ledger, _, clock := setupLedger(t)

	quality, err := ledger.TrackQuality("user1", "focused", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := ledger.RecordEvidence("user1", EvidenceInput{
			QualityID:    quality.ID,
			EvidenceType: "task_completion",
			Action:       "Did the work",
		}); err != nil {
			t.Fatalf("failed to record evidence %d: %v", i, err)
		}
		clock.AdvanceDays(1)
	}

	all, err := ledger.ListEvidence("user1", quality.ID, 0)
	if err != nil {
		t.Fatalf("failed to list evidence: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 evidence records, got %d", len(all))
	}
	if !all[0].CreatedAt.After(all[2].CreatedAt) {
		t.Error("expected newest evidence first")
	}

	limited, err := ledger.ListEvidence("user1", quality.ID, 2)
	if err != nil {
		t.Fatalf("failed to list limited evidence: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected limit of 2, got %d", len(limited))
	}
}
