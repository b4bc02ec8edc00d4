package identity

import (
	"testing"

	"github.com/becominglabs/becoming/internal/constants"
	apperrors "github.com/becominglabs/becoming/internal/errors"
)

func TestGenerateInsights(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	// No data: nothing to say.
	insights, err := ledger.GenerateInsights("user1")
	if err != nil {
		t.Fatalf("generate failed on empty data: %v", err)
	}
	if len(insights) != 0 {
		t.Errorf("expected no insights, got %d", len(insights))
	}

	quality, err := ledger.TrackQuality("user1", "disciplined", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := ledger.RecordEvidence("user1", EvidenceInput{
			QualityID:    quality.ID,
			EvidenceType: "task_completion",
			Action:       "Showed up",
		}); err != nil {
			t.Fatalf("failed to record evidence %d: %v", i, err)
		}
	}

	// 10 evidence in the trailing week plus a weak quality (strength 10):
	// both heuristics fire.
	insights, err = ledger.GenerateInsights("user1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(insights))
	}

	byType := make(map[string]int)
	for _, in := range insights {
		byType[in.InsightType] = in.Priority
		if in.Fingerprint == 0 {
			t.Error("expected a non-zero fingerprint")
		}
	}
	if byType["pattern"] != constants.InsightPatternPriority {
		t.Errorf("expected pattern insight at priority %d, got %d", constants.InsightPatternPriority, byType["pattern"])
	}
	if byType["recommendation"] != constants.InsightFocusPriority {
		t.Errorf("expected recommendation insight at priority %d, got %d", constants.InsightFocusPriority, byType["recommendation"])
	}

	// Unchanged data: the same observations are not written twice.
	again, err := ledger.GenerateInsights("user1")
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected deduplication to suppress repeats, got %d new insights", len(again))
	}
}

func TestMarkInsightRead(t *testing.T) {
	ledger, _, _ := setupLedger(t)

	quality, err := ledger.TrackQuality("user1", "patient", "character")
	if err != nil {
		t.Fatalf("failed to track quality: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := ledger.RecordEvidence("user1", EvidenceInput{
			QualityID:    quality.ID,
			EvidenceType: "reflection",
			Action:       "Paused before reacting",
		}); err != nil {
			t.Fatalf("failed to record evidence %d: %v", i, err)
		}
	}
	generated, err := ledger.GenerateInsights("user1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(generated) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(generated))
	}

	if err := ledger.MarkInsightRead("user1", generated[0].ID); err != nil {
		t.Fatalf("failed to mark insight read: %v", err)
	}

	unread, err := ledger.ListInsights("user1", true)
	if err != nil {
		t.Fatalf("failed to list unread insights: %v", err)
	}
	if len(unread) != 1 {
		t.Errorf("expected 1 unread insight, got %d", len(unread))
	}

	all, err := ledger.ListInsights("user1", false)
	if err != nil {
		t.Fatalf("failed to list insights: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 insights total, got %d", len(all))
	}

	if err := ledger.MarkInsightRead("user1", "missing"); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found for unknown insight, got %v", err)
	}
}
