package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/becominglabs/becoming/internal/constants"
	apperrors "github.com/becominglabs/becoming/internal/errors"
	"github.com/becominglabs/becoming/internal/logger"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

// insightKey is the identity of an insight for deduplication. Two insights
// with the same key hash describe the same observation, so only the first
// is persisted.
type insightKey struct {
	UserID      string
	InsightType string
	Title       string
	Qualities   []string
}

// GenerateInsights scans the user's identity data and persists any new
// observations it finds. Re-running against unchanged data produces
// nothing; each insight is fingerprinted and stored at most once.
func (l *Ledger) GenerateInsights(userID string) ([]models.Insight, error) {
	qualities, err := l.store.GetAllQualities(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load qualities: %w", err)
	}
	if len(qualities) == 0 {
		return nil, nil
	}

	now := l.now()
	var generated []models.Insight

	if insight, ok, err := l.momentumInsight(userID, qualities, now); err != nil {
		return nil, err
	} else if ok {
		generated = append(generated, insight)
	}

	if insight, ok := l.focusInsight(userID, qualities, now); ok {
		generated = append(generated, insight)
	}

	var saved []models.Insight
	for _, insight := range generated {
		exists, err := l.store.HasInsightFingerprint(userID, insight.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("failed to check insight fingerprint: %w", err)
		}
		if exists {
			continue
		}
		if err := l.store.AddInsight(insight); err != nil {
			return nil, fmt.Errorf("failed to save insight: %w", err)
		}
		saved = append(saved, insight)
	}

	if len(saved) > 0 {
		logger.Info("Generated insights", "count", len(saved))
	}
	return saved, nil
}

// momentumInsight fires when the trailing week produced enough evidence
// across all qualities to call the activity a pattern.
func (l *Ledger) momentumInsight(userID string, qualities []models.Quality, now time.Time) (models.Insight, bool, error) {
	since := now.AddDate(0, 0, -constants.InsightEvidenceWindowDays)

	total := 0
	var active []string
	for _, q := range qualities {
		count, err := l.store.CountEvidenceSince(q.ID, since)
		if err != nil {
			return models.Insight{}, false, fmt.Errorf("failed to count evidence: %w", err)
		}
		if count > 0 {
			active = append(active, q.QualityName)
		}
		total += count
	}

	if total < constants.InsightPatternMinEvidence {
		return models.Insight{}, false, nil
	}

	insight := models.Insight{
		ID:          uuid.New().String(),
		UserID:      userID,
		InsightType: "pattern",
		Title:       "Strong evidence momentum",
		Content: fmt.Sprintf("You recorded %d pieces of evidence in the last %d days. Your identity work has real momentum.",
			total, constants.InsightEvidenceWindowDays),
		RelatedQualities: active,
		ActionItems:      []string{"Keep the streak going", "Consider raising the difficulty of one challenge"},
		Priority:         constants.InsightPatternPriority,
		CreatedAt:        now,
	}
	insight.Fingerprint = fingerprint(insightKey{
		UserID:      userID,
		InsightType: insight.InsightType,
		Title:       insight.Title,
		Qualities:   active,
	})
	return insight, true, nil
}

// focusInsight points at the weakest quality when its strength is low
// enough to need deliberate attention.
func (l *Ledger) focusInsight(userID string, qualities []models.Quality, now time.Time) (models.Insight, bool) {
	weakest := qualities[0]
	for _, q := range qualities[1:] {
		if q.Strength < weakest.Strength {
			weakest = q
		}
	}
	if weakest.Strength >= constants.InsightWeakStrengthFloor {
		return models.Insight{}, false
	}

	insight := models.Insight{
		ID:          uuid.New().String(),
		UserID:      userID,
		InsightType: "recommendation",
		Title:       fmt.Sprintf("Focus on %s", weakest.QualityName),
		Content: fmt.Sprintf("%s is your weakest quality at %.0f strength. Small daily evidence compounds fastest here.",
			weakest.QualityName, weakest.Strength),
		RelatedQualities: []string{weakest.QualityName},
		ActionItems:      []string{fmt.Sprintf("Record one piece of evidence for %s today", weakest.QualityName), "Start a 7-day challenge targeting it"},
		Priority:         constants.InsightFocusPriority,
		CreatedAt:        now,
	}
	insight.Fingerprint = fingerprint(insightKey{
		UserID:      userID,
		InsightType: insight.InsightType,
		Title:       insight.Title,
		Qualities:   []string{weakest.QualityName},
	})
	return insight, true
}

// ListInsights returns the user's insights, newest first.
func (l *Ledger) ListInsights(userID string, unreadOnly bool) ([]models.Insight, error) {
	return l.store.GetAllInsights(userID, unreadOnly)
}

// MarkInsightRead flags one insight as read.
func (l *Ledger) MarkInsightRead(userID, insightID string) error {
	if err := l.store.MarkInsightRead(userID, insightID); err != nil {
		if apperrors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("insight %s: %w", insightID, apperrors.ErrNotFound)
		}
		return err
	}
	return nil
}

func fingerprint(key insightKey) uint64 {
	hash, err := hashstructure.Hash(key, hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing a plain struct of strings cannot fail in practice.
		logger.Warn("Failed to hash insight key", "error", err)
		return 0
	}
	return hash
}
