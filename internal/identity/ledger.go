package identity

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/becominglabs/becoming/internal/constants"
	apperrors "github.com/becominglabs/becoming/internal/errors"
	"github.com/becominglabs/becoming/internal/logger"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
	"github.com/becominglabs/becoming/internal/validation"
)

// MilestoneSink receives milestone events emitted by the ledger. The ledger
// never writes the milestone collection itself; the caller decides where
// milestones go.
type MilestoneSink interface {
	Record(models.Milestone) error
}

// Ledger owns identity qualities, their evidence trail, and time-boxed
// challenges. Evidence is append-only and every record moves its parent
// quality's strength.
type Ledger struct {
	store      storage.Provider
	milestones MilestoneSink
	now        func() time.Time
}

// NewLedger creates a Ledger. A nil clock defaults to time.Now.
func NewLedger(store storage.Provider, milestones MilestoneSink, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: store, milestones: milestones, now: now}
}

// EvidenceInput holds a caller-supplied evidence record. A zero ImpactScore
// defaults to 1.0.
type EvidenceInput struct {
	QualityID    string
	EvidenceType string
	Action       string
	Description  string
	TaskID       string
	HabitID      string
	ChallengeID  string
	ImpactScore  float64
}

// ChallengeInput holds the definition of a new 7-day challenge.
type ChallengeInput struct {
	QualityTargetID string
	Title           string
	Description     string
	Difficulty      string
	DailyQuests     []models.DailyQuest
	WisdomQuotes    []models.WisdomQuote
}

// TrackQuality begins tracking a named quality for the user. Quality names
// are unique per user; strength starts at zero and only evidence moves it.
func (l *Ledger) TrackQuality(userID, qualityName, category string) (models.Quality, error) {
	if qualityName == "" {
		return models.Quality{}, fmt.Errorf("quality name is required: %w", apperrors.ErrValidation)
	}
	if category == "" {
		category = "character"
	}

	if _, err := l.store.GetQualityByName(userID, qualityName); err == nil {
		return models.Quality{}, fmt.Errorf("quality %q: %w", qualityName, apperrors.ErrDuplicateQuality)
	} else if !apperrors.Is(err, storage.ErrNotFound) {
		return models.Quality{}, fmt.Errorf("failed to look up quality: %w", err)
	}

	now := l.now()
	quality := models.Quality{
		ID:          uuid.New().String(),
		UserID:      userID,
		QualityName: qualityName,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := l.store.AddQuality(quality); err != nil {
		return models.Quality{}, fmt.Errorf("failed to save quality: %w", err)
	}

	logger.Info("Tracking quality", "quality", qualityName, "category", category)
	return quality, nil
}

// GetQuality returns a single quality owned by the user.
func (l *Ledger) GetQuality(userID, qualityID string) (models.Quality, error) {
	quality, err := l.store.GetQuality(userID, qualityID)
	if err != nil {
		if apperrors.Is(err, storage.ErrNotFound) {
			return models.Quality{}, fmt.Errorf("quality %s: %w", qualityID, apperrors.ErrNotFound)
		}
		return models.Quality{}, err
	}
	return quality, nil
}

// ListQualities returns the user's qualities in creation order.
func (l *Ledger) ListQualities(userID string) ([]models.Quality, error) {
	return l.store.GetAllQualities(userID)
}

// UpdateQuality adjusts a quality's strength and/or category directly.
// Strength is clamped to [0, 100] before storing, whatever the input.
func (l *Ledger) UpdateQuality(userID, qualityID string, strength *float64, category *string) (models.Quality, error) {
	quality, err := l.GetQuality(userID, qualityID)
	if err != nil {
		return models.Quality{}, err
	}

	if strength != nil {
		quality.Strength = clampStrength(*strength)
	}
	if category != nil {
		quality.Category = *category
	}
	quality.UpdatedAt = l.now()

	if err := l.store.UpdateQuality(quality); err != nil {
		return models.Quality{}, fmt.Errorf("failed to update quality: %w", err)
	}
	return quality, nil
}

// RecordEvidence appends an immutable evidence record and bumps the parent
// quality's strength by impact_score times the canonical weight, clamped to
// range. evidence_count and last_evidence always advance.
func (l *Ledger) RecordEvidence(userID string, in EvidenceInput) (models.Evidence, error) {
	quality, err := l.GetQuality(userID, in.QualityID)
	if err != nil {
		return models.Evidence{}, err
	}

	if in.ImpactScore == 0 {
		in.ImpactScore = 1.0
	}
	if result := validation.New().ValidateImpactScore(in.ImpactScore); result.HasConflicts() {
		return models.Evidence{}, fmt.Errorf("%s: %w", result.Conflicts[0].Description, apperrors.ErrValidation)
	}

	now := l.now()
	evidence := models.Evidence{
		ID:           uuid.New().String(),
		UserID:       userID,
		QualityID:    in.QualityID,
		EvidenceType: in.EvidenceType,
		Action:       in.Action,
		Description:  in.Description,
		TaskID:       in.TaskID,
		HabitID:      in.HabitID,
		ChallengeID:  in.ChallengeID,
		ImpactScore:  in.ImpactScore,
		CreatedAt:    now,
	}

	if err := l.store.AddEvidence(evidence); err != nil {
		return models.Evidence{}, fmt.Errorf("failed to save evidence: %w", err)
	}

	quality.Strength = clampStrength(quality.Strength + in.ImpactScore*constants.EvidenceStrengthWeight)
	quality.EvidenceCount++
	quality.LastEvidence = &now
	quality.UpdatedAt = now

	if err := l.store.UpdateQuality(quality); err != nil {
		return models.Evidence{}, fmt.Errorf("failed to update quality: %w", err)
	}

	logger.Debug("Recorded evidence", "quality", quality.QualityName, "impact", in.ImpactScore, "strength", quality.Strength)
	return evidence, nil
}

// ListEvidence returns the user's evidence, newest first, optionally
// filtered by quality. limit <= 0 returns everything.
func (l *Ledger) ListEvidence(userID, qualityID string, limit int) ([]models.Evidence, error) {
	return l.store.GetEvidence(userID, qualityID, limit)
}

// AutoEvidenceForHabit records streak evidence against the shared
// "consistent" quality, creating it on first use. This is the hook the habit
// surface calls when a streak milestone is worth crediting.
func (l *Ledger) AutoEvidenceForHabit(userID, habitID string) (models.Evidence, error) {
	quality, err := l.store.GetQualityByName(userID, constants.AutoEvidenceQuality)
	if apperrors.Is(err, storage.ErrNotFound) {
		quality, err = l.TrackQuality(userID, constants.AutoEvidenceQuality, "behavior")
	}
	if err != nil {
		return models.Evidence{}, err
	}

	return l.RecordEvidence(userID, EvidenceInput{
		QualityID:    quality.ID,
		EvidenceType: "habit_streak",
		Action:       "Maintained habit",
		HabitID:      habitID,
		ImpactScore:  constants.AutoEvidenceImpact,
	})
}

// GrowthEdge reports the user's weakest quality and a recommendation tier
// for it. No tracked qualities is a legitimate state, answered with the
// sentinel report rather than an error. Ties go to the earliest-created
// quality so repeated calls are stable.
func (l *Ledger) GrowthEdge(userID string) (models.GrowthEdgeReport, error) {
	qualities, err := l.store.GetAllQualities(userID)
	if err != nil {
		return models.GrowthEdgeReport{}, fmt.Errorf("failed to load qualities: %w", err)
	}

	if len(qualities) == 0 {
		return models.GrowthEdgeReport{
			QualityName:      "No qualities tracked",
			Recommendation:   constants.EdgeEmptyRecommendation,
			SuggestedActions: []string{"Add a quality to track"},
		}, nil
	}

	weakest := qualities[0]
	for _, q := range qualities[1:] {
		if q.Strength < weakest.Strength {
			weakest = q
		}
	}

	tier := edgeTier(weakest.Strength)
	return models.GrowthEdgeReport{
		QualityID:        weakest.ID,
		QualityName:      weakest.QualityName,
		Strength:         weakest.Strength,
		EvidenceCount:    weakest.EvidenceCount,
		LastEvidence:     weakest.LastEvidence,
		Tier:             tier,
		Recommendation:   edgeRecommendation(tier),
		SuggestedActions: constants.EdgeSuggestedActions[tier],
	}, nil
}

// StartChallenge begins a 7-day challenge against one quality. Only one
// active challenge may target a quality at a time.
func (l *Ledger) StartChallenge(userID string, in ChallengeInput) (models.Challenge, error) {
	if result := validation.New().ValidateChallenge(in.Title, in.DailyQuests); result.HasConflicts() {
		return models.Challenge{}, fmt.Errorf("%s: %w", result.Conflicts[0].Description, apperrors.ErrValidation)
	}

	if _, err := l.GetQuality(userID, in.QualityTargetID); err != nil {
		return models.Challenge{}, err
	}

	if _, err := l.store.GetActiveChallengeForQuality(userID, in.QualityTargetID); err == nil {
		return models.Challenge{}, fmt.Errorf("quality %s: %w", in.QualityTargetID, apperrors.ErrActiveChallengeExists)
	} else if !apperrors.Is(err, storage.ErrNotFound) {
		return models.Challenge{}, fmt.Errorf("failed to look up challenges: %w", err)
	}

	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = "beginner"
	}

	challenge := models.Challenge{
		ID:              uuid.New().String(),
		UserID:          userID,
		QualityTargetID: in.QualityTargetID,
		Title:           in.Title,
		Description:     in.Description,
		Difficulty:      difficulty,
		DailyQuests:     in.DailyQuests,
		WisdomQuotes:    in.WisdomQuotes,
		Status:          constants.ChallengeActive,
		CompletedDays:   []int{},
		CreatedAt:       l.now(),
	}

	if err := l.store.AddChallenge(challenge); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to save challenge: %w", err)
	}

	logger.Info("Started challenge", "challenge_id", challenge.ID, "title", in.Title)
	return challenge, nil
}

// GetChallenge returns a single challenge owned by the user.
func (l *Ledger) GetChallenge(userID, challengeID string) (models.Challenge, error) {
	challenge, err := l.store.GetChallenge(userID, challengeID)
	if err != nil {
		if apperrors.Is(err, storage.ErrNotFound) {
			return models.Challenge{}, fmt.Errorf("challenge %s: %w", challengeID, apperrors.ErrNotFound)
		}
		return models.Challenge{}, err
	}
	return challenge, nil
}

// ListChallenges returns the user's challenges, optionally filtered by status.
func (l *Ledger) ListChallenges(userID string, status constants.ChallengeStatus) ([]models.Challenge, error) {
	return l.store.GetAllChallenges(userID, status)
}

// CompleteDay marks one challenge day done and awards XP that grows with
// each completed day. The 7th distinct day completes the challenge: +100
// bonus XP, completed_at set, and one milestone emitted through the sink.
// Completion is terminal.
func (l *Ledger) CompleteDay(userID, challengeID string, day int) (models.Challenge, int, error) {
	challenge, err := l.GetChallenge(userID, challengeID)
	if err != nil {
		return models.Challenge{}, 0, err
	}

	if challenge.Status != constants.ChallengeActive {
		return models.Challenge{}, 0, fmt.Errorf("challenge %s: %w", challengeID, apperrors.ErrNotActive)
	}
	if day < 1 || day > constants.ChallengeLengthDays {
		return models.Challenge{}, 0, fmt.Errorf("day must be between 1 and %d: %w", constants.ChallengeLengthDays, apperrors.ErrValidation)
	}
	if challenge.DayCompleted(day) {
		return models.Challenge{}, 0, fmt.Errorf("day %d: %w", day, apperrors.ErrDuplicateDay)
	}

	challenge.CompletedDays = append(challenge.CompletedDays, day)
	challenge.CurrentDay = day

	xpAwarded := int(math.Floor(constants.XPBaseReward * (1 + constants.XPStepBonus*float64(len(challenge.CompletedDays)))))
	challenge.XPEarned += xpAwarded

	if len(challenge.CompletedDays) >= constants.ChallengeLengthDays {
		now := l.now()
		challenge.Status = constants.ChallengeCompleted
		challenge.CompletedAt = &now
		challenge.XPEarned += constants.XPCompletionBonus

		milestone := models.Milestone{
			ID:            uuid.New().String(),
			UserID:        userID,
			QualityID:     challenge.QualityTargetID,
			Title:         fmt.Sprintf("Completed %s", challenge.Title),
			Description:   fmt.Sprintf("Successfully completed a 7-day %s challenge", challenge.Difficulty),
			MilestoneType: "challenge_complete",
			AchievementData: map[string]any{
				"challenge_id": challenge.ID,
			},
			XPReward:  constants.ChallengeMilestoneXP,
			CreatedAt: now,
		}
		if l.milestones != nil {
			if err := l.milestones.Record(milestone); err != nil {
				return models.Challenge{}, 0, fmt.Errorf("failed to record milestone: %w", err)
			}
		}
		logger.Info("Challenge completed", "challenge_id", challengeID, "xp_earned", challenge.XPEarned)
	}

	if err := l.store.UpdateChallenge(challenge); err != nil {
		return models.Challenge{}, 0, fmt.Errorf("failed to update challenge: %w", err)
	}

	return challenge, xpAwarded, nil
}

func clampStrength(strength float64) float64 {
	return math.Min(constants.StrengthMax, math.Max(constants.StrengthMin, strength))
}

func edgeTier(strength float64) constants.EdgeTier {
	switch {
	case strength < constants.EdgeAttentionCeiling:
		return constants.EdgeTierAttention
	case strength < constants.EdgeProgressCeiling:
		return constants.EdgeTierProgress
	default:
		return constants.EdgeTierMastery
	}
}

func edgeRecommendation(tier constants.EdgeTier) string {
	switch tier {
	case constants.EdgeTierAttention:
		return constants.EdgeAttentionRecommendation
	case constants.EdgeTierProgress:
		return constants.EdgeProgressRecommendation
	default:
		return constants.EdgeMasteryRecommendation
	}
}
