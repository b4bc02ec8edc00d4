package constants

// EdgeTier represents the recommendation tier for a growth-edge report
type EdgeTier string

const (
	// Growth edge tiers, ordered by strength
	EdgeTierAttention EdgeTier = "attention"
	EdgeTierProgress  EdgeTier = "progress"
	EdgeTierMastery   EdgeTier = "mastery"

	// Recommendation copy per tier
	EdgeAttentionRecommendation = "This quality needs focused attention. Start with small, daily actions."
	EdgeProgressRecommendation  = "You're making progress. Increase the challenge level."
	EdgeMasteryRecommendation   = "Good foundation established. Time for mastery."

	// Sentinel copy for the empty state (no qualities tracked yet)
	EdgeEmptyRecommendation = "Start by adding your first quality"
)

// EdgeSuggestedActions maps each tier to its suggested next actions.
var EdgeSuggestedActions = map[EdgeTier][]string{
	EdgeTierAttention: {
		"Set a daily reminder to practice this quality",
		"Start a 7-day challenge",
		"Find an accountability partner",
	},
	EdgeTierProgress: {
		"Take on bigger challenges",
		"Teach someone else about this quality",
		"Track your progress more rigorously",
	},
	EdgeTierMastery: {
		"Mentor others in this quality",
		"Integrate into other life areas",
		"Set stretch goals",
	},
}
