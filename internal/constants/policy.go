package constants

const (
	// Graduation thresholds:
	// - Required-day totals approximate published habit-formation ranges.
	//   More frequent practice reaches automaticity sooner, so daily habits
	//   graduate fastest. These are policy constants, not derived values.
	RequiredDaysDaily        = 40
	RequiredDaysWeekly       = 90
	RequiredDaysCustomHigh   = 50 // custom frequency, 5+ days per week
	RequiredDaysCustomMedium = 60 // custom frequency, 3-4 days per week
	RequiredDaysCustomLow    = 90 // custom frequency, 1-2 days per week

	CustomTargetHighDays   = 5
	CustomTargetMediumDays = 3

	// ManualGraduationMinDays is the minimum tracked days before a user may
	// graduate a habit themselves.
	ManualGraduationMinDays = 21

	// AutoGraduationConsistency is the completion-rate floor for automatic
	// graduation once required_days is reached.
	AutoGraduationConsistency = 0.8

	// EvidenceStrengthWeight is the multiplier applied to an evidence
	// impact_score when bumping quality strength. Strength moves by exactly
	// impact_score per evidence record, which keeps the ledger auditable.
	EvidenceStrengthWeight = 1.0

	// Strength bounds for an identity quality.
	StrengthMin = 0.0
	StrengthMax = 100.0

	// AutoEvidenceImpact is the impact score recorded when a habit streak
	// automatically generates evidence for the "consistent" quality.
	AutoEvidenceImpact  = 1.2
	AutoEvidenceQuality = "consistent"

	// Challenge XP:
	// xp per day = XPBaseReward * (1 + XPStepBonus * completedDays), floored.
	ChallengeLengthDays  = 7
	XPBaseReward         = 10
	XPStepBonus          = 0.1
	XPCompletionBonus    = 100
	ChallengeMilestoneXP = 100

	// Growth edge tiers (strength thresholds, ordered).
	EdgeAttentionCeiling = 20.0
	EdgeProgressCeiling  = 50.0

	// Insight generation heuristics.
	InsightEvidenceWindowDays = 7
	InsightPatternMinEvidence = 10
	InsightWeakStrengthFloor  = 30.0
	InsightPatternPriority    = 8
	InsightFocusPriority      = 9

	// Identity statements: each user keeps at most five; every linked habit
	// adds a fixed strength step, capped at 100.
	MaxStatements             = 5
	StatementTextMinLen       = 5
	StatementTextMaxLen       = 200
	StatementStrengthPerHabit = 20
	StatementStrengthCap      = 100
)
