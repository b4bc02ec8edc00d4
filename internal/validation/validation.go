package validation

import (
	"fmt"

	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/models"
)

// Conflict represents a detected problem in user-supplied data
type Conflict struct {
	Type        constants.ConflictType
	Description string
	Items       []string // entity titles/names involved
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range r.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator validates habit and challenge payloads before they reach the core
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateFrequency checks a frequency specification.
func (v *Validator) ValidateFrequency(freq models.Frequency) Result {
	result := Result{Conflicts: []Conflict{}}

	switch freq.Type {
	case constants.FrequencyDaily, constants.FrequencyWeekly:
		// no extra fields required
	case constants.FrequencyCustom:
		if freq.TargetDays < 1 || freq.TargetDays > 7 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictInvalidFrequency,
				Description: fmt.Sprintf("Custom frequency requires target_days between 1 and 7, got %d", freq.TargetDays),
			})
		}
	default:
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictInvalidFrequency,
			Description: fmt.Sprintf("Unknown frequency type: %q", freq.Type),
		})
	}

	for _, wd := range freq.SpecificDays {
		if wd < 0 || wd > 6 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictInvalidFrequency,
				Description: fmt.Sprintf("Invalid weekday in specific_days: %d", wd),
			})
		}
	}

	return result
}

// ValidateHabits checks a habit set for duplicate titles and bad frequencies.
func (v *Validator) ValidateHabits(habits []models.Habit) Result {
	result := Result{Conflicts: []Conflict{}}

	titleCount := make(map[string][]string)
	for _, habit := range habits {
		if habit.Title == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictMissingTitle,
				Description: fmt.Sprintf("Habit %s has no title", habit.ID),
			})
			continue
		}
		titleCount[habit.Title] = append(titleCount[habit.Title], habit.ID)
	}

	for title, ids := range titleCount {
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictDuplicateTitle,
				Description: fmt.Sprintf("Duplicate habit title: %q (IDs: %v)", title, ids),
				Items:       []string{title},
			})
		}
	}

	for _, habit := range habits {
		freqResult := v.ValidateFrequency(habit.Frequency)
		result.Conflicts = append(result.Conflicts, freqResult.Conflicts...)
	}

	return result
}

// ValidateChallenge checks a challenge definition before it is started.
func (v *Validator) ValidateChallenge(title string, quests []models.DailyQuest) Result {
	result := Result{Conflicts: []Conflict{}}

	if title == "" {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictMissingTitle,
			Description: "Challenge has no title",
		})
	}

	if len(quests) == 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictMissingDailyQuest,
			Description: "Challenge has no daily quests",
		})
	}

	seen := make(map[int]bool)
	for _, quest := range quests {
		if quest.Day < 1 || quest.Day > constants.ChallengeLengthDays {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictMissingDailyQuest,
				Description: fmt.Sprintf("Quest day %d is outside 1-%d", quest.Day, constants.ChallengeLengthDays),
			})
		}
		if seen[quest.Day] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictMissingDailyQuest,
				Description: fmt.Sprintf("Duplicate quest for day %d", quest.Day),
			})
		}
		seen[quest.Day] = true
	}

	return result
}

// ValidateImpactScore checks an evidence impact score.
func (v *Validator) ValidateImpactScore(impact float64) Result {
	result := Result{Conflicts: []Conflict{}}

	if impact < 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictInvalidImpact,
			Description: fmt.Sprintf("Impact score must not be negative, got %.2f", impact),
		})
	}

	return result
}
