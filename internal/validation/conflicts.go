package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName    ConflictType = "duplicate_habit_name"
	ConflictInvalidDate           ConflictType = "invalid_date"
	ConflictCompletionBeforeStart ConflictType = "completion_before_start"
	ConflictFutureCompletion      ConflictType = "future_completion"
	ConflictStrayCustomDays       ConflictType = "stray_custom_days"
	ConflictUnknownFrequency      ConflictType = "unknown_frequency"
)

// Conflict represents a detected problem in the stored habit collection
type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []string
	Dates       []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks a habit collection for data problems that the tracker
// tolerates but a user probably wants to know about.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks habits against the reference day today.
func (v *Validator) ValidateHabits(habits []models.Habit, today string) ValidationResult {
	var result ValidationResult

	seen := make(map[string]string)
	for _, h := range habits {
		key := strings.ToLower(strings.TrimSpace(h.Name))
		if firstID, ok := seen[key]; ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name %q", h.Name),
				HabitIDs:    []string{firstID, h.ID},
			})
		} else {
			seen[key] = h.ID
		}

		if !h.Frequency.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownFrequency,
				Description: fmt.Sprintf("Habit %q has unknown frequency %q (streak uses the daily rule)", h.Name, h.Frequency),
				HabitIDs:    []string{h.ID},
			})
		}

		if len(h.CustomDays) > 0 && h.Frequency != models.FrequencyCustom {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStrayCustomDays,
				Description: fmt.Sprintf("Habit %q has designated days (%s) but frequency %s", h.Name, h.CustomDays, h.Frequency),
				HabitIDs:    []string{h.ID},
			})
		}

		result.Conflicts = append(result.Conflicts, v.checkDates(h, today)...)
	}

	return result
}

func (v *Validator) checkDates(h models.Habit, today string) []Conflict {
	var conflicts []Conflict
	var invalid, early, future []string

	createdValid := utils.ValidDay(h.CreatedAt)
	if !createdValid {
		invalid = append(invalid, h.CreatedAt)
	}

	for _, d := range h.CompletedDates {
		if !utils.ValidDay(d) {
			invalid = append(invalid, d)
			continue
		}
		if createdValid {
			if before, _ := utils.IsAfter(h.CreatedAt, d); before {
				early = append(early, d)
			}
		}
		if after, err := utils.IsAfter(d, today); err == nil && after {
			future = append(future, d)
		}
	}

	if len(invalid) > 0 {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidDate,
			Description: fmt.Sprintf("Habit %q has invalid dates: %s", h.Name, strings.Join(invalid, ", ")),
			HabitIDs:    []string{h.ID},
			Dates:       invalid,
		})
	}
	if len(early) > 0 {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictCompletionBeforeStart,
			Description: fmt.Sprintf("Habit %q has completions before it was created (%s): %s", h.Name, h.CreatedAt, strings.Join(early, ", ")),
			HabitIDs:    []string{h.ID},
			Dates:       early,
		})
	}
	if len(future) > 0 {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictFutureCompletion,
			Description: fmt.Sprintf("Habit %q has completions after %s: %s", h.Name, today, strings.Join(future, ", ")),
			HabitIDs:    []string{h.ID},
			Dates:       future,
		})
	}
	return conflicts
}
