package validation

import (
	"strings"

	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// ValidateDraft checks a create payload at the input boundary.
func ValidateDraft(d models.Draft) error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	if strings.TrimSpace(d.Category) == "" {
		return herrors.NewValidationError("category", "category is required")
	}
	if !d.Frequency.Valid() {
		return herrors.NewValidationError("frequency", "invalid frequency %q (expected Daily, Weekly or Custom)", d.Frequency)
	}
	if len(d.CustomDays) > 0 && d.Frequency != models.FrequencyCustom {
		return herrors.NewValidationError("days", "designated days only apply to Custom habits")
	}
	if err := validateGoal(d.Goal); err != nil {
		return err
	}
	return validateReminder(d.Reminder)
}

// ValidatePatch checks an edit against the habit it will be applied to.
// An empty patch is valid.
func ValidatePatch(p models.Patch, current models.Habit) error {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return herrors.NewValidationError("category", "category cannot be empty")
	}

	freq := current.Frequency
	if p.Frequency != nil {
		if !p.Frequency.Valid() {
			return herrors.NewValidationError("frequency", "invalid frequency %q (expected Daily, Weekly or Custom)", *p.Frequency)
		}
		freq = *p.Frequency
	}
	if p.CustomDays != nil && len(*p.CustomDays) > 0 && freq != models.FrequencyCustom {
		return herrors.NewValidationError("days", "designated days only apply to Custom habits")
	}

	if p.Goal != nil && p.ClearGoal {
		return herrors.NewValidationError("goal", "cannot set and clear the goal at once")
	}
	if err := validateGoal(p.Goal); err != nil {
		return err
	}

	if p.Reminder != nil && p.ClearReminder {
		return herrors.NewValidationError("reminder", "cannot set and clear the reminder at once")
	}
	if err := validateReminder(p.Reminder); err != nil {
		return err
	}

	if p.CompletedDates != nil {
		for _, d := range *p.CompletedDates {
			if !utils.ValidDay(d) {
				return herrors.NewValidationError("completedDates", "invalid date %q (expected YYYY-MM-DD)", d)
			}
		}
	}
	return nil
}

// ValidateToggleDate rejects malformed days and days after today.
func ValidateToggleDate(day, today string) error {
	after, err := utils.IsAfter(day, today)
	if err != nil {
		return err
	}
	if after {
		return herrors.NewValidationError("date", "cannot mark a future date (%s is after %s)", day, today)
	}
	return nil
}

// ValidateLogin checks the identity supplied to the session.
func ValidateLogin(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return herrors.NewValidationError("name", "name is required")
	}
	if email != "" && !strings.Contains(email, "@") {
		return herrors.NewValidationError("email", "invalid email %q", email)
	}
	return nil
}

// ValidateTitle checks the title of a board task or column.
func ValidateTitle(field, title string) error {
	if strings.TrimSpace(title) == "" {
		return herrors.NewValidationError(field, "%s title is required", field)
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return herrors.NewValidationError("name", "habit name is required")
	}
	return nil
}

func validateGoal(goal *int) error {
	if goal != nil && *goal < 0 {
		return herrors.NewValidationError("goal", "goal must be zero or positive, got %d", *goal)
	}
	return nil
}

func validateReminder(r *models.Reminder) error {
	if r == nil || r.Time == "" {
		return nil
	}
	if !utils.ValidateTimeFormat(r.Time) {
		return herrors.NewValidationError("reminder", "invalid reminder time %q (expected HH:MM)", r.Time)
	}
	return nil
}
