package tracker

import (
	"encoding/json"
	"fmt"
	"sort"

	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
)

func encode(habits []models.Habit) ([]byte, error) {
	if habits == nil {
		habits = []models.Habit{}
	}
	data, err := json.Marshal(habits)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize habits: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]models.Habit, error) {
	var habits []models.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, fmt.Errorf("failed to parse stored habits: %w", err)
	}
	return habits, nil
}

// normalizeAll restores the collection invariants on untrusted records:
// unique IDs, known frequency casing, sorted unique valid dates and a
// streak derived from those dates. Completion entries that are not valid
// day keys are returned per habit ID instead of being kept in the habit.
func normalizeAll(habits []models.Habit, newID func() string) ([]models.Habit, map[string][]string) {
	out := make([]models.Habit, 0, len(habits))
	ids := make(map[string]bool, len(habits))
	invalid := make(map[string][]string)

	for _, h := range habits {
		if h.ID == "" || ids[h.ID] {
			old := h.ID
			h.ID = newID()
			logger.Warn("Reassigned habit ID", "name", h.Name, "old", old, "new", h.ID)
		}
		ids[h.ID] = true

		if f, err := models.ParseFrequency(string(h.Frequency)); err == nil {
			h.Frequency = f
		}
		h.CustomDays = h.CustomDays.Normalize()

		dates, rejected := normalizeDates(h.CompletedDates)
		if len(rejected) > 0 {
			logger.Warn("Invalid completion dates excluded from streak", "habit", h.ID, "dates", rejected)
			invalid[h.ID] = rejected
		}
		h.CompletedDates = dates

		s, err := streak.Compute(streak.PolicyFor(h), h.CompletedDates)
		if err != nil {
			// Unreachable: every remaining date parsed above
			s = 0
		}
		h.Streak = s

		out = append(out, h)
	}
	return out, invalid
}

// firstInvalid returns the first completion entry of habits that is not a
// valid day key, as an InvalidDateError naming the habit.
func firstInvalid(habits []models.Habit) error {
	for _, h := range habits {
		for _, d := range h.CompletedDates {
			if !utils.ValidDay(d) {
				return fmt.Errorf("habit %q: %w", h.Name, &herrors.InvalidDateError{Value: d})
			}
		}
	}
	return nil
}

// withInvalid reattaches the rejected entries of h so they survive a save.
func withInvalid(h models.Habit, invalid map[string][]string) models.Habit {
	c := h.Clone()
	if bad := invalid[h.ID]; len(bad) > 0 {
		c.CompletedDates = append(c.CompletedDates, bad...)
	}
	return c
}

// normalizeDates returns the valid days of dates sorted and deduplicated,
// along with the entries that were not valid day keys, deduplicated.
func normalizeDates(dates []string) ([]string, []string) {
	seen := make(map[string]bool, len(dates))
	out := make([]string, 0, len(dates))
	var dropped []string

	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		if !utils.ValidDay(d) {
			dropped = append(dropped, d)
			continue
		}
		out = append(out, d)
	}
	sort.Strings(out)
	return out, dropped
}
