package insights

import (
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

// MonthRow is one habit's line of the monthly tracker grid
type MonthRow struct {
	HabitID  string `json:"habitId"`
	Name     string `json:"name"`
	Category string `json:"category"`
	// Days[i] reports whether day i+1 of the month was completed
	Days     []bool `json:"days"`
	Goal     *int   `json:"goal,omitempty"`
	Achieved int    `json:"achieved"`
}

// GoalMet reports whether the row reached its goal. Rows without a goal never do.
func (r MonthRow) GoalMet() bool {
	return r.Goal != nil && r.Achieved >= *r.Goal
}

// Month is the monthly grid for every habit
type Month struct {
	Month       string     `json:"month"` // YYYY-MM format
	DaysInMonth int        `json:"daysInMonth"`
	Rows        []MonthRow `json:"rows"`
}

// ParseMonth parses a YYYY-MM month key.
func ParseMonth(key string) (time.Time, error) {
	t, err := time.Parse(constants.MonthFormat, key)
	if err != nil {
		return time.Time{}, &herrors.InvalidDateError{Value: key}
	}
	return t, nil
}

// MonthlyBreakdown marks, for each habit, the completed days within month.
func MonthlyBreakdown(habits []models.Habit, month string) (Month, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return Month{}, err
	}
	daysInMonth := start.AddDate(0, 1, -1).Day()
	prefix := start.Format(constants.MonthFormat) + "-"

	out := Month{Month: start.Format(constants.MonthFormat), DaysInMonth: daysInMonth, Rows: []MonthRow{}}
	for _, h := range habits {
		row := MonthRow{
			HabitID:  h.ID,
			Name:     h.Name,
			Category: h.Category,
			Days:     make([]bool, daysInMonth),
			Goal:     h.Goal,
		}
		for _, d := range h.CompletedDates {
			if !strings.HasPrefix(d, prefix) {
				continue
			}
			t, err := time.Parse(constants.DateFormat, d)
			if err != nil {
				return Month{}, &herrors.InvalidDateError{Value: d}
			}
			if !row.Days[t.Day()-1] {
				row.Days[t.Day()-1] = true
				row.Achieved++
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
