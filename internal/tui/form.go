package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitFormModel struct {
	Name      string
	Category  string
	Frequency models.Frequency
	Days      []time.Weekday
	Goal      string
	Reminder  string
	Notes     string
}

func newHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Category:  constants.DefaultCategory,
		Frequency: models.FrequencyDaily,
	}
}

// NewHabitForm creates the add-habit form. The designated days group only
// shows for Custom habits.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	dayOptions := make([]huh.Option[time.Weekday], 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		dayOptions = append(dayOptions, huh.NewOption(d.String(), d))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Category").
				Value(&fm.Category).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("category cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Custom", models.FrequencyCustom),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewMultiSelect[time.Weekday]().
				Title("Designated days").
				Options(dayOptions...).
				Value(&fm.Days),
		).WithHideFunc(func() bool { return fm.Frequency != models.FrequencyCustom }),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly goal (optional)").
				Value(&fm.Goal).
				Validate(validateGoal),
			huh.NewInput().
				Title("Reminder time HH:MM (optional)").
				Value(&fm.Reminder).
				Validate(func(s string) error {
					if s != "" && !utils.ValidateTimeFormat(s) {
						return fmt.Errorf("use HH:MM format")
					}
					return nil
				}),
			huh.NewText().
				Title("Notes (optional)").
				Value(&fm.Notes),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateGoal(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("goal must be a whole number of days")
	}
	return nil
}

// Draft converts the completed form into a create payload.
func (fm *HabitFormModel) Draft() models.Draft {
	d := models.Draft{
		Name:      fm.Name,
		Category:  fm.Category,
		Frequency: fm.Frequency,
		Notes:     strings.TrimSpace(fm.Notes),
	}
	if fm.Frequency == models.FrequencyCustom {
		d.CustomDays = models.Weekdays(fm.Days).Normalize()
	}
	if g := strings.TrimSpace(fm.Goal); g != "" {
		if n, err := strconv.Atoi(g); err == nil {
			d.Goal = &n
		}
	}
	if fm.Reminder != "" {
		d.Reminder = &models.Reminder{Enabled: true, Time: fm.Reminder}
	}
	return d
}

// TaskFormModel backs the add-task and add-list forms. An empty Columns
// slice means the form adds a new list instead of a task.
type TaskFormModel struct {
	Title    string
	ColumnID string
	Columns  []models.Column
}

// AddsColumn reports whether the form creates a list rather than a task.
func (fm *TaskFormModel) AddsColumn() bool {
	return len(fm.Columns) == 0
}

// NewTaskForm creates the add-task form, or the add-list form when fm has
// no columns to choose from.
func NewTaskForm(fm *TaskFormModel) *huh.Form {
	if fm.AddsColumn() {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("List title").
					Value(&fm.Title).
					Validate(requireTitle("list")),
			),
		).WithTheme(huh.ThemeDracula())
	}

	options := make([]huh.Option[string], len(fm.Columns))
	for i, c := range fm.Columns {
		options[i] = huh.NewOption(c.Title, c.ID)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Placeholder("Add a task...").
				Value(&fm.Title).
				Validate(requireTitle("task")),
			huh.NewSelect[string]().
				Title("List").
				Options(options...).
				Value(&fm.ColumnID),
		),
	).WithTheme(huh.ThemeDracula())
}

func requireTitle(kind string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s title cannot be empty", kind)
		}
		return nil
	}
}
