package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Toggle HabitToggleCmd `cmd:"" help:"Mark or unmark a habit as done for a day."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit's details and recent log."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Category  string `help:"Category label." default:"${default_category}"`
	Frequency string `help:"daily, weekly or custom." default:"daily"`
	Days      string `help:"Designated days for custom habits (e.g. mon,wed,fri)."`
	Notes     string `help:"Free-form notes."`
	Goal      *int   `help:"Monthly completion goal."`
	Reminder  string `help:"Reminder time in HH:MM format."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	category := c.Category
	if category == "" {
		category = constants.DefaultCategory
	}
	freq, err := parseFrequency(c.Frequency)
	if err != nil {
		return err
	}
	days, err := parseDays(c.Days)
	if err != nil {
		return err
	}

	draft := models.Draft{
		Name:       c.Name,
		Category:   category,
		Frequency:  freq,
		CustomDays: days,
		Notes:      c.Notes,
		Goal:       c.Goal,
	}
	if c.Reminder != "" {
		draft.Reminder = &models.Reminder{Enabled: true, Time: c.Reminder}
	}

	h, err := ctx.Tracker.Create(draft)
	if err != nil {
		return err
	}

	ctx.Success("Added habit: %s (%s)", h.Name, frequencyLabel(h))
	ctx.Println(cli.Dim("  ID: " + h.ID))
	return nil
}

type HabitEditCmd struct {
	Ref        string  `arg:"" help:"Habit ID or name."`
	Name       *string `help:"New name."`
	Category   *string `help:"New category."`
	Frequency  *string `help:"New frequency: daily, weekly or custom."`
	Days       *string `help:"Designated days for custom habits."`
	Notes      *string `help:"New notes."`
	Goal       *int    `help:"Monthly completion goal."`
	ClearGoal  bool    `help:"Remove the goal."`
	Reminder   *string `help:"Reminder time in HH:MM format."`
	NoReminder bool    `help:"Disable the reminder."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.Find(c.Ref)
	if err != nil {
		return err
	}

	patch := models.Patch{
		Name:          c.Name,
		Category:      c.Category,
		Notes:         c.Notes,
		Goal:          c.Goal,
		ClearGoal:     c.ClearGoal,
		ClearReminder: c.NoReminder,
	}
	if c.Frequency != nil {
		freq, err := parseFrequency(*c.Frequency)
		if err != nil {
			return err
		}
		patch.Frequency = &freq
	}
	if c.Days != nil {
		days, err := parseDays(*c.Days)
		if err != nil {
			return err
		}
		patch.CustomDays = &days
	}
	if c.Reminder != nil {
		patch.Reminder = &models.Reminder{Enabled: true, Time: *c.Reminder}
	}

	if patch.IsEmpty() {
		ctx.Println("No changes specified. Use --help to see the editable fields.")
		return nil
	}

	updated, err := ctx.Tracker.Update(h.ID, patch)
	if err != nil {
		return err
	}

	ctx.Success("Updated habit: %s (streak %d)", updated.Name, updated.Streak)
	return nil
}

type HabitDeleteCmd struct {
	Ref string `arg:"" help:"Habit ID or name."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.Find(c.Ref)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %q and its %d completions?", h.Name, len(h.CompletedDates)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Tracker.Delete(h.ID); err != nil {
		return err
	}

	ctx.Success("Deleted habit: %s", h.Name)
	return nil
}

func parseFrequency(s string) (models.Frequency, error) {
	freq, err := models.ParseFrequency(s)
	if err != nil {
		return "", herrors.NewValidationError("frequency", "%v", err)
	}
	return freq, nil
}

func parseDays(s string) (models.Weekdays, error) {
	days, err := models.ParseWeekdays(s)
	if err != nil {
		return nil, herrors.NewValidationError("days", "%v", err)
	}
	return days, nil
}

func frequencyLabel(h models.Habit) string {
	if h.Frequency == models.FrequencyCustom && len(h.CustomDays) > 0 {
		return fmt.Sprintf("%s on %s", h.Frequency, strings.ReplaceAll(h.CustomDays.String(), ",", ", "))
	}
	return string(h.Frequency)
}
