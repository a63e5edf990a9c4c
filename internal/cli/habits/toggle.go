package habits

import (
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/validation"
)

type HabitToggleCmd struct {
	Ref  string `arg:"" help:"Habit ID or name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.Find(c.Ref)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = ctx.Tracker.Today()
	} else if err := validation.ValidateToggleDate(day, ctx.Tracker.Today()); err != nil {
		return err
	}

	updated, err := ctx.Tracker.Toggle(h.ID, day)
	if err != nil {
		return err
	}

	if updated.CompletedOn(day) {
		ctx.Success("Marked %s done for %s (streak %d)", updated.Name, day, updated.Streak)
	} else {
		ctx.Success("Unmarked %s for %s (streak %d)", updated.Name, day, updated.Streak)
	}
	return nil
}
