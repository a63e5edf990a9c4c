package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/insights"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
)

// logDays is the width of the recent log shown by habit show
const logDays = 14

type HabitListCmd struct {
	Category string `help:"Only list habits in this category."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits := ctx.Tracker.List()
	if c.Category != "" {
		habits = insights.FilterByCategory(habits, c.Category)
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today := ctx.Tracker.Today()
	for _, h := range habits {
		mark := "[ ]"
		if h.CompletedOn(today) {
			mark = "[x]"
		}
		ctx.Printf("%s %-24s %-10s %-18s streak %d\n", mark, h.Name, h.Category, frequencyLabel(h), h.Streak)
	}
	ctx.Printf("\n%d/%d done today\n", insights.CompletedOn(habits, today), len(habits))
	return nil
}

type HabitShowCmd struct {
	Ref string `arg:"" help:"Habit ID or name."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.Find(c.Ref)
	if err != nil {
		return err
	}
	longest, err := streak.Longest(streak.PolicyFor(h), h.CompletedDates)
	if err != nil {
		return err
	}

	ctx.Println(cli.Heading(h.Name))
	ctx.Printf("  ID:             %s\n", h.ID)
	ctx.Printf("  Category:       %s\n", h.Category)
	ctx.Printf("  Frequency:      %s\n", frequencyLabel(h))
	ctx.Printf("  Created:        %s\n", h.CreatedAt)
	ctx.Printf("  Streak:         %d\n", h.Streak)
	ctx.Printf("  Longest streak: %d\n", longest)
	ctx.Printf("  Completions:    %d\n", len(h.CompletedDates))
	if h.Goal != nil {
		ctx.Printf("  Monthly goal:   %d\n", *h.Goal)
	}
	if h.Reminder != nil && h.Reminder.Enabled {
		ctx.Printf("  Reminder:       %s\n", h.Reminder.Time)
	}
	if h.Notes != "" {
		ctx.Printf("  Notes:          %s\n", h.Notes)
	}

	line, err := recentLog(h.CompletedDates, ctx.Tracker.Today())
	if err != nil {
		return err
	}
	ctx.Printf("\nLast %d days: %s\n", logDays, line)
	return nil
}

// recentLog renders the logDays days ending at today, oldest first, as # and . marks.
func recentLog(dates []string, today string) (string, error) {
	done := make(map[string]bool, len(dates))
	for _, d := range dates {
		done[d] = true
	}

	var b strings.Builder
	for i := logDays - 1; i >= 0; i-- {
		day, err := utils.AddDays(today, -i)
		if err != nil {
			return "", fmt.Errorf("failed to build log: %w", err)
		}
		if done[day] {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String(), nil
}
