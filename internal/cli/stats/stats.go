package stats

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/insights"
	"github.com/julianstephens/habitual/internal/utils"
)

type StatsCmd struct {
	Date string `help:"Reference day in YYYY-MM-DD format (default: today)."`
	JSON bool   `help:"Print the summary as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	ref, err := referenceDay(ctx, c.Date)
	if err != nil {
		return err
	}

	summary, err := insights.Summarize(ctx.Tracker.List(), ref)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	if c.JSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		ctx.Println(string(data))
		return nil
	}

	ctx.Println(cli.Heading(ctx.Session.Greeting()))
	ctx.Println()
	ctx.Printf("  Habits:            %d\n", summary.HabitCount)
	ctx.Printf("  Done on %s: %d/%d\n", summary.ReferenceDay, summary.CompletedToday, summary.HabitCount)
	ctx.Printf("  Total completions: %s\n", humanize.Comma(int64(summary.TotalCompletions)))
	ctx.Printf("  Longest streak:    %d\n", summary.LongestStreak)
	ctx.Printf("  Completion rate:   %d%%\n", summary.CompletionRate)
	if summary.MostConsistent != nil {
		ctx.Printf("  Most consistent:   %s (%d)\n", summary.MostConsistent.Name, summary.MostConsistent.Streak)
	} else if summary.HabitCount > 0 {
		ctx.Printf("  Most consistent:   %s\n", insights.NoStreakMessage)
	}
	return nil
}

type WeekCmd struct {
	Date string `help:"Last day of the week in YYYY-MM-DD format (default: today)."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	ref, err := referenceDay(ctx, c.Date)
	if err != nil {
		return err
	}

	series, err := insights.WeeklySeries(ctx.Tracker.List(), ref)
	if err != nil {
		return fmt.Errorf("failed to compute weekly series: %w", err)
	}

	ctx.Println(cli.Heading("Weekly progress"))
	for _, d := range series {
		ctx.Printf("  %s %s  %-12s %d\n", d.Weekday.String()[:3], d.Day, strings.Repeat("█", d.Count), d.Count)
	}
	return nil
}

type CategoriesCmd struct{}

func (c *CategoriesCmd) Run(ctx *cli.Context) error {
	habits := ctx.Tracker.List()
	dist := insights.CategoryDistribution(habits)
	if len(dist) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Println(cli.Heading("Categories"))
	for _, cc := range dist {
		pct := float64(cc.Count) / float64(len(habits)) * 100
		ctx.Printf("  %-16s %d (%.0f%%)\n", cc.Category, cc.Count, pct)
	}
	return nil
}

// referenceDay validates an explicit day or falls back to the tracker's today.
func referenceDay(ctx *cli.Context, day string) (string, error) {
	if day == "" {
		return ctx.Tracker.Today(), nil
	}
	if _, err := utils.ParseDay(day); err != nil {
		return "", err
	}
	return day, nil
}
