package stats

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/insights"
)

type MonthCmd struct {
	Month string `help:"Month in YYYY-MM format (default: current month)."`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	month := c.Month
	if month == "" {
		month = ctx.Tracker.Today()[:7]
	}

	grid, err := insights.MonthlyBreakdown(ctx.Tracker.List(), month)
	if err != nil {
		return err
	}
	if len(grid.Rows) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	width := 0
	for _, row := range grid.Rows {
		if len(row.Name) > width {
			width = len(row.Name)
		}
	}

	ctx.Println(cli.Heading("Monthly tracker " + grid.Month))
	ctx.Printf("%-*s  %s\n", width, "", dayRuler(grid.DaysInMonth))
	for _, row := range grid.Rows {
		var b strings.Builder
		for _, done := range row.Days {
			if done {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		ctx.Printf("%-*s  %s  %s\n", width, row.Name, b.String(), goalLabel(row))
	}
	return nil
}

// dayRuler marks every fifth day of the month.
func dayRuler(days int) string {
	var b strings.Builder
	for d := 1; d <= days; d++ {
		switch {
		case d%10 == 0:
			b.WriteString(fmt.Sprint(d / 10))
		case d%5 == 0:
			b.WriteByte('+')
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func goalLabel(row insights.MonthRow) string {
	if row.Goal == nil {
		return fmt.Sprintf("%d", row.Achieved)
	}
	label := fmt.Sprintf("%d/%d", row.Achieved, *row.Goal)
	if row.GoalMet() {
		label += " ✓"
	}
	return label
}
