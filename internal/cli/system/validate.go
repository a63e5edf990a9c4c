package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	result := validation.New().ValidateHabits(ctx.Tracker.Stored(), ctx.Tracker.Today())
	ctx.Println(strings.TrimRight(result.FormatReport(), "\n"))

	if result.HasConflicts() {
		return fmt.Errorf("found %d conflict(s)", len(result.Conflicts))
	}
	return nil
}
