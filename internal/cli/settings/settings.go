package settings

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone *string `help:"IANA timezone that decides which day is today (e.g. Europe/Berlin, Local)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings := ctx.Tracker.Settings()

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:  %s\n", settings.Timezone)
		ctx.Printf("  Today:     %s\n", ctx.Tracker.Today())
		ctx.Printf("  Storage:   %s\n", ctx.Tracker.StorePath())
		return nil
	}

	if c.Timezone == nil {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Tracker.SetTimezone(*c.Timezone); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
