package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/seed"
	"github.com/julianstephens/habitual/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Reset the habit collection, discarding existing habits (a backup is taken first)."`
	Empty  bool   `help:"Start with no habits instead of the sample set."`
	Source string `help:"Source store path or connection string to copy habits, settings, session and the task board from."`
}

// migratedKeys are copied from --source
var migratedKeys = []string{constants.KeyHabits, constants.KeySettings, constants.KeySession, constants.KeyTodayColumns}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Source != "" && c.Source == ctx.Store.GetConfigPath() {
		return fmt.Errorf("source and destination are the same: %s", c.Source)
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	_, err := ctx.Store.Get(constants.KeyHabits)
	fresh := errors.Is(err, storage.ErrKeyNotFound)
	if err != nil && !fresh {
		return fmt.Errorf("failed to read habits: %w", err)
	}

	if c.Force && !fresh {
		ctx.PerformAutomaticBackup()
	}

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fresh = false
	}

	if err := ctx.Load(); err != nil {
		return err
	}

	switch {
	case c.Source != "":
		ctx.Success("Migrated %d habits", len(ctx.Tracker.List()))
	case c.Force || (fresh && c.Empty):
		var initial []models.Habit
		if !c.Empty {
			initial = seed.Habits()
		}
		if err := ctx.Tracker.Replace(initial); err != nil {
			return err
		}
		ctx.Success("Reset habit collection (%d habits)", len(initial))
	case fresh:
		ctx.Success("Added %d sample habits", len(ctx.Tracker.List()))
	default:
		ctx.Printf("Found %d existing habits. Use --force to reset them.\n", len(ctx.Tracker.List()))
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context) error {
	source, err := storage.Open(c.Source, keyring.ResolveConnectionString)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source store: %w", err)
	}
	defer source.Close()

	for _, key := range migratedKeys {
		data, err := source.Get(key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if err := ctx.Store.Put(key, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		ctx.Printf("  Migrated %s\n", key)
	}
	return nil
}
