package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// warnOnly checks never fail the run
	warnOnly bool
	// needsStore checks are skipped when the store cannot be loaded
	needsStore bool
	run        func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Storage reachable", run: checkStoreReachable},
	{name: "Schema version", needsStore: true, run: checkSchemaVersion},
	{name: "Habit data", needsStore: true, run: checkHabits},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := true
	for _, c := range doctorChecks {
		if c.needsStore && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Storage reachable" {
				reachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// JSON and memory stores have no schema
		return nil
	}

	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkHabits(ctx *cli.Context) error {
	result := validation.New().ValidateHabits(ctx.Tracker.Stored(), ctx.Tracker.Today())
	if result.HasConflicts() {
		return fmt.Errorf("%d issue(s) found, run 'habitual validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsFileStore() {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.GetBackupDir())
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	tz := ctx.Tracker.Settings().Timezone
	if _, err := utils.LoadLocation(tz); err != nil {
		return fmt.Errorf("configured timezone %q cannot be loaded: %w", tz, err)
	}
	if time.Now().Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", time.Now().Format(time.RFC3339))
	}
	return nil
}
