package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/export"
	"github.com/julianstephens/habitual/internal/logger"
)

type ExportCmd struct {
	Format string `help:"Output format: json or yaml (default: from the output extension, else json)."`
	Output string `short:"o" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := resolveFormat(c.Format, c.Output)
	if err != nil {
		return err
	}
	habits := ctx.Tracker.List()
	if invalid := ctx.Tracker.InvalidDates(); len(invalid) > 0 {
		logger.Warn("Export omits stored completion dates that are not valid days; run 'habitual validate'", "habits", len(invalid))
	}

	if c.Output == "" {
		return export.Write(ctx.Writer(), habits, format)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(f, habits, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	ctx.Success("Exported %d habits to %s", len(habits), c.Output)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"Exported JSON or YAML file, or - for stdin."`
	Format string `help:"Input format: json or yaml (default: from the file extension, else json)."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	format, err := resolveFormat(c.Format, c.File)
	if err != nil {
		return err
	}

	r := ctx.Reader()
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	habits, err := export.Read(r, format)
	if err != nil {
		return err
	}

	if !c.Yes && c.File != "-" {
		ok, err := ctx.Confirm(fmt.Sprintf("Replace %d habits with %d from %s?", len(ctx.Tracker.List()), len(habits), c.File))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Tracker.Replace(habits); err != nil {
		return err
	}

	ctx.Success("Imported %d habits", len(habits))
	return nil
}

func resolveFormat(flag, path string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	return export.FormatForPath(path), nil
}
