package tasks

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
)

type ColumnCmd struct {
	Add    ColumnAddCmd    `cmd:"" help:"Add a column to the board."`
	Delete ColumnDeleteCmd `cmd:"" help:"Delete a column and its tasks."`
}

type ColumnAddCmd struct {
	Title string `arg:"" help:"Column title."`
}

func (c *ColumnAddCmd) Run(ctx *cli.Context) error {
	col, err := ctx.Board.AddColumn(c.Title)
	if err != nil {
		return err
	}
	ctx.Success("Added column: %s", col.Title)
	ctx.Println(cli.Dim("  ID: " + col.ID))
	return nil
}

type ColumnDeleteCmd struct {
	Ref string `arg:"" help:"Column ID or title."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ColumnDeleteCmd) Run(ctx *cli.Context) error {
	target, err := ctx.Board.Column(c.Ref)
	if err != nil {
		return err
	}

	// Only a column that still holds tasks needs confirming
	if len(target.Tasks) > 0 && !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %q and its %d task(s)?", target.Title, len(target.Tasks)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	col, err := ctx.Board.DeleteColumn(target.ID)
	if err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	ctx.Success("Deleted column: %s", col.Title)
	return nil
}
