package tasks

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add a task to the Today board."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete a task."`
	Move   TaskMoveCmd   `cmd:"" help:"Move a task to another column."`
	List   TaskListCmd   `cmd:"" help:"Show the Today board."`
	Column ColumnCmd     `cmd:"" help:"Manage board columns."`
}

type TaskAddCmd struct {
	Title  string `arg:"" help:"Task title."`
	Column string `short:"c" help:"Column ID or title (default: first column)."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	task, col, err := ctx.Board.AddTask(c.Column, c.Title)
	if err != nil {
		return err
	}
	ctx.Success("Added task: %q to %s", task.Title, col.Title)
	ctx.Println(cli.Dim("  ID: " + task.ID))
	return nil
}

type TaskDeleteCmd struct {
	Ref string `arg:"" help:"Task ID or title."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Board.DeleteTask(c.Ref)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	ctx.Success("Deleted task: %q", task.Title)
	return nil
}

type TaskMoveCmd struct {
	Ref    string `arg:"" help:"Task ID or title."`
	Column string `arg:"" help:"Destination column ID or title."`
}

func (c *TaskMoveCmd) Run(ctx *cli.Context) error {
	task, col, err := ctx.Board.MoveTask(c.Ref, c.Column)
	if err != nil {
		return err
	}
	ctx.Success("Moved %q to %s", task.Title, col.Title)
	return nil
}

type TaskListCmd struct {
	Column  string `short:"c" help:"Only show this column."`
	ShowIDs bool   `help:"Show task and column IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	cols := ctx.Board.Columns()
	if c.Column != "" {
		col, err := ctx.Board.Column(c.Column)
		if err != nil {
			return err
		}
		cols = []models.Column{col}
	}

	for _, col := range cols {
		heading := fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))
		if c.ShowIDs {
			heading += cli.Dim(" ID: " + col.ID)
		}
		ctx.Println(cli.Heading(heading))
		if len(col.Tasks) == 0 {
			ctx.Println(cli.Dim("  No tasks"))
		}
		for _, t := range col.Tasks {
			idStr := ""
			if c.ShowIDs {
				idStr = fmt.Sprintf(" (ID: %s)", t.ID)
			}
			ctx.Printf("  • %s%s\n", t.Title, idStr)
			if t.Description != "" {
				ctx.Println(cli.Dim("    " + t.Description))
			}
		}
	}
	return nil
}
