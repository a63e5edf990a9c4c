package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

// Hint returns a follow-up suggestion for the typed errors a user can act
// on, or "" when there is none.
func Hint(err error) string {
	switch {
	case IsNotFound(err):
		var nf *NotFoundError
		errors.As(err, &nf)
		if nf.Kind == "task" || nf.Kind == "column" {
			return fmt.Sprintf("Run '%s task list --show-ids' to see the board.", constants.AppName)
		}
		return fmt.Sprintf("Run '%s habit list' to see habit names.", constants.AppName)
	case IsPersistence(err):
		return fmt.Sprintf("The change was not saved. Run '%s doctor' to check storage.", constants.AppName)
	case IsInvalidDate(err):
		return fmt.Sprintf("Run '%s validate' to list stored dates that need fixing.", constants.AppName)
	}
	return ""
}

// Format renders err for the terminal with an "Error: " prefix and, when
// one applies, an indented hint on the next line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n  " + hint
	}
	return msg
}

// Fatal logs err, prints it to stderr and exits with status 1. A nil err is
// a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
