package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "not found adds hint",
			err:      fmt.Errorf("toggle: %w", &NotFoundError{ID: "42"}),
			expected: "Error: toggle: habit not found: 42\n  Run 'habitual habit list' to see habit names.",
		},
		{
			name:     "validation has no hint",
			err:      NewValidationError("name", "cannot be empty"),
			expected: "Error: name: cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", errors.New("boom"), ""},
		{"missing column", &NotFoundError{Kind: "column", ID: "later"}, "Run 'habitual task list --show-ids' to see the board."},
		{"persistence", &PersistenceError{Op: "create", Err: os.ErrPermission}, "The change was not saved. Run 'habitual doctor' to check storage."},
		{"invalid date", fmt.Errorf("habit %q: %w", "Run", &InvalidDateError{Value: "2024-02-30"}), "Run 'habitual validate' to list stored dates that need fixing."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err); got != tt.want {
				t.Errorf("Hint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypedErrorsThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", fmt.Errorf("toggle: %w", &NotFoundError{ID: "x"}), IsNotFound},
		{"invalid date", fmt.Errorf("parse: %w", &InvalidDateError{Value: "2024-13-01"}), IsInvalidDate},
		{"validation", fmt.Errorf("form: %w", NewValidationError("name", "cannot be empty")), IsValidation},
		{"persistence", fmt.Errorf("create: %w", &PersistenceError{Op: "habits", Err: os.ErrPermission}), IsPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("check(%v) = false, want true", tt.err)
			}
		})
	}

	if IsNotFound(&InvalidDateError{Value: "x"}) {
		t.Error("IsNotFound() matched an InvalidDateError")
	}
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	err := &PersistenceError{Op: "habits", Err: os.ErrPermission}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("PersistenceError does not unwrap to its cause")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("reminder", "invalid time %q", "25:00")
	if err.Error() != `reminder: invalid time "25:00"` {
		t.Errorf("Error() = %q", err.Error())
	}
	bare := &ValidationError{Message: "date is in the future"}
	if bare.Error() != "date is in the future" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}
