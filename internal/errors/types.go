package errors

import (
	"errors"
	"fmt"
)

// InvalidDateError is returned when a day key is not a valid YYYY-MM-DD calendar date.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %q (expected YYYY-MM-DD)", e.Value)
}

// NotFoundError is returned when nothing has the requested id. An empty Kind
// means a habit.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "habit"
	}
	return fmt.Sprintf("%s not found: %s", kind, e.ID)
}

// ValidationError reports a rejected field at the input boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failed save. The in-memory change it refers to
// has already been applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err wraps a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInvalidDate reports whether err wraps an InvalidDateError
func IsInvalidDate(err error) bool {
	var target *InvalidDateError
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsPersistence reports whether err wraps a PersistenceError
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
