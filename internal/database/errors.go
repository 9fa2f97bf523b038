package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned when an operation targets a student id that no
// longer exists in the database.
var ErrNotFound = errors.New("student not found")

// ErrNoFields is returned by UpdateStudent when no fields were supplied.
var ErrNoFields = errors.New("no fields to update")

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field rejected by input validation. The
// record is never written when one of these is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// newValidationError converts validator results into field messages that can
// be shown to the user as-is.
func newValidationError(verrs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{}
	for _, err := range verrs {
		field := strings.ToLower(err.Field())
		var msg string
		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "min":
			msg = fmt.Sprintf("%s must not be empty", field)
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
		case "gte":
			msg = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "lte":
			msg = fmt.Sprintf("%s must be at most %s", field, err.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", field)
		}
		ve.Fields = append(ve.Fields, FieldError{Field: field, Message: msg})
	}
	return ve
}

// ConnectError reports that every connection attempt failed, including the
// interactive retry when one was offered.
type ConnectError struct {
	Attempts int
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("unable to connect to database after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}
