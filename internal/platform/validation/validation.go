// Package validation holds the form checks shared by the record services.
// A failed check is reported as *Error before any gateway call is made.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Error describes one rejected field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// New returns a validation error for field.
func New(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is, or wraps, a validation error.
func Is(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Required fails when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(field, "is required")
	}
	return nil
}

// NonNegative fails when value is below zero.
func NonNegative[N ~int | ~int64 | ~float64](field string, value N) error {
	if value < 0 {
		return New(field, "must not be negative")
	}
	return nil
}

// OneOf fails when value is not one of allowed.
func OneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(field, "must be one of %s", strings.Join(allowed, ", "))
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
