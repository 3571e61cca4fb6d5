package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a mutation or lookup targets an id that is not
// in the store. The legacy behavior of silently ignoring unknown ids is gone;
// callers decide how to surface it.
var ErrNotFound = errors.New("task not found")

// ValidationError describes a rejected input. It is surfaced to the caller
// inline and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
