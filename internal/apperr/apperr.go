// Package apperr defines the error taxonomy shared by the services and the
// HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("invalid data")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStorage      = errors.New("storage failure")
)

// ValidationError carries a human readable message and optional per-field details.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return ErrValidation.Error()
	}
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError without field details.
func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFound wraps ErrNotFound with the missing entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Forbidden wraps ErrForbidden with a reason.
func Forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

// Storage marks a persistence failure. A nil err stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
