package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when a precondition or input check fails. Nothing was mutated.
var ErrInvalid = errors.New("invalid input")

// ErrConflict signals a busy offer lock or a duplicate pending offer (HTTP 409).
// The caller may retry later.
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrExpired is returned when a rider responds after the offer deadline.
// The offer has been moved to EXPIRED and the decision discarded.
var ErrExpired = errors.New("offer expired")

// ErrState means the offer has already been resolved.
var ErrState = errors.New("invalid state")

// ErrDependency wraps record store or queue failures.
var ErrDependency = errors.New("dependency failure")

// Invalidf returns ErrInvalid annotated with a message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Conflictf returns ErrConflict annotated with a message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NotFoundf returns ErrNotFound annotated with a message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Dependency wraps err as ErrDependency, keeping the original in the chain.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDependency, err)
}
