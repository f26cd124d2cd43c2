package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and repositories. Controllers map
// these to HTTP status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrValidation        = errors.New("validation failed")
)

// ValidationError wraps ErrValidation with a human-readable message, so
// callers can both match errors.Is(err, ErrValidation) and surface the reason.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
