package dirauth

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned for a missing, blank, unresolvable, or
	// expired session ID on a path that requires one.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrValidation marks business-level input failures: malformed phone
	// numbers, wrong codes, wrong session kinds.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCode is the single generic failure for a bad (phone, code)
	// or (phone, token) pair. One message for every mismatch, so a caller
	// can never probe which half was wrong or whether a phone is registered.
	ErrInvalidCode = fmt.Errorf("%w: invalid or expired code", ErrValidation)
	// ErrCodeGeneration is returned when code generation exhausts its
	// collision-retry budget. Not business-recoverable.
	ErrCodeGeneration = errors.New("cannot generate a unique confirmation code")
)

// NotAuthenticated wraps [ErrNotAuthenticated] with a caller-facing reason.
func NotAuthenticated(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotAuthenticated, msg)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
