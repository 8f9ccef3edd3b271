package domain

import (
	"errors"
	"fmt"
)

// Engine error kinds. Every error surfaced by the scheduling engine wraps
// exactly one of these sentinels so callers can classify with errors.Is.
var (
	// ErrNotFound indicates an unknown subject, room, or event.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest indicates a caller error: inverted interval,
	// non-positive duration, unbounded recurrence.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrConflict indicates a definitive rejection: the requested interval
	// is already occupied, or a concurrent write won the race.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable indicates the backing store timed out or is
	// unreachable. The caller may retry with backoff; the engine does not.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidRequestf wraps ErrInvalidRequest with a formatted message.
func InvalidRequestf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidRequest)...)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// Unavailablef wraps ErrUnavailable with a formatted message.
func Unavailablef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnavailable)...)
}
