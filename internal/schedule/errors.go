// Package schedule implements the reservation scheduling and availability
// engine: slot validation against the operating window, overlap detection,
// per-day occupancy detail and the month calendar grid.
package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a missing required field or an unparsable value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange reports a slot outside the permitted operating window.
	ErrOutOfRange = errors.New("outside permitted window (07:00-19:00)")

	// ErrNotFound reports an operation on a nonexistent or already resolved reservation.
	ErrNotFound = errors.New("reservation not found or already resolved")

	// ErrDataIntegrity reports more than one confirmed reservation occupying
	// the same hour. The no-overlap invariant was violated upstream; the
	// store needs repair before day detail can be trusted.
	ErrDataIntegrity = errors.New("overlapping confirmed reservations in store")
)

// ConflictError reports an overlap with an existing confirmed reservation.
// It carries the conflicting interval for user display.
type ConflictError struct {
	Date      string
	StartHour int
	EndHour   int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot overlaps existing reservation %02d:00-%02d:00 on %s",
		e.StartHour, e.EndHour, e.Date)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// PersistenceError wraps a failed store read or write. The operation that
// produced it was not applied, or not applied completely.
type PersistenceError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s reservations: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
