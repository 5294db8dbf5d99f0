package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"labreserve/internal/model"
	"labreserve/internal/store"
)

// Checker decides whether a proposed slot is bookable. It only reads the
// store, never writes, so repeated calls with unchanged state agree.
type Checker struct {
	store store.Store
}

// NewChecker creates an availability checker over the given store.
func NewChecker(s store.Store) *Checker {
	return &Checker{store: s}
}

// Check returns nil when [startHour, startHour+duration) is free on date.
// ErrOutOfRange reports a slot outside the operating window, ConflictError
// an overlap with a confirmed reservation, PersistenceError a failed read.
func (c *Checker) Check(ctx context.Context, date string, startHour, duration int) error {
	all, err := c.store.ReadAll(ctx)
	if err != nil {
		return &PersistenceError{Op: "read", Err: err}
	}
	return CheckAgainst(all, date, startHour, duration)
}

// CheckAgainst is the pure core of Check: it validates the window and scans
// existing for the first confirmed reservation whose interval intersects
// the proposed one.
func CheckAgainst(existing []model.Reservation, date string, startHour, duration int) error {
	endHour := startHour + duration
	if startHour < model.WindowOpenHour || endHour > model.WindowCloseHour {
		return ErrOutOfRange
	}

	for i := range existing {
		r := &existing[i]
		if r.Date != date || !r.IsConfirmed() {
			continue
		}
		// Half-open intervals [a,b) and [c,d) intersect iff a < d && c < b.
		if startHour < r.EndHour && r.StartHour < endHour {
			return &ConflictError{Date: date, StartHour: r.StartHour, EndHour: r.EndHour}
		}
	}
	return nil
}

// ParseHour parses a start time such as "09:00" or "9" into an hour-of-day
// integer.
func ParseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty start time", ErrInvalidInput)
	}
	if idx := strings.Index(s, ":"); idx >= 0 {
		s = s[:idx]
	}
	hour, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: unparsable start time %q", ErrInvalidInput, s)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: hour %d out of day range", ErrInvalidInput, hour)
	}
	return hour, nil
}

// FormatHour renders an hour-of-day integer as "HH:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
