package model

import (
	"fmt"
	"time"
)

// DateLayout is the civil date format used throughout the service.
const DateLayout = "2006-01-02"

// Operating window of the laboratory room, whole hours.
const (
	WindowOpenHour  = 7
	WindowCloseHour = 19
)

// Status of a reservation record.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Reservation books the shared laboratory room for one contiguous
// whole-hour interval on one date. Records are immutable after creation
// except for the confirmed -> cancelled transition.
type Reservation struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	StartHour    int       `json:"start_hour"`
	EndHour      int       `json:"end_hour"`
	Duration     int       `json:"duration"` // hours, 1 or 2
	Group        string    `json:"group"`
	Subject      string    `json:"subject"`
	Instructor   string    `json:"instructor"`
	StudentCount int       `json:"student_count"`
	Notes        string    `json:"notes,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	Responsible  string    `json:"responsible"`
}

// IsConfirmed reports whether the reservation currently occupies its slots.
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// OverlapsWith checks if two reservations on the same date intersect.
// Uses half-open interval [start, end) semantics - end boundary is exclusive.
func (r *Reservation) OverlapsWith(other *Reservation) bool {
	if r.Date != other.Date {
		return false
	}
	return r.StartHour < other.EndHour && other.StartHour < r.EndHour
}

// OccupiesHour reports whether the reservation covers the whole-hour slot h.
func (r *Reservation) OccupiesHour(h int) bool {
	return r.StartHour <= h && h < r.EndHour
}

// TimeRange formats the interval for display, e.g. "09:00-11:00".
func (r *Reservation) TimeRange() string {
	return fmt.Sprintf("%02d:00-%02d:00", r.StartHour, r.EndHour)
}

// Validate checks the structural invariants of the record.
func (r *Reservation) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("reservation id is empty")
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	if r.Duration != 1 && r.Duration != 2 {
		return fmt.Errorf("duration must be 1 or 2 hours, got %d", r.Duration)
	}
	if r.StartHour < WindowOpenHour || r.EndHour > WindowCloseHour {
		return fmt.Errorf("interval %s outside permitted window (%02d:00-%02d:00)",
			r.TimeRange(), WindowOpenHour, WindowCloseHour)
	}
	if r.EndHour != r.StartHour+r.Duration {
		return fmt.Errorf("end hour %d does not match start %d + duration %d",
			r.EndHour, r.StartHour, r.Duration)
	}
	if r.Group == "" || r.Subject == "" || r.Instructor == "" {
		return fmt.Errorf("group, subject and instructor are required")
	}
	if r.StudentCount < 0 {
		return fmt.Errorf("student count cannot be negative")
	}
	if r.Status != StatusConfirmed && r.Status != StatusCancelled {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	return nil
}
