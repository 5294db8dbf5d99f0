package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"labreserve/internal/metrics"
	"labreserve/internal/model"
	"labreserve/internal/store"
)

// CreateRequest carries the booking form fields for a new reservation.
type CreateRequest struct {
	Date         string
	StartHour    int
	Duration     int
	Group        string
	Subject      string
	Instructor   string
	StudentCount int
	Notes        string
	Responsible  string
}

// Invalidator drops cached derived views for a date after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, date string)
}

// Service orchestrates the reservation lifecycle: create, cancel and hard
// delete. Every mutating operation runs its read-check-write sequence under
// one mutex; the availability check and the persisting write are never
// interleaved with another booking attempt, so two concurrent requests for
// overlapping slots cannot both observe "available".
type Service struct {
	mu     sync.Mutex
	store  store.Store
	clock  Clock
	logger *zerolog.Logger
	cache  Invalidator
}

// NewService creates the lifecycle manager.
func NewService(s store.Store, clock Clock, logger *zerolog.Logger) *Service {
	return &Service{store: s, clock: clock, logger: logger}
}

// SetInvalidator wires a cache to be dropped on every successful mutation.
func (s *Service) SetInvalidator(inv Invalidator) {
	s.cache = inv
}

// Create validates the request, checks availability and persists the new
// reservation as one critical section. Returns the created record.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "read", Err: err}
	}

	if err := CheckAgainst(all, req.Date, req.StartHour, req.Duration); err != nil {
		if IsConflict(err) {
			metrics.IncSlotConflict()
		}
		return nil, err
	}

	reservation := model.Reservation{
		ID:           uuid.NewString(),
		Date:         req.Date,
		StartHour:    req.StartHour,
		EndHour:      req.StartHour + req.Duration,
		Duration:     req.Duration,
		Group:        req.Group,
		Subject:      req.Subject,
		Instructor:   req.Instructor,
		StudentCount: req.StudentCount,
		Notes:        req.Notes,
		Status:       model.StatusConfirmed,
		CreatedAt:    s.clock.Now(),
		Responsible:  req.Responsible,
	}

	all = append(all, reservation)
	if err := s.store.WriteAll(ctx, all); err != nil {
		return nil, &PersistenceError{Op: "write", Err: err}
	}

	metrics.IncReservationCreated()
	s.invalidate(ctx, reservation.Date)
	s.logger.Info().
		Str("id", reservation.ID).
		Str("date", reservation.Date).
		Str("interval", reservation.TimeRange()).
		Str("group", reservation.Group).
		Str("responsible", reservation.Responsible).
		Msg("reservation created")

	return &reservation, nil
}

// Cancel marks a confirmed reservation as cancelled. Cancellation is
// terminal for the record; cancelling anything not currently confirmed
// returns ErrNotFound.
func (s *Service) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return &PersistenceError{Op: "read", Err: err}
	}

	found := false
	for i := range all {
		if all[i].ID == id && all[i].IsConfirmed() {
			all[i].Status = model.StatusCancelled
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}

	if err := s.store.WriteAll(ctx, all); err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}

	metrics.IncReservationCancelled()
	s.invalidate(ctx, dateOf(all, id))
	s.logger.Info().Str("id", id).Msg("reservation cancelled")
	return nil
}

// Delete removes the record entirely regardless of status. Restricted to
// elevated-privilege callers; authorization is enforced by the transport
// layer, not here.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return &PersistenceError{Op: "read", Err: err}
	}

	date := ""
	kept := all[:0]
	for _, r := range all {
		if r.ID == id {
			date = r.Date
			continue
		}
		kept = append(kept, r)
	}
	if date == "" {
		return ErrNotFound
	}

	if err := s.store.WriteAll(ctx, kept); err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}

	metrics.IncReservationDeleted()
	s.invalidate(ctx, date)
	s.logger.Info().Str("id", id).Msg("reservation deleted")
	return nil
}

func (s *Service) invalidate(ctx context.Context, date string) {
	if s.cache != nil && date != "" {
		s.cache.Invalidate(ctx, date)
	}
}

func validateCreate(req CreateRequest) error {
	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.Group == "" {
		return fmt.Errorf("%w: group is required", ErrInvalidInput)
	}
	if req.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if req.Instructor == "" {
		return fmt.Errorf("%w: instructor is required", ErrInvalidInput)
	}
	if req.Responsible == "" {
		return fmt.Errorf("%w: responsible user is required", ErrInvalidInput)
	}
	if req.Duration != 1 && req.Duration != 2 {
		return fmt.Errorf("%w: duration must be 1 or 2 hours", ErrInvalidInput)
	}
	if req.StudentCount < 0 {
		return fmt.Errorf("%w: student count cannot be negative", ErrInvalidInput)
	}
	return nil
}

func dateOf(all []model.Reservation, id string) string {
	for i := range all {
		if all[i].ID == id {
			return all[i].Date
		}
	}
	return ""
}

// IsRecoverable reports whether err is a validation or conflict error that
// should be shown to the caller, as opposed to a persistence or integrity
// failure.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrNotFound) ||
		IsConflict(err)
}
