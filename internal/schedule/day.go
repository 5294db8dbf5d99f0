package schedule

import (
	"context"
	"fmt"

	"labreserve/internal/model"
	"labreserve/internal/store"
)

// SlotStatus describes one whole-hour slot of a day.
type SlotStatus struct {
	Hour        string             `json:"hour"` // "07:00"
	Occupied    bool               `json:"occupied"`
	Reservation *model.Reservation `json:"reservation,omitempty"`
	IsStart     bool               `json:"is_start"` // slot anchors a multi-hour reservation
}

// DayDetail is the per-hour occupancy breakdown for one date, with the
// day's statistics and the start times still open for booking.
type DayDetail struct {
	Date              string       `json:"date"`
	Slots             []SlotStatus `json:"slots"` // one per hour 07..18
	FreeStartTimes    []string     `json:"free_start_times"`
	TotalReservations int          `json:"total_reservations"`
	ReservedHours     int          `json:"reserved_hours"`
	UniqueGroups      int          `json:"unique_groups"`
	UniqueSubjects    int          `json:"unique_subjects"`
}

// DayBuilder derives day detail views from the reservation store.
type DayBuilder struct {
	store store.Store
}

// NewDayBuilder creates a day detail builder over the given store.
func NewDayBuilder(s store.Store) *DayBuilder {
	return &DayBuilder{store: s}
}

// BuildDayDetail scans the date's confirmed reservations and derives the
// occupancy status of every whole-hour slot in the operating window. Two
// confirmed reservations claiming the same hour violate the no-overlap
// invariant and surface as ErrDataIntegrity rather than being resolved
// silently.
func (b *DayBuilder) BuildDayDetail(ctx context.Context, date string) (*DayDetail, error) {
	all, err := b.store.ReadAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "read", Err: err}
	}

	var dayReservations []model.Reservation
	for _, r := range all {
		if r.Date == date && r.IsConfirmed() {
			dayReservations = append(dayReservations, r)
		}
	}

	detail := &DayDetail{Date: date}
	groups := make(map[string]struct{})
	subjects := make(map[string]struct{})
	for i := range dayReservations {
		r := &dayReservations[i]
		detail.TotalReservations++
		detail.ReservedHours += r.Duration
		groups[r.Group] = struct{}{}
		subjects[r.Subject] = struct{}{}
	}
	detail.UniqueGroups = len(groups)
	detail.UniqueSubjects = len(subjects)

	for hour := model.WindowOpenHour; hour < model.WindowCloseHour; hour++ {
		slot := SlotStatus{Hour: FormatHour(hour)}
		for i := range dayReservations {
			r := &dayReservations[i]
			if !r.OccupiesHour(hour) {
				continue
			}
			if slot.Occupied {
				return nil, fmt.Errorf("hour %s on %s claimed by reservations %s and %s: %w",
					slot.Hour, date, slot.Reservation.ID, r.ID, ErrDataIntegrity)
			}
			slot.Occupied = true
			slot.Reservation = r
			slot.IsStart = hour == r.StartHour
		}
		detail.Slots = append(detail.Slots, slot)
		if !slot.Occupied {
			detail.FreeStartTimes = append(detail.FreeStartTimes, slot.Hour)
		}
	}

	return detail, nil
}

// ListFreeStartTimes returns the hours of the operating window not covered
// by any confirmed reservation. Derived from BuildDayDetail so the two
// views cannot drift apart.
func (b *DayBuilder) ListFreeStartTimes(ctx context.Context, date string) ([]string, error) {
	detail, err := b.BuildDayDetail(ctx, date)
	if err != nil {
		return nil, err
	}
	return detail.FreeStartTimes, nil
}
