package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReservation() Reservation {
	return Reservation{
		ID:           "res-1",
		Date:         "2024-06-10",
		StartHour:    9,
		EndHour:      11,
		Duration:     2,
		Group:        "3A",
		Subject:      "Química",
		Instructor:   "García",
		StudentCount: 24,
		Status:       StatusConfirmed,
		CreatedAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Responsible:  "coordinator",
	}
}

func TestOverlapsWith(t *testing.T) {
	base := validReservation() // [9, 11) on 2024-06-10

	tests := []struct {
		name      string
		date      string
		start     int
		end       int
		wantMatch bool
	}{
		{"same interval", "2024-06-10", 9, 11, true},
		{"starts inside", "2024-06-10", 10, 11, true},
		{"covers fully", "2024-06-10", 8, 12, true},
		{"touches end boundary", "2024-06-10", 11, 12, false},
		{"touches start boundary", "2024-06-10", 8, 9, false},
		{"different date", "2024-06-11", 9, 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := Reservation{Date: tt.date, StartHour: tt.start, EndHour: tt.end}
			assert.Equal(t, tt.wantMatch, base.OverlapsWith(&other))
			assert.Equal(t, tt.wantMatch, other.OverlapsWith(&base))
		})
	}
}

func TestOccupiesHour(t *testing.T) {
	r := validReservation() // [9, 11)

	assert.False(t, r.OccupiesHour(8))
	assert.True(t, r.OccupiesHour(9))
	assert.True(t, r.OccupiesHour(10))
	assert.False(t, r.OccupiesHour(11))
}

func TestTimeRange(t *testing.T) {
	r := validReservation()
	assert.Equal(t, "09:00-11:00", r.TimeRange())

	r.StartHour, r.EndHour = 7, 8
	assert.Equal(t, "07:00-08:00", r.TimeRange())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Reservation)
		wantErr bool
	}{
		{"valid", func(r *Reservation) {}, false},
		{"single hour at window close", func(r *Reservation) {
			r.StartHour, r.EndHour, r.Duration = 18, 19, 1
		}, false},
		{"empty id", func(r *Reservation) { r.ID = "" }, true},
		{"bad date", func(r *Reservation) { r.Date = "10/06/2024" }, true},
		{"zero duration", func(r *Reservation) { r.Duration = 0 }, true},
		{"three hour duration", func(r *Reservation) { r.Duration = 3; r.EndHour = 12 }, true},
		{"before window", func(r *Reservation) { r.StartHour, r.EndHour = 6, 8 }, true},
		{"past window close", func(r *Reservation) { r.StartHour, r.EndHour = 18, 20 }, true},
		{"end does not match duration", func(r *Reservation) { r.EndHour = 12 }, true},
		{"missing group", func(r *Reservation) { r.Group = "" }, true},
		{"negative students", func(r *Reservation) { r.StudentCount = -1 }, true},
		{"unknown status", func(r *Reservation) { r.Status = "pending" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReservation()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
