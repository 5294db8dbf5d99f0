package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labreserve",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labreserve",
			Name:      "reservation_cancelled_total",
			Help:      "Count of reservations cancelled.",
		},
	)

	reservationDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labreserve",
			Name:      "reservation_deleted_total",
			Help:      "Count of reservations hard-deleted by admins.",
		},
	)

	slotConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labreserve",
			Name:      "slot_conflict_total",
			Help:      "Count of booking attempts rejected due to slot overlap.",
		},
	)

	integrityViolation = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labreserve",
			Name:      "integrity_violation_total",
			Help:      "Count of detected no-overlap invariant violations in the store.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationCreated,
			reservationCancelled,
			reservationDeleted,
			slotConflict,
			integrityViolation,
		)
	})
}

func IncReservationCreated()   { reservationCreated.Inc() }
func IncReservationCancelled() { reservationCancelled.Inc() }
func IncReservationDeleted()   { reservationDeleted.Inc() }
func IncSlotConflict()         { slotConflict.Inc() }
func IncIntegrityViolation()   { integrityViolation.Inc() }
