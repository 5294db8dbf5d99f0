// Package store persists reservation records. The engine only requires
// read-all / write-all semantics: WriteAll replaces the full record set
// atomically, so a failed write never leaves a partial state behind.
package store

import (
	"context"

	"labreserve/internal/model"
)

// Store is the persistence collaborator consumed by the scheduling engine.
type Store interface {
	// ReadAll returns every reservation ordered by date and start hour.
	ReadAll(ctx context.Context) ([]model.Reservation, error)

	// WriteAll replaces the full reservation set. All-or-nothing: on error
	// the previous set is still in place.
	WriteAll(ctx context.Context, reservations []model.Reservation) error
}
