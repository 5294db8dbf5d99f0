package store

import (
	"context"
	"sync"

	"labreserve/internal/model"
)

// Memory is a mutex-guarded in-memory Store. Used by tests and by
// ephemeral runs that do not configure a database path.
type Memory struct {
	mu    sync.RWMutex
	items []model.Reservation
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// ReadAll returns a copy of the current record set.
func (m *Memory) ReadAll(ctx context.Context) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Reservation, len(m.items))
	copy(out, m.items)
	return out, nil
}

// WriteAll replaces the record set with a copy of reservations.
func (m *Memory) WriteAll(ctx context.Context, reservations []model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make([]model.Reservation, len(reservations))
	copy(m.items, reservations)
	return nil
}
