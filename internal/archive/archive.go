// Package archive keeps a best-effort audit trail of ledger entries. The
// in-memory ledger stays authoritative; archive failures are logged by
// callers and never gate the booking flow.
package archive

import (
	"sync"

	"github.com/example/ride-hub/internal/models"
)

// RideArchive defines persistence operations for rides.
type RideArchive interface {
	SaveRide(r *models.Ride) error
	UpdateRide(r *models.Ride) error
}

type MemoryArchive struct {
	mu    sync.RWMutex
	rides map[string]models.Ride
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{rides: make(map[string]models.Ride)}
}

func (m *MemoryArchive) SaveRide(r *models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[r.ID] = *r
	return nil
}

func (m *MemoryArchive) UpdateRide(r *models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[r.ID] = *r
	return nil
}

func (m *MemoryArchive) Get(id string) (models.Ride, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rides[id]
	return r, ok
}
