package hub

import (
	"sort"

	"github.com/example/ride-hub/internal/models"
	"github.com/example/ride-hub/internal/protocol"
)

// Pool is the set of currently available drivers and currently waiting
// users. Membership is the availability encoding: an unavailable driver is
// absent from the pool, not present with a flag, so matching only ever
// checks membership. Mutations are idempotent set operations; callers are
// expected to have validated existence where an error must surface.
//
// The pool is guarded by the hub's dispatch mutex, not its own: every
// mutation happens inside a single message handler invocation.
type Pool struct {
	drivers map[string]models.DriverRecord
	users   map[string]models.UserRecord
}

func NewPool() *Pool {
	return &Pool{
		drivers: make(map[string]models.DriverRecord),
		users:   make(map[string]models.UserRecord),
	}
}

// AddDriver inserts the record unless the id is already present, guarding
// against duplicate registration races.
func (p *Pool) AddDriver(rec models.DriverRecord) {
	if _, ok := p.drivers[rec.ID]; ok {
		return
	}
	p.drivers[rec.ID] = rec
}

func (p *Pool) RemoveDriver(id string) {
	delete(p.drivers, id)
}

func (p *Pool) AddUser(rec models.UserRecord) {
	if _, ok := p.users[rec.ID]; ok {
		return
	}
	p.users[rec.ID] = rec
}

func (p *Pool) RemoveUser(id string) {
	delete(p.users, id)
}

func (p *Pool) HasDriver(id string) bool {
	_, ok := p.drivers[id]
	return ok
}

func (p *Pool) HasUser(id string) bool {
	_, ok := p.users[id]
	return ok
}

func (p *Pool) Driver(id string) (models.DriverRecord, bool) {
	rec, ok := p.drivers[id]
	return rec, ok
}

func (p *Pool) User(id string) (models.UserRecord, bool) {
	rec, ok := p.users[id]
	return rec, ok
}

// SetDriverAvailability flips a driver in or out of the pool. Going
// available updates the existing entry's flag and location, or clones the
// template via lookup when the driver is not pooled yet. Going unavailable
// removes the entry outright; a quick toggle is therefore a full
// remove/recreate, which keeps matching a pure membership scan.
// Returns false when the driver is unknown to the template lookup.
func (p *Pool) SetDriverAvailability(id string, available bool, location *models.LatLng, lookup func(string) (models.DriverRecord, bool)) bool {
	if !available {
		delete(p.drivers, id)
		return true
	}
	rec, pooled := p.drivers[id]
	if !pooled {
		tmpl, ok := lookup(id)
		if !ok {
			return false
		}
		rec = tmpl
	}
	rec.AvailableForRides = true
	if location != nil {
		rec.CurrentLocation = *location
	}
	p.drivers[id] = rec
	return true
}

func (p *Pool) DriverCount() int { return len(p.drivers) }
func (p *Pool) UserCount() int   { return len(p.users) }

// Snapshot returns the pool contents sorted by id so observer pushes are
// deterministic.
func (p *Pool) Snapshot() protocol.ActivePoolView {
	drivers := make([]models.DriverRecord, 0, len(p.drivers))
	for _, d := range p.drivers {
		drivers = append(drivers, d)
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].ID < drivers[j].ID })

	users := make([]models.UserRecord, 0, len(p.users))
	for _, u := range p.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return protocol.ActivePoolView{AvailableDrivers: drivers, AvailableUsers: users}
}
