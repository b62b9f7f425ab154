package hub

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/ride-hub/internal/models"
)

// ErrRideNotFound reports a booking response referencing an id the ledger
// never issued.
var ErrRideNotFound = errors.New("ride not found")

// Ledger holds every pairing attempt of the session, keyed by ride id.
// Entries are never deleted: terminal rides stay so duplicate or late
// responses replay idempotently instead of erroring, and so the reminder
// timer can re-check status. Guarded by the hub's dispatch mutex.
type Ledger struct {
	rides map[string]*models.Ride
}

func NewLedger() *Ledger {
	return &Ledger{rides: make(map[string]*models.Ride)}
}

// Create stores a pending ride pairing the given snapshots, copying the
// user's trip parameters, and returns the generated ride id.
func (l *Ledger) Create(user models.UserRecord, driver models.DriverRecord) *models.Ride {
	req := user.RideRequest
	ride := &models.Ride{
		ID:                fmt.Sprintf("ride-%s", uuid.NewString()),
		User:              user,
		Driver:            driver,
		Status:            models.RidePending,
		RequestTime:       time.Now().UTC(),
		PickupLocation:    req.PickupLocation,
		DropLocation:      req.DropLocation,
		EstimatedFare:     req.EstimatedFare,
		EstimatedDistance: req.EstimatedDistance,
		EstimatedTime:     req.EstimatedTime,
		ScheduledTime:     req.ScheduledTime,
	}
	l.rides[ride.ID] = ride
	return ride
}

func (l *Ledger) Get(id string) (*models.Ride, bool) {
	r, ok := l.rides[id]
	return r, ok
}

// Transition applies a new status. Pool-membership side effects are the
// dispatcher's job, not the ledger's.
func (l *Ledger) Transition(id string, status models.RideStatus) (*models.Ride, error) {
	r, ok := l.rides[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRideNotFound, id)
	}
	r.Status = status
	return r, nil
}
