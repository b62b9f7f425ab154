package hub

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/ride-hub/internal/eta"
	"github.com/example/ride-hub/internal/models"
	"github.com/example/ride-hub/internal/protocol"
)

var (
	// ErrNotInPool reports a match request naming an id that is not an
	// active pool member.
	ErrNotInPool = errors.New("not found in active pool")
	// ErrNotConnected reports a pool member whose connection has gone
	// away. Pool membership and live connection can diverge briefly, so
	// both are checked independently.
	ErrNotConnected = errors.New("not connected")
)

// Engine validates a user/driver pair and delivers the booking proposal.
// It deliberately does not touch the pool: both parties stay visible to
// other match requests until the user accepts. Two observers can therefore
// propose the same driver concurrently; that window is a known property of
// the protocol, kept rather than papered over with a reserve state.
type Engine struct {
	Pool     *Pool
	Registry *Registry
	Ledger   *Ledger
	ETA      eta.Estimator
	Log      *slog.Logger
}

// Match checks preconditions in order (pool membership, then live
// connections), creates the ledger entry and pushes a booking_request to
// the user. No ledger entry is created on failure.
func (e *Engine) Match(userID, driverID string) (*models.Ride, error) {
	if err := e.checkPool(userID, driverID); err != nil {
		return nil, err
	}
	if err := e.checkConnections(userID, driverID); err != nil {
		return nil, err
	}

	user, _ := e.Pool.User(userID)
	driver, _ := e.Pool.Driver(driverID)
	ride := e.Ledger.Create(user, driver)

	req := protocol.BookingRequest{
		Type:             protocol.TypeBookingRequest,
		RideID:           ride.ID,
		DriverID:         driver.ID,
		DriverName:       driver.Name,
		DriverRating:     driver.Rating,
		VehicleDetails:   driver.Vehicle,
		EstimatedArrival: e.ETA.ArrivalMinutes(driver.CurrentLocation, ride.PickupLocation),
		EstimatedFare:    ride.EstimatedFare,
		PickupTime:       ride.ScheduledTime,
		Pickup:           ride.PickupLocation.Address,
		Destination:      ride.DropLocation.Address,
	}
	if !e.Registry.SendToClient(userID, req) {
		// Delivery failure is never fatal; the ride stays pending and the
		// observer still gets a success result with the ride id.
		e.Log.Warn("booking request delivery failed", "user_id", userID, "ride_id", ride.ID)
	}
	return ride, nil
}

func (e *Engine) checkPool(userID, driverID string) error {
	var missing []string
	if !e.Pool.HasUser(userID) {
		missing = append(missing, fmt.Sprintf("user (%s)", userID))
	}
	if !e.Pool.HasDriver(driverID) {
		missing = append(missing, fmt.Sprintf("driver (%s)", driverID))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s %w", strings.Join(missing, " and "), ErrNotInPool)
	}
	return nil
}

func (e *Engine) checkConnections(userID, driverID string) error {
	var gone []string
	if !e.Registry.UserConnected(userID) {
		gone = append(gone, fmt.Sprintf("user (%s)", userID))
	}
	if !e.Registry.DriverConnected(driverID) {
		gone = append(gone, fmt.Sprintf("driver (%s)", driverID))
	}
	if len(gone) > 0 {
		return fmt.Errorf("%s %w", strings.Join(gone, " and "), ErrNotConnected)
	}
	return nil
}
