package protocol

import (
	"time"

	"github.com/example/ride-hub/internal/models"
)

// Outbound message type names.
const (
	TypeConnectionEstablished = "connection_established"
	TypeRegistrationSuccess   = "registration_success"
	TypeError                 = "error"
	TypePoolUpdate            = "pool_update"
	TypeMatchResult           = "match_result"
	TypeBookingRequest        = "booking_request"
	TypeRideAccepted          = "ride_accepted"
	TypeMatchRejected         = "match_rejected"
	TypeBookingReminder       = "booking_reminder"
	TypeStatusUpdated         = "status_updated"
	TypeBookingProcessed      = "booking_processed"
)

type ConnectionEstablished struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	ConnectionID string `json:"connectionId"`
}

func NewConnectionEstablished(connID string) ConnectionEstablished {
	return ConnectionEstablished{
		Type:         TypeConnectionEstablished,
		Message:      "Connected to ride-matching service",
		ConnectionID: connID,
	}
}

// PoolCounts reports how many driver and user connections are registered,
// regardless of pool membership.
type PoolCounts struct {
	DriversCount int `json:"driversCount"`
	UsersCount   int `json:"usersCount"`
}

type RegistrationSuccess struct {
	Type    string     `json:"type"`
	Message string     `json:"message"`
	Pool    PoolCounts `json:"pool"`
}

func NewRegistrationSuccess(message string, counts PoolCounts) RegistrationSuccess {
	return RegistrationSuccess{Type: TypeRegistrationSuccess, Message: message, Pool: counts}
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}

// MatchInfo rides along on a pool update after a booking was accepted.
type MatchInfo struct {
	RideID string `json:"rideId"`
	Status string `json:"status"`
	User   string `json:"user"`
	Driver string `json:"driver"`
}

// PoolUpdate is a full point-in-time snapshot of the active pool, pushed
// to the observer after every pool-affecting event. Snapshots are complete
// rather than deltas, so a missed intermediate push is harmless.
type PoolUpdate struct {
	Type             string                `json:"type"`
	AvailableDrivers []models.DriverRecord `json:"availableDrivers"`
	AvailableUsers   []models.UserRecord   `json:"availableUsers"`
	Connections      PoolCounts            `json:"connections"`
	MatchInfo        *MatchInfo            `json:"matchInfo,omitempty"`
}

type MatchResult struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	RideID  string `json:"rideId,omitempty"`
}

type BookingRequest struct {
	Type             string         `json:"type"`
	RideID           string         `json:"rideId"`
	DriverID         string         `json:"driverId"`
	DriverName       string         `json:"driverName"`
	DriverRating     float64        `json:"driverRating"`
	VehicleDetails   models.Vehicle `json:"vehicleDetails"`
	EstimatedArrival int            `json:"estimatedArrival"`
	EstimatedFare    float64        `json:"estimatedFare"`
	PickupTime       string         `json:"pickupTime"`
	Pickup           string         `json:"pickup"`
	Destination      string         `json:"destination"`
}

// RiderSummary is the rider's public profile shared with the driver once
// a booking is accepted.
type RiderSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

type RideAccepted struct {
	Type          string       `json:"type"`
	RideID        string       `json:"rideId"`
	User          RiderSummary `json:"user"`
	Pickup        models.Place `json:"pickup"`
	Destination   models.Place `json:"destination"`
	EstimatedFare float64      `json:"estimatedFare"`
	Timestamp     time.Time    `json:"timestamp"`
}

type ActivePoolView struct {
	AvailableDrivers []models.DriverRecord `json:"availableDrivers"`
	AvailableUsers   []models.UserRecord   `json:"availableUsers"`
}

type MatchRejected struct {
	Type       string         `json:"type"`
	RideID     string         `json:"rideId"`
	UserID     string         `json:"userId"`
	DriverID   string         `json:"driverId"`
	ActivePool ActivePoolView `json:"activePool"`
}

type BookingReminder struct {
	Type       string `json:"type"`
	RideID     string `json:"rideId"`
	DriverID   string `json:"driverId"`
	DriverName string `json:"driverName"`
	PickupTime string `json:"pickupTime"`
}

type StatusUpdated struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type BookingProcessed struct {
	Type   string            `json:"type"`
	RideID string            `json:"rideId"`
	Status models.RideStatus `json:"status"`
}
