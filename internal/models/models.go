package models

import "time"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a coordinate with a human-readable address, used for pickup
// and drop points.
type Place struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type Vehicle struct {
	Model  string `json:"model"`
	Number string `json:"number"`
	Color  string `json:"color"`
	Type   string `json:"type"`
}

type DailyStats struct {
	Earnings       float64 `json:"earnings"`
	CompletedRides int     `json:"completedRides"`
	DeclinedRides  int     `json:"declinedRides"`
	AcceptanceRate float64 `json:"acceptanceRate"`
	OnlineHours    float64 `json:"onlineHours"`
}

// DriverRecord is a driver profile plus live availability state. The
// authoritative template lives in the profile directory; the active pool
// holds a working copy per driver id.
type DriverRecord struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Phone             string     `json:"phone"`
	Rating            float64    `json:"rating"`
	Vehicle           Vehicle    `json:"vehicle"`
	CurrentLocation   LatLng     `json:"currentLocation"`
	CompletedRides    int        `json:"completedRides"`
	TotalEarnings     float64    `json:"totalEarnings"`
	AvailableForRides bool       `json:"availableForRides"`
	DailyStats        DailyStats `json:"dailyStats"`
}

// RideRequest is the single pending request embedded in a user profile.
type RideRequest struct {
	PickupLocation    Place   `json:"pickupLocation"`
	DropLocation      Place   `json:"dropLocation"`
	ScheduledTime     string  `json:"scheduledTime"`
	EstimatedFare     float64 `json:"estimatedFare"`
	EstimatedDistance float64 `json:"estimatedDistance"`
	EstimatedTime     float64 `json:"estimatedTime"`
	VehicleType       string  `json:"vehicleType"`
	PaymentMethod     string  `json:"paymentMethod"`
}

type UserRecord struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Phone           string      `json:"phone"`
	Rating          float64     `json:"rating"`
	CurrentLocation Place       `json:"currentLocation"`
	RideRequest     RideRequest `json:"rideRequest"`
}

type RideStatus string

const (
	RidePending  RideStatus = "pending"
	RideAccepted RideStatus = "accepted"
	RideRejected RideStatus = "rejected"
	RideRemind   RideStatus = "remind"
)

// Terminal reports whether a status ends the booking handshake. A remind
// is not terminal; the user can still accept or reject afterwards.
func (s RideStatus) Terminal() bool {
	return s == RideAccepted || s == RideRejected
}

// Ride is one proposed driver-user pairing. User and Driver are snapshots
// taken at match time; trip parameters are copied out of the user's ride
// request so later profile edits cannot shift an in-flight booking.
type Ride struct {
	ID                string       `json:"id"`
	User              UserRecord   `json:"user"`
	Driver            DriverRecord `json:"driver"`
	Status            RideStatus   `json:"status"`
	RequestTime       time.Time    `json:"requestTime"`
	PickupLocation    Place        `json:"pickupLocation"`
	DropLocation      Place        `json:"dropLocation"`
	EstimatedFare     float64      `json:"estimatedFare"`
	EstimatedDistance float64      `json:"estimatedDistance"`
	EstimatedTime     float64      `json:"estimatedTime"`
	ScheduledTime     string       `json:"scheduledTime"`
}
