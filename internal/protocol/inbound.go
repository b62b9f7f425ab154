// Package protocol defines the JSON frames exchanged with drivers, users
// and the observer. Every frame carries a "type" discriminator; inbound
// frames decode into a closed set of message structs so the dispatcher can
// switch over them exhaustively.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/example/ride-hub/internal/models"
)

// Inbound message type names.
const (
	TypeDriverRegister  = "driver_register"
	TypeUserRegister    = "user_register"
	TypeMatcherRegister = "matcher_register"
	TypeDriverStatus    = "driver_status"
	TypeMatchRequest    = "match_request"
	TypeBookingResponse = "booking_response"
)

// Inbound is the closed set of client-to-server messages. The unexported
// method keeps the set sealed to this package.
type Inbound interface {
	inbound()
}

type DriverRegister struct {
	DriverID string `json:"driverId"`
}

type UserRegister struct {
	UserID string `json:"userId"`
}

type MatcherRegister struct{}

type DriverStatus struct {
	IsAvailable bool           `json:"isAvailable"`
	Location    *models.LatLng `json:"location,omitempty"`
}

type MatchRequest struct {
	UserID   string `json:"userId"`
	DriverID string `json:"driverId"`
}

// Booking response values sent by a user.
const (
	ResponseAccept = "accept"
	ResponseReject = "reject"
	ResponseRemind = "remind"
)

type BookingResponse struct {
	RideID   string `json:"rideId"`
	Response string `json:"response"`
}

func (DriverRegister) inbound()  {}
func (UserRegister) inbound()    {}
func (MatcherRegister) inbound() {}
func (DriverStatus) inbound()    {}
func (MatchRequest) inbound()    {}
func (BookingResponse) inbound() {}

// UnknownTypeError reports a frame whose type discriminator is not part of
// the protocol. The connection stays open; the dispatcher replies with an
// error frame.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type: %s", e.Type)
}

// Decode parses a raw frame into its typed inbound message. A frame that
// is not valid JSON, or whose payload does not fit the declared type,
// yields an error; a valid frame with an unrecognized type yields
// *UnknownTypeError.
func Decode(raw []byte) (Inbound, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var (
		msg Inbound
		err error
	)
	switch env.Type {
	case TypeDriverRegister:
		var m DriverRegister
		err = json.Unmarshal(raw, &m)
		msg = m
	case TypeUserRegister:
		var m UserRegister
		err = json.Unmarshal(raw, &m)
		msg = m
	case TypeMatcherRegister:
		msg = MatcherRegister{}
	case TypeDriverStatus:
		var m DriverStatus
		err = json.Unmarshal(raw, &m)
		msg = m
	case TypeMatchRequest:
		var m MatchRequest
		err = json.Unmarshal(raw, &m)
		msg = m
	case TypeBookingResponse:
		var m BookingResponse
		err = json.Unmarshal(raw, &m)
		msg = m
	default:
		return nil, &UnknownTypeError{Type: env.Type}
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return msg, nil
}
