package protocol

import (
	"errors"
	"testing"
)

func TestDecodeKnownTypes(t *testing.T) {
	cases := []struct {
		name  string
		frame string
		check func(t *testing.T, msg Inbound)
	}{
		{
			name:  "driver_register",
			frame: `{"type":"driver_register","driverId":"d-10234"}`,
			check: func(t *testing.T, msg Inbound) {
				m, ok := msg.(DriverRegister)
				if !ok || m.DriverID != "d-10234" {
					t.Fatalf("got %#v", msg)
				}
			},
		},
		{
			name:  "user_register",
			frame: `{"type":"user_register","userId":"u-20456"}`,
			check: func(t *testing.T, msg Inbound) {
				m, ok := msg.(UserRegister)
				if !ok || m.UserID != "u-20456" {
					t.Fatalf("got %#v", msg)
				}
			},
		},
		{
			name:  "matcher_register",
			frame: `{"type":"matcher_register"}`,
			check: func(t *testing.T, msg Inbound) {
				if _, ok := msg.(MatcherRegister); !ok {
					t.Fatalf("got %#v", msg)
				}
			},
		},
		{
			name:  "driver_status with location",
			frame: `{"type":"driver_status","isAvailable":true,"location":{"lat":12.9,"lng":77.6}}`,
			check: func(t *testing.T, msg Inbound) {
				m, ok := msg.(DriverStatus)
				if !ok || !m.IsAvailable || m.Location == nil || m.Location.Lat != 12.9 {
					t.Fatalf("got %#v", msg)
				}
			},
		},
		{
			name:  "driver_status without location",
			frame: `{"type":"driver_status","isAvailable":false}`,
			check: func(t *testing.T, msg Inbound) {
				m, ok := msg.(DriverStatus)
				if !ok || m.IsAvailable || m.Location != nil {
					t.Fatalf("got %#v", msg)
				}
			},
		},
		{
			name:  "match_request",
			frame: `{"type":"match_request","userId":"u1","driverId":"d1"}`,
			check: func(t *testing.T, msg Inbound) {
				m, ok := msg.(MatchRequest)
				if !ok || m.UserID != "u1" || m.DriverID != "d1" {
					t.Fatalf("got %#v", msg)
				}
			},
		},
		{
			name:  "booking_response",
			frame: `{"type":"booking_response","rideId":"ride-1","response":"remind"}`,
			check: func(t *testing.T, msg Inbound) {
				m, ok := msg.(BookingResponse)
				if !ok || m.RideID != "ride-1" || m.Response != ResponseRemind {
					t.Fatalf("got %#v", msg)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Decode([]byte(tc.frame))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			tc.check(t, msg)
		})
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"teleport"}`))
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
	if unknown.Type != "teleport" {
		t.Fatalf("wrong type captured: %q", unknown.Type)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected error for truncated frame")
	}
	var unknown *UnknownTypeError
	if _, err := Decode([]byte(`{"type":"driver_status","isAvailable":"yes"}`)); err == nil || errors.As(err, &unknown) {
		t.Fatalf("expected payload error, got %v", err)
	}
}
