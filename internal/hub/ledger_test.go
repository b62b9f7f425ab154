package hub

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/ride-hub/internal/models"
)

func TestLedgerCreateCopiesTripParams(t *testing.T) {
	l := NewLedger()
	user := models.UserRecord{
		ID: "u1",
		RideRequest: models.RideRequest{
			PickupLocation: models.Place{Address: "MG Road"},
			DropLocation:   models.Place{Address: "HSR Layout"},
			EstimatedFare:  220,
			ScheduledTime:  "18:30",
		},
	}
	ride := l.Create(user, models.DriverRecord{ID: "d1"})

	if !strings.HasPrefix(ride.ID, "ride-") {
		t.Fatalf("unexpected ride id %q", ride.ID)
	}
	if ride.Status != models.RidePending {
		t.Fatalf("new ride must be pending, got %s", ride.Status)
	}
	if ride.EstimatedFare != 220 || ride.PickupLocation.Address != "MG Road" || ride.ScheduledTime != "18:30" {
		t.Fatalf("trip params not copied: %+v", ride)
	}
	if ride.RequestTime.IsZero() {
		t.Fatalf("request time must be set")
	}

	got, ok := l.Get(ride.ID)
	if !ok || got != ride {
		t.Fatalf("ledger must retain the created entry")
	}
}

func TestLedgerDistinctIDs(t *testing.T) {
	l := NewLedger()
	a := l.Create(models.UserRecord{ID: "u1"}, models.DriverRecord{ID: "d1"})
	b := l.Create(models.UserRecord{ID: "u1"}, models.DriverRecord{ID: "d1"})
	if a.ID == b.ID {
		t.Fatalf("ride ids must be unique, both %q", a.ID)
	}
}

func TestLedgerTransition(t *testing.T) {
	l := NewLedger()
	ride := l.Create(models.UserRecord{ID: "u1"}, models.DriverRecord{ID: "d1"})

	got, err := l.Transition(ride.ID, models.RideAccepted)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if got.Status != models.RideAccepted {
		t.Fatalf("status not applied: %s", got.Status)
	}

	// Terminal entries are retained, not deleted.
	if _, ok := l.Get(ride.ID); !ok {
		t.Fatalf("terminal ride must stay in the ledger")
	}
}

func TestLedgerTransitionUnknownRide(t *testing.T) {
	l := NewLedger()
	_, err := l.Transition("ride-missing", models.RideAccepted)
	if !errors.Is(err, ErrRideNotFound) {
		t.Fatalf("expected ErrRideNotFound, got %v", err)
	}
}

func TestRideStatusTerminal(t *testing.T) {
	if models.RidePending.Terminal() || models.RideRemind.Terminal() {
		t.Fatalf("pending/remind are not terminal")
	}
	if !models.RideAccepted.Terminal() || !models.RideRejected.Terminal() {
		t.Fatalf("accepted/rejected are terminal")
	}
}
