package eta

import (
	"testing"

	"github.com/example/ride-hub/internal/models"
)

func TestRandomEstimatorStaysInRange(t *testing.T) {
	e := NewRandomEstimator(3, 8, 1)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := e.ArrivalMinutes(models.LatLng{}, models.Place{})
		if v < 3 || v > 8 {
			t.Fatalf("estimate %d outside [3,8]", v)
		}
		seen[v] = true
	}
	// Both bounds are inclusive and should show up over enough draws.
	if !seen[3] || !seen[8] {
		t.Fatalf("bounds never drawn: %v", seen)
	}
}

func TestRandomEstimatorDegenerateRange(t *testing.T) {
	e := NewRandomEstimator(5, 2, 1)
	for i := 0; i < 10; i++ {
		if v := e.ArrivalMinutes(models.LatLng{}, models.Place{}); v != 5 {
			t.Fatalf("inverted range must clamp to min, got %d", v)
		}
	}
}
