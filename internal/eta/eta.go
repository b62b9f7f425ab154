// Package eta estimates driver arrival times for booking proposals.
package eta

import (
	"math/rand"
	"sync"

	"github.com/example/ride-hub/internal/models"
)

// Estimator produces a driver-to-pickup arrival estimate in whole minutes.
// The hub treats the estimator as pluggable so the demo randomizer can be
// swapped for a routing-backed one without touching the protocol.
type Estimator interface {
	ArrivalMinutes(from models.LatLng, to models.Place) int
}

// RandomEstimator picks a uniform value in [Min, Max] minutes, ignoring
// the coordinates. It stands in for real distance and traffic data.
type RandomEstimator struct {
	Min int
	Max int

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomEstimator(min, max int, seed int64) *RandomEstimator {
	if max < min {
		max = min
	}
	return &RandomEstimator{Min: min, Max: max, rnd: rand.New(rand.NewSource(seed))}
}

func (e *RandomEstimator) ArrivalMinutes(models.LatLng, models.Place) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Min + e.rnd.Intn(e.Max-e.Min+1)
}
