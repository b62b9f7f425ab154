package eta

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/example/ride-hub/internal/models"
)

// OSRMEstimator asks an OSRM HTTP server for a driving duration and rounds
// it up to minutes. Any lookup failure falls back to the configured
// Fallback estimator so a booking proposal is never blocked on routing.
type OSRMEstimator struct {
	Endpoint string
	Client   *http.Client
	Fallback Estimator
}

func NewOSRMEstimator(endpoint string, fallback Estimator) *OSRMEstimator {
	return &OSRMEstimator{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 2 * time.Second},
		Fallback: fallback,
	}
}

func (o *OSRMEstimator) ArrivalMinutes(from models.LatLng, to models.Place) int {
	sec, err := o.routeSeconds(from, to)
	if err != nil && o.Fallback != nil {
		return o.Fallback.ArrivalMinutes(from, to)
	}
	if err != nil || sec <= 0 {
		return 1
	}
	return int(math.Ceil(sec / 60))
}

// routeSeconds queries /route/v1/driving/{lon1},{lat1};{lon2},{lat2}.
func (o *OSRMEstimator) routeSeconds(from models.LatLng, to models.Place) (float64, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		o.Endpoint, from.Lng, from.Lat, to.Lng, to.Lat)
	resp, err := o.Client.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	var out struct {
		Routes []struct {
			Duration float64 `json:"duration"`
		} `json:"routes"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return 0, fmt.Errorf("osrm no route: %v", out.Code)
	}
	return out.Routes[0].Duration, nil
}
