package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsByRole = promauto.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "ride_hub", Name: "connections", Help: "Registered connections by role"},
		[]string{"role"},
	)
	PoolDrivers = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "ride_hub", Name: "pool_drivers", Help: "Available drivers in the active pool"})
	PoolUsers   = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "ride_hub", Name: "pool_users", Help: "Waiting users in the active pool"})

	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_hub", Name: "messages_total", Help: "Inbound messages handled by type"},
		[]string{"type"},
	)
	MessageErrors = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_hub", Name: "message_errors_total", Help: "Inbound messages rejected with an error frame"})

	MatchesTotal  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_hub", Name: "matches_total", Help: "Booking proposals created"})
	MatchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_hub", Name: "match_failures_total", Help: "Match requests rejected by precondition"},
		[]string{"reason"},
	)
	BookingResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_hub", Name: "booking_responses_total", Help: "Booking responses processed by outcome"},
		[]string{"response"},
	)
	RemindersSent    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_hub", Name: "reminders_sent_total", Help: "Booking reminders delivered"})
	RemindersDropped = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_hub", Name: "reminders_dropped_total", Help: "Reminders skipped because the ride moved on or the user left"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_hub", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ride_hub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
