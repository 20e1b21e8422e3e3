package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	availabilityLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "availability_loads_total",
			Help:      "Count of reservation payload loads by status.",
		},
		[]string{"status"},
	)

	normalizeWarnings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "availability_dropped_entries_total",
			Help:      "Count of payload entries dropped by the normalizer.",
		},
	)

	bookingSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "booking_submitted_total",
			Help:      "Count of booking submissions by outcome.",
		},
		[]string{"outcome"},
	)

	ownerNotified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "owner_notifications_total",
			Help:      "Count of owner notifications by status.",
		},
		[]string{"status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "http_requests_total",
			Help:      "Count of API requests by route.",
		},
		[]string{"route"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(availabilityLoads, normalizeWarnings, bookingSubmitted, ownerNotified, httpRequests)
	})
}

func IncAvailabilityLoad(status string) {
	availabilityLoads.WithLabelValues(status).Inc()
}

func AddNormalizeWarnings(n int) {
	if n > 0 {
		normalizeWarnings.Add(float64(n))
	}
}

// IncBookingSubmitted counts a submission outcome: provisional, confirmed,
// invalid, status_error or transport_error.
func IncBookingSubmitted(outcome string) {
	bookingSubmitted.WithLabelValues(outcome).Inc()
}

func IncOwnerNotified(status string) {
	ownerNotified.WithLabelValues(status).Inc()
}

func IncHTTP(route string) {
	httpRequests.WithLabelValues(route).Inc()
}
