// Package metrics exposes Prometheus counters for the HTTP surface
// and the reservation engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel_booking",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel_booking",
			Name:      "bookings_total",
			Help:      "Successful reservations by kind (hotel, car, flight).",
		},
		[]string{"kind"},
	)

	bookingConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel_booking",
			Name:      "booking_conflicts_total",
			Help:      "Reservations rejected for overlap or capacity, by kind.",
		},
		[]string{"kind"},
	)
)

// Register registers all collectors. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookings, bookingConflicts)
	})
}

// IncHTTP increments the request counter.
func IncHTTP(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}

// IncBooking counts a successful reservation of the given kind.
func IncBooking(kind string) {
	bookings.WithLabelValues(kind).Inc()
}

// IncConflict counts a rejected reservation of the given kind.
func IncConflict(kind string) {
	bookingConflicts.WithLabelValues(kind).Inc()
}
