package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barber_booking",
			Name:      "booking_created_total",
			Help:      "Count of bookings committed.",
		},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_booking",
			Name:      "booking_rejected_total",
			Help:      "Count of rejected booking attempts by error code.",
		},
		[]string{"reason"},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_booking",
			Name:      "booking_transition_total",
			Help:      "Count of lifecycle transitions by target status.",
		},
		[]string{"status"},
	)

	availabilityRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barber_booking",
			Name:      "availability_requests_total",
			Help:      "Count of availability computations.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingCreated,
			bookingRejected,
			bookingTransition,
			availabilityRequests,
		)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncTransition(status string) {
	bookingTransition.WithLabelValues(status).Inc()
}

func IncAvailabilityRequest() {
	availabilityRequests.Inc()
}
