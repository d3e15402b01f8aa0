package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	cmsRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinebook",
			Name:      "cms_requests_total",
			Help:      "Outbound CMS requests by path and outcome.",
		},
		[]string{"path", "outcome"},
	)

	paymentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinebook",
			Name:      "payment_transitions_total",
			Help:      "Payment session transitions by target state.",
		},
		[]string{"state"},
	)

	reservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinebook",
			Name:      "reservations_total",
			Help:      "Reservation outcomes by status.",
		},
		[]string{"status"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(cmsRequests, paymentTransitions, reservations)
	})
}

// IncCMSRequest increments the outbound request counter.
func IncCMSRequest(path, outcome string) {
	cmsRequests.WithLabelValues(path, outcome).Inc()
}

// IncPaymentTransition counts an entry into a payment state.
func IncPaymentTransition(state string) {
	paymentTransitions.WithLabelValues(state).Inc()
}

// IncReservation counts a reservation reaching a status.
func IncReservation(status string) {
	reservations.WithLabelValues(status).Inc()
}
