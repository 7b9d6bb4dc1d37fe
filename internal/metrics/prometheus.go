package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Submissions counts contact form submissions by outcome
	// ("accepted", "invalid", "failed").
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Total number of contact form submissions by outcome",
		},
		[]string{"outcome"},
	)

	// Notifications counts notification attempts by kind and outcome ("sent", "failed").
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_notifications_total",
			Help: "Total number of notification emails attempted by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// HTTPRequests counts served requests by method and status code.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method and status",
		},
		[]string{"method", "status"},
	)

	// StoredMessages is the record count seen by the last full enumeration.
	StoredMessages = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_messages_stored",
			Help: "Number of contact messages seen by the last full enumeration",
		},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(Submissions)
	prometheus.MustRegister(Notifications)
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(StoredMessages)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
