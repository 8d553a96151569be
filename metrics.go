package aktivnatura

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the site's Prometheus collectors.
type Metrics struct {
	// Logins counts sign-in attempts by outcome.
	Logins *prometheus.CounterVec
	// Signups counts registrations by outcome.
	Signups *prometheus.CounterVec
	// Mutations counts dashboard writes by entity and action.
	Mutations *prometheus.CounterVec
	// ContactMessages counts contact form submissions by outcome.
	ContactMessages *prometheus.CounterVec
	// Uploads counts image uploads by bucket and outcome.
	Uploads *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aktivnatura",
			Name:      "logins_total",
			Help:      "Total number of dashboard sign-in attempts",
		}, []string{"outcome"}),
		Signups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aktivnatura",
			Name:      "signups_total",
			Help:      "Total number of sign-up attempts",
		}, []string{"outcome"}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aktivnatura",
			Name:      "content_mutations_total",
			Help:      "Total number of dashboard writes",
		}, []string{"entity", "action"}),
		ContactMessages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aktivnatura",
			Name:      "contact_messages_total",
			Help:      "Total number of contact form submissions",
		}, []string{"outcome"}),
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aktivnatura",
			Name:      "image_uploads_total",
			Help:      "Total number of image uploads",
		}, []string{"bucket", "outcome"}),
	}
}
