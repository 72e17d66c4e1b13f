package ehr

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks upstream client activity.
type Metrics struct {
	Requests *prometheus.CounterVec
	Retries  *prometheus.CounterVec
	Failures *prometheus.CounterVec
}

// NewMetrics creates the upstream client metrics and registers them on reg.
// A nil registerer leaves them unregistered, which tests rely on.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ehr_gateway",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total upstream FHIR requests by method and status",
		}, []string{"method", "status"}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ehr_gateway",
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Total retried upstream requests by status that triggered the retry",
		}, []string{"status"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ehr_gateway",
			Subsystem: "upstream",
			Name:      "failures_total",
			Help:      "Total terminal upstream failures by reason",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Retries, m.Failures)
	}
	return m
}
