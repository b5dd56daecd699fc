package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "areasearch"

// Refresh outcome label values.
const (
	refreshRan       = "ran"
	refreshThrottled = "throttled"
)

// Metrics are the collectors a session reports to.
type Metrics struct {
	Requests        prometheus.Counter
	Responses       prometheus.Counter
	RequestFailures prometheus.Counter
	RegionChanges   prometheus.Counter
	Refreshes       *prometheus.CounterVec
	Pending         prometheus.Gauge
	Cached          prometheus.Gauge
}

// NewMetrics creates the session collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "property_requests_total",
			Help:      "Properties-family requests sent.",
		}),
		Responses: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "property_responses_total",
			Help:      "Properties-family responses applied.",
		}),
		RequestFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "request_failures_total",
			Help:      "Properties-family requests the transport refused.",
		}),
		RegionChanges: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "region_changes_total",
			Help:      "Region changes that cleared the detail cache.",
		}),
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refreshes_total",
			Help:      "Refresh passes by outcome.",
		}, []string{"result"}),
		Pending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "pending_requests",
			Help:      "Requests waiting for a response.",
		}),
		Cached: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "cached_details",
			Help:      "Detail records held, ready or not.",
		}),
	}
}
