// Package metrics exposes Prometheus instruments for lifecycle transitions
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder groups the service's collectors on one registry
type Recorder struct {
	registry *prometheus.Registry

	transitions   *prometheus.CounterVec
	operations    *prometheus.HistogramVec
	notifyFailure *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plugplayers_transitions_total",
				Help: "Committed lifecycle state transitions",
			},
			[]string{"entity", "to"},
		),
		operations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plugplayers_operation_duration_seconds",
				Help:    "Duration of lifecycle operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "outcome"},
		),
		notifyFailure: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plugplayers_notification_failures_total",
				Help: "Notifications that could not be delivered",
			},
			[]string{"type"},
		),
	}
	r.registry.MustRegister(
		r.transitions,
		r.operations,
		r.notifyFailure,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Transition counts one committed state change
func (r *Recorder) Transition(entity, to string) {
	r.transitions.WithLabelValues(entity, to).Inc()
}

// Observe records how long an operation took and whether it failed
func (r *Recorder) Observe(operation string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.operations.WithLabelValues(operation, outcome).Observe(time.Since(started).Seconds())
}

// NotificationFailed counts a dropped notification
func (r *Recorder) NotificationFailed(kind string) {
	r.notifyFailure.WithLabelValues(kind).Inc()
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
