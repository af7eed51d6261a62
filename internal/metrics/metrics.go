// Package metrics collects client-side request and store metrics.
//
// Nothing is served over HTTP; a one-shot CLI run writes the registry to a
// node_exporter textfile when a metrics file is configured.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskctl/internal/service"
	"taskctl/internal/store"
)

const namespace = "taskctl"

// Metrics holds the collectors for one process.
type Metrics struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
	events   *prometheus.CounterVec
	failures *prometheus.CounterVec
	snapshot prometheus.Gauge
}

// New creates Metrics backed by a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests sent to the task API.",
		}, []string{"code", "method"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Task API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_requests_in_flight",
			Help:      "Task API requests currently in flight.",
		}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_events_total",
			Help:      "Snapshot changes by kind.",
		}, []string{"kind"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_failures_total",
			Help:      "Failed store operations by operation and error kind.",
		}, []string{"op", "kind"}),
		snapshot: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_tasks",
			Help:      "Tasks currently held in the snapshot.",
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// InstrumentTransport wraps next so every API request is counted and timed.
// A nil next means http.DefaultTransport.
func (m *Metrics) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(m.inFlight,
		promhttp.InstrumentRoundTripperCounter(m.requests,
			promhttp.InstrumentRoundTripperDuration(m.latency, next),
		),
	)
}

// Observe is a store.Listener that records snapshot events.
func (m *Metrics) Observe(ev store.Event) {
	if ev.Kind == store.EventError {
		m.failures.WithLabelValues(ev.Op, kindLabel(service.KindOf(ev.Err))).Inc()
		return
	}
	m.events.WithLabelValues(ev.Kind.String()).Inc()
	m.snapshot.Set(float64(len(ev.Snapshot)))
}

// WriteFile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

func kindLabel(k service.Kind) string {
	switch k {
	case service.KindTransport:
		return "transport"
	case service.KindValidation:
		return "validation"
	case service.KindNotFound:
		return "not_found"
	case service.KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}
