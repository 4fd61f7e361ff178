// Package metrics exposes the server's Prometheus instruments.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks receipt activity, store health and request latency.
// Each instance owns its registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ReceiptsCreated        prometheus.Counter
	Verifications          *prometheus.CounterVec
	Lookups                *prometheus.CounterVec
	StoreErrors            *prometheus.CounterVec
	NotificationsDropped   prometheus.Counter
	NotificationFailures   *prometheus.CounterVec
	RevocationCheckSeconds prometheus.Histogram
	RequestDuration        *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a registry with the Go and process collectors and registers
// every LinkProof metric on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		ReceiptsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "linkproof_receipts_created_total",
			Help: "Total number of receipts recorded",
		}),
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkproof_verifications_total",
			Help: "Verifications by outcome (match, no_match)",
		}, []string{"result"}),
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkproof_lookups_total",
			Help: "Public proof lookups by outcome (found, not_found, invalid)",
		}, []string{"result"}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkproof_store_errors_total",
			Help: "Receipt store failures by operation",
		}, []string{"operation"}),
		NotificationsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "linkproof_notifications_dropped_total",
			Help: "Notifications dropped because the queue was full",
		}),
		NotificationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkproof_notification_failures_total",
			Help: "Notification sink failures by sink",
		}, []string{"sink"}),
		RevocationCheckSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "linkproof_revocation_check_duration_seconds",
			Help:    "Latency of token revocation checks",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "linkproof_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		registry: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) IncrementReceiptsCreated() {
	if m == nil {
		return
	}
	m.ReceiptsCreated.Inc()
}

func (m *Metrics) ObserveVerification(matched bool) {
	if m == nil {
		return
	}
	result := "no_match"
	if matched {
		result = "match"
	}
	m.Verifications.WithLabelValues(result).Inc()
}

// ObserveLookup records a public lookup; result is found, not_found or invalid.
func (m *Metrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementStoreErrors(operation string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncrementNotificationsDropped() {
	if m == nil {
		return
	}
	m.NotificationsDropped.Inc()
}

func (m *Metrics) IncrementNotificationFailures(sink string) {
	if m == nil {
		return
	}
	m.NotificationFailures.WithLabelValues(sink).Inc()
}

// ObserveRevocationCheck records the duration of a revocation lookup.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRevocationCheck(start time.Time) {
	if m == nil {
		return
	}
	m.RevocationCheckSeconds.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
