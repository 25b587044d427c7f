// Package observability exports service metrics to Prometheus.
package observability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"photorestore/internal/domain"
)

const namespace = "photorestore"

// Metrics records restoration and billing telemetry.
type Metrics struct {
	registry        *prometheus.Registry
	outcomes        *prometheus.CounterVec
	restoreDuration *prometheus.HistogramVec
	billingEvents   *prometheus.CounterVec
}

// NewMetrics registers collectors on a dedicated registry, including the Go
// runtime and process collectors.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restoration_outcomes_total",
			Help:      "Restoration attempts by outcome and failure reason.",
		}, []string{"outcome", "reason"}),
		restoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "restoration_duration_seconds",
			Help:      "Latency of restoration attempts including the model call.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"outcome"}),
		billingEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "billing_events_total",
			Help:      "Verified billing webhook deliveries by event type.",
		}, []string{"type"}),
	}
	cs := []prometheus.Collector{
		m.outcomes,
		m.restoreDuration,
		m.billingEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return m, nil
}

// RecordOutcome implements restoration.Observer.
func (m *Metrics) RecordOutcome(kind domain.OutcomeKind, reason domain.FailureReason, duration time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(string(kind), string(reason)).Inc()
	m.restoreDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

// RecordBillingEvent counts a verified billing delivery.
func (m *Metrics) RecordBillingEvent(eventType domain.BillingEventType) {
	if m == nil {
		return
	}
	label := string(eventType)
	if !eventType.Known() {
		label = "other"
	}
	m.billingEvents.WithLabelValues(label).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
