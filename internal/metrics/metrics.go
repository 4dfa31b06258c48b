// Package metrics exposes store dispatch metrics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comalice/slicestore/internal/core"
	"github.com/comalice/slicestore/internal/primitives"
)

const namespace = "slicestore"

// StoreMetrics implements core.Instrumentation on Prometheus collectors.
type StoreMetrics struct {
	Dispatches       *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	SnapshotVersion  *prometheus.GaugeVec
	ObserverFailures *prometheus.CounterVec
}

var _ core.Instrumentation = (*StoreMetrics)(nil)

// NewStoreMetrics creates and registers store metrics on the given registry.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Total number of dispatched actions, by store, action type and outcome.",
		}, []string{"store", "action", "outcome"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of reduce plus notification in seconds.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"store", "action"}),
		SnapshotVersion: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_version",
			Help:      "Version of the currently published snapshot.",
		}, []string{"store"}),
		ObserverFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observer_failures_total",
			Help:      "Total number of observer calls that returned an error or panicked.",
		}, []string{"store"}),
	}

	reg.MustRegister(m.Dispatches, m.DispatchDuration, m.SnapshotVersion, m.ObserverFailures)
	return m
}

func (m *StoreMetrics) DispatchObserved(storeID string, action primitives.Action, outcome core.Outcome, elapsed time.Duration) {
	m.Dispatches.WithLabelValues(storeID, action.Type, string(outcome)).Inc()
	switch outcome {
	case core.OutcomeChanged, core.OutcomeUnchanged, core.OutcomeFailed:
		m.DispatchDuration.WithLabelValues(storeID, action.Type).Observe(elapsed.Seconds())
	}
}

func (m *StoreMetrics) SnapshotPublished(storeID string, snap primitives.Snapshot) {
	m.SnapshotVersion.WithLabelValues(storeID).Set(float64(snap.Version()))
}

func (m *StoreMetrics) ObserverFailed(storeID string) {
	m.ObserverFailures.WithLabelValues(storeID).Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
