// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Engine metrics
	ComputationsTotal   *prometheus.CounterVec
	ComputeDuration     prometheus.Histogram
	LastSimulatedBTCTPS prometheus.Gauge
	LastEthereumTPS     prometheus.Gauge

	// Mode selector metrics
	ModeSwitchesTotal *prometheus.CounterVec
	BlockRangeQueries *prometheus.CounterVec

	// Export metrics
	ExportsTotal *prometheus.CounterVec

	// Session metrics
	ActiveSessions  prometheus.Gauge
	SessionMessages *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "l2_da_lab"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Engine metrics
		ComputationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "computations_total",
			Help:      "Total number of metric computations by simulation mode",
		}, []string{"mode"}),
		ComputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "compute_duration_seconds",
			Help:      "Duration of a single metric computation",
			Buckets:   []float64{.000001, .00001, .0001, .001, .01},
		}),
		LastSimulatedBTCTPS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "last_simulated_bitcoin_tps",
			Help:      "Simulated Bitcoin-path TPS of the most recent computation",
		}),
		LastEthereumTPS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "last_ethereum_tps",
			Help:      "Ethereum-path TPS of the most recent computation",
		}),

		// Mode selector metrics
		ModeSwitchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "mode_switches_total",
			Help:      "Total number of mode switches by target mode",
		}, []string{"mode"}),
		BlockRangeQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "block_range_queries_total",
			Help:      "Total number of block range queries by status",
		}, []string{"status"}),

		// Export metrics
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "exports_total",
			Help:      "Total number of exports by format",
		}, []string{"format"}),

		// Session metrics
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of open websocket sessions",
		}),
		SessionMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "messages_total",
			Help:      "Total number of websocket messages by type",
		}, []string{"type"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

// RecordComputation records one engine computation.
func (m *Metrics) RecordComputation(mode string, seconds, simulatedBTCTPS, ethereumTPS float64) {
	m.ComputationsTotal.WithLabelValues(mode).Inc()
	m.ComputeDuration.Observe(seconds)
	m.LastSimulatedBTCTPS.Set(simulatedBTCTPS)
	m.LastEthereumTPS.Set(ethereumTPS)
}

// RecordModeSwitch increments the mode switch counter.
func (m *Metrics) RecordModeSwitch(mode string) {
	m.ModeSwitchesTotal.WithLabelValues(mode).Inc()
}

// RecordBlockRangeQuery records a block range query outcome.
// Status is one of "ok", "unavailable", "error".
func (m *Metrics) RecordBlockRangeQuery(status string) {
	m.BlockRangeQueries.WithLabelValues(status).Inc()
}

// RecordExport increments the export counter.
func (m *Metrics) RecordExport(format string) {
	m.ExportsTotal.WithLabelValues(format).Inc()
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	m.ActiveSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	m.ActiveSessions.Dec()
}

// RecordSessionMessage counts a websocket message by type.
func (m *Metrics) RecordSessionMessage(msgType string) {
	m.SessionMessages.WithLabelValues(msgType).Inc()
}
