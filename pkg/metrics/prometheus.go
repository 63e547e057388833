// Package metrics provides Prometheus metrics for the arena services.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus metrics shared by every service binary.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Storage layer
	dbQueryDuration *prometheus.HistogramVec
	maxIDRefreshes  prometheus.Counter
	connectAttempts prometheus.Counter

	// Fan-out aggregator
	peerErrors     *prometheus.CounterVec
	fanoutDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Initialize global metrics on a private registry so the exposition stays
// free of the default Go collectors.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds by method, path and status",
			Buckets:   m.histogramBuckets,
		},
		[]string{"method", "path", "status"},
	)

	m.dbQueryDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "db_query_duration_milliseconds",
			Help:      "Database query duration in milliseconds by operation",
			Buckets:   m.histogramBuckets,
		},
		[]string{"op"},
	)

	m.maxIDRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "max_id_refreshes_total",
		Help:      "Total number of MAX(id) cache refreshes",
	})

	m.connectAttempts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "db_connect_attempts_total",
		Help:      "Total number of failed startup connectivity attempts",
	})

	m.peerErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "peer_errors_total",
			Help:      "Total number of failed downstream peer calls by peer",
		},
		[]string{"peer"},
	)

	m.fanoutDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "fanout_duration_milliseconds",
			Help:      "Aggregate fan-out duration in milliseconds by operation",
			Buckets:   m.histogramBuckets,
		},
		[]string{"op"},
	)
}

// Init replaces the global manager, typically to set the per-service
// subsystem before any traffic is served.
func Init(opts ...Option) {
	globalManager = NewManager(opts...)
}

// GetRegistry returns the registry backing the global manager, for the
// /metrics exposition handler.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}

// RecordHTTPRequest counts one handled HTTP request.
func RecordHTTPRequest(method, path, status string) {
	globalManager.httpRequests.WithLabelValues(method, path, status).Inc()
}

// ObserveHTTPRequestDuration records one request's latency.
func ObserveHTTPRequestDuration(method, path, status string, d time.Duration) {
	globalManager.httpRequestDuration.WithLabelValues(method, path, status).
		Observe(float64(d) / float64(time.Millisecond))
}

// ObserveQueryDuration records one database query's latency.
func ObserveQueryDuration(op string, d time.Duration) {
	globalManager.dbQueryDuration.WithLabelValues(op).
		Observe(float64(d) / float64(time.Millisecond))
}

// RecordMaxIDRefresh counts one refresh of the cached max-id bound.
func RecordMaxIDRefresh() {
	globalManager.maxIDRefreshes.Inc()
}

// RecordConnectAttempt counts one failed startup connectivity attempt.
func RecordConnectAttempt() {
	globalManager.connectAttempts.Inc()
}

// RecordPeerError counts one failed downstream call.
func RecordPeerError(peer string) {
	globalManager.peerErrors.WithLabelValues(peer).Inc()
}

// ObserveFanoutDuration records the latency of one fan-out aggregate.
func ObserveFanoutDuration(op string, d time.Duration) {
	globalManager.fanoutDuration.WithLabelValues(op).
		Observe(float64(d) / float64(time.Millisecond))
}
