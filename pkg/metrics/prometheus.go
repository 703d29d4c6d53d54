// Package metrics provides Prometheus metrics for the liga competition service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the liga service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Competition metrics
	capturesSaved        prometheus.Counter
	captureConflicts     prometheus.Counter
	duplicateSubmissions prometheus.Counter
	scoreboardBuilds     prometheus.Counter
	sanctionedPoints     prometheus.Counter
	pointsLost           prometheus.Counter
	annualMerges         prometheus.Counter

	// Operational metrics
	storedWeeks prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "liga",
		subsystem:        "competition",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.capturesSaved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "captures_saved_total",
		Help:      "Total number of week captures persisted",
	})

	m.captureConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "capture_conflicts_total",
		Help:      "Total number of capture saves rejected on a stale revision",
	})

	m.duplicateSubmissions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_duplicate_total",
		Help:      "Total number of duplicate team submissions detected",
	})

	m.scoreboardBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoreboard_builds_total",
		Help:      "Total number of scoreboard computations",
	})

	m.sanctionedPoints = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sanctioned_points_total",
		Help:      "Total points removed from offenders by the sanction engine",
	})

	m.pointsLost = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "points_lost_total",
		Help:      "Total points lost to redistribution remainders",
	})

	m.annualMerges = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "annual_merges_total",
		Help:      "Total number of weeks folded into the annual ledger",
	})

	m.storedWeeks = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_weeks",
		Help:      "Number of week captures currently in the store",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers recording on the global manager.

// RecordCaptureSaved increments the persisted-captures counter.
func RecordCaptureSaved() {
	if globalManager != nil && globalManager.enabled {
		globalManager.capturesSaved.Inc()
	}
}

// RecordCaptureConflict increments the stale-revision counter.
func RecordCaptureConflict() {
	if globalManager != nil && globalManager.enabled {
		globalManager.captureConflicts.Inc()
	}
}

// RecordDuplicateSubmission increments the duplicate-submission counter.
func RecordDuplicateSubmission() {
	if globalManager != nil && globalManager.enabled {
		globalManager.duplicateSubmissions.Inc()
	}
}

// RecordScoreboardBuild increments the scoreboard-computation counter.
func RecordScoreboardBuild() {
	if globalManager != nil && globalManager.enabled {
		globalManager.scoreboardBuilds.Inc()
	}
}

// RecordSanctionedPoints adds points removed by the sanction engine.
func RecordSanctionedPoints(points int) {
	if globalManager != nil && globalManager.enabled && points > 0 {
		globalManager.sanctionedPoints.Add(float64(points))
	}
}

// RecordPointsLost adds points lost to redistribution remainders.
func RecordPointsLost(points int) {
	if globalManager != nil && globalManager.enabled && points > 0 {
		globalManager.pointsLost.Add(float64(points))
	}
}

// RecordAnnualMerge increments the ledger-merge counter.
func RecordAnnualMerge() {
	if globalManager != nil && globalManager.enabled {
		globalManager.annualMerges.Inc()
	}
}

// UpdateStoredWeeks sets the stored-weeks gauge.
func UpdateStoredWeeks(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.storedWeeks.Set(float64(count))
	}
}

// RecordHTTPRequest increments the request counter for an endpoint.
func RecordHTTPRequest(endpoint, method string, statusCode int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
	}
}

// RecordHTTPRequestDuration observes a request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method string, statusCode int, durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Observe(durationMs)
	}
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
