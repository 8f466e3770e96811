package metrics

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anstrom/scanvault/internal/errors"
)

const (
	namespace = "scanvault"

	subsystemAPI    = "api"
	subsystemStore  = "store"
	subsystemQuery  = "query"
	subsystemSystem = "system"
)

// PrometheusMetrics holds the Prometheus collectors of the service on a
// private registry.
type PrometheusMetrics struct {
	// API metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	// Store metrics
	storeOperations *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
	docsInserted    *prometheus.CounterVec
	docsDeleted     *prometheus.CounterVec

	// Query metrics
	queryResults *prometheus.HistogramVec

	// System metrics
	goroutines prometheus.Gauge
	uptime     prometheus.Gauge

	startTime  time.Time
	lastUpdate time.Time
	mu         sync.RWMutex
	registry   *prometheus.Registry
}

// NewPrometheusMetrics creates and registers every collector.
func NewPrometheusMetrics() *PrometheusMetrics {
	pm := &PrometheusMetrics{
		startTime: time.Now(),
		registry:  prometheus.NewRegistry(),
	}

	pm.initAPIMetrics()
	pm.initStoreMetrics()
	pm.initQueryMetrics()
	pm.initSystemMetrics()

	pm.registry.MustRegister(
		pm.httpRequests, pm.httpDuration,
		pm.storeOperations, pm.storeDuration, pm.storeErrors, pm.docsInserted, pm.docsDeleted,
		pm.queryResults,
		pm.goroutines, pm.uptime,
	)

	pm.registry.MustRegister(collectors.NewGoCollector())
	pm.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return pm
}

func (pm *PrometheusMetrics) initAPIMetrics() {
	pm.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemAPI,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	pm.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemAPI,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"method", "path"},
	)
}

func (pm *PrometheusMetrics) initStoreMetrics() {
	pm.storeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemStore,
			Name:      "operations_total",
			Help:      "Total number of document store operations by backend, operation and status",
		},
		[]string{"backend", "operation", "status"},
	)

	pm.storeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemStore,
			Name:      "operation_duration_seconds",
			Help:      "Duration of document store operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		},
		[]string{"backend", "operation"},
	)

	pm.storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemStore,
			Name:      "errors_total",
			Help:      "Total number of document store errors by backend, operation and error code",
		},
		[]string{"backend", "operation", "error_code"},
	)

	pm.docsInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemStore,
			Name:      "documents_inserted_total",
			Help:      "Total number of inserted scan documents",
		},
		[]string{"backend"},
	)

	pm.docsDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemStore,
			Name:      "documents_deleted_total",
			Help:      "Total number of deleted scan documents",
		},
		[]string{"backend"},
	)
}

func (pm *PrometheusMetrics) initQueryMetrics() {
	pm.queryResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemQuery,
			Name:      "results",
			Help:      "Number of matches per query before pagination",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"endpoint"},
	)
}

func (pm *PrometheusMetrics) initSystemMetrics() {
	pm.goroutines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	pm.uptime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "uptime_seconds",
			Help:      "Application uptime in seconds",
		},
	)
}

// GetRegistry returns the private registry.
func (pm *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return pm.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (pm *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}

// IncrementHTTPRequests increments the HTTP request counter.
func (pm *PrometheusMetrics) IncrementHTTPRequests(method, path, status string) {
	pm.httpRequests.WithLabelValues(method, path, status).Inc()
}

// RecordHTTPDuration records an HTTP request duration.
func (pm *PrometheusMetrics) RecordHTTPDuration(method, path string, duration time.Duration) {
	pm.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordStoreOperation counts a store call, its duration and its error code.
func (pm *PrometheusMetrics) RecordStoreOperation(backend, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		pm.storeErrors.WithLabelValues(backend, operation, string(errors.GetCode(err))).Inc()
	}
	pm.storeOperations.WithLabelValues(backend, operation, status).Inc()
	pm.storeDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordQueryResults observes the result count of a query endpoint.
func (pm *PrometheusMetrics) RecordQueryResults(endpoint string, total int) {
	pm.queryResults.WithLabelValues(endpoint).Observe(float64(total))
}

// AddDocumentsInserted adds to the inserted documents counter.
func (pm *PrometheusMetrics) AddDocumentsInserted(backend string, count int) {
	pm.docsInserted.WithLabelValues(backend).Add(float64(count))
}

// AddDocumentsDeleted adds to the deleted documents counter.
func (pm *PrometheusMetrics) AddDocumentsDeleted(backend string, count int64) {
	pm.docsDeleted.WithLabelValues(backend).Add(float64(count))
}

// UpdateSystemMetrics refreshes the system gauges.
func (pm *PrometheusMetrics) UpdateSystemMetrics() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.goroutines.Set(float64(runtime.NumGoroutine()))
	pm.uptime.Set(time.Since(pm.startTime).Seconds())
	pm.lastUpdate = time.Now()
}

// GetUptime returns the time since the collectors were created.
func (pm *PrometheusMetrics) GetUptime() time.Duration {
	return time.Since(pm.startTime)
}

// GetLastUpdate returns when the system gauges were last refreshed.
func (pm *PrometheusMetrics) GetLastUpdate() time.Time {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.lastUpdate
}

// StartPeriodicUpdates refreshes the system gauges every interval until ctx
// is done.
func (pm *PrometheusMetrics) StartPeriodicUpdates(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	pm.UpdateSystemMetrics()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pm.UpdateSystemMetrics()
		}
	}
}
