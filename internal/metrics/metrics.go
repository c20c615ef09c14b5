package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal tracks completed API pipeline calls per endpoint
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greener_api_requests_total",
			Help: "Total number of Greener API calls",
		},
		[]string{"endpoint", "status"}, // "success", "error"
	)

	// APIRequestDuration tracks API call duration per endpoint
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greener_api_request_duration_seconds",
			Help:    "Duration of Greener API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// APIRetriesTotal tracks retry attempts issued by the transport
	APIRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greener_api_retries_total",
			Help: "Total number of transport retry attempts",
		},
		[]string{"endpoint"},
	)

	// CacheReadsTotal tracks cache fallback reads
	CacheReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greener_cache_reads_total",
			Help: "Total number of cache fallback reads",
		},
		[]string{"key", "result"}, // "hit", "stale", "miss"
	)

	// CacheWritesTotal tracks cache entry writes and invalidations
	CacheWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greener_cache_writes_total",
			Help: "Total number of cache entry writes and invalidations",
		},
		[]string{"key", "operation"}, // "write", "invalidate"
	)

	// TokenRegistrationsTotal tracks push token registration outcomes
	TokenRegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greener_token_registrations_total",
			Help: "Total number of push token registration attempts",
		},
		[]string{"status"}, // "success", "error"
	)

	// RefreshRunsTotal tracks sync agent refresh cycles
	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greener_refresh_runs_total",
			Help: "Total number of sync agent refresh cycles",
		},
		[]string{"status"}, // "success", "partial", "error"
	)

	// HTTPRequestsTotal tracks requests served by the agent status server
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greener_http_requests_total",
			Help: "Total number of status server HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestDuration tracks status server request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greener_http_request_duration_seconds",
			Help:    "Duration of status server HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// HTTPActiveConnections tracks in-flight status server requests
	HTTPActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "greener_http_active_connections",
			Help: "Number of in-flight status server HTTP requests",
		},
	)

	goMemstatsAllocBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "greener_go_memstats_alloc_bytes",
			Help: "Number of bytes allocated and still in use",
		},
		[]string{"service"},
	)

	goMemstatsSysBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "greener_go_memstats_sys_bytes",
			Help: "Number of bytes obtained from system",
		},
		[]string{"service"},
	)

	goGoroutines = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "greener_go_goroutines",
			Help: "Number of goroutines",
		},
		[]string{"service"},
	)
)

// RecordAPIRequest records a completed API pipeline call.
func RecordAPIRequest(endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordAPIRetry records a retry attempt for an endpoint.
func RecordAPIRetry(endpoint string) {
	APIRetriesTotal.WithLabelValues(endpoint).Inc()
}

// RecordCacheRead records the outcome of a cache fallback read.
func RecordCacheRead(key, result string) {
	CacheReadsTotal.WithLabelValues(key, result).Inc()
}

// RecordCacheWrite records a cache entry write or invalidation.
func RecordCacheWrite(key, operation string) {
	CacheWritesTotal.WithLabelValues(key, operation).Inc()
}

// RecordHTTPRequest records a completed status server request.
func RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTokenRegistration records a push token registration outcome.
func RecordTokenRegistration(status string) {
	TokenRegistrationsTotal.WithLabelValues(status).Inc()
}

// RecordRefreshRun records the outcome of a sync agent refresh cycle.
func RecordRefreshRun(status string) {
	RefreshRunsTotal.WithLabelValues(status).Inc()
}

// UpdateRuntimeMetrics updates Go runtime metrics with a service label.
func UpdateRuntimeMetrics(serviceName string) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	goMemstatsAllocBytes.WithLabelValues(serviceName).Set(float64(m.Alloc))
	goMemstatsSysBytes.WithLabelValues(serviceName).Set(float64(m.Sys))
	goGoroutines.WithLabelValues(serviceName).Set(float64(runtime.NumGoroutine()))
}
