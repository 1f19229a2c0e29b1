// Package metrics provides Prometheus metrics for the dynasty league service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// League metrics
	gamesReported      *prometheus.CounterVec
	reportsRejected    *prometheus.CounterVec
	reportsDuplicate   prometheus.Counter
	recruitsLogged     *prometheus.CounterVec
	battlesReconciled  prometheus.Gauge
	teamsTracked       prometheus.Gauge
	rivalryGames       prometheus.Gauge
	engineApplyLatency prometheus.Histogram

	// Command queue
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueEnqueued  prometheus.Counter
	queueDequeued  prometheus.Counter
	queueRejected  *prometheus.CounterVec
	queueWaitTime  prometheus.Histogram
	workerLatency  prometheus.Histogram
	workerFailures prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Live feed
	feedClients    prometheus.Gauge
	feedBroadcasts *prometheus.CounterVec
	feedDropped    prometheus.Counter

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager. Collectors are registered on the
// configured registry, prometheus.DefaultRegisterer when none is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dynasty",
		subsystem:        "league",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval reports how often gauges fed by polling should be updated.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.gamesReported = m.counterVec("games_reported_total",
		"Finalized games applied to the standings, by classification label", "label", "rivalry")
	m.reportsRejected = m.counterVec("reports_rejected_total",
		"Game reports rejected by validation, by reason", "reason")
	m.reportsDuplicate = m.counter("reports_duplicate_total",
		"Game reports acknowledged from the idempotency cache instead of being applied again")
	m.recruitsLogged = m.counterVec("recruits_logged_total",
		"Recruiting entries appended to the ledger, by status", "status")
	m.battlesReconciled = m.gauge("recruit_battles",
		"Number of prospects contested by both primary parties at the last reconciliation")
	m.teamsTracked = m.gauge("teams_tracked",
		"Number of teams with at least one finalized game")
	m.rivalryGames = m.gauge("rivalry_games",
		"Head-to-head games played between the two primary parties")
	m.engineApplyLatency = m.histogram("engine_apply_latency_milliseconds",
		"Time spent applying a mutation to the state store", m.histogramBuckets)

	m.queueSize = m.gauge("queue_size", "Commands waiting in the writer queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum writer queue capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Commands accepted by the writer queue")
	m.queueDequeued = m.counter("queue_dequeue_total", "Commands handed to the writer")
	m.queueRejected = m.counterVec("queue_rejected_total", "Commands refused by the writer queue, by reason", "reason")
	m.queueWaitTime = m.histogram("queue_wait_milliseconds",
		"Time a command spent queued before the writer picked it up", m.histogramBuckets)
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds",
		"Writer processing latency per command", m.histogramBuckets)
	m.workerFailures = m.counter("worker_failures_total", "Commands the writer answered with an error")

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests by endpoint, method and status code", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpErrors = m.counterVec("http_errors_total",
		"HTTP responses with an error status, by endpoint and error type", "endpoint", "method", "error_type")

	m.feedClients = m.gauge("feed_clients", "Connected live feed clients")
	m.feedBroadcasts = m.counterVec("feed_broadcasts_total", "Live feed events broadcast, by type", "type")
	m.feedDropped = m.counter("feed_dropped_total", "Live feed messages dropped for slow clients")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordGameReported counts a finalized game under its classification label.
func RecordGameReported(label string, rivalry bool) {
	r := "false"
	if rivalry {
		r = "true"
	}
	globalManager.gamesReported.WithLabelValues(label, r).Inc()
}

// RecordReportRejected counts a game report refused by validation.
func RecordReportRejected(reason string) {
	globalManager.reportsRejected.WithLabelValues(reason).Inc()
}

// RecordReportDuplicate counts a repeated report answered from the cache.
func RecordReportDuplicate() {
	globalManager.reportsDuplicate.Inc()
}

// RecordRecruitLogged counts a ledger append.
func RecordRecruitLogged(status string) {
	globalManager.recruitsLogged.WithLabelValues(status).Inc()
}

// UpdateBattles sets the contested prospect count.
func UpdateBattles(count int) {
	globalManager.battlesReconciled.Set(float64(count))
}

// UpdateTeamsTracked sets the number of teams in the standings.
func UpdateTeamsTracked(count int) {
	globalManager.teamsTracked.Set(float64(count))
}

// UpdateRivalryGames sets the head-to-head game count.
func UpdateRivalryGames(count int) {
	globalManager.rivalryGames.Set(float64(count))
}

// RecordEngineApplyLatency records how long a state mutation took.
func RecordEngineApplyLatency(latencyMs float64) {
	globalManager.engineApplyLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueRejected counts a refused enqueue.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordQueueWait records how long a command waited in the queue.
func RecordQueueWait(latencyMs float64) {
	globalManager.queueWaitTime.Observe(latencyMs)
}

// RecordWorkerProcessingLatency records writer processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordWorkerFailure increments the writer failure counter.
func RecordWorkerFailure() {
	globalManager.workerFailures.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateFeedClients sets the number of connected feed clients.
func UpdateFeedClients(count int) {
	globalManager.feedClients.Set(float64(count))
}

// RecordFeedBroadcast counts a feed event fan-out.
func RecordFeedBroadcast(eventType string) {
	globalManager.feedBroadcasts.WithLabelValues(eventType).Inc()
}

// RecordFeedDropped counts a message skipped for a slow client.
func RecordFeedDropped() {
	globalManager.feedDropped.Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval reports how often the process should refresh polled gauges.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}
