package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecnelisfly/domain/core/entities"
)

// Metrics holds the Prometheus collectors of one process. Each instance
// owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	CollectionOps      *prometheus.CounterVec
	CollectionDuration *prometheus.HistogramVec

	Queries *prometheus.CounterVec

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	Picks *prometheus.CounterVec
}

// NewMetrics creates and registers every collector under namespace
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CollectionOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_operations_total",
			Help:      "Total number of table operations",
		}, []string{"operation", "table", "status"}),
		CollectionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collection_operation_duration_seconds",
			Help:      "Table operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "table"}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of bus queries",
		}, []string{"query", "status"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}),
		Picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pick_runs_total",
			Help:      "Scheduled pick runs by kind and outcome",
		}, []string{"kind", "selected"}),
	}

	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.CollectionOps,
		m.CollectionDuration,
		m.Queries,
		m.CacheHits,
		m.CacheMisses,
		m.Picks,
	)
	return m
}

// Registry returns the registry the collectors live in
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveCollection records one table operation
func (m *Metrics) ObserveCollection(operation, table string, duration time.Duration, err error) {
	m.CollectionOps.WithLabelValues(operation, table, status(err)).Inc()
	m.CollectionDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// ObserveQuery records one query bus dispatch
func (m *Metrics) ObserveQuery(queryType string, _ time.Duration, err error) {
	m.Queries.WithLabelValues(queryType, status(err)).Inc()
}

// CacheHit counts a cache hit
func (m *Metrics) CacheHit() { m.CacheHits.Inc() }

// CacheMiss counts a cache miss
func (m *Metrics) CacheMiss() { m.CacheMisses.Inc() }

// ObservePick counts one scheduled pick run
func (m *Metrics) ObservePick(kind entities.PickKind, selected bool) {
	m.Picks.WithLabelValues(string(kind), strconv.FormatBool(selected)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
