package providers

import (
	"ptt/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFlushes()
	IncFlushErrors()
	IncReconcileMerges()
	IncStoreScans()
	IncRecordsCreated()
	ObservePersistenceDuration(duration time.Duration)
	SetTrackedSeconds(scope string, seconds float64)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	flushes             prometheus.Counter
	flushErrors         prometheus.Counter
	reconcileMerges     prometheus.Counter
	storeScans          prometheus.Counter
	recordsCreated      prometheus.Counter
	persistenceDuration prometheus.Histogram
	trackedSeconds      *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits()        { m.cacheHits.Inc() }
func (m *MetricsProvider) IncCacheMisses()      { m.cacheMisses.Inc() }
func (m *MetricsProvider) IncFlushes()          { m.flushes.Inc() }
func (m *MetricsProvider) IncFlushErrors()      { m.flushErrors.Inc() }
func (m *MetricsProvider) IncReconcileMerges()  { m.reconcileMerges.Inc() }
func (m *MetricsProvider) IncStoreScans()       { m.storeScans.Inc() }
func (m *MetricsProvider) IncRecordsCreated()   { m.recordsCreated.Inc() }

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetTrackedSeconds(scope string, seconds float64) {
	m.trackedSeconds.WithLabelValues(scope).Set(seconds)
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ptt_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ptt_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptt_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptt_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		flushes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptt_flushes_total",
			Help: "Total number of record flushes to the state store",
		}),

		flushErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptt_flush_errors_total",
			Help: "Total number of failed record flushes",
		}),

		reconcileMerges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptt_reconcile_merges_total",
			Help: "Total number of duplicate records merged during reconciliation",
		}),

		storeScans: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptt_store_scans_total",
			Help: "Total number of full state store scans",
		}),

		recordsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptt_records_created_total",
			Help: "Total number of device-project records created",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ptt_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		trackedSeconds: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ptt_tracked_seconds",
			Help: "Tracked seconds for the current project",
		}, []string{"scope"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncFlushes()                                      {}
func (n *noopMetrics) IncFlushErrors()                                  {}
func (n *noopMetrics) IncReconcileMerges()                              {}
func (n *noopMetrics) IncStoreScans()                                   {}
func (n *noopMetrics) IncRecordsCreated()                               {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetTrackedSeconds(_ string, _ float64)            {}
