package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Lookup outcome labels for PlaceLookups.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeRateLimited = "rate_limited"
	OutcomeTransient   = "transient"
	OutcomeTimeout     = "timeout"
	OutcomePermanent   = "permanently_failed"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Detection metrics
	TripsDetected   *prometheus.CounterVec
	SegmentsSkipped prometheus.Counter

	// Enrichment metrics
	PlaceLookups *prometheus.CounterVec
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
}

// NewCollector creates a metrics collector with the given namespace. The
// collector is a process-wide singleton so repeated calls (tests included)
// do not re-register metrics.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	tripsDetected := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trips_detected_total",
			Help:      "Total number of trips written by detection runs",
		},
		[]string{"algorithm"},
	)

	segmentsSkipped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_skipped_total",
			Help:      "Total number of malformed segments skipped during detection",
		},
	)

	placeLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "place_lookups_total",
			Help:      "Total number of place lookups by outcome",
		},
		[]string{"outcome"},
	)

	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "place_cache_hits_total",
			Help:      "Total number of place lookups served from the cache",
		},
	)

	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "place_cache_misses_total",
			Help:      "Total number of place lookups that went to the provider",
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		tripsDetected,
		segmentsSkipped,
		placeLookups,
		cacheHits,
		cacheMisses,
	)

	globalCollector = &Collector{
		registry:        registry,
		HTTPRequests:    httpRequests,
		HTTPDuration:    httpDuration,
		TripsDetected:   tripsDetected,
		SegmentsSkipped: segmentsSkipped,
		PlaceLookups:    placeLookups,
		CacheHits:       cacheHits,
		CacheMisses:     cacheMisses,
	}
	return globalCollector
}

// Registry returns the Prometheus registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ResetForTesting clears the singleton so a test can build a fresh collector.
func ResetForTesting() {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()
	globalCollector = nil
}
