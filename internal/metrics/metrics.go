package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core request/hit/miss counters
	RateRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_requests_total",
			Help: "Total number of rate requests",
		},
		[]string{"route"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"route"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"route"},
	)

	// Misses that were satisfied by another request's in-flight fetch
	CoalescedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_coalesced_fetches_total",
			Help: "Total number of cache misses served by a shared in-flight fetch",
		},
		[]string{"route"},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_upstream_fetch_errors_total",
			Help: "Total number of failed upstream fetches",
		},
		[]string{"endpoint", "kind"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rates_upstream_fetch_duration_seconds",
			Help:    "Duration of upstream fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_cache_errors_total",
			Help: "Total number of cache store errors",
		},
		[]string{"level", "op"},
	)

	CacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_cache_writes_total",
			Help: "Total number of deferred cache writes by result",
		},
		[]string{"result"},
	)

	// Get operation latency only
	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache get operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "level"},
	)

	// L1 capacity metrics only (if L1 is in-memory)
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "L1 cache capacity in bytes",
		},
		[]string{"level"},
	)

	CacheUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_used_bytes",
			Help: "L1 cache used space in bytes",
		},
		[]string{"level"},
	)

	WarmerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rates_warmer_runs_total",
			Help: "Total number of cache warmer resolutions by result",
		},
		[]string{"route", "result"},
	)
)

// RecordRequest records an inbound rate request
func RecordRequest(route string) {
	RateRequests.WithLabelValues(route).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit(route string) {
	CacheHits.WithLabelValues(route).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(route string) {
	CacheMisses.WithLabelValues(route).Inc()
}

// RecordCoalescedFetch records a miss that shared another caller's fetch
func RecordCoalescedFetch(route string) {
	CoalescedFetches.WithLabelValues(route).Inc()
}

// RecordUpstreamError records a failed upstream fetch
func RecordUpstreamError(endpoint, kind string) {
	UpstreamErrors.WithLabelValues(endpoint, kind).Inc()
}

// RecordCacheError records a cache error with level and operation
func RecordCacheError(level, op string) {
	CacheErrors.WithLabelValues(level, op).Inc()
}

// RecordCacheWrite records the result of a deferred cache write
func RecordCacheWrite(result string) {
	CacheWrites.WithLabelValues(result).Inc()
}

// RecordWarmerRun records one warmer resolution
func RecordWarmerRun(route, result string) {
	WarmerRuns.WithLabelValues(route, result).Inc()
}

// UpdateL1CacheCapacity updates L1 cache capacity metrics only
func UpdateL1CacheCapacity(capacity, used int64) {
	CacheCapacity.WithLabelValues("l1").Set(float64(capacity))
	CacheUsed.WithLabelValues("l1").Set(float64(used))
}

// TimeUpstreamFetch returns a timer function for measuring upstream fetch duration
func TimeUpstreamFetch(endpoint string) func() {
	timer := prometheus.NewTimer(UpstreamDuration.WithLabelValues(endpoint))
	return func() {
		timer.ObserveDuration()
	}
}

// TimeCacheGetOperation returns a timer function for measuring cache get operation duration
func TimeCacheGetOperation(level string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues("get", level))
	return func() {
		timer.ObserveDuration()
	}
}
