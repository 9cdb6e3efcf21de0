package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// collectors are created unregistered; Register attaches them to a registry
var factory = promauto.With(nil)

var (
	httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	upstreamLatencySeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_latency_seconds",
			Help:    "Latency of upstream calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"upstream", "outcome"},
	)

	cacheResults = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_results_total",
			Help: "Provider response cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	searchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searches_total",
			Help: "Store-driven searches by terminal outcome.",
		},
		[]string{"outcome"},
	)

	staleResults = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "search_stale_results_total",
			Help: "Search resolutions discarded because a newer search was issued.",
		},
	)

	eventsDropped = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "search_events_dropped_total",
			Help: "Search events dropped because the publish queue was full or closed.",
		},
	)

	activeSessions = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_sessions_active",
			Help: "Sessions currently held in memory.",
		},
	)
)

// Register attaches every service collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		upstreamLatencySeconds,
		cacheResults,
		searchesTotal,
		staleResults,
		eventsDropped,
		activeSessions,
	)
}

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveUpstreamLatency(upstream string, err error, durationSeconds float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamLatencySeconds.WithLabelValues(upstream, outcome).Observe(durationSeconds)
}

func IncCacheHit()   { cacheResults.WithLabelValues("hit").Inc() }
func IncCacheMiss()  { cacheResults.WithLabelValues("miss").Inc() }
func IncCacheError() { cacheResults.WithLabelValues("error").Inc() }

// IncSearch counts a terminal search outcome: success, failed or rejected.
func IncSearch(outcome string) {
	searchesTotal.WithLabelValues(outcome).Inc()
}

func IncStaleResult() { staleResults.Inc() }

func IncEventDropped() { eventsDropped.Inc() }

func SetActiveSessions(n int) { activeSessions.Set(float64(n)) }
