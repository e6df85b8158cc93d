// Package metrics defines the Prometheus collectors of the service and the
// Fiber middleware that feeds the HTTP ones.
package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "store_search"

// Search stages observed by ObserveSearch.
const (
	StageSearch = "search"
	StageEnrich = "enrich"
)

// Cache results recorded by RecordCache.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	searchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_stage_duration_seconds",
			Help:      "Store search stage duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"stage"},
	)

	searchResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Store searches by whether the page had results",
		},
		[]string{"result"}, // "hit" / "empty"
	)

	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Response cache lookups",
		},
		[]string{"cache", "result"},
	)

	jobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by outcome",
		},
		[]string{"job", "outcome"},
	)

	dealsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_expired_total",
			Help:      "Deals moved to EXPIRED by the expiry job",
		},
	)
)

func init() {
	prometheus.MustRegister(searchStageDuration)
	prometheus.MustRegister(searchResultsTotal)
	prometheus.MustRegister(cacheRequestsTotal)
	prometheus.MustRegister(jobRunsTotal)
	prometheus.MustRegister(dealsExpiredTotal)
}

// ObserveSearch records the time spent in a search stage since start.
func ObserveSearch(stage string, start time.Time) {
	searchStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordSearchResult counts a served search page.
func RecordSearchResult(items int) {
	result := "hit"
	if items == 0 {
		result = "empty"
	}
	searchResultsTotal.WithLabelValues(result).Inc()
}

// RecordCache counts a cache lookup for the named cache.
func RecordCache(cache, result string) {
	cacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// RecordJobRun counts one scheduled run of job.
func RecordJobRun(job, outcome string) {
	jobRunsTotal.WithLabelValues(job, outcome).Inc()
}

// AddExpiredDeals adds n to the expired deal counter.
func AddExpiredDeals(n int64) {
	if n > 0 {
		dealsExpiredTotal.Add(float64(n))
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
