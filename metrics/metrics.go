// Package metrics exposes Prometheus metrics for the HTTP API and for
// catalog loads:
//   - http_request_total, http_request_duration_seconds, http_request_in_flight
//   - catalog_loads_total by source, catalog_load_duration_seconds
//   - catalog_cache_lookups_total by result, catalog_entries
//
// Everything is registered with the default registry at init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	CatalogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Completed catalog loads by the source that served them",
		},
		[]string{"source"},
	)

	CatalogLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Duration of completed catalog loads",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	CatalogCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Snapshot cache lookups by result (hit or miss)",
		},
		[]string{"result"},
	)

	CatalogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_entries",
			Help: "Number of entries in the published catalog",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(CatalogLoadsTotal)
	prometheus.MustRegister(CatalogLoadDuration)
	prometheus.MustRegister(CatalogCacheLookups)
	prometheus.MustRegister(CatalogEntries)
}

// ObserveLoad records one published load.
func ObserveLoad(source string, seconds float64, entries int) {
	CatalogLoadsTotal.WithLabelValues(source).Inc()
	CatalogLoadDuration.Observe(seconds)
	CatalogEntries.Set(float64(entries))
}

// ObserveCacheLookup records a snapshot cache hit or miss.
func ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CatalogCacheLookups.WithLabelValues(result).Inc()
}
