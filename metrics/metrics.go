// Package metrics exposes Prometheus counters for the proxy.
//
// The collectors are always live; InitMetrics only registers them so that
// Handler can serve them.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts proxy responses by status code.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curseproxy_requests_total",
			Help: "Total number of proxy requests by response status",
		},
		[]string{"status"},
	)

	// RequestDuration observes proxy request latency.
	RequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curseproxy_request_duration_seconds",
			Help:    "Proxy request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CacheLookups counts version cache lookups; result is "hit" or "miss".
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curseproxy_version_cache_lookups_total",
			Help: "Version resolution cache lookups",
		},
		[]string{"result"},
	)

	// Resolutions counts archive inspections; outcome is "found", "absent" or "error".
	Resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curseproxy_version_resolutions_total",
			Help: "Jar downloads inspected for a mod version",
		},
		[]string{"outcome"},
	)

	// CachedEntries is the number of memoized download URLs.
	CachedEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "curseproxy_version_cache_entries",
			Help: "Number of download URLs held by the version cache",
		},
	)

	registry = prometheus.NewRegistry()
	once     sync.Once
)

// InitMetrics registers the collectors. Safe to call more than once.
func InitMetrics() {
	once.Do(func() {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			RequestCounter, RequestDuration, CacheLookups, Resolutions, CachedEntries,
		)
	})
}

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
