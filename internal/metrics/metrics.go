// Package metrics exposes Prometheus counters for cache and catalog activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stylefind_cache_hits_total",
		Help: "Cache reads served from local storage.",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stylefind_cache_misses_total",
		Help: "Cache reads that found nothing usable.",
	})
	CacheCorrupt = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stylefind_cache_corrupt_total",
		Help: "Cache entries that failed to decode.",
	})
	CacheEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stylefind_cache_evictions_total",
		Help: "Cache entries removed by capacity cleanup.",
	})
	CatalogRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stylefind_catalog_requests_total",
		Help: "Requests issued to the remote catalog by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
)

// Register adds all collectors to reg; call once per registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(CacheHits, CacheMisses, CacheCorrupt, CacheEvictions, CatalogRequests)
}

// Handler serves the metrics of gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
