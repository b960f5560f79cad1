// Package metrics exposes Prometheus collectors for the wiki engine.
//
// Collectors are registered on the default registry at package init so every
// code path can increment them without wiring; serve mode mounts the standard
// promhttp handler to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal counts upstream fetch operations by operation
	// (search, page) and outcome (ok, not_found, redirect, error).
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stardewiki_fetches_total",
			Help: "Total number of upstream wiki fetch operations.",
		},
		[]string{"operation", "status"},
	)

	// CacheHits counts page cache hits.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stardewiki_cache_hits_total",
			Help: "Total number of page cache hits.",
		},
	)

	// CacheMisses counts page cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stardewiki_cache_misses_total",
			Help: "Total number of page cache misses.",
		},
	)

	// RetriesTotal counts retry attempts after transient upstream failures.
	RetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stardewiki_retries_total",
			Help: "Total number of retried upstream requests.",
		},
	)

	// UpstreamDuration observes the duration of upstream HTTP requests.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stardewiki_upstream_duration_seconds",
			Help:    "Duration of upstream wiki API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
