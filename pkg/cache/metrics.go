package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapposter_cache_hits_total",
			Help: "Total number of cache hits per category",
		},
		[]string{"category"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapposter_cache_misses_total",
			Help: "Total number of cache misses per category (missing, expired or unreadable)",
		},
		[]string{"category"},
	)

	cacheWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapposter_cache_write_errors_total",
			Help: "Total number of failed cache writes per category",
		},
		[]string{"category"},
	)

	cacheSweepRemovals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mapposter_cache_sweep_removals_total",
			Help: "Total number of expired entries removed by cleanup sweeps",
		},
	)
)
