package cache

import "github.com/prometheus/client_golang/prometheus"

var (
	lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by result (hit or miss).",
		},
		[]string{"result"},
	)

	invalidations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_invalidated_keys_total",
			Help: "Number of keys forgotten by write paths.",
		},
	)
)

func init() {
	prometheus.MustRegister(lookups, invalidations)
}
