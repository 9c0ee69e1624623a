package storage

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the storage encoder metrics.
var Registry = prometheus.NewRegistry()

var (
	slotsEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slotinit",
		Subsystem: "storage",
		Name:      "slots_emitted_total",
		Help:      "Storage initializer slots produced.",
	})
	shapeFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slotinit",
		Subsystem: "storage",
		Name:      "shape_fallbacks_total",
		Help:      "Constants whose value did not match their type and were skipped.",
	})
	keyCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slotinit",
		Subsystem: "storage",
		Name:      "key_cache_hits_total",
		Help:      "Storage keys served from the key cache.",
	})
	keyCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slotinit",
		Subsystem: "storage",
		Name:      "key_cache_misses_total",
		Help:      "Storage keys hashed because they were not cached.",
	})
)

func init() {
	Registry.MustRegister(slotsEmitted, shapeFallbacks, keyCacheHits, keyCacheMisses)
}
