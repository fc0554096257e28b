// Package prom adapts numacache.Metrics to Prometheus counters and
// gauges.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cacheworks/numacache"
)

// Adapter implements numacache.Metrics and exports Prometheus
// counters/gauges. Safe for concurrent use; all Prometheus metric types
// are goroutine-safe.
type Adapter struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	promotions  prometheus.Counter
	evicts      *prometheus.CounterVec
	bloomShorts prometheus.Counter
	size        prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits, local or promoted from a remote shard",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "promotions_total",
			Help:        "Remote hits cloned into the local shard",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "SIEVE evictions by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		bloomShorts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "bloom_short_circuits_total",
			Help:        "Misses resolved without scanning any remote shard",
			ConstLabels: constLabels,
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries in the shard that last reported",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.promotions, a.evicts, a.bloomShorts, a.size)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Promotion increments the cross-shard promotion counter.
func (a *Adapter) Promotion() { a.promotions.Inc() }

// Evict increments the eviction counter with a reason label.
func (a *Adapter) Evict(reason string) { a.evicts.WithLabelValues(reason).Inc() }

// BloomShortCircuit increments the Bloom-filter short-circuit counter.
func (a *Adapter) BloomShortCircuit() { a.bloomShorts.Inc() }

// Size sets the resident-entry gauge for the shard that just reported.
func (a *Adapter) Size(entries int) { a.size.Set(float64(entries)) }

// Compile-time check: ensure Adapter implements numacache.Metrics.
var _ numacache.Metrics = (*Adapter)(nil)
