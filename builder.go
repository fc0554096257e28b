package numacache

import "github.com/cacheworks/numacache/affinity"

// defaultFalsePositiveRate is the Bloom filter's target false-positive
// rate when Builder.FalsePositiveRate is never called.
const defaultFalsePositiveRate = 0.01

// Builder accumulates construction parameters for a Cache and validates
// them at Build. Mirrors the chained-option pattern of the system this
// cache's design was distilled from (affinities/num-shards/capacity,
// each returning the builder for chaining) rather than a flat options
// struct, since sizing here genuinely branches on which of two mutually
// exclusive shard-selection modes the caller picked.
type Builder[K comparable, V any] struct {
	affinities        []affinity.Affinity
	numShards         int
	capacityPerShard  int
	falsePositiveRate float64
	metrics           Metrics
	logger            Logger
}

// New returns an empty Builder. Exactly one of Affinities or NumShards
// must be called before Build, and CapacityPerShard is always required.
func New[K comparable, V any]() *Builder[K, V] {
	return &Builder[K, V]{falsePositiveRate: defaultFalsePositiveRate}
}

// Affinities sets one shard per affinity tag; NumShards becomes
// len(affs). The affinities are retained for introspection (Debug) but
// routing still uses ShardIndex(affinity, NumShards) — passing
// affinities here does not bind a particular tag to a particular index
// beyond what that formula already produces.
func (b *Builder[K, V]) Affinities(affs []affinity.Affinity) *Builder[K, V] {
	b.affinities = append([]affinity.Affinity(nil), affs...)
	b.numShards = len(affs)
	return b
}

// NumShards sets the shard count directly, with no affinity binding.
func (b *Builder[K, V]) NumShards(n int) *Builder[K, V] {
	b.numShards = n
	return b
}

// CapacityPerShard sets the per-shard SIEVE capacity. Required.
func (b *Builder[K, V]) CapacityPerShard(c int) *Builder[K, V] {
	b.capacityPerShard = c
	return b
}

// FalsePositiveRate retunes the shared Bloom filter's target false
// positive rate. Defaults to 0.01 when never called.
func (b *Builder[K, V]) FalsePositiveRate(p float64) *Builder[K, V] {
	b.falsePositiveRate = p
	return b
}

// Metrics installs a collaborator notified of hits, misses, promotions,
// evictions, Bloom short-circuits, and size changes.
func (b *Builder[K, V]) Metrics(m Metrics) *Builder[K, V] {
	b.metrics = m
	return b
}

// Logger installs a collaborator for low-frequency diagnostic messages.
func (b *Builder[K, V]) Logger(l Logger) *Builder[K, V] {
	b.logger = l
	return b
}

// Build validates the accumulated configuration and constructs a Cache.
// It fails with a *BuilderError wrapping ErrZeroShards or
// ErrMissingCapacity if the configuration is incomplete; it never fails
// for any other reason.
func (b *Builder[K, V]) Build() (*Cache[K, V], error) {
	if b.numShards <= 0 {
		return nil, newBuilderError(ErrZeroShards)
	}
	if b.capacityPerShard <= 0 {
		return nil, newBuilderError(ErrMissingCapacity)
	}

	metrics := b.metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	logger := b.logger
	if logger == nil {
		logger = noopLogger{}
	}

	return newCache[K, V](b.numShards, b.capacityPerShard, b.falsePositiveRate, b.affinities, metrics, logger), nil
}
