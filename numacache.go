// Package numacache is a NUMA-aware, sharded in-memory cache. Each
// shard is addressed by a pinned (processor, NUMA-node) affinity tag
// rather than by hashing the key, so that callers already pinned to a
// processor land on "their" shard without any coordination. Within a
// shard, eviction uses SIEVE (a single scanning hand over a FIFO of
// insertion order) rather than strict LRU. A cache-wide, lock-free
// Bloom filter short-circuits the cross-shard search a miss would
// otherwise require.
//
// The cache makes no attempt at cross-shard coherence: the same key may
// be resident, with independently diverging values, in more than one
// shard at once. Build with New[K, V]().Affinities(...).
// CapacityPerShard(...).Build().
package numacache

import (
	"github.com/cacheworks/numacache/affinity"
	"github.com/cacheworks/numacache/internal/bloom"
	"github.com/cacheworks/numacache/internal/shard"
)

// Cache is a fixed-shard-count, pinned-affinity cache. Shard count,
// per-shard capacity, and Bloom filter sizing are immutable after
// construction. All methods are safe for concurrent use.
type Cache[K comparable, V any] struct {
	shards           []*shard.Shard[K, V]
	bloom            *bloom.Filter
	numShards        int
	capacityPerShard int
	affinities       []affinity.Affinity // nil if built via NumShards instead of Affinities

	metrics Metrics
	logger  Logger
}

func newCache[K comparable, V any](numShards, capacityPerShard int, falsePositiveRate float64, affinities []affinity.Affinity, metrics Metrics, logger Logger) *Cache[K, V] {
	shards := make([]*shard.Shard[K, V], numShards)
	for i := range shards {
		shards[i] = shard.New[K, V](capacityPerShard)
	}

	c := &Cache[K, V]{
		shards:           shards,
		bloom:            bloom.New(numShards*capacityPerShard, falsePositiveRate),
		numShards:        numShards,
		capacityPerShard: capacityPerShard,
		affinities:       affinities,
		metrics:          metrics,
		logger:           logger,
	}
	logger.Debugf("numacache: built %d shards, capacity %d each, bloom bits=%d probes=%d", numShards, capacityPerShard, c.bloom.NumBits(), c.bloom.NumProbes())
	return c
}

// NumShards returns the fixed number of shards.
func (c *Cache[K, V]) NumShards() int { return c.numShards }

func (c *Cache[K, V]) shardIndex(a affinity.Affinity) int {
	return affinity.ShardIndex(a, c.numShards)
}

// Get looks up k, routed to a's shard. On a local hit it marks the
// entry visited and returns immediately. On a local miss it consults
// the Bloom filter; if the filter says k cannot be present anywhere, it
// returns (zero, false) without touching any other shard. Otherwise it
// scans remote shards in ascending index order; the first remote hit
// found is promoted (cloned) into a's local shard, which may itself
// evict an entry there, and is returned.
func (c *Cache[K, V]) Get(a affinity.Affinity, k K) (V, bool) {
	s := c.shardIndex(a)

	if v, ok := c.shards[s].GetLocal(k); ok {
		c.metrics.Hit()
		return v, true
	}

	if !bloom.MightContain(c.bloom, k) {
		c.metrics.Miss()
		c.metrics.BloomShortCircuit()
		var zero V
		return zero, false
	}

	for t := 0; t < c.numShards; t++ {
		if t == s {
			continue
		}
		if v, ok := c.shards[t].GetLocal(k); ok {
			c.promote(s, k, v)
			c.metrics.Hit()
			c.metrics.Promotion()
			return v, true
		}
	}

	c.metrics.Miss()
	var zero V
	return zero, false
}

// Contains reports whether k is reachable from a's shard, following the
// same local-then-remote search Get does, but it never promotes the key
// into the local shard and never marks any entry visited.
func (c *Cache[K, V]) Contains(a affinity.Affinity, k K) bool {
	s := c.shardIndex(a)

	if c.shards[s].ContainsLocal(k) {
		return true
	}

	if !bloom.MightContain(c.bloom, k) {
		c.metrics.BloomShortCircuit()
		return false
	}

	for t := 0; t < c.numShards; t++ {
		if t == s {
			continue
		}
		if c.shards[t].ContainsLocal(k) {
			return true
		}
	}
	return false
}

// Insert upserts k→v into a's shard only, holding that shard's write
// lock across both the map mutation and the Bloom filter publish. If
// the shard is over capacity afterward, SIEVE evicts entries from that
// shard alone. Publishing k's Bloom bits before the lock is released
// (rather than after) is required: a concurrent cross-shard Get or
// Contains issued from a different affinity only ever consults the
// Bloom filter after failing a local lookup, but it must never be able
// to observe k resident in this shard while still seeing stale (unset)
// Bloom bits for it.
func (c *Cache[K, V]) Insert(a affinity.Affinity, k K, v V) {
	s := c.shardIndex(a)
	sh := c.shards[s]

	sh.Lock()
	out := sh.InsertNoLock(k, v)
	bloom.Insert(c.bloom, k)
	sh.Unlock()

	for range out.Evicted {
		c.metrics.Evict("sieve")
	}
	c.metrics.Size(sh.LenLocal())
}

// promote clones v into shard index s, under the same lock-held-across-
// publish discipline as Insert. Any keys it evicts as a side effect are
// dropped silently, matching Insert's eviction contract.
func (c *Cache[K, V]) promote(s int, k K, v V) {
	sh := c.shards[s]

	sh.Lock()
	out := sh.InsertNoLock(k, v)
	bloom.Insert(c.bloom, k)
	sh.Unlock()

	for range out.Evicted {
		c.metrics.Evict("sieve")
	}
}

// Remove deletes k from every shard. It acquires every shard's write
// lock up front, in strictly ascending index order, operates on the
// already-locked shards, then releases in reverse order. Holding every
// lock for the operation's whole duration (rather than shard-by-shard)
// is what prevents a concurrent Get on another affinity from promoting
// k back into an already-processed shard while Remove is still working
// through the rest. It reports whether any shard held k. Bloom filter
// bits are never cleared, so a removed key may still produce a
// Bloom-filter false positive on a later Get or Contains — this is a
// documented, accepted trade-off of set-only Bloom semantics.
func (c *Cache[K, V]) Remove(k K) bool {
	for i := 0; i < c.numShards; i++ {
		c.shards[i].Lock()
	}

	removedAny := false
	for i := 0; i < c.numShards; i++ {
		if c.shards[i].RemoveNoLock(k) {
			removedAny = true
		}
	}

	for i := c.numShards - 1; i >= 0; i-- {
		c.shards[i].Unlock()
	}
	return removedAny
}

// Clear empties every shard. Like Remove, it acquires every shard's
// write lock up front in ascending index order and releases in reverse,
// so no concurrent insert or promotion can repopulate an already-
// cleared shard before the rest are cleared. Bloom filter bits are not
// reset.
func (c *Cache[K, V]) Clear() {
	for i := 0; i < c.numShards; i++ {
		c.shards[i].Lock()
	}

	for i := 0; i < c.numShards; i++ {
		c.shards[i].ClearNoLock()
	}

	for i := c.numShards - 1; i >= 0; i-- {
		c.shards[i].Unlock()
	}
}

// Len returns the sum of every shard's size. It acquires every shard's
// read lock up front in ascending index order and releases in reverse,
// giving a consistent snapshot against concurrent Remove/Clear/Insert
// (which take the same locks in the same order), rather than summing
// shard-by-shard snapshots that could each observe a different moment.
func (c *Cache[K, V]) Len() int {
	for i := 0; i < c.numShards; i++ {
		c.shards[i].RLock()
	}

	total := 0
	for i := 0; i < c.numShards; i++ {
		total += c.shards[i].LenNoLock()
	}

	for i := c.numShards - 1; i >= 0; i-- {
		c.shards[i].RUnlock()
	}
	return total
}

// Debug returns a snapshot of the cache's static configuration and
// current per-shard sizes, gathered in ascending shard order.
func (c *Cache[K, V]) Debug() DebugInfo {
	sizes := make([]int, c.numShards)
	for i := 0; i < c.numShards; i++ {
		sizes[i] = c.shards[i].LenLocal()
	}
	return DebugInfo{
		NumShards:        c.numShards,
		CapacityPerShard: c.capacityPerShard,
		ShardSizes:       sizes,
		Affinities:       c.affinities,
	}
}
