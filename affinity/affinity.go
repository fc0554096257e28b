// Package affinity models the pinned (processor, NUMA-node) locality tag
// that the cache uses to route operations to a shard.
//
// An Affinity carries no ownership and no handle into an OS thread
// registry — it is a plain, copyable value, the way a caller that has
// already pinned itself to a processor would describe where it is
// running. Registries and real pinning are collaborator concerns outside
// this package.
package affinity

import "fmt"

// Affinity identifies the logical thread locality of a caller: which
// processor it is pinned to (out of how many) and which NUMA memory
// region that processor belongs to (out of how many).
//
// Two Affinity values compare equal iff all four coordinates are equal.
type Affinity struct {
	ProcessorIndex    uint32
	ProcessorCount    uint32
	MemoryRegionIndex uint32
	MemoryRegionCount uint32
}

// New constructs an Affinity describing a single processor out of
// processorCount, pinned to memory region memoryRegionIndex out of
// memoryRegionCount.
func New(processorIndex, processorCount, memoryRegionIndex, memoryRegionCount uint32) Affinity {
	return Affinity{
		ProcessorIndex:    processorIndex,
		ProcessorCount:    processorCount,
		MemoryRegionIndex: memoryRegionIndex,
		MemoryRegionCount: memoryRegionCount,
	}
}

// Equal reports whether a and other identify the same locality.
func (a Affinity) Equal(other Affinity) bool {
	return a == other
}

// String renders a human-readable summary, e.g. "cpu1/4@numa0/2".
func (a Affinity) String() string {
	return fmt.Sprintf("cpu%d/%d@numa%d/%d", a.ProcessorIndex, a.ProcessorCount, a.MemoryRegionIndex, a.MemoryRegionCount)
}

// ShardIndex returns the shard that owns operations issued from a, given
// a fixed number of shards. Routing is simply the processor index modulo
// the shard count: O(1), deterministic, and independent of any registry.
// Distinct affinities may map to the same shard when numShards is smaller
// than the processor count.
//
// ShardIndex panics if numShards <= 0; the cache façade never calls it
// that way (Builder rejects zero shards at construction).
func ShardIndex(a Affinity, numShards int) int {
	if numShards <= 0 {
		panic("affinity: ShardIndex called with numShards <= 0")
	}
	return int(a.ProcessorIndex) % numShards
}

// Uniform creates n affinities, one per processor, all sharing a single
// memory region. It is a convenience for tests and examples that don't
// need multi-NUMA-node topology; production callers typically obtain
// Affinity values from a thread registry collaborator instead.
func Uniform(n int) []Affinity {
	out := make([]Affinity, n)
	for i := range out {
		out[i] = Affinity{
			ProcessorIndex:    uint32(i),
			ProcessorCount:    uint32(n),
			MemoryRegionIndex: 0,
			MemoryRegionCount: 1,
		}
	}
	return out
}
