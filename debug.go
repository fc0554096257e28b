package numacache

import (
	"fmt"
	"strings"

	"github.com/cacheworks/numacache/affinity"
)

// DebugInfo is an introspection snapshot of a Cache's static
// configuration and current shard sizes. Shard sizes are gathered under
// each shard's read lock in turn, in ascending index order, so, unlike
// Len (which holds every shard's read lock at once), the sizes are not a
// single snapshot under concurrent mutation.
type DebugInfo struct {
	NumShards        int
	CapacityPerShard int
	ShardSizes       []int
	Affinities       []affinity.Affinity
}

func (d DebugInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "numacache: %d shards x %d capacity, sizes=%v", d.NumShards, d.CapacityPerShard, d.ShardSizes)
	if len(d.Affinities) > 0 {
		fmt.Fprintf(&b, ", affinities=%v", d.Affinities)
	}
	return b.String()
}
