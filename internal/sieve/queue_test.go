package sieve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newVisitedSet builds the visited/clearVisited callback pair EvictOne
// expects, backed by a plain map (a shard would instead read/clear an
// atomic flag on the entry itself).
func newVisitedSet() (map[string]bool, func(string) bool, func(string)) {
	m := map[string]bool{}
	return m, func(k string) bool { return m[k] }, func(k string) { m[k] = false }
}

func TestPushFrontAndLen(t *testing.T) {
	q := NewQueue[string](0)
	require.Equal(t, 0, q.Len())

	q.PushFront("a")
	q.PushFront("b")
	require.Equal(t, 2, q.Len())
}

func TestEvictOneEmpty(t *testing.T) {
	q := NewQueue[string](0)
	_, ok := q.EvictOne(func(string) bool { return false }, func(string) {})
	require.False(t, ok)
}

func TestEvictOneAllUnvisitedEvictsOldestFirst(t *testing.T) {
	q := NewQueue[string](0)
	q.PushFront("k0")
	q.PushFront("k1")
	q.PushFront("k2") // capacity 2, this is the (C+1)th insert

	_, visited, clear := newVisitedSet()
	key, ok := q.EvictOne(visited, clear)
	require.True(t, ok)
	require.Equal(t, "k0", key, "with no accesses, the oldest key is evicted first")
}

func TestEvictOneScanResistance(t *testing.T) {
	// Scenario from the spec's testable property 3: capacity 2, k0/k1
	// each accessed once, then k2 arrives unvisited. k2 must be evicted,
	// not k0 or k1.
	q := NewQueue[string](0)
	q.PushFront("k0")
	q.PushFront("k1")

	visitedSet, visited, clear := newVisitedSet()
	visitedSet["k0"] = true
	visitedSet["k1"] = true

	q.PushFront("k2")

	key, ok := q.EvictOne(visited, clear)
	require.True(t, ok)
	require.Equal(t, "k2", key)

	// k0 and k1 had their visited bits cleared by the scan.
	require.False(t, visitedSet["k0"])
	require.False(t, visitedSet["k1"])
}

func TestEvictOneScenarioB(t *testing.T) {
	// Mirrors spec.md scenario B exactly.
	q := NewQueue[string](0)
	hx := q.PushFront("x")
	visitedSet, visited, clear := newVisitedSet()
	visitedSet["x"] = true // get(a0, "x")

	q.PushFront("y")
	q.PushFront("z")

	key, ok := q.EvictOne(visited, clear)
	require.True(t, ok)
	require.Equal(t, "y", key)
	require.Equal(t, 2, q.Len())

	// x's handle is still valid; y's removal didn't disturb it.
	q.Remove(hx)
	require.Equal(t, 1, q.Len())
}

func TestRemoveStaleHandleAfterEvictionIsNoOp(t *testing.T) {
	q := NewQueue[string](0)
	h0 := q.PushFront("k0")
	q.PushFront("k1")
	q.PushFront("k2")

	// Evict the (unvisited) tail k0, where the scan starts.
	_, visited, clear := newVisitedSet()
	key, ok := q.EvictOne(visited, clear)
	require.True(t, ok)
	require.Equal(t, "k0", key)
	_ = h0 // k0's handle is now stale; Remove on it must be a safe no-op.

	q.Remove(h0)
	require.Equal(t, 2, q.Len())
}

func TestRemoveUnknownHandleIsNoOp(t *testing.T) {
	q := NewQueue[string](0)
	q.PushFront("a")
	stale := NodeHandle{}
	require.NotPanics(t, func() { q.Remove(stale) })
	require.Equal(t, 1, q.Len())
}

func TestRemoveOnlyNodeEmptiesQueue(t *testing.T) {
	q := NewQueue[string](0)
	h := q.PushFront("solo")
	q.Remove(h)
	require.Equal(t, 0, q.Len())

	_, ok := q.EvictOne(func(string) bool { return false }, func(string) {})
	require.False(t, ok)
}

func TestHandleReuseAfterEviction(t *testing.T) {
	// A handle to an evicted node must not resolve to a newly-inserted
	// node that happens to reuse the same arena slot.
	q := NewQueue[string](0)
	hOld := q.PushFront("old")

	_, ok := q.EvictOne(func(string) bool { return false }, func(string) {})
	require.True(t, ok)

	hNew := q.PushFront("new")
	require.Equal(t, 1, q.Len())

	q.Remove(hOld) // must be a no-op: stale generation
	require.Equal(t, 1, q.Len())

	q.Remove(hNew)
	require.Equal(t, 0, q.Len())
}

func TestEvictOneAllVisitedSinglePassDeterministic(t *testing.T) {
	q := NewQueue[string](0)
	q.PushFront("a")
	q.PushFront("b")
	q.PushFront("c")

	visitedSet, visited, clear := newVisitedSet()
	visitedSet["a"] = true
	visitedSet["b"] = true
	visitedSet["c"] = true

	key, ok := q.EvictOne(visited, clear)
	require.True(t, ok)
	require.Equal(t, "a", key, "after one full pass clears every flag, the scan started at the tail and evicts it deterministically")
	require.Equal(t, 2, q.Len())
}
