// Package bloom implements a lock-free, set-only Bloom filter shared
// across every shard of the cache. It accelerates cross-shard misses:
// before scanning remote shards for a key, the façade asks the filter
// whether the key could possibly be present anywhere.
//
// Bits are stored in a slice of atomic 64-bit words and are only ever set
// via fetch-or, never cleared — set-only semantics are what make the
// filter safe to read and write without a lock: a concurrent reader can
// only miss a just-written bit, never observe one disappear, so the
// filter can never produce a false negative.
package bloom

import (
	"math"
	"sync/atomic"

	"github.com/cacheworks/numacache/internal/util"
)

const wordBits = 64

// Filter is a Kirsch–Mitzenmacher Bloom filter: the i-th of k probe
// positions is h1 + i*h2 mod m, derived from two base hashes of the key.
type Filter struct {
	bits []atomic.Uint64
	m    uint64 // total bit count, a multiple of 64
	k    uint64 // number of probes per key
}

// New sizes a filter for expectedEntries keys at the given target false
// positive rate (e.g. 0.01 for ~1%), per the standard formulas:
//
//	m = ceil(-N*ln(p) / (ln 2)^2), rounded up to a multiple of 64
//	k = max(1, round((m/N) * ln 2))
//
// with one extra step: the number of 64-bit words (m/64) is then rounded
// up to a power of two, and k is computed from that final m.
//
// expectedEntries and falsePositiveRate are both clamped to sane minimums
// so a misconfigured cache never produces a zero-sized or zero-probe
// filter.
func New(expectedEntries int, falsePositiveRate float64) *Filter {
	n := float64(expectedEntries)
	if n < 1 {
		n = 1
	}
	p := falsePositiveRate
	if p <= 0 || p >= 1 {
		p = 0.01
	}

	mBits := math.Ceil(-n * math.Log(p) / (math.Ln2 * math.Ln2))
	words := uint64(math.Ceil(mBits / wordBits))
	if words < 1 {
		words = 1
	}
	// Round the word count up to a power of two: it costs at most 2x the
	// bits the formula asked for, and keeps the backing array a shape
	// future probe-strategy changes (e.g. masking instead of modulo) can
	// exploit without resizing.
	words = util.NextPow2(words)
	m := words * wordBits

	k := uint64(math.Round((float64(m) / n) * math.Ln2))
	if k < 1 {
		k = 1
	}

	return &Filter{
		bits: make([]atomic.Uint64, words),
		m:    m,
		k:    k,
	}
}

// NumBits returns the total number of bits backing the filter.
func (f *Filter) NumBits() uint64 { return f.m }

// NumProbes returns the number of hash probes used per key.
func (f *Filter) NumProbes() uint64 { return f.k }

// Insert sets all k of key's bits. Safe for concurrent use with other
// Insert and MightContain calls.
func Insert[K comparable](f *Filter, key K) {
	h1, h2 := hashPair(key)
	for i := uint64(0); i < f.k; i++ {
		f.setBit(probe(h1, h2, i, f.m))
	}
}

// MightContain reports whether key could be present in the cache. A
// false result is a guarantee of absence (invariant: no false
// negatives); a true result may be a false positive.
func MightContain[K comparable](f *Filter, key K) bool {
	h1, h2 := hashPair(key)
	for i := uint64(0); i < f.k; i++ {
		if !f.testBit(probe(h1, h2, i, f.m)) {
			return false
		}
	}
	return true
}

func probe(h1, h2, i, m uint64) uint64 {
	return (h1 + i*h2) % m
}

func (f *Filter) setBit(pos uint64) {
	word, mask := pos/wordBits, uint64(1)<<(pos%wordBits)
	f.bits[word].Or(mask)
}

func (f *Filter) testBit(pos uint64) bool {
	word, mask := pos/wordBits, uint64(1)<<(pos%wordBits)
	return f.bits[word].Load()&mask != 0
}

// hashPair derives two independent-enough base hashes from a key's FNV-1a
// hash: h1 is the hash itself, h2 is a bit-mixing finalizer over h1 (in
// the style of Murmur/SplitMix64 finalizers), giving the Kirsch–Mitzenmacher
// construction its two inputs without requiring K to support two distinct
// hash functions. h2 is forced odd so that repeated addition of h2 modulo
// m (a power of two times 64) cycles through all residues rather than only
// the even ones.
func hashPair[K comparable](key K) (h1, h2 uint64) {
	h1 = util.Fnv64a(key)
	h2 = mix64(h1)
	h2 |= 1
	return h1, h2
}

func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
