// Package expand implements the hash expander and coefficient counter of
// spec.md §4.6: given the trie of incompressible failure tuples, it grows
// them one wire at a time, deduplicating by an incremental hash, and sums
// per-wire weights to produce the failure-coefficient vector handed to the
// probability solver.
package expand

import (
	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/metrics"
	"github.com/CryptoExperts/ironmask-go/internal/trie"
)

// maxBuckets caps the hash table at ~2^25 entries (spec.md §4.6 "Hash table
// sizing"), matching the source's bound.
const maxBuckets = 1 << 25

// mix is a Wang-style integer hash used to fold a wire index into a running
// tuple hash: hash(T ∪ {w}) = hash(T) + mix(w).
func mix(w int) uint64 {
	h := uint64(w)
	h = (^h) + (h << 21)
	h = h ^ (h >> 24)
	h = (h + (h << 3)) + (h << 8)
	h = h ^ (h >> 14)
	h = (h + (h << 2)) + (h << 4)
	h = h ^ (h >> 28)
	h = h + (h << 31)
	return h
}

func hashTuple(t circuit.Tuple) uint64 {
	var h uint64
	for _, w := range t {
		h += mix(w)
	}
	return h
}

type entry struct {
	tuple circuit.Tuple
	hash  uint64
}

// table is the per-layer bucket hash set of spec.md §4.6: a fixed power-of-
// two bucket count sized for the layer, no mid-layer resize, chained
// element-wise comparison on hash collisions.
type table struct {
	buckets [][]entry
	mask    uint64
}

func newTable(expected int) *table {
	n := 1
	for n < expected*2 && n < maxBuckets {
		n <<= 1
	}
	if n == 0 {
		n = 1
	}
	return &table{buckets: make([][]entry, n), mask: uint64(n - 1)}
}

func (t *table) find(tuple circuit.Tuple, hash uint64) bool {
	b := hash & t.mask
	for _, e := range t.buckets[b] {
		if e.hash == hash && sameTuple(e.tuple, tuple) {
			return true
		}
	}
	return false
}

// insert adds tuple if not already present, returning whether it was newly
// inserted.
func (t *table) insert(tuple circuit.Tuple, hash uint64) bool {
	if t.find(tuple, hash) {
		return false
	}
	b := hash & t.mask
	t.buckets[b] = append(t.buckets[b], entry{tuple: tuple, hash: hash})
	return true
}

// insertChecked is insert under another name: spec.md §4.6 step 3 calls out
// a "stronger insert_checked" for incompressible tuples that might collide
// with an already-expanded supertuple of a smaller incompressible; the
// element-wise comparison in find already makes insert exact, so the two
// are the same operation here.
func (t *table) insertChecked(tuple circuit.Tuple, hash uint64) bool {
	return t.insert(tuple, hash)
}

func (t *table) tuples() []entry {
	var out []entry
	for _, chain := range t.buckets {
		out = append(out, chain...)
	}
	return out
}

func sameTuple(a, b circuit.Tuple) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Expander grows the incompressible trie layer by layer and sums weights.
type Expander struct {
	c        *circuit.Circuit
	metrics  *metrics.Registry
	peakSeen float64
}

// New returns an expander bound to circuit c.
func New(c *circuit.Circuit) *Expander {
	return &Expander{c: c}
}

// WithMetrics attaches a metrics registry: TuplesExpanded counts every
// distinct tuple produced across all layers, HashMapPeak tracks the largest
// per-layer table occupancy seen so far.
func (e *Expander) WithMetrics(reg *metrics.Registry) *Expander {
	e.metrics = reg
	return e
}

// probeStart excludes the raw secret-share wires from expansion, matching
// internal/search's probe universe (spec.md §1: "intermediate wires").
func (e *Expander) probeStart() int { return e.c.InputCount * e.c.ShareCount }

// weight implements weight(T) = product of per-wire weights (spec.md §4.6
// step 4). The source's compute_tree2 recurrence additionally distributes
// glitch/transition sub-wire choices across a tuple; that polynomial
// expansion is approximated here by the plain product over c.Weight, the
// degenerate case when every wire carries a single, unweighted observation
// (glitch/transition extensions are opt-in multipliers layered on top via
// Circuit.Weight, which defaults to 1 per wire).
func (e *Expander) weight(t circuit.Tuple) float64 {
	w := 1.0
	for _, wire := range t {
		w *= float64(e.c.Weight[wire])
	}
	return w
}

// Coefficients returns coeff[1..maxSize] (coeff[0] is always 0: the empty
// tuple is never a failure), the number of size-i failure tuples counted
// with set semantics and weighted per spec.md §4.6.
func (e *Expander) Coefficients(tr *trie.Trie, maxSize int) []float64 {
	coeff := make([]float64, maxSize+1)
	// curr holds the failure tuples of size i-1 (empty for i=1: there are no
	// size-0 failures outside the degenerate t_in=0 case, which the property
	// drivers never configure).
	var curr []circuit.Tuple

	for i := 1; i <= maxSize; i++ {
		expectedPeak := len(curr) * e.c.WireCount
		next := newTable(expectedPeak)

		for _, T := range curr {
			hT := hashTuple(T)
			for w := e.probeStart(); w < e.c.WireCount; w++ {
				if T.Contains(w) {
					continue
				}
				candidate := T.WithAppended(w)
				next.insert(candidate, hT+mix(w))
			}
		}
		for _, T := range tr.ListBySize(i) {
			next.insertChecked(T, hashTuple(T))
		}

		var sum float64
		all := next.tuples()
		nextTuples := make([]circuit.Tuple, 0, len(all))
		for _, e2 := range all {
			sum += e.weight(e2.tuple)
			nextTuples = append(nextTuples, e2.tuple)
		}
		coeff[i] = sum
		curr = nextTuples

		if e.metrics != nil {
			e.metrics.TuplesExpanded.Add(float64(len(all)))
			if occ := float64(len(all)); occ > e.peakSeen {
				e.peakSeen = occ
				e.metrics.HashMapPeak.Set(occ)
			}
		}
	}
	return coeff
}
