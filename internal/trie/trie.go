// Package trie implements the incompressible-tuple trie of spec.md §4.5: a
// deduplicating store of sorted wire tuples where no stored tuple is a
// subtuple of another, keyed by wire index at each depth.
package trie

import (
	"sort"
	"sync"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
	"github.com/CryptoExperts/ironmask-go/internal/metrics"
)

type node struct {
	children   map[int]*node
	terminal   bool
	descriptor *circuit.Revelation
}

func newNode() *node {
	return &node{children: map[int]*node{}}
}

// Trie stores incompressible tuples under a single writer/reader mutex
// (spec.md §5: "all trie inserts acquire a single writer mutex ... reads are
// also serialized under the same mutex").
type Trie struct {
	mu      sync.Mutex
	root    *node
	size    int
	metrics *metrics.Registry
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{root: newNode()}
}

// WithMetrics attaches a metrics registry: TrieSize is kept in sync with the
// trie's terminal-node count on every Insert.
func (t *Trie) WithMetrics(reg *metrics.Registry) *Trie {
	t.metrics = reg
	return t
}

// Insert records tuple (which must already be sorted ascending) with the
// given revelation descriptor. If tuple is already present, the descriptors
// merge by bitwise OR per input share (spec.md §4.5); cardinality is
// unchanged.
func (t *Trie) Insert(tuple circuit.Tuple, descriptor *circuit.Revelation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.root
	for _, wire := range tuple {
		child, ok := n.children[wire]
		if !ok {
			child = newNode()
			n.children[wire] = child
		}
		n = child
	}
	if n.terminal {
		n.descriptor.MergeOR(descriptor)
		return
	}
	n.terminal = true
	n.descriptor = descriptor.Clone()
	t.size++
	if t.metrics != nil {
		t.metrics.TrieSize.Set(float64(t.size))
	}
}

// ContainsSubset reports whether some ancestor-prefix path in the trie
// terminates before tuple ends, i.e. whether a proper (or equal) subset of
// tuple is already stored. It returns the matching descriptor when found.
func (t *Trie) ContainsSubset(tuple circuit.Tuple) (*circuit.Revelation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return containsSubset(t.root, tuple)
}

// containsSubset performs a depth-first descent that may skip wires of
// tuple to match shallower terminals: at each node we either consume the
// next tuple wire (if the trie has a child for it) or skip it and keep
// looking deeper in tuple for the current node's children.
func containsSubset(n *node, remaining circuit.Tuple) (*circuit.Revelation, bool) {
	if n.terminal {
		return n.descriptor, true
	}
	if len(remaining) == 0 {
		return nil, false
	}
	if child, ok := n.children[remaining[0]]; ok {
		if d, found := containsSubset(child, remaining[1:]); found {
			return d, true
		}
	}
	return containsSubset(n, remaining[1:])
}

// ListBySize returns every stored tuple of exactly length n, in ascending
// sorted order.
func (t *Trie) ListBySize(n int) []circuit.Tuple {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []circuit.Tuple
	var walk func(nd *node, depth int, path circuit.Tuple)
	walk = func(nd *node, depth int, path circuit.Tuple) {
		if nd.terminal && depth == n {
			out = append(out, append(circuit.Tuple{}, path...))
		}
		if depth >= n {
			return
		}
		wires := make([]int, 0, len(nd.children))
		for w := range nd.children {
			wires = append(wires, w)
		}
		sort.Ints(wires)
		for _, w := range wires {
			walk(nd.children[w], depth+1, append(path, w))
		}
	}
	walk(t.root, 0, nil)
	return out
}

// ProjectOntoOutputs returns a derived trie keeping only the wires of every
// stored tuple that lie inside outputSubset, with every other wire stripped
// (spec.md §4.5 project_onto).
func (t *Trie) ProjectOntoOutputs(outputSubset *field.BitSet) *Trie {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := New()
	var walk func(nd *node, path circuit.Tuple)
	walk = func(nd *node, path circuit.Tuple) {
		if nd.terminal {
			projected := make(circuit.Tuple, 0, len(path))
			for _, w := range path {
				if outputSubset.Test(w) {
					projected = append(projected, w)
				}
			}
			out.Insert(projected, nd.descriptor)
		}
		for w, child := range nd.children {
			walk(child, append(path, w))
		}
	}
	walk(t.root, nil)
	return out
}

// Len returns the number of stored (terminal) tuples.
func (t *Trie) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	var walk func(nd *node)
	walk = func(nd *node) {
		if nd.terminal {
			count++
		}
		for _, child := range nd.children {
			walk(child)
		}
	}
	walk(t.root)
	return count
}
