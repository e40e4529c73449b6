// Package bitverify implements the bitvector rules-based verifier of
// spec.md §4.7: an independent, brute-force engine that enumerates every
// k-wire combination via a next_comb-style generator and decides failure by
// comparing revealed-share counts against t_in. It deliberately re-derives
// revelation from scratch per tuple (no incremental trie/eliminator reuse)
// so it can serve as ground truth for the constructive engine on small
// circuits.
package bitverify

import (
	"encoding/binary"
	"math/rand"

	"github.com/zeebo/blake3"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/factor"
	"github.com/CryptoExperts/ironmask-go/internal/field"
	"github.com/CryptoExperts/ironmask-go/internal/gauss"
)

// Evaluate computes the secret-revelation descriptor for probing exactly
// the wires in tuple, targeting the given input side.
func Evaluate(c *circuit.Circuit, tuple circuit.Tuple, input int) *circuit.Revelation {
	side := field.ClassIn1
	if input == 1 {
		side = field.ClassIn2
	}
	elim := gauss.New(c)
	rev := circuit.NewRevelation(c.InputCount, c.ShareCount)
	base := input * c.ShareCount

	for _, w := range tuple {
		row := c.Rows[w]
		if row.HasAnyMult() {
			res, err := factor.Factorize(c, row, side)
			if err != nil || res.Skipped || res.Unresolved {
				continue
			}
			for _, entry := range res.Entries {
				i := elim.Push(entry.Expr, field.ClassOut)
				if _, ok := elim.Pivot(i); !ok && entry.Kind == factor.ColumnShare {
					rev.Set(input, entry.Index)
				}
			}
			continue
		}
		i := elim.Push(row, field.ClassOut)
		if _, ok := elim.Pivot(i); ok {
			continue
		}
		revealed := row.RevealedShares()
		for s := 0; s < c.ShareCount; s++ {
			if revealed.Test(base + s) {
				rev.Set(input, s)
			}
		}
	}
	return rev
}

// Combinations generates every strictly-ascending k-subset of [0,n) in
// lexicographic order, the next_comb algorithm of spec.md §4.7. Exported so
// internal/fault can drive the same generator over fault-scenario subsets
// instead of re-deriving it.
func Combinations(n, k int) func() ([]int, bool) {
	if k > n || k < 0 {
		return func() ([]int, bool) { return nil, false }
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	first := true
	return func() ([]int, bool) {
		if k == 0 {
			if first {
				first = false
				return []int{}, true
			}
			return nil, false
		}
		if first {
			first = false
			return append([]int(nil), idx...), true
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return nil, false
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
		return append([]int(nil), idx...), true
	}
}

// Fingerprint hashes the circuit's canonical wire/gate listing with blake3,
// the way the CLI's -v diagnostic path identifies a parsed gadget without
// printing its full text back out, and the seed VerifySampled derives its
// pseudo-random tuple draws from (so a re-run against the same circuit file
// samples the same tuples).
func Fingerprint(c *circuit.Circuit) [32]byte {
	h := blake3.New()
	var buf [8]byte
	writeInt := func(n int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		h.Write(buf[:])
	}
	writeInt(c.ShareCount)
	writeInt(c.InputCount)
	writeInt(c.RandomCount)
	writeInt(c.OutputCount)
	writeInt(c.WireCount)
	for _, name := range c.Names {
		h.Write([]byte(name))
	}
	for _, m := range c.Mults {
		writeInt(m.Left)
		writeInt(m.Right)
	}
	for _, w := range c.Weight {
		writeInt(w)
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// VerifySampled implements the supplemented, non-exhaustive mode of
// spec.md §4.7: instead of walking every C(n,k) combination, it draws
// `samples` independent random k-subsets (via a math/rand source seeded
// from the circuit's blake3 Fingerprint, so results are reproducible per
// circuit) and evaluates each one. It extends VerifyAllTuples rather than
// replacing it: the property drivers never call this, only the CLI's -v
// diagnostic path, where an exact count is too slow on a large circuit and
// an estimate is enough to sanity-check the constructive search's result.
func VerifySampled(c *circuit.Circuit, k, input, tIn, samples int, onFailure FailureCallback) int {
	probeStart := c.InputCount * c.ShareCount
	n := c.WireCount - probeStart
	if k > n || k < 0 {
		return 0
	}

	fp := Fingerprint(c)
	seed := int64(binary.LittleEndian.Uint64(fp[:8]))
	rng := rand.New(rand.NewSource(seed))

	count := 0
	for s := 0; s < samples; s++ {
		tuple := make(circuit.Tuple, k)
		perm := rng.Perm(n)[:k]
		for i, w := range perm {
			tuple[i] = w + probeStart
		}
		tuple = tuple.Sort()
		rev := Evaluate(c, tuple, input)
		if rev.Satisfies(tIn) {
			count++
			if onFailure != nil {
				onFailure(tuple, rev)
			}
		}
	}
	return count
}

// FailureCallback is invoked once per failing tuple found by VerifyAllTuples.
type FailureCallback func(tuple circuit.Tuple, descriptor *circuit.Revelation)

// VerifyAllTuples implements spec.md §4.7's contract: it enumerates every
// k-wire combination, evaluates it against input/tIn, and invokes onFailure
// for each one that reveals at least tIn shares. It returns the total
// failure count (even when stopAtFirstFailure stops the enumeration early,
// the count reflects only the failures actually visited).
func VerifyAllTuples(c *circuit.Circuit, k, input, tIn int, stopAtFirstFailure bool, onFailure FailureCallback) int {
	probeStart := c.InputCount * c.ShareCount
	next := Combinations(c.WireCount-probeStart, k)
	count := 0
	for {
		idx, ok := next()
		if !ok {
			break
		}
		tuple := make(circuit.Tuple, len(idx))
		for i, w := range idx {
			tuple[i] = w + probeStart
		}
		rev := Evaluate(c, tuple, input)
		if rev.Satisfies(tIn) {
			count++
			if onFailure != nil {
				onFailure(tuple, rev)
			}
			if stopAtFirstFailure {
				break
			}
		}
	}
	return count
}
