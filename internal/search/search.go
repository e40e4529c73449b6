// Package search implements the constructive failure enumerator of
// spec.md §4.4: for a target tuple size T, it finds sorted wire tuples that
// reveal at least t_in shares of a chosen input without being a supertuple
// of an already-known incompressible failure, inserting each minimal find
// into an internal/trie.Trie.
package search

import (
	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/factor"
	"github.com/CryptoExperts/ironmask-go/internal/field"
	"github.com/CryptoExperts/ironmask-go/internal/gauss"
	"github.com/CryptoExperts/ironmask-go/internal/trie"
)

// Config parameterizes one enumeration pass (spec.md §4.4): a single target
// input, the revealed-share threshold that marks a failure, and the maximum
// tuple size the search is allowed to grow to.
type Config struct {
	Input   int // which input this pass targets
	TIn     int // failure threshold: revealed shares of Input
	MaxSize int // T, the maximum tuple size considered
}

// Enumerator runs secrets_step/randoms_step over one circuit for one Config.
type Enumerator struct {
	c    *circuit.Circuit
	cfg  Config
	side field.RowClass
	tr   *trie.Trie
}

// New builds an enumerator for circuit c under cfg. The failure trie is
// created empty and populated by Run.
func New(c *circuit.Circuit, cfg Config) *Enumerator {
	side := field.ClassIn1
	if cfg.Input == 1 {
		side = field.ClassIn2
	}
	return &Enumerator{c: c, cfg: cfg, side: side, tr: trie.New()}
}

// Run enumerates every minimal failure tuple and returns the populated trie.
func (e *Enumerator) Run() *trie.Trie {
	elim := gauss.New(e.c)
	rev := circuit.NewRevelation(e.c.InputCount, e.c.ShareCount)
	selected := field.NewBitSet(e.c.ShareCount)
	e.secretsStep(nil, elim, rev, selected, e.cfg.TIn, e.probeStart())
	return e.tr
}

func (e *Enumerator) shareBase() int { return e.cfg.Input * e.c.ShareCount }

// probeStart is the first probeable wire: spec.md §1 defines security as "no
// tuple of at most t *intermediate* wires" reveals the secret, so the raw
// secret-share wires themselves (the first input_count*share_count wires)
// are never adversary-observable probe targets.
func (e *Enumerator) probeStart() int { return e.c.InputCount * e.c.ShareCount }

// secretsStep implements spec.md §4.4 secrets_step: it grows prefix,
// visiting wires in ascending order, until `required` distinct shares of
// the target input have been *touched* by chosen wires, then delegates
// into randoms_step — matching spec.md §4.4's stated invariant ("prefix
// covers at least one wire touching each of some t_in distinct shares"),
// not "revealed": a wire masked by a random still counts against
// `required` here even though its share only becomes actually revealed
// later, inside randoms_step, once a companion wire cancels the mask
// (_examples/original_source/src/constructive_arith.c:845-1010's
// secrets_step_arith decrements selected_secret_shares_count on touching a
// share's column, independent of whether Gaussian elimination ends up
// leaving that probe masked). `selected` tracks which shares have already
// been claimed by a chosen wire, so the same share isn't counted twice;
// `rev` still tracks only true reveals and is what randoms_step's t_in
// check (and the touching filter below, through `selected`, not `rev`)
// ultimately relies on.
func (e *Enumerator) secretsStep(prefix circuit.Tuple, elim *gauss.Eliminator, rev *circuit.Revelation, selected *field.BitSet, required, nextWire int) {
	if required <= 0 {
		e.randomsStep(prefix, elim, rev, 0)
		return
	}
	if nextWire >= e.c.WireCount || len(prefix) >= e.cfg.MaxSize {
		return
	}

	for w := nextWire; w < e.c.WireCount; w++ {
		row := e.c.Rows[w]
		newShares := 0
		for s := 0; s < e.c.ShareCount; s++ {
			if row.Secret(e.shareBase()+s) != 0 && !selected.Test(s) {
				newShares++
			}
		}
		if newShares == 0 {
			continue
		}

		elimClone := elim.Clone()
		revClone := rev.Clone()
		selectedClone := selected.Clone()
		e.observe(w, elimClone, revClone)
		for s := 0; s < e.c.ShareCount; s++ {
			if row.Secret(e.shareBase()+s) != 0 {
				selectedClone.Set(s)
			}
		}

		e.secretsStep(append(append(circuit.Tuple{}, prefix...), w), elimClone, revClone, selectedClone, required-newShares, w+1)
	}
}

// randomsStep implements spec.md §4.4 randoms_step: it walks a pivot index
// up through the (growing) Gaussian basis, one row at a time, the way
// the original's unmask_idx does
// (_examples/original_source/src/constructive_arith.c:416-462's
// randoms_step_arith, mirrored by constructive.c's GF(2) randoms_step),
// instead of always retrying whichever pivot happens to sit lowest in the
// basis. At each index it first tries leaving that row masked — its
// secret share may already be revealed through another row, so unmasking
// it is never forced — then, only if the row still carries a live pivot
// random, tries every wire containing that exact random as a companion to
// unmask it. Both branches advance to unmaskIdx+1, so every pivot in the
// basis gets its own turn exactly once per recursion path; a gadget that
// needs two distinct companion wires to unmask two distinct pivots gets
// both tried, rather than only ever the first.
func (e *Enumerator) randomsStep(prefix circuit.Tuple, elim *gauss.Eliminator, rev *circuit.Revelation, unmaskIdx int) {
	if rev.Satisfies(e.cfg.TIn) {
		e.record(prefix, rev)
		return
	}
	if len(prefix) >= e.cfg.MaxSize || unmaskIdx >= elim.Len() {
		return
	}

	// Leave row unmaskIdx masked and move on to the next pivot.
	e.randomsStep(prefix, elim, rev, unmaskIdx+1)

	pivot, ok := elim.Pivot(unmaskIdx)
	if !ok {
		return
	}

	for w := e.probeStart(); w < e.c.WireCount; w++ {
		if prefix.Contains(w) {
			continue
		}
		row := e.c.Rows[w]
		if row.Random(pivot) == 0 {
			continue
		}
		elimClone := elim.Clone()
		revClone := rev.Clone()
		e.observe(w, elimClone, revClone)
		e.randomsStep(prefix.WithAppended(w), elimClone, revClone, unmaskIdx+1)
	}
}

// record implements the trie-insertion half of randoms_step's failure
// branch: a found failure is inserted only if no proper subset of it is
// already stored (spec.md §4.4 Pruning).
func (e *Enumerator) record(prefix circuit.Tuple, rev *circuit.Revelation) {
	t := append(circuit.Tuple{}, prefix...)
	t.Sort()
	if _, found := e.tr.ContainsSubset(t); found {
		return
	}
	e.tr.Insert(t, rev)
}

// observe pushes wire w's contribution into elim/rev in place, returning
// whether a new share of the target input became revealed as a result. Rows
// that depend on a multiplication gate are routed through the factorizer
// first (spec.md §4.3) and contribute nothing when the factorizer can't
// resolve them or when they carry an out_rand random; rows without a
// multiplication term are pushed as they are.
func (e *Enumerator) observe(w int, elim *gauss.Eliminator, rev *circuit.Revelation) bool {
	row := e.c.Rows[w]
	if !row.HasAnyMult() {
		return e.pushLinear(row, elim, rev)
	}

	res, err := factor.Factorize(e.c, row, e.side)
	if err != nil || res.Skipped || res.Unresolved {
		return false
	}
	newlyCovered := false
	for _, entry := range res.Entries {
		i := elim.Push(entry.Expr, field.ClassOut)
		if _, ok := elim.Pivot(i); !ok && entry.Kind == factor.ColumnShare {
			input, share := e.cfg.Input, entry.Index
			if !rev.Shares(input).Test(share) {
				rev.Set(input, share)
				newlyCovered = true
			}
		}
	}
	return newlyCovered
}

func (e *Enumerator) pushLinear(row *field.Row, elim *gauss.Eliminator, rev *circuit.Revelation) bool {
	i := elim.Push(row, field.ClassOut)
	if _, ok := elim.Pivot(i); ok {
		return false
	}
	newlyCovered := false
	// The reveal check reads elim's reduced row, not the wire's own row:
	// a wire that carries no secret itself (a pure companion for some
	// earlier pivot) still reveals that earlier row's secret once
	// Gaussian elimination cancels the shared random between them
	// (_examples/original_source/src/constructive_arith.c:630-646's
	// new_revealed_secret, computed from gauss_deps, the reduced form,
	// never from the raw probe dependency).
	revealed := elim.Row(i).RevealedShares()
	base := e.shareBase()
	for s := 0; s < e.c.ShareCount; s++ {
		if revealed.Test(base+s) && !rev.Shares(e.cfg.Input).Test(s) {
			rev.Set(e.cfg.Input, s)
			newlyCovered = true
		}
	}
	return newlyCovered
}
