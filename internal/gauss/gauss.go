// Package gauss implements the incremental, persistent Gaussian eliminator
// of spec.md §4.2: rows are reduced against an echelon basis as they are
// pushed, and pushes can be rewound to support the constructive search's
// backtracking without recomputation.
package gauss

import (
	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
)

// Eliminator holds the current echelon basis. It is stack-scoped per
// recursion frame (spec.md §3 lifecycle note on gauss_deps/gauss_rands): a
// fresh Eliminator (or one Rewound to length 0) is handed to each search
// task.
type Eliminator struct {
	c       *circuit.Circuit
	rows    []*field.Row
	pivots  []int // -1 means "no random pivot"
	classes []field.RowClass
}

// New returns an empty Eliminator bound to circuit c.
func New(c *circuit.Circuit) *Eliminator {
	return &Eliminator{c: c}
}

// Len returns the number of rows currently pushed.
func (e *Eliminator) Len() int { return len(e.rows) }

// Row returns the (already-reduced) row at index i.
func (e *Eliminator) Row(i int) *field.Row { return e.rows[i] }

// Pivot returns the random index pivoted by row i, or (0, false) if row i
// has no random pivot.
func (e *Eliminator) Pivot(i int) (int, bool) {
	p := e.pivots[i]
	if p < 0 {
		return 0, false
	}
	return p, true
}

// Rewind truncates the basis back to length n, restoring the state prior to
// the last Len()-n pushes. This is how the constructive search backtracks
// without recomputing elimination (spec.md §4.2 "Policy").
func (e *Eliminator) Rewind(n int) {
	e.rows = e.rows[:n]
	e.pivots = e.pivots[:n]
	e.classes = e.classes[:n]
}

// Clone returns a deep copy of the eliminator's state, used when a search
// task is handed off to the thread pool with its own Gaussian buffer
// (spec.md §5 "every task owns its Gaussian buffers").
func (e *Eliminator) Clone() *Eliminator {
	out := &Eliminator{
		c:       e.c,
		rows:    make([]*field.Row, len(e.rows)),
		pivots:  append([]int(nil), e.pivots...),
		classes: append([]field.RowClass(nil), e.classes...),
	}
	for i, r := range e.rows {
		out.rows[i] = r.Clone()
	}
	return out
}

// Push implements the algorithm of spec.md §4.2: reduce `row` against every
// already-reduced row that has a pivot `row` is non-zero on, then compute
// row's own pivot restricted to `class` ("out" for the main elimination,
// ClassAny for the secondary input-side elimination), normalizing by the
// pivot's inverse over GF(p). The reduced row (a fresh clone; the caller's
// row is left untouched) is appended to the basis and its index returned.
func (e *Eliminator) Push(row *field.Row, class field.RowClass) int {
	r := row.Clone()
	f := e.c.Field

	for i := 0; i < len(e.rows); i++ {
		pivot, ok := e.Pivot(i)
		if !ok {
			continue
		}
		coeff := r.Random(pivot)
		if coeff == 0 {
			continue
		}
		if f.IsBinary() {
			field.RowXorInto(r, e.rows[i])
		} else {
			basisCoeff := e.rows[i].Random(pivot) // always 1 after normalization below
			k := f.Neg(f.Div(coeff, basisCoeff))
			field.RowAddScaled(r, e.rows[i], k)
		}
	}

	mask := e.c.ClassMask(class)
	pivotIdx, hasPivot := field.RowFirstRandomRestricted(r, mask)
	if hasPivot && !f.IsBinary() {
		field.RowScale(r, f.Inverse(r.Random(pivotIdx)))
	}

	e.rows = append(e.rows, r)
	e.classes = append(e.classes, class)
	if hasPivot {
		e.pivots = append(e.pivots, pivotIdx)
	} else {
		e.pivots = append(e.pivots, -1)
	}
	return len(e.rows) - 1
}

// Idempotent reports whether reducing `row` against the current basis
// produces either the zero row or a row whose first random equals its
// pivot — the invariant of spec.md §8 property 2 ("Gauss idempotence").
func (e *Eliminator) Idempotent(row *field.Row) bool {
	probe := New(e.c)
	for i := range e.rows {
		probe.rows = append(probe.rows, e.rows[i])
		probe.pivots = append(probe.pivots, e.pivots[i])
		probe.classes = append(probe.classes, e.classes[i])
	}
	idx := probe.Push(row, field.ClassAny)
	reduced := probe.Row(idx)
	if reduced.IsZero() {
		return true
	}
	first, ok := field.RowFirstRandom(reduced)
	if !ok {
		return true
	}
	pivot, ok := probe.Pivot(idx)
	return ok && first == pivot
}
