// Package factor implements the multiplication-aware factorizer of
// spec.md §4.3: it rewrites a row that depends on bilinear (multiplication)
// columns as a linear combination over "virtual columns" indexed by shares
// of one chosen operand side plus that side's refresh randoms, with
// coefficients that are expressions in the other operand.
package factor

import (
	"fmt"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
)

// ColumnKind distinguishes the three virtual-column shapes of spec.md §4.3.
type ColumnKind int

const (
	// ColumnShare is keyed by a share index of the chosen side's input.
	ColumnShare ColumnKind = iota
	// ColumnRefresh is keyed by one of the chosen side's own refresh randoms
	// (the r_a*r_b case, which contributes to refresh-columns of both sides).
	ColumnRefresh
	// ColumnConstant collects every remainder term that isn't attached to any
	// mult gate: the row's own non-mult lanes, and "input-side randoms but no
	// mult" terms (spec.md §4.3 edge-case policy).
	ColumnConstant
)

// Entry is one virtual column's accumulated coefficient expression.
type Entry struct {
	Kind  ColumnKind
	Index int // share index (ColumnShare) or random index (ColumnRefresh); unused for ColumnConstant
	Expr  *field.Row
}

// Result is the output of Factorize.
type Result struct {
	// Skipped is true when the row carries an out_rand random directly: such
	// a row is already linearly masked on the output side and cannot leak
	// (spec.md §4.3 edge-case policy), so factorization is not attempted.
	Skipped bool
	Entries []Entry
	// Unresolved is true when at least one multiplication term paired this
	// side's own refresh random against a share of the very same input
	// ("r_a*a_j", spec.md §4.3): such a term is not factored further because
	// the random already masks it as a fresh one-time pad.
	Unresolved bool
}

func newExpr(c *circuit.Circuit) *field.Row {
	return field.NewRow(c.Field, c.Layout())
}

func addScaledInto(dst, src *field.Row, k uint16, f *field.Field) {
	if f.IsBinary() {
		if k != 0 {
			field.RowXorInto(dst, src)
		}
		return
	}
	field.RowAddScaled(dst, src, k)
}

// Factorize implements factorize(row, side): side must be field.ClassIn1
// (operand 1) or field.ClassIn2 (operand 2).
func Factorize(c *circuit.Circuit, row *field.Row, side field.RowClass) (Result, error) {
	if side != field.ClassIn1 && side != field.ClassIn2 {
		return Result{}, fmt.Errorf("factor: side must be ClassIn1 or ClassIn2")
	}

	if rowHasClassRandom(c, row, field.ClassOut) {
		return Result{Skipped: true}, nil
	}

	f := c.Field
	shareEntries := map[int]*Entry{}
	refreshEntries := map[int]*Entry{}
	constant := newExpr(c)
	unresolved := false

	for m := range c.Mults {
		coeff := row.Mult(m)
		if coeff == 0 {
			continue
		}
		rec := c.Mults[m]
		var sideWire, otherWire int
		if side == field.ClassIn1 {
			sideWire, otherWire = rec.Left, rec.Right
		} else {
			sideWire, otherWire = rec.Right, rec.Left
		}
		sideOp := classifyOperand(c, sideWire)
		otherOp := classifyOperand(c, otherWire)
		otherRow := c.Rows[otherWire]

		switch sideOp.kind {
		case opShare:
			e := shareEntries[sideOp.share]
			if e == nil {
				e = &Entry{Kind: ColumnShare, Index: sideOp.share, Expr: newExpr(c)}
				shareEntries[sideOp.share] = e
			}
			addScaledInto(e.Expr, otherRow, coeff, f)

		case opRandom:
			switch otherOp.kind {
			case opRandom:
				// r_a * r_b: contributes to refresh-columns of both sides.
				e := refreshEntries[sideOp.randomIdx]
				if e == nil {
					e = &Entry{Kind: ColumnRefresh, Index: sideOp.randomIdx, Expr: newExpr(c)}
					refreshEntries[sideOp.randomIdx] = e
				}
				addScaledInto(e.Expr, otherRow, coeff, f)

			case opShare:
				if c.RandomClass(sideOp.randomIdx) == side {
					// r_a * a_j: the random and the share both belong to this
					// side -- no factorization, the random already masks the
					// term as a fresh one-time pad.
					unresolved = true
				}
				// Otherwise this term belongs to the other side's
				// factorization (a_j*r_b symmetric case); not applicable here.

			default:
				return Result{}, fmt.Errorf("%w: multiplication operand shape not supported", circuit.ErrUnsupportedGadget)
			}

		default: // opOther
			if otherOp.kind == opShare {
				// Belongs to the other side's factorization; skip here.
				continue
			}
			return Result{}, fmt.Errorf("%w: multiplication operand lacks a canonical factorization", circuit.ErrUnsupportedGadget)
		}
	}

	// Remainder: the row's own non-mult lanes (secrets/randoms/corr/const),
	// excluding out_rand randoms (already handled above as a full skip),
	// contribute directly to the constant column.
	addRemainder(c, row, constant)

	out := make([]Entry, 0, len(shareEntries)+len(refreshEntries)+1)
	for _, e := range shareEntries {
		out = append(out, *e)
	}
	for _, e := range refreshEntries {
		out = append(out, *e)
	}
	if !constant.IsZero() {
		out = append(out, Entry{Kind: ColumnConstant, Expr: constant})
	}

	return Result{Entries: out, Unresolved: unresolved}, nil
}

func rowHasClassRandom(c *circuit.Circuit, row *field.Row, class field.RowClass) bool {
	mask := c.ClassMask(class)
	if mask == nil {
		return false
	}
	for _, i := range mask.Slice() {
		if row.Random(i) != 0 {
			return true
		}
	}
	return false
}

func addRemainder(c *circuit.Circuit, row *field.Row, dst *field.Row) {
	f := c.Field
	for i := 0; i < c.InputCount*c.ShareCount; i++ {
		if v := row.Secret(i); v != 0 {
			dst.SetSecret(i, f.Add(dst.Secret(i), v))
		}
	}
	for i := 0; i < c.RandomCount; i++ {
		if v := row.Random(i); v != 0 {
			dst.SetRandom(i, f.Add(dst.Random(i), v))
		}
	}
	for i := 0; i < c.CorrCount; i++ {
		if v := row.Corr(i); v != 0 {
			dst.SetCorr(i, f.Add(dst.Corr(i), v))
		}
	}
	dst.SetConst(f.Add(dst.Const(), row.Const()))
}

type opKind int

const (
	opOther opKind = iota
	opShare
	opRandom
)

type operand struct {
	kind      opKind
	input     int
	share     int
	randomIdx int
}

// classifyOperand inspects wire's dependency row and decides whether it is a
// pure secret share (exactly one nonzero secret coefficient, nothing else),
// a pure random (exactly one nonzero random coefficient, nothing else), or
// something more complex ("other", e.g. a previously refreshed sum).
func classifyOperand(c *circuit.Circuit, wire int) operand {
	row := c.Rows[wire]
	if row.HasAnyMult() {
		return operand{kind: opOther}
	}
	secrets := row.RevealedShares()
	secretCount := secrets.PopCount()

	randomCount := 0
	onlyRandom := -1
	for i := 0; i < c.RandomCount; i++ {
		if row.Random(i) != 0 {
			randomCount++
			onlyRandom = i
		}
	}

	hasCorr := false
	for i := 0; i < c.CorrCount; i++ {
		if row.Corr(i) != 0 {
			hasCorr = true
			break
		}
	}

	if secretCount == 1 && randomCount == 0 && !hasCorr && row.Const() == 0 {
		idx, _ := secrets.FirstSet()
		input, share := c.InputOfShareWire(idx)
		return operand{kind: opShare, input: input, share: share}
	}
	if secretCount == 0 && randomCount == 1 && !hasCorr && row.Const() == 0 {
		return operand{kind: opRandom, randomIdx: onlyRandom}
	}
	return operand{kind: opOther}
}
