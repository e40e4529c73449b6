package parser

import (
	"fmt"
	"regexp"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
)

var dupSuffixRe = regexp.MustCompile(`^([A-Za-z_]+)[0-9]+(?:_[0-9]+)?$`)

// prefixOf strips a trailing share/duplication suffix from a wire name
// ("a12" or "a1_2" -> "a"), grouping consecutively-declared names into one
// logical input or output (spec.md §6 "share name convention").
func prefixOf(name string) string {
	if m := dupSuffixRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// group splits a flat, declaration-ordered name list into logical groups of
// consecutive same-prefix names, preserving first-seen group order.
func group(names []string) [][]string {
	var groups [][]string
	var cur []string
	var curPrefix string
	for _, n := range names {
		pfx := prefixOf(n)
		if cur == nil || pfx != curPrefix {
			if cur != nil {
				groups = append(groups, cur)
			}
			cur = nil
			curPrefix = pfx
		}
		cur = append(cur, n)
	}
	if cur != nil {
		groups = append(groups, cur)
	}
	return groups
}

// wireKind distinguishes how a resolved identifier maps to a wire index.
type wireKind int

const (
	kindShare wireKind = iota
	kindRandom
	kindInternal
	kindOutput
)

// index holds an absolute wire index for kindShare/kindRandom/kindInternal,
// and an (output, share)-packed relative index for kindOutput (patched to an
// absolute wire index by resolve, once outputRangeStart is known).
type wireInfo struct {
	kind  wireKind
	index int
}

type multGate struct {
	left, right int
}

// build runs the two-pass translation from parsed directives/equations into
// a circuit.Circuit.
func (p *parseState) build() (*Result, error) {
	f, err := field.New(p.characteristic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	inGroups := group(p.inNames)
	outGroups := group(p.outNames)
	inputCount := len(inGroups)
	outputCount := len(outGroups)
	shareCount := p.shares
	shareBase := inputCount * shareCount
	randomCount := len(p.randomNames)

	names := map[string]wireInfo{}
	for i, grp := range inGroups {
		if len(grp) != shareCount {
			return nil, fmt.Errorf("%w: input group %d has %d wires, expected %d shares", errMalformed, i, len(grp), shareCount)
		}
		for j, n := range grp {
			names[n] = wireInfo{kind: kindShare, index: i*shareCount + j}
		}
	}
	for i, n := range p.randomNames {
		names[n] = wireInfo{kind: kindRandom, index: i}
	}
	for i, grp := range outGroups {
		if len(grp) != shareCount {
			return nil, fmt.Errorf("%w: output group %d has %d wires, expected %d shares", errMalformed, i, len(grp), shareCount)
		}
		for j, n := range grp {
			names[n] = wireInfo{kind: kindOutput, index: i*shareCount + j}
		}
	}

	// Pass 1a: assign internal wire indices in equation order. An equation
	// whose dst is a declared output resolves into the fixed output range
	// instead of consuming an internal slot.
	internalCount := 0
	dstRelative := make([]int, len(p.equations))
	isOutputDst := make([]bool, len(p.equations))
	for i, eq := range p.equations {
		if existing, ok := names[eq.dst]; ok {
			if existing.kind != kindOutput {
				return nil, fmt.Errorf("%w: line %d: %q assigned more than once", errMalformed, eq.line, eq.dst)
			}
			isOutputDst[i] = true
			dstRelative[i] = existing.index
			continue
		}
		idx := internalCount
		internalCount++
		names[eq.dst] = wireInfo{kind: kindInternal, index: idx}
		dstRelative[i] = idx
	}

	wireCount := shareBase + randomCount + internalCount + outputCount*shareCount
	outputRangeStart := wireCount - outputCount*shareCount

	resolve := func(name string) (int, error) {
		info, ok := names[name]
		if !ok {
			return 0, fmt.Errorf("%w: unknown identifier %q", errMalformed, name)
		}
		switch info.kind {
		case kindShare, kindInternal:
			return info.index, nil
		case kindRandom:
			return shareBase + info.index, nil
		default: // kindOutput
			return outputRangeStart + info.index, nil
		}
	}
	wireOf := func(i int) int {
		if isOutputDst[i] {
			return outputRangeStart + dstRelative[i]
		}
		return shareBase + randomCount + dstRelative[i]
	}

	// secretMask[w] is the symbolic secret-share bitset (over the shareBase
	// columns) reachable through wire w's linear (non-mult) dependency
	// chain; used only to populate MultRecord.ContainedSecrets, which no
	// core verifier component currently consults.
	secretMask := make([]*field.BitSet, wireCount)
	for i := 0; i < shareBase; i++ {
		b := field.NewBitSet(shareBase)
		b.Set(i)
		secretMask[i] = b
	}
	for i := 0; i < randomCount; i++ {
		secretMask[shareBase+i] = field.NewBitSet(shareBase)
	}

	var gates []multGate
	multIndexOf := make(map[int]int) // equation index -> gate index
	corrCount := 0
	corrColumnOf := make(map[int]int) // wire -> corr column
	var correctionWires []int

	for i, eq := range p.equations {
		wire := wireOf(i)

		if eq.correctionOutput {
			corrColumnOf[wire] = corrCount
			corrCount++
			secretMask[wire] = field.NewBitSet(shareBase)
			correctionWires = append(correctionWires, wire)
			continue
		}
		if eq.correction {
			correctionWires = append(correctionWires, wire)
		}

		switch eq.op {
		case opMult:
			if eq.a.coeff != 1 || eq.b.coeff != 1 {
				return nil, fmt.Errorf("%w: line %d: coefficient on a multiplication operand is not supported", errMalformed, eq.line)
			}
			left, err := resolve(eq.a.name)
			if err != nil {
				return nil, err
			}
			right, err := resolve(eq.b.name)
			if err != nil {
				return nil, err
			}
			multIndexOf[i] = len(gates)
			gates = append(gates, multGate{left: left, right: right})
			secretMask[wire] = field.NewBitSet(shareBase)

		case opNot, opAssign:
			src, err := resolve(eq.a.name)
			if err != nil {
				return nil, err
			}
			secretMask[wire] = secretMask[src].Clone()

		case opAdd:
			srcA, err := resolve(eq.a.name)
			if err != nil {
				return nil, err
			}
			srcB, err := resolve(eq.b.name)
			if err != nil {
				return nil, err
			}
			m := secretMask[srcA].Clone()
			m.OrInto(secretMask[srcB])
			secretMask[wire] = m
		}
	}

	b := circuit.NewBuilder(f, shareCount, inputCount, randomCount, internalCount, outputCount, corrCount)

	// Register every mult gate first: AddMult only needs wire indices and
	// the symbolic ContainedSecrets masks above, no Row objects, so this
	// fixes the Builder's final Mults column count before any row (even a
	// trivial share/random row) is created via NewRow (see NewRow's doc
	// comment on why row creation must follow all AddMult calls).
	gateMultIdx := make([]int, len(gates))
	for gi, g := range gates {
		union := secretMask[g.left].Clone()
		union.OrInto(secretMask[g.right])
		in1 := field.NewBitSet(shareCount)
		copyMasked(in1, union, 0, shareCount)
		in2 := field.NewBitSet(shareCount)
		if inputCount > 1 {
			copyMasked(in2, union, shareCount, shareCount)
		}
		gateMultIdx[gi] = b.AddMult(g.left, g.right, in1, in2)
	}

	rows := make([]*field.Row, wireCount)
	for i := 0; i < shareBase; i++ {
		row := b.NewRow()
		row.SetSecret(i, 1)
		rows[i] = row
	}
	for i := 0; i < randomCount; i++ {
		row := b.NewRow()
		row.SetRandom(i, 1)
		rows[shareBase+i] = row
		b.SetName(shareBase+i, p.randomNames[i])
	}
	for name, info := range names {
		if info.kind == kindShare {
			b.SetName(info.index, name)
		}
	}

	// Pass 2: build every internal/output wire's row.
	for i, eq := range p.equations {
		wire := wireOf(i)
		b.SetName(wire, eq.dst)

		if eq.correctionOutput {
			row := b.NewRow()
			row.SetCorr(corrColumnOf[wire], 1)
			rows[wire] = row
			continue
		}

		switch eq.op {
		case opMult:
			row := b.NewRow()
			row.SetMult(gateMultIdx[multIndexOf[i]], 1)
			rows[wire] = row

		case opNot:
			src, err := resolve(eq.a.name)
			if err != nil {
				return nil, err
			}
			row := rows[src].Clone()
			if eq.a.coeff != 1 {
				field.RowScale(row, eq.a.coeff)
			}
			row.SetConst(f.Add(row.Const(), 1))
			rows[wire] = row

		case opAssign:
			src, err := resolve(eq.a.name)
			if err != nil {
				return nil, err
			}
			row := rows[src].Clone()
			if eq.a.coeff != 1 {
				field.RowScale(row, eq.a.coeff)
			}
			rows[wire] = row

		case opAdd:
			srcA, err := resolve(eq.a.name)
			if err != nil {
				return nil, err
			}
			srcB, err := resolve(eq.b.name)
			if err != nil {
				return nil, err
			}
			row := rows[srcA].Clone()
			if eq.a.coeff != 1 {
				field.RowScale(row, eq.a.coeff)
			}
			field.RowAddScaled(row, rows[srcB], eq.b.coeff)
			rows[wire] = row
		}
	}

	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: wire %d has no assigned row", errMalformed, i)
		}
		b.SetRow(i, row)
	}

	deriveRandomClasses(b, rows, gates, shareBase, randomCount, corrCount)

	c, err := b.Build()
	if err != nil {
		return nil, err
	}

	return &Result{
		Circuit:         c,
		Order:           p.order,
		Duplications:    p.duplications,
		CorrectionWires: correctionWires,
	}, nil
}

// copyMasked copies the bits of src in range [offset, offset+n) into dst
// (sized n), reindexed to [0,n).
func copyMasked(dst, src *field.BitSet, offset, n int) {
	for j := 0; j < n; j++ {
		if offset+j < src.Len() && src.Test(offset+j) {
			dst.Set(j)
		}
	}
}
