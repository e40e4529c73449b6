package circuit

import (
	"fmt"

	"github.com/CryptoExperts/ironmask-go/internal/field"
)

// Builder assembles a Circuit one wire/gate at a time. internal/parser is
// the sole intended caller: it reads the textual format of spec.md §6 and
// drives a Builder, keeping the Circuit itself free of any parsing logic
// (spec.md §1 Non-goals).
type Builder struct {
	f *field.Field

	shareCount, inputCount, randomCount, internalCount, outputCount, corrCount int
	wireCount                                                                 int
	layout                                                                    field.Layout

	rows   []*field.Row
	weight []int
	names  []string
	mults  []MultRecord

	in1, in2, out *field.BitSet
}

// NewBuilder allocates a Builder for a circuit with the given share/input/
// random/internal/output wire counts. Wire indices are assigned in the
// canonical order of spec.md §3: shares, then randoms, then internal wires,
// then outputs.
func NewBuilder(f *field.Field, shareCount, inputCount, randomCount, internalCount, outputCount, corrCount int) *Builder {
	wireCount := inputCount*shareCount + randomCount + internalCount + outputCount*shareCount
	b := &Builder{
		f:            f,
		shareCount:   shareCount,
		inputCount:   inputCount,
		randomCount:  randomCount,
		internalCount: internalCount,
		outputCount:  outputCount,
		corrCount:    corrCount,
		wireCount:    wireCount,
		rows:         make([]*field.Row, wireCount),
		weight:       make([]int, wireCount),
		names:        make([]string, wireCount),
		in1:          field.NewBitSet(randomCount),
		in2:          field.NewBitSet(randomCount),
		out:          field.NewBitSet(randomCount),
	}
	for i := range b.weight {
		b.weight[i] = 1
	}
	return b
}

// WireCount returns the total number of wires this builder will produce.
func (b *Builder) WireCount() int { return b.wireCount }

// NewRow allocates a zero row with this builder's layout, ready to be filled
// in by the parser and attached via SetRow. Mult columns grow as AddMult is
// called and a row allocated earlier is not widened, so every AddMult call
// must come before the NewRow calls (the parser pre-scans gates, so in
// practice all AddMult calls happen before any row is filled in).
func (b *Builder) NewRow() *field.Row {
	return field.NewRow(b.f, b.currentLayout())
}

func (b *Builder) currentLayout() field.Layout {
	return field.Layout{
		Secrets: b.inputCount * b.shareCount,
		Randoms: b.randomCount,
		Mults:   len(b.mults),
		Corr:    b.corrCount,
	}
}

// SetRow attaches the dependency row for wire i.
func (b *Builder) SetRow(i int, row *field.Row) {
	b.rows[i] = row
}

// SetName records the source identifier for wire i (diagnostics only).
func (b *Builder) SetName(i int, name string) {
	b.names[i] = name
}

// SetWeight records the wire-count weight used by the glitch/transition
// model (spec.md §3 "per-wire weight"); defaults to 1.
func (b *Builder) SetWeight(i, w int) {
	b.weight[i] = w
}

// AddMult registers a multiplication gate and returns its column index into
// the Mults lane.
func (b *Builder) AddMult(left, right int, in1Secrets, in2Secrets *field.BitSet) int {
	idx := len(b.mults)
	b.mults = append(b.mults, MultRecord{
		Left: left, Right: right,
		ContainedSecrets: [2]*field.BitSet{in1Secrets, in2Secrets},
	})
	return idx
}

// ClassifyRandom records which operand-side a random refreshes.
func (b *Builder) ClassifyRandom(randomIdx int, class field.RowClass) {
	switch class {
	case field.ClassIn1:
		b.in1.Set(randomIdx)
	case field.ClassIn2:
		b.in2.Set(randomIdx)
	case field.ClassOut:
		b.out.Set(randomIdx)
	}
}

// Build finalizes and validates the Circuit.
func (b *Builder) Build() (*Circuit, error) {
	for i, r := range b.rows {
		if r == nil {
			return nil, fmt.Errorf("%w: wire %d has no assigned row", ErrMalformedCircuit, i)
		}
	}
	c := &Circuit{
		Field:       b.f,
		ShareCount:  b.shareCount,
		InputCount:  b.inputCount,
		RandomCount: b.randomCount,
		OutputCount: b.outputCount,
		WireCount:   b.wireCount,
		Rows:        b.rows,
		Weight:      b.weight,
		Mults:       b.mults,
		In1Rands:    b.in1,
		In2Rands:    b.in2,
		OutRands:    b.out,
		CorrCount:   b.corrCount,
		Names:       b.names,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
