package circuit

import (
	"fmt"

	"github.com/CryptoExperts/ironmask-go/internal/field"
)

// MultRecord is a bilinear gate: (left_wire, right_wire, contained_secrets)
// where ContainedSecrets[i] is the union of secret-share masks reachable
// through either operand of input i (spec.md §3).
type MultRecord struct {
	Left, Right      int
	ContainedSecrets [2]*field.BitSet
}

// WireRole classifies a wire by its position in the four contiguous wire
// ranges of spec.md §3.
type WireRole int

const (
	RoleSecretShare WireRole = iota
	RoleRandom
	RoleInternal
	RoleOutput
)

// Circuit is the immutable, read-only-after-construction contract of
// spec.md §3: every wire's dependency row, the multiplication records, the
// per-wire weight (for glitch/transition modeling), and the three
// random-classification masks.
type Circuit struct {
	Field *field.Field

	ShareCount  int
	InputCount  int
	RandomCount int
	OutputCount int
	WireCount   int

	Rows   []*field.Row
	Weight []int
	Mults  []MultRecord

	// Random-classification masks: which randoms refresh input 1, input 2, or
	// the output of a multiplication gadget. A random appears in at most one
	// class; one that appears in none is reported as ClassAny by RandomClass.
	In1Rands *field.BitSet
	In2Rands *field.BitSet
	OutRands *field.BitSet

	// CorrCount is the number of correction-block outputs (fault-combined
	// properties; spec.md §6 "correction"/"correction_o" annotations).
	CorrCount int

	// Names maps a wire index back to its source identifier, for diagnostics
	// and for printing the first failing tuple (spec.md §6 "Output").
	Names []string
}

// Layout returns the row layout every wire of this circuit shares.
func (c *Circuit) Layout() field.Layout {
	return field.Layout{
		Secrets: c.InputCount * c.ShareCount,
		Randoms: c.RandomCount,
		Mults:   len(c.Mults),
		Corr:    c.CorrCount,
	}
}

// Role classifies wire index i per spec.md §3's contiguous ranges.
func (c *Circuit) Role(i int) WireRole {
	secretEnd := c.InputCount * c.ShareCount
	randomEnd := secretEnd + c.RandomCount
	outputStart := c.WireCount - c.OutputCount*c.ShareCount
	switch {
	case i < secretEnd:
		return RoleSecretShare
	case i < randomEnd:
		return RoleRandom
	case i >= outputStart:
		return RoleOutput
	default:
		return RoleInternal
	}
}

// InputOfShareWire returns (input, share) for a wire in the secret-share
// range.
func (c *Circuit) InputOfShareWire(i int) (input, share int) {
	return i / c.ShareCount, i % c.ShareCount
}

// OutputOfWire returns (output, share) for a wire in the output range.
func (c *Circuit) OutputOfWire(i int) (output, share int) {
	outputStart := c.WireCount - c.OutputCount*c.ShareCount
	rel := i - outputStart
	return rel / c.ShareCount, rel % c.ShareCount
}

// RandomClass returns the classification of random wire index i (its
// position within [0, RandomCount), not the global wire index).
func (c *Circuit) RandomClass(randomIdx int) field.RowClass {
	switch {
	case c.In1Rands.Test(randomIdx):
		return field.ClassIn1
	case c.In2Rands.Test(randomIdx):
		return field.ClassIn2
	case c.OutRands.Test(randomIdx):
		return field.ClassOut
	default:
		return field.ClassAny
	}
}

// ClassMask returns the BitSet backing a given RowClass, or nil for
// ClassAny (unrestricted row_first_random_restricted).
func (c *Circuit) ClassMask(class field.RowClass) *field.BitSet {
	switch class {
	case field.ClassIn1:
		return c.In1Rands
	case field.ClassIn2:
		return c.In2Rands
	case field.ClassOut:
		return c.OutRands
	default:
		return nil
	}
}

// Validate checks the invariants of a built circuit: no random belongs to
// more than one class, the row count matches the wire count, wire ranges are
// consistent, and multiplications reference existing wires. A random that
// belongs to no class is not rejected.
func (c *Circuit) Validate() error {
	if c.WireCount != len(c.Rows) {
		return fmt.Errorf("%w: wire count %d does not match %d rows", ErrMalformedCircuit, c.WireCount, len(c.Rows))
	}
	if c.InputCount*c.ShareCount+c.RandomCount > c.WireCount {
		return fmt.Errorf("%w: share+random wires exceed wire count", ErrMalformedCircuit)
	}
	if c.OutputCount*c.ShareCount > c.WireCount {
		return fmt.Errorf("%w: output wires exceed wire count", ErrMalformedCircuit)
	}
	for i := 0; i < c.RandomCount; i++ {
		classes := 0
		if c.In1Rands.Test(i) {
			classes++
		}
		if c.In2Rands.Test(i) {
			classes++
		}
		if c.OutRands.Test(i) {
			classes++
		}
		if classes > 1 {
			return fmt.Errorf("%w: random %d belongs to more than one class", ErrMalformedCircuit, i)
		}
	}
	for _, m := range c.Mults {
		if m.Left < 0 || m.Left >= c.WireCount || m.Right < 0 || m.Right >= c.WireCount {
			return fmt.Errorf("%w: multiplication references out-of-range wire", ErrUnsupportedGadget)
		}
	}
	return nil
}
