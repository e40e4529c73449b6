package circuit_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
)

// buildRefreshSC1 builds the 3-share identity refresh gadget of spec.md §8
// scenario SC1: y0 = x0+r0, y1 = x1+r1, y2 = x2+r0+r1.
func buildRefreshSC1() *circuit.Circuit {
	f, _ := field.New(2)
	b := circuit.NewBuilder(f, 3 /*shareCount*/, 1 /*inputCount*/, 2 /*randomCount*/, 0 /*internal*/, 1 /*outputCount*/, 0)

	for s := 0; s < 3; s++ {
		r := b.NewRow()
		r.SetSecret(s, 1)
		b.SetRow(s, r)
		b.SetName(s, "x")
	}
	for i := 0; i < 2; i++ {
		r := b.NewRow()
		r.SetRandom(i, 1)
		b.SetRow(3+i, r)
		b.SetName(3+i, "r")
	}
	y0 := b.NewRow()
	y0.SetSecret(0, 1)
	y0.SetRandom(0, 1)
	b.SetRow(5, y0)

	y1 := b.NewRow()
	y1.SetSecret(1, 1)
	y1.SetRandom(1, 1)
	b.SetRow(6, y1)

	y2 := b.NewRow()
	y2.SetSecret(2, 1)
	y2.SetRandom(0, 1)
	y2.SetRandom(1, 1)
	b.SetRow(7, y2)

	c, err := b.Build()
	Expect(err).ToNot(HaveOccurred())
	return c
}

var _ = Describe("Circuit", func() {

	It("builds the SC1 refresh gadget with the expected wire layout", func() {
		c := buildRefreshSC1()
		Expect(c.WireCount).To(Equal(8))
		Expect(c.Role(0)).To(Equal(circuit.RoleSecretShare))
		Expect(c.Role(2)).To(Equal(circuit.RoleSecretShare))
		Expect(c.Role(3)).To(Equal(circuit.RoleRandom))
		Expect(c.Role(4)).To(Equal(circuit.RoleRandom))
		Expect(c.Role(5)).To(Equal(circuit.RoleOutput))
		Expect(c.Role(7)).To(Equal(circuit.RoleOutput))
	})

	It("maps share wires back to (input, share)", func() {
		c := buildRefreshSC1()
		input, share := c.InputOfShareWire(2)
		Expect(input).To(Equal(0))
		Expect(share).To(Equal(2))
	})

	It("maps output wires back to (output, share)", func() {
		c := buildRefreshSC1()
		output, share := c.OutputOfWire(7)
		Expect(output).To(Equal(0))
		Expect(share).To(Equal(2))
	})

	It("validates successfully", func() {
		c := buildRefreshSC1()
		Expect(c.Validate()).To(Succeed())
	})

	It("rejects a random assigned to two classes", func() {
		f, _ := field.New(2)
		b := circuit.NewBuilder(f, 1, 1, 1, 0, 1, 0)
		b.SetRow(0, b.NewRow())
		r := b.NewRow()
		r.SetRandom(0, 1)
		b.SetRow(1, r)
		b.SetRow(2, b.NewRow())
		b.ClassifyRandom(0, field.ClassIn1)
		b.ClassifyRandom(0, field.ClassIn2)
		c, err := b.Build()
		Expect(err).To(MatchError(circuit.ErrMalformedCircuit))
		Expect(c).To(BeNil())
	})
})

var _ = Describe("Tuple", func() {

	It("sorts and dedups", func() {
		t := circuit.Tuple{3, 1, 1, 2}
		Expect(t.Sort()).To(Equal(circuit.Tuple{1, 2, 3}))
	})

	It("detects subset relations on sorted tuples", func() {
		a := circuit.Tuple{1, 3}
		b := circuit.Tuple{1, 2, 3, 4}
		Expect(a.IsSubsetOf(b)).To(BeTrue())
		Expect(b.IsSubsetOf(a)).To(BeFalse())
	})

	It("inserts while preserving order", func() {
		a := circuit.Tuple{1, 3, 5}
		Expect(a.WithAppended(4)).To(Equal(circuit.Tuple{1, 3, 4, 5}))
	})
})

var _ = Describe("Revelation", func() {

	It("is satisfied once any input crosses the threshold", func() {
		rv := circuit.NewRevelation(2, 3)
		rv.Set(0, 0)
		rv.Set(0, 1)
		Expect(rv.Satisfies(2)).To(BeTrue())
		Expect(rv.Satisfies(3)).To(BeFalse())
	})

	It("merges via OR and stays idempotent", func() {
		a := circuit.NewRevelation(1, 3)
		a.Set(0, 0)
		b := circuit.NewRevelation(1, 3)
		b.Set(0, 1)

		a.MergeOR(b)
		Expect(a.Count(0)).To(Equal(2))

		a.MergeOR(b)
		Expect(a.Count(0)).To(Equal(2))
	})
})
