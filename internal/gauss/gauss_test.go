package gauss_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
	"github.com/CryptoExperts/ironmask-go/internal/gauss"
)

// trivialCircuit returns a circuit with no shares and the given number of
// randoms, just enough scaffolding for gauss.Eliminator tests that only
// exercise the random lane.
func trivialCircuit(f *field.Field, randomCount int) *circuit.Circuit {
	b := circuit.NewBuilder(f, 1, 0, randomCount, 0, 0, 0)
	for i := 0; i < randomCount; i++ {
		r := b.NewRow()
		r.SetRandom(i, 1)
		b.SetRow(i, r)
	}
	c, err := b.Build()
	Expect(err).ToNot(HaveOccurred())
	return c
}

var _ = Describe("Eliminator", func() {

	Context("over GF(2)", func() {
		f, _ := field.New(2)

		It("pivots each pushed row on its own lowest random", func() {
			c := trivialCircuit(f, 3)
			e := gauss.New(c)

			r0 := field.NewRow(f, c.Layout())
			r0.SetRandom(0, 1)
			r0.SetRandom(1, 1)
			i0 := e.Push(r0, field.ClassAny)
			p0, ok := e.Pivot(i0)
			Expect(ok).To(BeTrue())
			Expect(p0).To(Equal(0))

			r1 := field.NewRow(f, c.Layout())
			r1.SetRandom(0, 1)
			r1.SetRandom(2, 1)
			i1 := e.Push(r1, field.ClassAny)
			p1, ok := e.Pivot(i1)
			Expect(ok).To(BeTrue())
			// r1 reduces against r0 (xor), leaving random 1 and 2 set; its
			// pivot is the lowest of those, random 1.
			Expect(p1).To(Equal(1))
		})

		It("rewinds to a prior state", func() {
			c := trivialCircuit(f, 2)
			e := gauss.New(c)
			r0 := field.NewRow(f, c.Layout())
			r0.SetRandom(0, 1)
			e.Push(r0, field.ClassAny)
			Expect(e.Len()).To(Equal(1))

			r1 := field.NewRow(f, c.Layout())
			r1.SetRandom(1, 1)
			e.Push(r1, field.ClassAny)
			Expect(e.Len()).To(Equal(2))

			e.Rewind(1)
			Expect(e.Len()).To(Equal(1))
			p, ok := e.Pivot(0)
			Expect(ok).To(BeTrue())
			Expect(p).To(Equal(0))
		})

		It("satisfies the idempotence invariant", func() {
			c := trivialCircuit(f, 3)
			e := gauss.New(c)
			r0 := field.NewRow(f, c.Layout())
			r0.SetRandom(0, 1)
			r0.SetRandom(1, 1)
			e.Push(r0, field.ClassAny)

			probe := field.NewRow(f, c.Layout())
			probe.SetRandom(0, 1)
			probe.SetRandom(1, 1)
			Expect(e.Idempotent(probe)).To(BeTrue())
		})
	})

	Context("over GF(7)", func() {
		f, _ := field.New(7)

		It("normalizes pivoted rows to coefficient 1", func() {
			c := trivialCircuit(f, 2)
			e := gauss.New(c)
			r0 := field.NewRow(f, c.Layout())
			r0.SetRandom(0, 3)
			i0 := e.Push(r0, field.ClassAny)
			Expect(e.Row(i0).Random(0)).To(Equal(uint16(1)))
		})

		It("eliminates a later row's dependence on an earlier pivot", func() {
			c := trivialCircuit(f, 2)
			e := gauss.New(c)

			r0 := field.NewRow(f, c.Layout())
			r0.SetRandom(0, 1)
			r0.SetRandom(1, 2)
			e.Push(r0, field.ClassAny)

			r1 := field.NewRow(f, c.Layout())
			r1.SetRandom(0, 3)
			r1.SetRandom(1, 1)
			i1 := e.Push(r1, field.ClassAny)

			Expect(e.Row(i1).Random(0)).To(Equal(uint16(0)))
		})
	})
})
