package expand_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/expand"
	"github.com/CryptoExperts/ironmask-go/internal/field"
	"github.com/CryptoExperts/ironmask-go/internal/trie"
)

var _ = Describe("Expander", func() {

	It("counts every size-i superset of a single incompressible tuple", func() {
		f, _ := field.New(2)
		// Four share wires (0-3, never probed) and four internal copies of
		// them (4-7), the probe universe the expander grows tuples over.
		b := circuit.NewBuilder(f, 4 /*shareCount*/, 1, 0, 4 /*internal*/, 0, 0)
		for i := 0; i < 4; i++ {
			row := b.NewRow()
			row.SetSecret(i, 1)
			b.SetRow(i, row)
			b.SetRow(4+i, row.Clone())
		}
		c, err := b.Build()
		Expect(err).ToNot(HaveOccurred())

		tr := trie.New()
		tr.Insert(circuit.Tuple{4}, circuit.NewRevelation(1, 4))

		e := expand.New(c)
		coeff := e.Coefficients(tr, 3)

		Expect(coeff[1]).To(Equal(1.0))
		Expect(coeff[2]).To(Equal(3.0))
		Expect(coeff[3]).To(Equal(3.0))
	})

	It("weighs a tuple by the product of its wires' weights", func() {
		f, _ := field.New(2)
		b := circuit.NewBuilder(f, 2, 1, 0, 0, 0, 0)
		for i := 0; i < 2; i++ {
			row := b.NewRow()
			row.SetSecret(i, 1)
			b.SetRow(i, row)
		}
		b.SetWeight(0, 3)
		c, err := b.Build()
		Expect(err).ToNot(HaveOccurred())

		tr := trie.New()
		tr.Insert(circuit.Tuple{0}, circuit.NewRevelation(1, 2))

		e := expand.New(c)
		coeff := e.Coefficients(tr, 1)
		Expect(coeff[1]).To(Equal(3.0))
	})
})
