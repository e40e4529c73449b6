package field_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/field"
)

var _ = Describe("Row", func() {

	layout := field.Layout{Secrets: 3, Randoms: 4, Mults: 2, Corr: 1}

	Context("over GF(2)", func() {
		f, _ := field.New(2)

		It("combines rows by xor via RowXorInto", func() {
			a := field.NewRow(f, layout)
			a.SetSecret(0, 1)
			a.SetRandom(1, 1)

			b := field.NewRow(f, layout)
			b.SetSecret(0, 1)
			b.SetRandom(2, 1)

			field.RowXorInto(a, b)

			Expect(a.Secret(0)).To(Equal(uint16(0)))
			Expect(a.Random(1)).To(Equal(uint16(1)))
			Expect(a.Random(2)).To(Equal(uint16(1)))
		})

		It("finds the first nonzero random, restricted to a class", func() {
			r := field.NewRow(f, layout)
			r.SetRandom(1, 1)
			r.SetRandom(3, 1)

			idx, ok := field.RowFirstRandom(r)
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(1))

			class := field.NewBitSet(4)
			class.Set(3)
			idx, ok = field.RowFirstRandomRestricted(r, class)
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(3))
		})

		It("reports zero rows", func() {
			r := field.NewRow(f, layout)
			Expect(r.IsZero()).To(BeTrue())
			r.SetConst(1)
			Expect(r.IsZero()).To(BeFalse())
		})

		It("detects multiplication dependence", func() {
			r := field.NewRow(f, layout)
			Expect(r.HasAnyMult()).To(BeFalse())
			r.SetMult(0, 1)
			Expect(r.HasAnyMult()).To(BeTrue())
		})
	})

	Context("over GF(7)", func() {
		f, _ := field.New(7)

		It("combines rows via row_add_scaled: dst += k*src mod p", func() {
			a := field.NewRow(f, layout)
			a.SetSecret(0, 3)
			a.SetRandom(0, 2)

			b := field.NewRow(f, layout)
			b.SetSecret(0, 1)
			b.SetRandom(0, 5)

			field.RowAddScaled(a, b, 3) // a += 3*b

			Expect(a.Secret(0)).To(Equal(uint16((3 + 3*1) % 7)))
			Expect(a.Random(0)).To(Equal(uint16((2 + 3*5) % 7)))
		})

		It("normalizes a row by scaling with RowScale", func() {
			r := field.NewRow(f, layout)
			r.SetRandom(0, 3)
			field.RowScale(r, f.Inverse(3))
			Expect(r.Random(0)).To(Equal(uint16(1)))
		})

		It("clones independently", func() {
			r := field.NewRow(f, layout)
			r.SetSecret(0, 5)
			c := r.Clone()
			c.SetSecret(0, 1)
			Expect(r.Secret(0)).To(Equal(uint16(5)))
		})
	})
})
