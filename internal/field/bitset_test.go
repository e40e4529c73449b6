package field_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/field"
)

var _ = Describe("BitSet", func() {

	It("starts empty", func() {
		b := field.NewBitSet(130)
		Expect(b.IsZero()).To(BeTrue())
		Expect(b.PopCount()).To(Equal(0))
	})

	It("sets and tests bits across word boundaries", func() {
		b := field.NewBitSet(130)
		b.Set(0)
		b.Set(63)
		b.Set(64)
		b.Set(129)
		Expect(b.Test(0)).To(BeTrue())
		Expect(b.Test(63)).To(BeTrue())
		Expect(b.Test(64)).To(BeTrue())
		Expect(b.Test(129)).To(BeTrue())
		Expect(b.Test(1)).To(BeFalse())
		Expect(b.PopCount()).To(Equal(4))
	})

	It("clears bits", func() {
		b := field.NewBitSet(10)
		b.Set(3)
		b.Clear(3)
		Expect(b.Test(3)).To(BeFalse())
	})

	It("finds the first set bit, possibly restricted to a mask", func() {
		b := field.NewBitSet(10)
		b.Set(2)
		b.Set(7)
		idx, ok := b.FirstSet()
		Expect(ok).To(BeTrue())
		Expect(idx).To(Equal(2))

		mask := field.NewBitSet(10)
		mask.Set(7)
		idx, ok = b.FirstSetRestricted(mask)
		Expect(ok).To(BeTrue())
		Expect(idx).To(Equal(7))

		mask2 := field.NewBitSet(10)
		mask2.Set(5)
		_, ok = b.FirstSetRestricted(mask2)
		Expect(ok).To(BeFalse())
	})

	It("xors in place", func() {
		a := field.NewBitSet(8)
		a.Set(1)
		a.Set(2)
		c := field.NewBitSet(8)
		c.Set(2)
		c.Set(3)
		a.XorInto(c)
		Expect(a.Slice()).To(Equal([]int{1, 3}))
	})

	It("clones independently", func() {
		a := field.NewBitSet(8)
		a.Set(1)
		clone := a.Clone()
		clone.Set(2)
		Expect(a.Test(2)).To(BeFalse())
		Expect(clone.Test(1)).To(BeTrue())
	})
})
