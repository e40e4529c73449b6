package field_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/field"
)

var _ = Describe("Field", func() {

	Context("when constructing a GF(2) field", func() {
		It("should not panic", func() {
			Expect(func() { _, _ = field.New(2) }).ToNot(Panic())
		})

		It("should select the binary fast path", func() {
			f, err := field.New(2)
			Expect(err).ToNot(HaveOccurred())
			Expect(f.IsBinary()).To(BeTrue())
		})
	})

	Context("when constructing a GF(p) field", func() {
		It("should accept small odd primes", func() {
			f, err := field.New(7)
			Expect(err).ToNot(HaveOccurred())
			Expect(f.IsBinary()).To(BeFalse())
		})

		It("should reject characteristics at or above the maximum", func() {
			_, err := field.New(field.MaxCharacteristic)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("GF(2) arithmetic", func() {
		f, _ := field.New(2)

		It("adds as xor", func() {
			Expect(f.Add(1, 1)).To(Equal(uint16(0)))
			Expect(f.Add(1, 0)).To(Equal(uint16(1)))
		})

		It("multiplies as and", func() {
			Expect(f.Mul(1, 1)).To(Equal(uint16(1)))
			Expect(f.Mul(1, 0)).To(Equal(uint16(0)))
		})

		It("inverts 1 to 1", func() {
			Expect(f.Inverse(1)).To(Equal(uint16(1)))
		})
	})

	Context("GF(7) arithmetic", func() {
		f, _ := field.New(7)

		It("wraps addition modulo the characteristic", func() {
			Expect(f.Add(5, 4)).To(Equal(uint16(2)))
		})

		It("computes multiplicative inverses", func() {
			for a := uint16(1); a < 7; a++ {
				inv := f.Inverse(a)
				Expect(f.Mul(a, inv)).To(Equal(uint16(1)))
			}
		})

		It("satisfies a/b*b == a", func() {
			for a := uint16(0); a < 7; a++ {
				for b := uint16(1); b < 7; b++ {
					Expect(f.Mul(f.Div(a, b), b)).To(Equal(a))
				}
			}
		})
	})
})
