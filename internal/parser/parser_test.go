package parser_test

import (
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/parser"
)

const refreshGadget = `
#SHARES 3
#ORDER 1
#IN x0 x1 x2
#RANDOMS r0 r1
#OUT y0 y1 y2
y0 = x0 ^ r0
y1 = x1 ^ r1
t = x2 ^ r0
y2 = t ^ r1
`

const andGadget = `
#SHARES 2
#IN a0 a1 b0 b1
#RANDOMS r
#OUT c0 c1
t00 = a0 * b0
t01 = a0 * b1
t10 = a1 * b0
t11 = a1 * b1
c0 = t00 ^ t01
u = t10 ^ r
c1 = t11 ^ u
`

var _ = Describe("Parse", func() {

	It("parses a linear refresh gadget into the expected wire layout", func() {
		res, err := parser.Parse(strings.NewReader(refreshGadget))
		Expect(err).ToNot(HaveOccurred())

		c := res.Circuit
		Expect(res.Order).To(Equal(1))
		Expect(c.InputCount).To(Equal(1))
		Expect(c.ShareCount).To(Equal(3))
		Expect(c.RandomCount).To(Equal(2))
		Expect(c.OutputCount).To(Equal(1))
		// 3 shares + 2 randoms + 1 internal (t) + 3 outputs.
		Expect(c.WireCount).To(Equal(9))
	})

	It("parses a multiplication gadget and registers one gate per AND", func() {
		res, err := parser.Parse(strings.NewReader(andGadget))
		Expect(err).ToNot(HaveOccurred())

		c := res.Circuit
		Expect(c.InputCount).To(Equal(2))
		Expect(c.ShareCount).To(Equal(2))
		Expect(len(c.Mults)).To(Equal(4))
		// 4 shares + 1 random + 5 internal (t00,t01,t10,t11,u) + 2 outputs.
		Expect(c.WireCount).To(Equal(12))
	})

	It("accepts an anti-glitch wrapped right-hand side", func() {
		src := "#SHARES 1\n#IN x0\n#RANDOMS r0\n#OUT y0\ny0 = ![ x0 ^ r0 ]\n"
		_, err := parser.Parse(strings.NewReader(src))
		Expect(err).ToNot(HaveOccurred())
	})

	It("records correction-output wires separately from ordinary outputs", func() {
		src := "#SHARES 1\n#IN x0\n#RANDOMS r0\n#OUT y0\nz = x0 ^ r0 # correction_o\ny0 = z\n"
		res, err := parser.Parse(strings.NewReader(src))
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Circuit.CorrCount).To(Equal(1))
		Expect(res.CorrectionWires).To(HaveLen(1))
	})

	It("rejects a circuit with no #SHARES directive", func() {
		_, err := parser.Parse(strings.NewReader("#IN x0\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown identifier", func() {
		src := "#SHARES 1\n#IN x0\n#RANDOMS r0\n#OUT y0\ny0 = x0 ^ bogus\n"
		_, err := parser.Parse(strings.NewReader(src))
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unterminated anti-glitch bracket", func() {
		src := "#SHARES 1\n#IN x0\n#RANDOMS r0\n#OUT y0\ny0 = ![ x0 ^ r0\n"
		_, err := parser.Parse(strings.NewReader(src))
		Expect(err).To(HaveOccurred())
	})
})
