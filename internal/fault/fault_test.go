package fault_test

import (
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/fault"
	"github.com/CryptoExperts/ironmask-go/internal/parser"
)

const andGadgetWithCorrection = `
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
z = a0 ^ a1 # correction
`

var _ = Describe("fault scenarios", func() {

	It("enumerates one scenario per k-subset of correction wires", func() {
		res, err := parser.Parse(strings.NewReader(andGadgetWithCorrection))
		Expect(err).ToNot(HaveOccurred())
		Expect(res.CorrectionWires).To(HaveLen(1))

		scenarios := fault.GenerateScenarios(res.CorrectionWires, 1)
		Expect(scenarios).To(HaveLen(1))
		Expect(scenarios[0].Wires).To(ConsistOf(res.CorrectionWires[0]))
	})

	It("skips an ignored scenario and does not report it as failing", func() {
		res, err := parser.Parse(strings.NewReader(andGadgetWithCorrection))
		Expect(err).ToNot(HaveOccurred())

		ignoreAll := fault.IgnoreList{0: true}
		out := fault.RunCNI(res.Circuit, 0, 1, 1, res.CorrectionWires, ignoreAll, nil)
		Expect(out.Leaky).To(BeFalse())
	})

	It("produces a CRP coefficient vector no longer than coeffMax+1", func() {
		res, err := parser.Parse(strings.NewReader(andGadgetWithCorrection))
		Expect(err).ToNot(HaveOccurred())

		out := fault.RunCRP(res.Circuit, 0, 1, 3, res.CorrectionWires, nil, nil)
		Expect(out.Combined).To(HaveLen(4))
	})

	It("zeroes CRPC coefficients below the composability threshold t", func() {
		res, err := parser.Parse(strings.NewReader(andGadgetWithCorrection))
		Expect(err).ToNot(HaveOccurred())

		out := fault.RunCRPC(res.Circuit, 0, 1, 2, 3, res.CorrectionWires, nil, nil)
		Expect(out.Combined[0]).To(Equal(0.0))
		Expect(out.Combined[1]).To(Equal(0.0))
	})
})
