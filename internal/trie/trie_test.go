package trie_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
	"github.com/CryptoExperts/ironmask-go/internal/trie"
)

func rev(inputCount, shareCount int, sets ...[2]int) *circuit.Revelation {
	r := circuit.NewRevelation(inputCount, shareCount)
	for _, s := range sets {
		r.Set(s[0], s[1])
	}
	return r
}

var _ = Describe("Trie", func() {

	It("finds an exact match as a subset of itself", func() {
		tr := trie.New()
		tr.Insert(circuit.Tuple{1, 3, 5}, rev(1, 8, [2]int{0, 0}))

		_, found := tr.ContainsSubset(circuit.Tuple{1, 3, 5})
		Expect(found).To(BeTrue())
	})

	It("finds a proper ancestor subset by skipping wires", func() {
		tr := trie.New()
		tr.Insert(circuit.Tuple{1, 3}, rev(1, 8, [2]int{0, 0}))

		_, found := tr.ContainsSubset(circuit.Tuple{1, 2, 3, 9})
		Expect(found).To(BeTrue())
	})

	It("reports no subset when none is stored", func() {
		tr := trie.New()
		tr.Insert(circuit.Tuple{4, 7}, rev(1, 8, [2]int{0, 0}))

		_, found := tr.ContainsSubset(circuit.Tuple{1, 2, 3})
		Expect(found).To(BeFalse())
	})

	It("merges descriptors by OR on duplicate insert, cardinality unchanged", func() {
		tr := trie.New()
		tr.Insert(circuit.Tuple{2, 4}, rev(1, 8, [2]int{0, 1}))
		tr.Insert(circuit.Tuple{2, 4}, rev(1, 8, [2]int{0, 3}))

		Expect(tr.Len()).To(Equal(1))
		d, found := tr.ContainsSubset(circuit.Tuple{2, 4})
		Expect(found).To(BeTrue())
		Expect(d.Shares(0).Test(1)).To(BeTrue())
		Expect(d.Shares(0).Test(3)).To(BeTrue())
	})

	It("lists tuples by exact size", func() {
		tr := trie.New()
		tr.Insert(circuit.Tuple{1}, rev(1, 4, [2]int{0, 0}))
		tr.Insert(circuit.Tuple{2, 3}, rev(1, 4, [2]int{0, 0}))
		tr.Insert(circuit.Tuple{5, 6}, rev(1, 4, [2]int{0, 0}))

		ones := tr.ListBySize(1)
		Expect(ones).To(HaveLen(1))
		twos := tr.ListBySize(2)
		Expect(twos).To(HaveLen(2))
	})

	It("projects onto an output subset, stripping non-output wires", func() {
		tr := trie.New()
		tr.Insert(circuit.Tuple{1, 5, 9}, rev(1, 4, [2]int{0, 0}))

		outputs := field.NewBitSet(10)
		outputs.Set(5)
		outputs.Set(9)

		proj := tr.ProjectOntoOutputs(outputs)
		found := proj.ListBySize(2)
		Expect(found).To(HaveLen(1))
		Expect(found[0]).To(Equal(circuit.Tuple{5, 9}))
	})
})
