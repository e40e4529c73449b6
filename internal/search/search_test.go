package search_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
	"github.com/CryptoExperts/ironmask-go/internal/search"
)

// buildBrokenRefresh builds a 3-share refresh gadget (spec.md §8 SC4 shape)
// that forgot to mask shares 0 and 1 before re-masking share 2 with a single
// random: y0 = x0, y1 = x1, y2 = x2 + r0. Wires 0,1,2 are the raw input-share
// wires and are never probe candidates (spec.md §1: only intermediate
// wires, i.e. wire 3 and up here, are observable).
func buildBrokenRefresh() *circuit.Circuit {
	f, _ := field.New(2)
	b := circuit.NewBuilder(f, 3 /*shareCount*/, 1 /*inputCount*/, 1 /*randomCount*/, 0, 1 /*outputCount*/, 0)

	for i := 0; i < 3; i++ {
		row := b.NewRow()
		row.SetSecret(i, 1)
		b.SetRow(i, row)
	}
	rRow := b.NewRow()
	rRow.SetRandom(0, 1)
	b.SetRow(3, rRow)
	b.ClassifyRandom(0, field.ClassOut)

	y0 := b.NewRow()
	y0.SetSecret(0, 1)
	b.SetRow(4, y0)

	y1 := b.NewRow()
	y1.SetSecret(1, 1)
	b.SetRow(5, y1)

	y2 := b.NewRow()
	y2.SetSecret(2, 1)
	y2.SetRandom(0, 1)
	b.SetRow(6, y2)

	c, err := b.Build()
	Expect(err).ToNot(HaveOccurred())
	return c
}

// buildTwoCompanionRefresh builds a 2-share single-input gadget where each
// share is masked by its own, distinct random: y0 = x0+r0, y1 = x1+r1. Unlike
// buildBrokenRefresh's y2 (whose random is never cancelled anywhere), r0 and
// r1 here each have exactly one companion wire elsewhere in the gadget, so
// revealing both x0 and x1 needs two separate companion wires unmasking two
// separate pivots: wires 2,3 (the companions) and 4,5 (the masked shares).
func buildTwoCompanionRefresh() *circuit.Circuit {
	f, _ := field.New(2)
	b := circuit.NewBuilder(f, 2 /*shareCount*/, 1 /*inputCount*/, 2 /*randomCount*/, 0, 1 /*outputCount*/, 0)

	for i := 0; i < 2; i++ {
		row := b.NewRow()
		row.SetSecret(i, 1)
		b.SetRow(i, row)
	}
	b.ClassifyRandom(0, field.ClassOut)
	b.ClassifyRandom(1, field.ClassOut)

	c0 := b.NewRow()
	c0.SetRandom(0, 1)
	b.SetRow(2, c0)

	c1 := b.NewRow()
	c1.SetRandom(1, 1)
	b.SetRow(3, c1)

	y0 := b.NewRow()
	y0.SetSecret(0, 1)
	y0.SetRandom(0, 1)
	b.SetRow(4, y0)

	y1 := b.NewRow()
	y1.SetSecret(1, 1)
	y1.SetRandom(1, 1)
	b.SetRow(5, y1)

	c, err := b.Build()
	Expect(err).ToNot(HaveOccurred())
	return c
}

var _ = Describe("Enumerator", func() {

	It("finds single-wire failures at t=1, each minimal", func() {
		c := buildBrokenRefresh()
		e := search.New(c, search.Config{Input: 0, TIn: 1, MaxSize: 3})
		tr := e.Run()

		// y0 (wire 4) and y1 (wire 5) are unmasked copies of x0/x1.
		_, found := tr.ContainsSubset(circuit.Tuple{4})
		Expect(found).To(BeTrue())
		_, found = tr.ContainsSubset(circuit.Tuple{5})
		Expect(found).To(BeTrue())
		// y2 alone never reveals anything: its random is never cancelled.
		_, found = tr.ContainsSubset(circuit.Tuple{6})
		Expect(found).To(BeFalse())
	})

	It("finds the joint two-wire failure y0,y1 at t=2", func() {
		c := buildBrokenRefresh()
		e := search.New(c, search.Config{Input: 0, TIn: 2, MaxSize: 2})
		tr := e.Run()

		_, found := tr.ContainsSubset(circuit.Tuple{4, 5})
		Expect(found).To(BeTrue())
	})

	It("finds no failure when MaxSize is too small to cover the threshold", func() {
		c := buildBrokenRefresh()
		// Each wire in this gadget witnesses at most one distinct share, so
		// reaching 3 revealed shares needs at least 3 wires.
		e := search.New(c, search.Config{Input: 0, TIn: 3, MaxSize: 2})
		tr := e.Run()

		Expect(tr.Len()).To(Equal(0))
	})

	It("finds a failure needing two distinct companion wires for two distinct pivots", func() {
		c := buildTwoCompanionRefresh()
		e := search.New(c, search.Config{Input: 0, TIn: 2, MaxSize: 4})
		tr := e.Run()

		// y0 and y1 (wires 4,5) each touch one share but stay masked alone;
		// revealing both shares needs both companions (wires 2,3), one per
		// random, since r0 can only unmask y0's pivot and r1 only y1's.
		_, found := tr.ContainsSubset(circuit.Tuple{2, 3, 4, 5})
		Expect(found).To(BeTrue())
		// No 3-wire subset reveals both shares: dropping either companion
		// leaves the other random's pivot masked.
		_, found = tr.ContainsSubset(circuit.Tuple{2, 4, 5})
		Expect(found).To(BeFalse())
		_, found = tr.ContainsSubset(circuit.Tuple{3, 4, 5})
		Expect(found).To(BeFalse())
	})
})
