package parser

import (
	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
)

// deriveRandomClasses infers in1_rands/in2_rands/out_rands (spec.md §3) by
// structural inspection of the built rows, mirroring the source's circuit.c
// dataflow passes rather than any text-format directive (the grammar of
// spec.md §6 has none): a random used alone as one side of a multiplication
// gate refreshes that side; any other random that reaches a row carrying a
// multiplication term refreshes the gate's output.
func deriveRandomClasses(b *circuit.Builder, rows []*field.Row, gates []multGate, shareBase, randomCount, corrCount int) {
	classified := make([]bool, randomCount)
	assign := func(randomIdx int, class field.RowClass) {
		if randomIdx < 0 || randomIdx >= randomCount || classified[randomIdx] {
			return
		}
		classified[randomIdx] = true
		b.ClassifyRandom(randomIdx, class)
	}

	for _, g := range gates {
		if idx, ok := pureRandomWire(rows[g.left], randomCount, corrCount); ok {
			assign(idx, field.ClassIn1)
		}
		if idx, ok := pureRandomWire(rows[g.right], randomCount, corrCount); ok {
			assign(idx, field.ClassIn2)
		}
	}
	for _, row := range rows {
		if !row.HasAnyMult() {
			continue
		}
		for i := 0; i < randomCount; i++ {
			if row.Random(i) != 0 {
				assign(i, field.ClassOut)
			}
		}
	}
}

// pureRandomWire reports whether row is exactly one random and nothing else
// (the factorizer's classifyOperand "opRandom" case).
func pureRandomWire(row *field.Row, randomCount, corrCount int) (int, bool) {
	if row.HasAnyMult() || row.Const() != 0 {
		return 0, false
	}
	if !row.RevealedShares().IsZero() {
		return 0, false
	}
	for i := 0; i < corrCount; i++ {
		if row.Corr(i) != 0 {
			return 0, false
		}
	}
	count, only := 0, -1
	for i := 0; i < randomCount; i++ {
		if row.Random(i) != 0 {
			count++
			only = i
		}
	}
	if count == 1 {
		return only, true
	}
	return 0, false
}
