package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/field"
	"github.com/CryptoExperts/ironmask-go/internal/property"
)

// outputBitSet returns a wire-indexed BitSet marking every wire of output
// index k.
func outputBitSet(c *circuit.Circuit, k int) *field.BitSet {
	out := field.NewBitSet(c.WireCount)
	outputStart := c.WireCount - c.OutputCount*c.ShareCount
	for s := 0; s < c.ShareCount; s++ {
		out.Set(outputStart + k*c.ShareCount + s)
	}
	return out
}

// rpeOutputSets builds the RPE_i_j output-set grid spec.md §8 SC6 names
// ("four RPEij vectors" for a 2-output copy gadget): one set per ordered
// pair of outputs (i, j), the union of output i and output j's wires — i==j
// degenerates to a single-output set. This is the CLI's reading of the -o
// flag's "output-count parameter for RPC/RPE" (spec.md §6): -o caps the
// grid to the first o outputs on each axis, defaulting to every output.
func rpeOutputSets(c *circuit.Circuit, o int) []property.OutputSet {
	n := c.OutputCount
	if o > 0 && o < n {
		n = o
	}
	var sets []property.OutputSet
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			bits := outputBitSet(c, i)
			bits.OrInto(outputBitSet(c, j))
			sets = append(sets, property.OutputSet{
				Name:    fmt.Sprintf("RPE_%d_%d", i, j),
				Outputs: bits,
			})
		}
	}
	return sets
}

func newRPECmd() *cobra.Command {
	return &cobra.Command{
		Use:   "RPE <circuit-file>",
		Short: "Compute RPE (random-probing expandability) coefficients and their conjunction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			t, c, o := resolveDefaults("RPE", flagT, flagC, flagO)
			sets := rpeOutputSets(r.res.Circuit, o)
			res := property.RunRPE(r.res.Circuit, sets, property.Config{T: t, MaxSize: c, Pool: r.pool})
			for _, set := range sets {
				fmt.Printf("%s: ", set.Name)
				printCoefficients(res.PerSet[set.Name])
			}
			fmt.Print("RPE-intersection: ")
			printCoefficients(res.Conjunction)
			return nil
		},
	}
}
