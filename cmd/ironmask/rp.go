package main

import (
	"github.com/spf13/cobra"

	"github.com/CryptoExperts/ironmask-go/internal/property"
)

func newRPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "RP <circuit-file>",
		Short: "Compute RP (random-probing) coefficients up to coeff_max",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			_, c, _ := resolveDefaults("RP", 0, flagC, 0)
			cv := property.CoefficientVector(r.res.Circuit, property.Config{MaxSize: c, Pool: r.pool})
			printCoefficients(cv)
			return nil
		},
	}
}

func newRPCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "RPC <circuit-file>",
		Short: "Compute RPC (random-probing composability) coefficients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			t, c, o := resolveDefaults("RPC", flagT, flagC, flagO)
			res := property.RunRPC(r.res.Circuit, property.Config{T: t, MaxSize: c, RequiredOutputs: o, Pool: r.pool})
			printCoefficients(res.Combined)
			return nil
		},
	}
}

func newCardRPCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cardRPC <circuit-file>",
		Short: "Compute cardRPC (cardinality-minimizing RPC) coefficients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			t, c, o := resolveDefaults("cardRPC", flagT, flagC, flagO)
			res := property.RunCardRPC(r.res.Circuit, property.Config{T: t, MaxSize: c, RequiredOutputs: o, Pool: r.pool})
			printCoefficients(res.Combined)
			return nil
		},
	}
}
