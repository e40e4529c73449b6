package main

import (
	"github.com/spf13/cobra"

	"github.com/CryptoExperts/ironmask-go/internal/fault"
)

func newCNICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "CNI <circuit-file>",
		Short: "Check CNI (k-fault combined non-interference)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			t, _, _ := resolveDefaults("CNI", flagT, 0, 0)
			res := fault.RunCNI(r.res.Circuit, 0, flagK, t, r.res.CorrectionWires, ignoreList(), r.logger)
			printCNI(res)
			return nil
		},
	}
}

func newCRPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "CRP <circuit-file>",
		Short: "Compute CRP (k-fault combined random-probing) coefficients or value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			_, c, _ := resolveDefaults("CRP", 0, flagC, 0)
			res := fault.RunCRP(r.res.Circuit, 0, flagK, c, r.res.CorrectionWires, ignoreList(), r.logger)
			if flagL >= 0 && flagF >= 0 {
				v := fault.ValueAt(res, r.res.Circuit.WireCount, flagK, flagL, flagF)
				printValue(v)
				return nil
			}
			printCoefficients(res.Combined)
			return nil
		},
	}
}

func newCRPCCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "CRPC <circuit-file>",
		Short: "Compute CRPC (k-fault combined RPC) coefficients or value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			t, c, _ := resolveDefaults("CRPC", flagT, flagC, 0)
			res := fault.RunCRPC(r.res.Circuit, 0, flagK, t, c, r.res.CorrectionWires, ignoreList(), r.logger)
			if flagL >= 0 && flagF >= 0 {
				v := fault.ValueAt(res, r.res.Circuit.WireCount, flagK, flagL, flagF)
				printValue(v)
				return nil
			}
			printCoefficients(res.Combined)
			return nil
		},
	}
}
