// Command ironmask is the CLI dispatcher of spec.md §6: one subcommand per
// property keyword (NI, SNI, freeSNI, IOS, PINI, RP, RPC, RPE, cardRPC, CNI,
// CRP, CRPC), built with cobra the way chaos-runner's cmd/chaos-runner lays
// out a root command plus one file per subcommand family.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	flagT          int
	flagK          int
	flagC          int
	flagO          int
	flagJ          int
	flagL          float64
	flagF          float64
	flagGlitch     bool
	flagTransition bool
	flagVerbose    bool
	flagConfig     string
	flagMetricsAddr string
	flagIgnore     []int
)

var rootCmd = &cobra.Command{
	Use:     "ironmask",
	Short:   "Verify masking countermeasures against side-channel and fault attacks",
	Long:    "IronMask verifies probing-security and random-probing properties (and their cardinal/fault-combined variants) of a masked circuit description by enumerating or counting failure tuples.",
	Version: version,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&flagT, "t", "t", 0, "threshold for probing / RP-like properties")
	pf.IntVarP(&flagK, "k", "k", 0, "size parameter for fault properties")
	pf.IntVarP(&flagC, "c", "c", 0, "last precise coefficient to compute")
	pf.IntVarP(&flagO, "o", "o", 0, "output-count parameter for RPC/RPE")
	pf.IntVarP(&flagJ, "j", "j", 1, "parallelism (worker count)")
	pf.Float64VarP(&flagL, "l", "l", -1, "leak probability (RP-like \"val\" mode)")
	pf.Float64VarP(&flagF, "f", "f", -1, "fault probability (CRP/CRPC \"val\" mode)")
	pf.BoolVar(&flagGlitch, "glitch", false, "glitch model flag (accepted; does not change the analysis)")
	pf.BoolVar(&flagTransition, "transition", false, "transition model flag (accepted; does not change the analysis)")
	pf.BoolVarP(&flagVerbose, "v", "v", false, "verbose logging")
	pf.StringVar(&flagConfig, "config", "", "path to a YAML defaults profile")
	pf.StringVar(&flagMetricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address while running")
	pf.IntSliceVar(&flagIgnore, "ignore", nil, "fault-scenario indices to skip (CNI/CRP/CRPC)")

	rootCmd.AddCommand(
		newProbingCmd("NI"),
		newProbingCmd("SNI"),
		newProbingCmd("freeSNI"),
		newProbingCmd("IOS"),
		newProbingCmd("PINI"),
		newRPCmd(),
		newRPCCmd(),
		newRPECmd(),
		newCardRPCCmd(),
		newCNICmd(),
		newCRPCmd(),
		newCRPCCCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
