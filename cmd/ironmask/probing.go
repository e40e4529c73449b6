package main

import (
	"github.com/spf13/cobra"

	"github.com/CryptoExperts/ironmask-go/internal/property"
)

// probingNames maps the CLI's spelling (spec.md §6 "NI | SNI | freeSNI | IOS
// | PINI") onto the internal property.Name constants (property.FreeSNI is
// "free-SNI" internally).
var probingNames = map[string]property.Name{
	"NI":      property.NI,
	"SNI":     property.SNI,
	"freeSNI": property.FreeSNI,
	"IOS":     property.IOS,
	"PINI":    property.PINI,
}

func newProbingCmd(cliName string) *cobra.Command {
	return &cobra.Command{
		Use:   cliName + " <circuit-file>",
		Short: "Check " + cliName + " (probing-security) against a threshold t",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			name := probingNames[cliName]
			t, _, _ := resolveDefaults(string(name), flagT, 0, 0)
			cfg := property.Config{T: t, Pool: r.pool}
			res := property.RunProbing(r.res.Circuit, name, cfg)
			printProbing(res)
			printDiagnostics(r, 0, t, flagC)
			return nil
		},
	}
}
