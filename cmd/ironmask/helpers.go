package main

import (
	"fmt"
	"os"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/CryptoExperts/ironmask-go/internal/bitverify"
	"github.com/CryptoExperts/ironmask-go/internal/config"
	"github.com/CryptoExperts/ironmask-go/internal/fault"
	"github.com/CryptoExperts/ironmask-go/internal/logging"
	"github.com/CryptoExperts/ironmask-go/internal/metrics"
	"github.com/CryptoExperts/ironmask-go/internal/parser"
	"github.com/CryptoExperts/ironmask-go/internal/pool"
	"github.com/CryptoExperts/ironmask-go/internal/probsolve"
	"github.com/CryptoExperts/ironmask-go/internal/property"
)

// run holds everything a subcommand builds once from global flags and the
// positional circuit-file argument, before dispatching to one property
// family.
type run struct {
	res     *parser.Result
	logger  *logging.Logger
	pool    *pool.Pool
	metrics *metrics.Registry
}

// setup parses the circuit file and wires logging/config/metrics/pool from
// global flags, the way run.go's runChaosTest loads config and builds a
// logger before doing any real work.
func setup(cmd *cobra.Command, path string) (*run, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := logging.LevelInfo
	if flagVerbose {
		level = logging.LevelDebug
	} else if cfg.LogLevel != "" {
		level = logging.Level(cfg.LogLevel)
	}
	format := logging.FormatText
	if cfg.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logger := logging.New(logging.Config{Level: level, Format: format, Output: os.Stdout})

	res, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	cores := flagJ
	if cores == 0 {
		cores = cfg.Cores
	}
	reg := metrics.New()
	p := pool.New(cores).WithMetrics(reg)

	if flagMetricsAddr != "" {
		go func() {
			if err := reg.Serve(flagMetricsAddr); err != nil {
				logger.Error(err, "metrics server stopped")
			}
		}()
	}

	return &run{res: res, logger: logger.WithProperty(cmd.Name(), path), pool: p, metrics: reg}, nil
}

// resolveDefaults overlays explicit flags (nonzero / non-default sentinel)
// onto the property's profile from config.yaml (spec.md §6 "-t -c -o" plus
// the config defaults jhkimqd-chaos-utils/pkg/config.Load layers).
func resolveDefaults(name string, t, c, o int) (int, int, int) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		cfg = config.Default()
	}
	defaults := cfg.For(name)
	if t == 0 {
		t = defaults.T
	}
	if c == 0 {
		c = defaults.C
	}
	if o == 0 {
		o = defaults.O
	}
	return t, c, o
}

func ignoreList() fault.IgnoreList {
	if len(flagIgnore) == 0 {
		return nil
	}
	out := make(fault.IgnoreList, len(flagIgnore))
	for _, i := range flagIgnore {
		out[i] = true
	}
	return out
}

// printCoefficients implements spec.md §6's coefficient-producing output:
// the vector followed by pmax/pmin in log2 and linear form.
func printCoefficients(cv []float64) {
	fmt.Printf("coefficients: %v\n", cv)
	max := probsolve.Pmax(cv)
	min := probsolve.Pmin(cv)
	maxLin, _ := max.Linear.Float64()
	maxLog, _ := max.Log2.Float64()
	minLin, _ := min.Linear.Float64()
	minLog, _ := min.Log2.Float64()
	fmt.Printf("pmax = %g (log2 %g)\n", maxLin, maxLog)
	fmt.Printf("pmin = %g (log2 %g)\n", minLin, minLog)
	if flagVerbose {
		printStats(cv)
	}
}

// printStats implements the -v-only summary-statistics line SPEC_FULL.md §0
// wires montanaflynn/stats into: mean and standard deviation over the
// nonzero coefficients, a quick read on how concentrated the failure counts
// are across tuple sizes without eyeballing the whole vector.
func printStats(cv []float64) {
	var nonzero stats.Float64Data
	for _, v := range cv {
		if v != 0 {
			nonzero = append(nonzero, v)
		}
	}
	if len(nonzero) == 0 {
		return
	}
	mean, err := nonzero.Mean()
	if err != nil {
		return
	}
	stddev, err := nonzero.StandardDeviation()
	if err != nil {
		return
	}
	fmt.Printf("coefficient stats: mean=%g stddev=%g\n", mean, stddev)
}

// printDiagnostics implements the CLI's -v-only cross-check path: the
// circuit's blake3 fingerprint (so two runs against the same file can be
// compared without diffing the whole parsed structure) and a sampled
// bitverify estimate of the failure count at tuple size c, run alongside
// (never instead of) the constructive search's exact result.
func printDiagnostics(r *run, input, tIn, size int) {
	if !flagVerbose || size <= 0 {
		return
	}
	fp := bitverify.Fingerprint(r.res.Circuit)
	fmt.Printf("circuit fingerprint: %x\n", fp)
	const samples = 2000
	count := bitverify.VerifySampled(r.res.Circuit, size, input, tIn, samples, nil)
	fmt.Printf("sampled check: %d/%d tuples of size %d failed (estimate)\n", count, samples, size)
}

// printProbing implements spec.md §6's pass/fail output: failure count (0 or
// 1 for the existence-only probing family) and the first failing tuple.
func printProbing(res property.ProbingResult) {
	if !res.Leaky {
		fmt.Println("failures: 0")
		return
	}
	fmt.Println("failures: 1")
	fmt.Printf("first failing input: %d\n", res.FailingInput)
	fmt.Printf("first failing tuple: %v\n", []int(res.FirstFailure))
}

// printValue implements compute_CRP_val/compute_CRPC_val's output: a single
// probability rather than a coefficient vector, for when both -l and -f are
// given (spec.md §6 "-l, -f leak/fault probabilities").
func printValue(v float64) {
	fmt.Printf("value = %g\n", v)
}

func printCNI(res fault.CNIResult) {
	if !res.Leaky {
		fmt.Println("failures: 0")
		return
	}
	fmt.Println("failures: 1")
	fmt.Printf("failing fault set: %v\n", []int(res.FailingFaultSet))
	fmt.Printf("failing probe set: %v\n", []int(res.FailingProbeSet))
}
