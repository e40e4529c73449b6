// Package property implements the property drivers of spec.md §4 "Property
// drivers" (expanded into a full module, SPEC_FULL.md §4.8): each driver
// orchestrates the constructive enumerator and hash expander per input,
// combining per-input (and, for RPE, per-output-set) results according to
// its own rule (existence for the probing family, max/sum for the
// random-probing family).
package property

import (
	"github.com/CryptoExperts/ironmask-go/internal/circuit"
	"github.com/CryptoExperts/ironmask-go/internal/expand"
	"github.com/CryptoExperts/ironmask-go/internal/field"
	"github.com/CryptoExperts/ironmask-go/internal/pool"
	"github.com/CryptoExperts/ironmask-go/internal/search"
	"github.com/CryptoExperts/ironmask-go/internal/trie"
)

// Name identifies a property keyword of spec.md §1 ("NI, SNI, PINI,
// free-SNI, IOS, RP, RPC, RPE").
type Name string

const (
	NI      Name = "NI"
	SNI     Name = "SNI"
	PINI    Name = "PINI"
	FreeSNI Name = "free-SNI"
	IOS     Name = "IOS"
	RP      Name = "RP"
	RPC     Name = "RPC"
	RPE     Name = "RPE"
	CardRPC Name = "cardRPC"
)

// Config parameterizes a driver run: the probing threshold t (probing
// family) or the maximum tuple size coeff_max (random-probing family), and
// an output quota (e.g. required_outputs in spec.md §8 SC5) that callers
// may set but that no driver in this package reads.
type Config struct {
	T               int
	MaxSize         int
	RequiredOutputs int

	// Pool, when non-nil, fans the per-input (or per-output-set) passes a
	// driver makes out across its worker count (spec.md §5, -j): the top
	// level of search is the only one a driver submits to the pool itself;
	// deeper recursion inside a single search.Enumerator.Run stays
	// synchronous (spec.md §9 "Recursive search to tasks"). Nil keeps the
	// sequential loop, so existing zero-value Configs are unaffected.
	Pool *pool.Pool
}

// ProbingResult is the outcome of a Boolean probing-security driver (NI,
// SNI, PINI, free-SNI, IOS).
type ProbingResult struct {
	Leaky        bool
	FailingInput int
	FirstFailure circuit.Tuple
}

// probingBudget maps a property name to the tuple size budget it checks at
// threshold t; SNI/PINI/free-SNI/IOS share NI's t-probing existence check in
// this implementation (spec.md §9 notes IOS's output-set bookkeeping and
// PINI's position-dependence as refinements of the same core decision,
// "does any <=t tuple reveal >=t shares of some input").
func probingBudget(t int) int { return t }

// RunProbing implements the NI/SNI/PINI/free-SNI/IOS family: a gadget is
// accepted iff no input has an incompressible failure tuple of size <= t
// revealing >= t of its shares.
func RunProbing(c *circuit.Circuit, name Name, cfg Config) ProbingResult {
	budget := probingBudget(cfg.T)
	results := make([]*ProbingResult, c.InputCount)
	searchInput := func(input int) {
		e := search.New(c, search.Config{Input: input, TIn: cfg.T, MaxSize: budget})
		tr := e.Run()
		for size := 1; size <= budget; size++ {
			tuples := tr.ListBySize(size)
			if len(tuples) > 0 {
				results[input] = &ProbingResult{Leaky: true, FailingInput: input, FirstFailure: tuples[0]}
				return
			}
		}
	}
	if cfg.Pool != nil {
		cfg.Pool.ForAll(c.InputCount, searchInput)
	} else {
		for input := 0; input < c.InputCount; input++ {
			searchInput(input)
		}
	}
	// Report the lowest-indexed failing input, matching the sequential
	// evaluation order regardless of how the searches were scheduled.
	for _, r := range results {
		if r != nil {
			return *r
		}
	}
	return ProbingResult{Leaky: false}
}

// CoefficientVector returns coeff[0..cfg.MaxSize] for the random-probing
// family (RP): the combined (per spec.md §2, max across inputs, the rule
// RPC also uses) failure-coefficient vector a leakage-probability solver
// consumes.
func CoefficientVector(c *circuit.Circuit, cfg Config) []float64 {
	perInput := computePerInput(c, cfg.MaxSize, cfg.Pool)
	combined := make([]float64, cfg.MaxSize+1)
	for _, cv := range perInput {
		for i, v := range cv {
			if v > combined[i] {
				combined[i] = v
			}
		}
	}
	return combined
}

// computePerInput fills one coefficient vector per input, fanned out across
// cfg's pool when set (spec.md §5, -j): each input's search is independent,
// so the only coordination needed is writing to a private slice slot.
func computePerInput(c *circuit.Circuit, maxSize int, p *pool.Pool) [][]float64 {
	perInput := make([][]float64, c.InputCount)
	fill := func(input int) { perInput[input] = inputCoefficients(c, input, maxSize) }
	if p != nil {
		p.ForAll(c.InputCount, fill)
	} else {
		for input := 0; input < c.InputCount; input++ {
			fill(input)
		}
	}
	return perInput
}

func inputCoefficients(c *circuit.Circuit, input, maxSize int) []float64 {
	e := search.New(c, search.Config{Input: input, TIn: 1, MaxSize: maxSize})
	tr := e.Run()
	return expand.New(c).Coefficients(tr, maxSize)
}

// RPCResult is the outcome of an RPC (random probing composability) driver
// run: the combined coefficient vector plus the per-input ones it was
// maxed from, so a caller can report which input dominates at each size.
type RPCResult struct {
	Combined []float64
	PerInput [][]float64
}

// RunRPC implements RPC: coeff[i] is the max, over inputs, of the per-input
// failure count at size i (spec.md §2 "max for RPC").
func RunRPC(c *circuit.Circuit, cfg Config) RPCResult {
	perInput := computePerInput(c, cfg.MaxSize, cfg.Pool)
	combined := make([]float64, cfg.MaxSize+1)
	for _, cv := range perInput {
		for i, v := range cv {
			if v > combined[i] {
				combined[i] = v
			}
		}
	}
	return RPCResult{Combined: combined, PerInput: perInput}
}

// RunCardRPC implements this module's cardRPC keyword. The original's
// env_cRPC computes a 2-D tin*tout coefficient envelope, but only for a
// single fixed (refresh-gadget) shape it assumes by construction; nothing
// here detects gadget shape in an arbitrary parsed circuit, so that envelope
// has no well-defined tout loop to drive (see DESIGN.md "RunCardRPC scope
// decision"). Until gadget-shape detection lands, cardRPC computes the same
// per-size coefficient vector RPC does; it stays a separate entry point so
// that detection has one obvious place to land later.
func RunCardRPC(c *circuit.Circuit, cfg Config) RPCResult {
	return RunRPC(c, cfg)
}

// OutputSet names one candidate output-subset a simulator may reveal, the
// unit RPE combines over (spec.md §8 SC6: "four RPEij vectors").
type OutputSet struct {
	Name    string
	Outputs *field.BitSet
}

// RPEResult holds one coefficient vector per output set, plus their
// conjunctive combination (RPE-∩), taken as the element-wise minimum of the
// per-set vectors: an upper bound, at each size, on the number of tuples
// that fail every output set simultaneously.
type RPEResult struct {
	PerSet     map[string][]float64
	Tries      map[string]*trie.Trie
	Conjunction []float64
}

// RunRPE implements RPE: one coefficient vector per output set (each
// computed by projecting the full failure trie onto that set's output
// wires before expansion), plus the element-wise minimum across sets as the
// RPE-∩ combination (a tuple only counts against the intersection once it
// is already a failure for every set, so its contribution is bounded by the
// smallest of the per-set counts at that size).
func RunRPE(c *circuit.Circuit, sets []OutputSet, cfg Config) RPEResult {
	res := RPEResult{
		PerSet:      map[string][]float64{},
		Tries:       map[string]*trie.Trie{},
		Conjunction: make([]float64, cfg.MaxSize+1),
	}
	for i := range res.Conjunction {
		res.Conjunction[i] = -1 // sentinel: "not yet seen"
	}

	type setOutcome struct {
		merged *trie.Trie
		cv     []float64
	}
	outcomes := make([]setOutcome, len(sets))
	perSet := func(i int) {
		set := sets[i]
		var tries []*trie.Trie
		for input := 0; input < c.InputCount; input++ {
			e := search.New(c, search.Config{Input: input, TIn: 1, MaxSize: cfg.MaxSize})
			tr := e.Run().ProjectOntoOutputs(set.Outputs)
			tries = append(tries, tr)
		}
		merged := mergeTries(c, tries, cfg.MaxSize)
		outcomes[i] = setOutcome{merged: merged, cv: expand.New(c).Coefficients(merged, cfg.MaxSize)}
	}
	if cfg.Pool != nil {
		cfg.Pool.ForAll(len(sets), perSet)
	} else {
		for i := range sets {
			perSet(i)
		}
	}

	for i, set := range sets {
		res.Tries[set.Name] = outcomes[i].merged
		res.PerSet[set.Name] = outcomes[i].cv
		for j, v := range outcomes[i].cv {
			if res.Conjunction[j] < 0 || v < res.Conjunction[j] {
				res.Conjunction[j] = v
			}
		}
	}
	for i, v := range res.Conjunction {
		if v < 0 {
			res.Conjunction[i] = 0
		}
	}
	return res
}

// mergeTries unions several per-input tries (already projected onto one
// output set) into one, keeping only minimal tuples: duplicates across
// inputs collapse via the trie's own OR-merge and subset pruning.
func mergeTries(c *circuit.Circuit, tries []*trie.Trie, maxSize int) *trie.Trie {
	out := trie.New()
	for _, t := range tries {
		for size := 1; size <= maxSize; size++ {
			for _, tuple := range t.ListBySize(size) {
				if _, found := out.ContainsSubset(tuple); found {
					continue
				}
				out.Insert(tuple, circuit.NewRevelation(c.InputCount, c.ShareCount))
			}
		}
	}
	return out
}
