// Package probsolve implements the probability-from-coefficients back end of
// spec.md §6: given a failure-coefficient vector, it finds the fixed point of
// the random-probing amplification bound f(p) = sum_i coeff[i] * p^i by
// binary search, using github.com/ALTree/bigfloat in place of the source's
// GMP-based arbitrary-precision arithmetic (SPEC_FULL.md §0 DOMAIN STACK).
package probsolve

import (
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Precision is the mantissa bit width carried through every big.Float value,
// generous enough that coefficient vectors with hundreds of terms don't lose
// the fixed point to rounding noise.
const Precision = 256

// Iterations bounds the bisection search; the interval halves each round, so
// 200 rounds resolves well past double precision.
const Iterations = 200

// Result is the outcome of a fixed-point search: a probability threshold in
// both linear and log2 form (spec.md §6 "pmax and pmin ... in log2 and
// linear").
type Result struct {
	Linear *big.Float
	Log2   *big.Float
}

func newFloat(v float64) *big.Float {
	return new(big.Float).SetPrec(Precision).SetFloat64(v)
}

// amplify evaluates f(p) = sum_{i=1}^{len(coeff)} coeff[i] * p^i. coeff[0] is
// unused (coefficient vectors are 1-indexed per spec.md §6).
func amplify(coeff []float64, p *big.Float) *big.Float {
	sum := newFloat(0)
	if p.Sign() == 0 {
		return sum
	}
	power := new(big.Float).SetPrec(Precision).Copy(p)
	for i := 1; i < len(coeff); i++ {
		if coeff[i] != 0 {
			term := new(big.Float).SetPrec(Precision).Mul(newFloat(coeff[i]), power)
			sum.Add(sum, term)
		}
		power = new(big.Float).SetPrec(Precision).Mul(power, p)
	}
	return sum
}

// scanBuckets is the number of sub-intervals the [epsilon, 1-epsilon] range
// is split into before bisecting, so a non-monotonic amplification curve
// still yields a bracketed root rather than a false bisection on same-signed
// endpoints.
const scanBuckets = 4096

func gap(coeff []float64, p *big.Float) *big.Float {
	return new(big.Float).SetPrec(Precision).Sub(amplify(coeff, p), p)
}

// bracket walks p from lo to hi (or hi to lo, if reversed) in scanBuckets
// steps and returns the first adjacent pair whose gap changes sign.
func bracket(coeff []float64, lo, hi float64, reverse bool) (float64, float64, bool) {
	step := (hi - lo) / scanBuckets
	at := func(i int) float64 { return lo + float64(i)*step }

	start, end, dir := 0, scanBuckets, 1
	if reverse {
		start, end, dir = scanBuckets, 0, -1
	}

	prevI := start
	prev := gap(coeff, newFloat(at(start)))
	for i := start + dir; ; i += dir {
		cur := gap(coeff, newFloat(at(i)))
		if cur.Sign() == 0 {
			return at(i), at(i), true
		}
		if (cur.Sign() > 0) != (prev.Sign() > 0) {
			lo2, hi2 := at(prevI), at(i)
			if lo2 > hi2 {
				lo2, hi2 = hi2, lo2
			}
			return lo2, hi2, true
		}
		prevI, prev = i, cur
		if i == end {
			break
		}
	}
	return 0, 0, false
}

// solve bisects within [lo, hi] for a root of f(p) = p, first coarsely
// scanning for a sign-changing bracket (searched from hi down to lo when
// fromHigh is set, so Pmax and Pmin can land on different crossings of a
// non-monotonic amplification curve) and then refining by bisection.
func solve(coeff []float64, lo, hi float64, fromHigh bool) *big.Float {
	blo, bhi, ok := bracket(coeff, lo, hi, fromHigh)
	if !ok {
		// No sign change found (the bound stays on the same side of p
		// across the whole range): report the boundary the scan started
		// from.
		if fromHigh {
			return newFloat(hi)
		}
		return newFloat(lo)
	}
	a := newFloat(blo)
	b := newFloat(bhi)
	fa := gap(coeff, a)
	for i := 0; i < Iterations; i++ {
		mid := new(big.Float).SetPrec(Precision).Add(a, b)
		mid.Quo(mid, newFloat(2))
		fm := gap(coeff, mid)
		if fm.Sign() == 0 {
			return mid
		}
		if (fm.Sign() > 0) == (fa.Sign() > 0) {
			a, fa = mid, fm
		} else {
			b = mid
		}
	}
	result := new(big.Float).SetPrec(Precision).Add(a, b)
	result.Quo(result, newFloat(2))
	return result
}

func toResult(p *big.Float) Result {
	log2 := newFloat(0)
	if p.Sign() > 0 {
		ln := bigfloat.Log(p)
		ln2 := bigfloat.Log(newFloat(2))
		log2 = new(big.Float).SetPrec(Precision).Quo(ln, ln2)
	}
	return Result{Linear: p, Log2: log2}
}

// Pmax searches the upper fixed point of f(p) = p on (0, 1]: the scan starts
// near p=1 and walks down toward 0, stopping at the first crossing it meets,
// i.e. the largest crossing in range, matching the source's "largest
// tolerable leakage probability" semantics.
func Pmax(coeff []float64) Result {
	return toResult(solve(coeff, 1e-12, 1-1e-12, true))
}

// Pmin searches the lower fixed point near 0, the most conservative (tightest)
// threshold still satisfying f(p) <= p over the whole vector.
func Pmin(coeff []float64) Result {
	return toResult(solve(coeff, 1e-12, 1-1e-12, false))
}

// EvalAt evaluates the amplification bound f(p) = sum coeff[i]*p^i directly,
// without searching for a fixed point. internal/fault's CRP/CRPC "val" mode
// plugs in a caller-supplied leak probability rather than solving for one.
func EvalAt(coeff []float64, p float64) *big.Float {
	return amplify(coeff, newFloat(p))
}
