package field

// Layout describes the column counts of every lane a Row carries. All rows of
// a given Circuit share one Layout (secrets, duplicated secrets, randoms,
// multiplication outputs, correction outputs), matching spec.md §3's
// dependency-row field list.
type Layout struct {
	Secrets int // input_count * share_count
	Dup     int // present only when faults on inputs are modeled
	Randoms int
	Mults   int // one column per multiplication gate
	Corr    int // one column per correction block
}

// Row is one wire's symbolic expression: a linear combination of secret
// shares, duplicated secret shares, randoms, multiplication outputs,
// correction outputs, and a constant term (spec.md §3 "Dependency row").
//
// For GF(2) every lane is a bit-packed BitSet and addition is xor. For GF(p)
// every lane is a []uint16 coefficient array and addition is modular. Exactly
// one representation is populated, selected by the owning Field's
// characteristic.
type Row struct {
	f      *Field
	layout Layout

	secretBits *BitSet
	dupBits    *BitSet
	randomBits *BitSet
	multBits   *BitSet
	corrBits   *BitSet
	constBit   uint16

	secretCoef []uint16
	dupCoef    []uint16
	randomCoef []uint16
	multCoef   []uint16
	corrCoef   []uint16
	constCoef  uint16
}

// NewRow returns a zero row over the given layout.
func NewRow(f *Field, layout Layout) *Row {
	r := &Row{f: f, layout: layout}
	if f.IsBinary() {
		r.secretBits = NewBitSet(layout.Secrets)
		r.dupBits = NewBitSet(layout.Dup)
		r.randomBits = NewBitSet(layout.Randoms)
		r.multBits = NewBitSet(layout.Mults)
		r.corrBits = NewBitSet(layout.Corr)
	} else {
		r.secretCoef = make([]uint16, layout.Secrets)
		r.dupCoef = make([]uint16, layout.Dup)
		r.randomCoef = make([]uint16, layout.Randoms)
		r.multCoef = make([]uint16, layout.Mults)
		r.corrCoef = make([]uint16, layout.Corr)
	}
	return r
}

// Field returns the owning field.
func (r *Row) Field() *Field { return r.f }

// Layout returns the row's lane layout.
func (r *Row) Layout() Layout { return r.layout }

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	c := &Row{f: r.f, layout: r.layout, constBit: r.constBit, constCoef: r.constCoef}
	if r.f.IsBinary() {
		c.secretBits = r.secretBits.Clone()
		c.dupBits = r.dupBits.Clone()
		c.randomBits = r.randomBits.Clone()
		c.multBits = r.multBits.Clone()
		c.corrBits = r.corrBits.Clone()
	} else {
		c.secretCoef = cloneSlice(r.secretCoef)
		c.dupCoef = cloneSlice(r.dupCoef)
		c.randomCoef = cloneSlice(r.randomCoef)
		c.multCoef = cloneSlice(r.multCoef)
		c.corrCoef = cloneSlice(r.corrCoef)
	}
	return c
}

func cloneSlice(s []uint16) []uint16 {
	out := make([]uint16, len(s))
	copy(out, s)
	return out
}

// SetSecret sets the coefficient of secret-share column i.
func (r *Row) SetSecret(i int, v uint16) { r.setLane(r.secretBits, r.secretCoef, i, v) }

// SetDup sets the coefficient of duplicated-secret column i.
func (r *Row) SetDup(i int, v uint16) { r.setLane(r.dupBits, r.dupCoef, i, v) }

// SetRandom sets the coefficient of random column i.
func (r *Row) SetRandom(i int, v uint16) { r.setLane(r.randomBits, r.randomCoef, i, v) }

// SetMult sets the coefficient of multiplication-output column i.
func (r *Row) SetMult(i int, v uint16) { r.setLane(r.multBits, r.multCoef, i, v) }

// SetCorr sets the coefficient of correction-output column i.
func (r *Row) SetCorr(i int, v uint16) { r.setLane(r.corrBits, r.corrCoef, i, v) }

// SetConst sets the constant term.
func (r *Row) SetConst(v uint16) {
	if r.f.IsBinary() {
		r.constBit = v & 1
	} else {
		r.constCoef = v % uint16(r.f.Characteristic)
	}
}

func (r *Row) setLane(bitLane *BitSet, coefLane []uint16, i int, v uint16) {
	if r.f.IsBinary() {
		if v&1 != 0 {
			bitLane.Set(i)
		} else {
			bitLane.Clear(i)
		}
		return
	}
	coefLane[i] = v % uint16(r.f.Characteristic)
}

// Secret returns the coefficient of secret-share column i.
func (r *Row) Secret(i int) uint16 { return r.getLane(r.secretBits, r.secretCoef, i) }

// Dup returns the coefficient of duplicated-secret column i.
func (r *Row) Dup(i int) uint16 { return r.getLane(r.dupBits, r.dupCoef, i) }

// Random returns the coefficient of random column i.
func (r *Row) Random(i int) uint16 { return r.getLane(r.randomBits, r.randomCoef, i) }

// Mult returns the coefficient of multiplication-output column i.
func (r *Row) Mult(i int) uint16 { return r.getLane(r.multBits, r.multCoef, i) }

// Corr returns the coefficient of correction-output column i.
func (r *Row) Corr(i int) uint16 { return r.getLane(r.corrBits, r.corrCoef, i) }

// Const returns the constant term.
func (r *Row) Const() uint16 {
	if r.f.IsBinary() {
		return r.constBit
	}
	return r.constCoef
}

func (r *Row) getLane(bitLane *BitSet, coefLane []uint16, i int) uint16 {
	if r.f.IsBinary() {
		if bitLane.Test(i) {
			return 1
		}
		return 0
	}
	return coefLane[i]
}

// RandomsBitSet exposes the raw GF(2) random lane, used by
// row_first_random_restricted's class masking. Only valid on the GF(2) path.
func (r *Row) RandomsBitSet() *BitSet { return r.randomBits }

// RowXorInto implements row_xor_into(dst, src): dst ^= src for GF(2). It is
// only meaningful (and only called) on the GF(2) path; GF(p) combination goes
// through RowAddScaled.
func RowXorInto(dst, src *Row) {
	dst.secretBits.XorInto(src.secretBits)
	dst.dupBits.XorInto(src.dupBits)
	dst.randomBits.XorInto(src.randomBits)
	dst.multBits.XorInto(src.multBits)
	dst.corrBits.XorInto(src.corrBits)
	dst.constBit ^= src.constBit
}

// RowAddScaled implements row_add_scaled(dst, src, k): dst += k*src mod p for
// GF(p), and dst ^= src (k implicitly 1) for GF(2).
func RowAddScaled(dst, src *Row, k uint16) {
	f := dst.f
	if f.IsBinary() {
		RowXorInto(dst, src)
		return
	}
	addScaled(dst.secretCoef, src.secretCoef, k, f)
	addScaled(dst.dupCoef, src.dupCoef, k, f)
	addScaled(dst.randomCoef, src.randomCoef, k, f)
	addScaled(dst.multCoef, src.multCoef, k, f)
	addScaled(dst.corrCoef, src.corrCoef, k, f)
	dst.constCoef = f.Add(dst.constCoef, f.Mul(k, src.constCoef))
}

func addScaled(dst, src []uint16, k uint16, f *Field) {
	for i := range dst {
		dst[i] = f.Add(dst[i], f.Mul(k, src[i]))
	}
}

// RowScale multiplies every lane of r by k in place (GF(p) only; used to
// normalize a pivoted row by the inverse of its pivot coefficient).
func RowScale(r *Row, k uint16) {
	f := r.f
	if f.IsBinary() {
		return // scaling by 1 is a no-op; GF(2) has no other nonzero scalar
	}
	scale(r.secretCoef, k, f)
	scale(r.dupCoef, k, f)
	scale(r.randomCoef, k, f)
	scale(r.multCoef, k, f)
	scale(r.corrCoef, k, f)
	r.constCoef = f.Mul(r.constCoef, k)
}

func scale(lane []uint16, k uint16, f *Field) {
	for i, v := range lane {
		lane[i] = f.Mul(v, k)
	}
}

// RowFirstRandom implements row_first_random(row): the lowest-index random
// whose coefficient in row is non-zero.
func RowFirstRandom(r *Row) (int, bool) {
	return RowFirstRandomRestricted(r, nil)
}

// RowClass names the random classification of spec.md §3: which randoms
// refresh input 1, input 2, or the output of a multiplication gadget.
type RowClass int

const (
	ClassAny RowClass = iota
	ClassIn1
	ClassIn2
	ClassOut
)

// RowFirstRandomRestricted implements row_first_random_restricted(row,
// class): the lowest-index random also belonging to the given classification
// mask (nil mask == ClassAny == unrestricted).
func RowFirstRandomRestricted(r *Row, classMask *BitSet) (int, bool) {
	if r.f.IsBinary() {
		return r.randomBits.FirstSetRestricted(classMask)
	}
	for i, v := range r.randomCoef {
		if v == 0 {
			continue
		}
		if classMask != nil && !classMask.Test(i) {
			continue
		}
		return i, true
	}
	return 0, false
}

// IsZero reports whether every lane (including the constant) is zero.
func (r *Row) IsZero() bool {
	if r.f.IsBinary() {
		return r.secretBits.IsZero() && r.dupBits.IsZero() && r.randomBits.IsZero() &&
			r.multBits.IsZero() && r.corrBits.IsZero() && r.constBit == 0
	}
	return allZero(r.secretCoef) && allZero(r.dupCoef) && allZero(r.randomCoef) &&
		allZero(r.multCoef) && allZero(r.corrCoef) && r.constCoef == 0
}

func allZero(s []uint16) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// HasAnyMult reports whether the row depends on any multiplication-output
// column, the trigger for routing a row through the factorizer.
func (r *Row) HasAnyMult() bool {
	if r.f.IsBinary() {
		return !r.multBits.IsZero()
	}
	return !allZero(r.multCoef)
}

// RevealedShares returns a bitset over Secrets-lane columns that are
// non-zero, i.e. the share positions this row (alone) touches.
func (r *Row) RevealedShares() *BitSet {
	if r.f.IsBinary() {
		return r.secretBits.Clone()
	}
	b := NewBitSet(r.layout.Secrets)
	for i, v := range r.secretCoef {
		if v != 0 {
			b.Set(i)
		}
	}
	return b
}
