package circuit

import "github.com/CryptoExperts/ironmask-go/internal/field"

// Revelation is the secret-revelation descriptor of spec.md §3: for each
// input, a bitmask over its shares whose value is fully determined by a
// tuple.
type Revelation struct {
	perInput []*field.BitSet // length InputCount, each ShareCount bits
}

// NewRevelation returns an all-clear descriptor for a circuit with the given
// input and share counts.
func NewRevelation(inputCount, shareCount int) *Revelation {
	perInput := make([]*field.BitSet, inputCount)
	for i := range perInput {
		perInput[i] = field.NewBitSet(shareCount)
	}
	return &Revelation{perInput: perInput}
}

// Set marks share `share` of input `input` as revealed.
func (r *Revelation) Set(input, share int) {
	r.perInput[input].Set(share)
}

// Shares returns the revealed-share bitset for the given input.
func (r *Revelation) Shares(input int) *field.BitSet {
	return r.perInput[input]
}

// Count returns the number of revealed shares for the given input.
func (r *Revelation) Count(input int) int {
	return r.perInput[input].PopCount()
}

// Clone returns a deep copy.
func (r *Revelation) Clone() *Revelation {
	out := &Revelation{perInput: make([]*field.BitSet, len(r.perInput))}
	for i, b := range r.perInput {
		out.perInput[i] = b.Clone()
	}
	return out
}

// MergeOR ORs other into r in place, the merge rule the trie uses when the
// same tuple is inserted twice (spec.md §4.5, §8 idempotence law).
func (r *Revelation) MergeOR(other *Revelation) {
	for i := range r.perInput {
		r.perInput[i].OrInto(other.perInput[i])
	}
}

// Satisfies reports whether at least one input has tIn or more shares
// revealed. A tuple becomes a failure as soon as any single targeted input
// reaches the threshold (spec.md §4.4 randoms_step: "live revealed-shares
// count >= t_in").
func (r *Revelation) Satisfies(tIn int) bool {
	for i := range r.perInput {
		if r.perInput[i].PopCount() >= tIn {
			return true
		}
	}
	return false
}
