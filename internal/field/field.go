package field

import "fmt"

// Field is the finite field GF(characteristic) the circuit's wires take
// values in. Characteristic 2 selects the fast xor/popcount path; any odd
// prime p < 1<<15 selects the arithmetic path (modular add/mul/inverse via
// extended Euclid, native uint16 arithmetic rather than math/big, since p is
// always small enough to fit comfortably).
type Field struct {
	Characteristic uint32
}

// MaxCharacteristic matches the wire identifier's compile-time-known maximum
// of spec.md §3: primes up to 2^15.
const MaxCharacteristic = 1 << 15

// New validates and returns a Field. Characteristic 2 is always accepted; any
// other value must be an odd number less than MaxCharacteristic (primality is
// the caller/parser's responsibility per spec.md §7 "Malformed circuit").
func New(characteristic uint32) (*Field, error) {
	if characteristic == 2 {
		return &Field{Characteristic: 2}, nil
	}
	if characteristic < 2 || characteristic >= MaxCharacteristic {
		return nil, fmt.Errorf("field: characteristic %d out of range [2,%d)", characteristic, MaxCharacteristic)
	}
	if characteristic%2 == 0 {
		return nil, fmt.Errorf("field: characteristic %d is even and not 2", characteristic)
	}
	return &Field{Characteristic: characteristic}, nil
}

// IsBinary reports whether this is the GF(2) fast path.
func (f *Field) IsBinary() bool { return f.Characteristic == 2 }

// Add returns a+b mod characteristic.
func (f *Field) Add(a, b uint16) uint16 {
	if f.IsBinary() {
		return a ^ b
	}
	return uint16((uint32(a) + uint32(b)) % f.Characteristic)
}

// Neg returns -a mod characteristic.
func (f *Field) Neg(a uint16) uint16 {
	if f.IsBinary() || a == 0 {
		return a
	}
	return uint16(f.Characteristic - uint32(a))
}

// Sub returns a-b mod characteristic.
func (f *Field) Sub(a, b uint16) uint16 {
	return f.Add(a, f.Neg(b))
}

// Mul returns a*b mod characteristic.
func (f *Field) Mul(a, b uint16) uint16 {
	if f.IsBinary() {
		return a & b
	}
	return uint16((uint32(a) * uint32(b)) % f.Characteristic)
}

// Inverse returns a^-1 mod characteristic via the extended Euclidean
// algorithm. Panics on a==0, mirroring the teacher's panic-on-impossible-input
// style in core/vss/algebra/fp.go (MulInv on a non-field element).
func (f *Field) Inverse(a uint16) uint16 {
	if a == 0 {
		panic("field: cannot invert zero")
	}
	if f.IsBinary() {
		return 1
	}
	p := int64(f.Characteristic)
	t, newT := int64(0), int64(1)
	r, newR := p, int64(a)
	for newR != 0 {
		q := r / newR
		t, newT = newT, t-q*newT
		r, newR = newR, r-q*newR
	}
	if r > 1 {
		panic("field: characteristic is not prime, element not invertible")
	}
	if t < 0 {
		t += p
	}
	return uint16(t)
}

// Div returns a/b mod characteristic.
func (f *Field) Div(a, b uint16) uint16 {
	return f.Mul(a, f.Inverse(b))
}
