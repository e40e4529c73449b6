package circuit

import "errors"

// Sentinel error kinds, matching the error taxonomy of spec.md §7. Callers
// wrap these with fmt.Errorf("...: %w", ...) to attach a line number or
// offending identifier; cmd/ironmask prints whatever error reaches it and
// exits with status 1, whatever its kind.
var (
	// ErrMalformedCircuit covers an unknown identifier, a missing operator, an
	// unmatched "![", or a numeric literal too large.
	ErrMalformedCircuit = errors.New("circuit: malformed circuit description")

	// ErrUnsupportedGadget covers a multiplication whose operand lacks a single
	// canonical factorization.
	ErrUnsupportedGadget = errors.New("circuit: unsupported gadget shape")

	// ErrResourceExhausted covers a tuple width exceeding the compiled-in
	// maxima; the caller should rebuild with larger bounds.
	ErrResourceExhausted = errors.New("circuit: resource exhausted")
)
