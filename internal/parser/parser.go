// Package parser reads the textual circuit format of spec.md §6 and drives a
// circuit.Builder, following the directive/equation grammar of the original
// source's parser.c (parse_file, parse_eq_str, parse_expr) rewritten as a
// two-pass Go scanner rather than a char-by-char translation: a first pass
// assigns wire indices and registers every multiplication/correction gate
// (so the Builder's mult-column layout is final), a second pass builds each
// wire's dependency row.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/CryptoExperts/ironmask-go/internal/circuit"
)

// Result wraps a built Circuit plus the parser-level metadata spec.md §6
// attaches to a circuit description but that circuit.Circuit itself has no
// field for (spec.md §1 Non-goals: the Circuit stays free of parsing
// concerns).
type Result struct {
	Circuit *circuit.Circuit

	// Order is the #ORDER value, unvalidated against the circuit itself
	// (the source treats it as advisory metadata for the driver's default
	// threshold, not a circuit invariant).
	Order int

	// Duplications is the #DUPLICATIONS value (1 when absent). It is only
	// recorded: the parser creates no duplicated share wires, Builder has
	// no dedicated duplicated-secret (Dup) lane (field.Layout.Dup is never
	// populated by circuit.Builder), and nothing else in the module reads
	// this field. A name with an "_J" suffix (e.g. a0_1) groups with its
	// prefix like any other share name, so each #IN/#OUT group still needs
	// exactly #SHARES names.
	Duplications int

	// CorrectionWires holds the wire index of every equation annotated
	// "# correction" or "# correction_o": fault-combined-property
	// scaffolding that internal/fault locates by index.
	CorrectionWires []int
}

var errMalformed = circuit.ErrMalformedCircuit

// ParseFile opens and parses the circuit description at path.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a full circuit description from r.
func Parse(r io.Reader) (*Result, error) {
	p := &parseState{
		inNames:     nil,
		randomNames: nil,
		outNames:    nil,
		characteristic: 2,
	}
	if err := p.scan(r); err != nil {
		return nil, err
	}
	return p.build()
}

// --- scanning ---------------------------------------------------------

type opKind int

const (
	opAssign opKind = iota // dst = [k] var  (copy, optionally scaled)
	opAdd                  // var (+|^) var
	opMult                 // var (*|&) var
	opNot                  // ~var
)

type operand struct {
	name  string
	coeff uint16
}

type equation struct {
	dst              string
	op               opKind
	a, b             operand
	antiGlitch       bool
	correction       bool
	correctionOutput bool
	line             int
}

type parseState struct {
	shares         int
	order          int
	duplications   int
	characteristic uint32

	inNames     []string
	randomNames []string
	outNames    []string

	equations []equation
}

var tokenRe = regexp.MustCompile(`^([0-9]+)?\s*([A-Za-z_][A-Za-z0-9_]*)$`)

func parseOperand(tok string) (operand, error) {
	tok = strings.TrimSpace(tok)
	m := tokenRe.FindStringSubmatch(tok)
	if m == nil {
		return operand{}, fmt.Errorf("%w: malformed operand %q", errMalformed, tok)
	}
	coeff := uint16(1)
	if m[1] != "" {
		n, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			return operand{}, fmt.Errorf("%w: coefficient too large in %q", errMalformed, tok)
		}
		coeff = uint16(n)
	}
	return operand{name: m[2], coeff: coeff}, nil
}

func (p *parseState) scan(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	p.duplications = 1
	p.shares = -1
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if err := p.parseDirective(line, lineNo); err != nil {
				return err
			}
			continue
		}
		eq, err := p.parseEquation(line, lineNo)
		if err != nil {
			return err
		}
		p.equations = append(p.equations, eq)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if p.shares < 0 {
		return fmt.Errorf("%w: missing #SHARES directive", errMalformed)
	}
	return nil
}

func (p *parseState) parseDirective(line string, lineNo int) error {
	fields := strings.Fields(line)
	name := strings.ToUpper(strings.TrimPrefix(fields[0], "#"))
	args := fields[1:]

	switch name {
	case "SHARES":
		n, err := directiveInt(args, lineNo)
		if err != nil {
			return err
		}
		if n < 1 || n > 99 {
			return fmt.Errorf("%w: line %d: #SHARES %d out of range [1,99]", errMalformed, lineNo, n)
		}
		p.shares = n
	case "ORDER":
		n, err := directiveInt(args, lineNo)
		if err != nil {
			return err
		}
		p.order = n
	case "DUPLICATIONS":
		n, err := directiveInt(args, lineNo)
		if err != nil {
			return err
		}
		p.duplications = n
	case "CHARACTERISTIC", "CAR":
		n, err := directiveInt(args, lineNo)
		if err != nil {
			return err
		}
		p.characteristic = uint32(n)
	case "IN", "INPUT":
		p.inNames = append(p.inNames, args...)
	case "RANDOMS":
		p.randomNames = append(p.randomNames, args...)
	case "OUT", "OUTPUT":
		p.outNames = append(p.outNames, args...)
	default:
		// Unknown directive: the source logs and ignores rather than
		// aborting (parser.c's parse_file default case).
	}
	return nil
}

func directiveInt(args []string, lineNo int) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: line %d: expected exactly one numeric argument", errMalformed, lineNo)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %v", errMalformed, lineNo, err)
	}
	return n, nil
}

var notRe = regexp.MustCompile(`^~\s*(.+)$`)
var binRe = regexp.MustCompile(`^(.+?)\s*([\+\^\*&])\s*(.+)$`)

// parseEquation parses one "dst = [![] expr [!]] [# correction[_o]]" line.
func (p *parseState) parseEquation(line string, lineNo int) (equation, error) {
	body := line
	var trailer string
	if idx := strings.Index(line, "#"); idx >= 0 {
		body = line[:idx]
		trailer = strings.TrimSpace(line[idx+1:])
	}
	eqIdx := strings.Index(body, "=")
	if eqIdx < 0 {
		return equation{}, fmt.Errorf("%w: line %d: missing '='", errMalformed, lineNo)
	}
	dst := strings.TrimSpace(body[:eqIdx])
	rhs := strings.TrimSpace(body[eqIdx+1:])
	if dst == "" || rhs == "" {
		return equation{}, fmt.Errorf("%w: line %d: empty assignment", errMalformed, lineNo)
	}

	eq := equation{dst: dst, line: lineNo}

	if strings.HasPrefix(rhs, "![") {
		end := strings.LastIndex(rhs, "]")
		if end < 0 {
			return equation{}, fmt.Errorf("%w: line %d: '![' without matching ']'", errMalformed, lineNo)
		}
		rhs = strings.TrimSpace(rhs[2:end])
		eq.antiGlitch = true
	}

	switch {
	case notRe.MatchString(rhs):
		m := notRe.FindStringSubmatch(rhs)
		a, err := parseOperand(m[1])
		if err != nil {
			return equation{}, err
		}
		eq.op = opNot
		eq.a = a

	case binRe.MatchString(rhs):
		m := binRe.FindStringSubmatch(rhs)
		a, err := parseOperand(m[1])
		if err != nil {
			return equation{}, err
		}
		b, err := parseOperand(m[3])
		if err != nil {
			return equation{}, err
		}
		switch m[2] {
		case "+", "^":
			eq.op = opAdd
		case "*", "&":
			eq.op = opMult
		}
		eq.a, eq.b = a, b

	default:
		a, err := parseOperand(rhs)
		if err != nil {
			return equation{}, err
		}
		eq.op = opAssign
		eq.a = a
	}

	switch strings.ToLower(trailer) {
	case "correction_o":
		eq.correction, eq.correctionOutput = true, true
	case "correction":
		eq.correction = true
	}
	return eq, nil
}
