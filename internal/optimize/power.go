package optimize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/magv/rat2c/internal/ir"
)

// ErrBadExponent reports a pow() call whose exponent is not a non-negative
// integer literal. The engine contract requires negative exponents to be
// rewritten as inv() calls before output, so hitting one here means the
// contract is broken and the batch must abort.
var ErrBadExponent = errors.New("pow exponent is not a non-negative integer literal")

const powCall = "pow"

// ExpandPowers rewrites every pow(E, n) call with a non-negative integer
// literal n into a multiplication chain via exponentiation by squaring.
// Each non-inlined halving step allocates one fresh pow<N> intermediate,
// inserted immediately before the statement that first uses it, bounding
// the generated code at O(log n) statements per call. Nested calls are
// expanded innermost-first. The fresh-name counter is local to this call.
func ExpandPowers(prog ir.Program) (ir.Program, error) {
	px := &powerExpander{}
	out := make(ir.Program, 0, len(prog))
	for _, stmt := range prog {
		px.pending = px.pending[:0]
		expr, err := px.rewrite(stmt.Expr)
		if err != nil {
			return nil, fmt.Errorf("statement %q: %w", stmt.String(), err)
		}
		out = append(out, px.pending...)
		out = append(out, ir.Statement{Target: stmt.Target, Expr: expr})
	}
	return out, nil
}

type powerExpander struct {
	next    int
	pending ir.Program
}

// rewrite scans expression text and replaces each pow call, recursing into
// the base first so inner calls expand before outer ones.
func (px *powerExpander) rewrite(expr string) (string, error) {
	var b strings.Builder
	b.Grow(len(expr))
	for i := 0; i < len(expr); {
		c := expr[i]
		if !identStart(c) {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(expr) && identChar(expr[j]) {
			j++
		}
		name := expr[i:j]
		if name != powCall || j >= len(expr) || expr[j] != '(' {
			b.WriteString(name)
			i = j
			continue
		}
		close := matchParen(expr, j)
		base, exponent, err := splitPowArgs(expr[j+1 : close])
		if err != nil {
			return "", err
		}
		base, err = px.rewrite(base)
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(exponent)
		if err != nil || !ir.IsInteger(exponent) {
			return "", fmt.Errorf("%w: got %q", ErrBadExponent, exponent)
		}
		b.WriteString(px.expand(atom(base), n))
		i = close + 1
	}
	return b.String(), nil
}

// expand returns an expression computing base**n, appending intermediate
// assignments for halving steps. base must already be atomic.
func (px *powerExpander) expand(base string, n int) string {
	switch n {
	case 0:
		return "1"
	case 1:
		return base
	case 2:
		return base + "*" + base
	case 3:
		return base + "*" + base + "*" + base
	}
	half := px.expand(base, n/2)
	name := ir.PowerName(px.next)
	px.next++
	px.pending = append(px.pending, ir.Statement{Target: name, Expr: half})
	if n%2 == 1 {
		return name + "*" + name + "*" + base
	}
	return name + "*" + name
}

// splitPowArgs splits "base,exponent" at the top-level comma.
func splitPowArgs(s string) (string, string, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("%w: pow(%s) has no exponent argument", ErrBadExponent, s)
}

// atom wraps an expression in parentheses unless it is already a single
// name or literal, so that concatenating it with '*' preserves precedence.
func atom(s string) string {
	if ir.IsIdent(s) || ir.IsInteger(s) {
		return s
	}
	return "(" + s + ")"
}

func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s) - 1
}

func identStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func identChar(c byte) bool {
	return identStart(c) || (c >= '0' && c <= '9')
}
