package optimize

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magv/rat2c/internal/ir"
)

// mustParse parses wire-form statement text into a Program.
func mustParse(t *testing.T, text string) ir.Program {
	t.Helper()
	prog, err := ir.ParseProgram(text)
	require.NoError(t, err)
	return prog
}

// evalExpr evaluates flattened expression text over +, -, *, parentheses,
// integer literals, and names bound in env. Just enough arithmetic to check
// that expanded power chains compute the right value.
func evalExpr(t *testing.T, expr string, env map[string]int64) int64 {
	t.Helper()
	p := &evalParser{t: t, s: expr, env: env}
	v := p.sum()
	require.Equal(t, len(p.s), p.i, "trailing input in %q", expr)
	return v
}

// evalProgram runs a program statement by statement, extending env.
func evalProgram(t *testing.T, prog ir.Program, env map[string]int64) {
	t.Helper()
	for _, stmt := range prog {
		env[stmt.Target] = evalExpr(t, stmt.Expr, env)
	}
}

type evalParser struct {
	t   *testing.T
	s   string
	i   int
	env map[string]int64
}

func (p *evalParser) sum() int64 {
	v := p.product()
	for p.i < len(p.s) && (p.s[p.i] == '+' || p.s[p.i] == '-') {
		op := p.s[p.i]
		p.i++
		w := p.product()
		if op == '+' {
			v += w
		} else {
			v -= w
		}
	}
	return v
}

func (p *evalParser) product() int64 {
	v := p.factor()
	for p.i < len(p.s) && p.s[p.i] == '*' {
		p.i++
		v *= p.factor()
	}
	return v
}

func (p *evalParser) factor() int64 {
	require.Less(p.t, p.i, len(p.s), "unexpected end of %q", p.s)
	if p.s[p.i] == '(' {
		p.i++
		v := p.sum()
		require.Less(p.t, p.i, len(p.s))
		require.Equal(p.t, byte(')'), p.s[p.i])
		p.i++
		return v
	}
	start := p.i
	for p.i < len(p.s) && (isWord(p.s[p.i])) {
		p.i++
	}
	tok := p.s[start:p.i]
	require.NotEmpty(p.t, tok, "cannot parse factor in %q at %d", p.s, start)
	if tok[0] >= '0' && tok[0] <= '9' {
		n, err := strconv.ParseInt(tok, 10, 64)
		require.NoError(p.t, err)
		return n
	}
	v, ok := p.env[tok]
	require.True(p.t, ok, "unbound name %q in %q", tok, p.s)
	return v
}

func isWord(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// countStatements counts statements whose expression contains sub.
func countStatements(prog ir.Program, sub string) int {
	n := 0
	for _, stmt := range prog {
		if strings.Contains(stmt.Expr, sub) {
			n++
		}
	}
	return n
}
