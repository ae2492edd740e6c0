package ir

import "strings"

// Statement is a single straight-line assignment: Target = Expr.
// Expr is plain expression text over literals, variable names, generated
// names, and opaque function calls.
type Statement struct {
	Target string
	Expr   string
}

// String renders the statement in wire form, `target=expr;`.
func (s Statement) String() string {
	return s.Target + "=" + s.Expr + ";"
}

// Program is an ordered sequence of assignments. Order is significant:
// every name used in a statement's Expr must be defined by an earlier
// statement, be a declared input variable, or be a literal.
type Program []Statement

// String renders the program as concatenated wire-form statements.
func (p Program) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// Targets returns the assignment targets in program order.
func (p Program) Targets() []string {
	out := make([]string, len(p))
	for i, s := range p {
		out[i] = s.Target
	}
	return out
}

// Fragment is a uniquely named subexpression produced by parenthesis
// decomposition. Body references variables, function calls, and the names
// of earlier-discovered fragments (its DAG children).
type Fragment struct {
	Name string
	Body string
}
