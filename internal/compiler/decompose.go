package compiler

import (
	"strings"

	"github.com/magv/rat2c/internal/ir"
)

// Decomposition is the result of parenthesis decomposition over one batch of
// input expressions.
//
// Fragments is in discovery order. Discovery is depth-first and
// innermost-first, so the order is topological: a fragment's body only ever
// references fragments that appear earlier in the slice. The external engine
// must receive fragments in exactly this order, and its outputs are matched
// back positionally.
type Decomposition struct {
	Fragments []ir.Fragment

	// Results binds one reserved result name per input expression, in input
	// order, to its decomposed top-level text. The text references only
	// variables, function names, fragment names, and literals.
	Results ir.Program
}

// Decompose splits flattened, validated expressions into a DAG of uniquely
// named fragments bounded by parenthesis nesting. Textually identical
// complex subexpressions are deduplicated on discovery through a memo shared
// across all expressions of the batch; the memo lives only for this call.
func Decompose(flats []string) *Decomposition {
	d := &decomposer{memo: make(map[string]string)}
	results := make(ir.Program, len(flats))
	for i, flat := range flats {
		results[i] = ir.Statement{Target: ir.ResultName(i), Expr: d.argument(flat)}
	}
	return &Decomposition{Fragments: d.fragments, Results: results}
}

type decomposer struct {
	memo      map[string]string // expression text -> fragment name
	fragments []ir.Fragment     // discovery order
}

// region processes the text between one matched delimiter pair. Depth-0
// commas separate sibling arguments; each argument is reduced independently
// and the results are rejoined.
func (d *decomposer) region(s string) string {
	var b strings.Builder
	start, depth := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				b.WriteString(d.argument(s[start:i]))
				b.WriteByte(',')
				start = i + 1
			}
		}
	}
	b.WriteString(d.argument(s[start:]))
	return b.String()
}

// argument reduces one completed argument. Nested groups are recursed first;
// the rebuilt text is then classified: a simple token run passes through
// unchanged, anything else is bound to a fragment name via the memo.
func (d *decomposer) argument(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '(' {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := matchParen(s, i)
		inner := d.region(s[i+1 : j])
		switch {
		case i > 0 && identChar(s[i-1]):
			// call arguments keep their delimiters
			b.WriteByte('(')
			b.WriteString(inner)
			b.WriteByte(')')
		case ir.IsIdent(inner) || ir.IsInteger(inner):
			// a group that collapsed to a single token needs no indirection
			// and no grouping
			b.WriteString(inner)
		default:
			b.WriteByte('(')
			b.WriteString(inner)
			b.WriteByte(')')
		}
		i = j + 1
	}
	text := b.String()
	if isSimple(text) {
		return text
	}
	if name, ok := d.memo[text]; ok {
		return name
	}
	name := ir.FragmentName(len(d.fragments))
	d.memo[text] = name
	d.fragments = append(d.fragments, ir.Fragment{Name: name, Body: text})
	return name
}

// isSimple reports whether text is a pure literal/name/monomial token run:
// only identifier characters, digits, and '*'. Sums, differences, quotients,
// powers, and anything containing a group or call all count as complex, so
// they always reach the external engine through a fragment.
func isSimple(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if !identChar(text[i]) && text[i] != '*' {
			return false
		}
	}
	return true
}

// matchParen returns the index of the ')' matching the '(' at open.
// The input is validated as balanced before decomposition runs.
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

func identChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
