package ir

import (
	"fmt"
	"strings"
)

// ParseProgram parses wire-form statement text (`a=b*c;d=a+1;`) into a
// Program. Whitespace around statements, targets, and expressions is
// tolerated and stripped; empty statements (stray semicolons, trailing
// newline) are skipped.
//
// Each statement must have exactly one `=`, an identifier target, and a
// non-empty expression.
func ParseProgram(text string) (Program, error) {
	var prog Program
	for _, raw := range strings.Split(text, ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		eq := strings.IndexByte(stmt, '=')
		if eq < 0 {
			return nil, fmt.Errorf("statement %q: missing '='", stmt)
		}
		target := strings.TrimSpace(stmt[:eq])
		expr := stripSpace(stmt[eq+1:])
		if !IsIdent(target) {
			return nil, fmt.Errorf("statement %q: target %q is not an identifier", stmt, target)
		}
		if expr == "" {
			return nil, fmt.Errorf("statement %q: empty expression", stmt)
		}
		prog = append(prog, Statement{Target: target, Expr: expr})
	}
	return prog, nil
}

// stripSpace removes all whitespace from s. Expression text is kept fully
// flattened so that textual comparison and memo hashing are stable.
func stripSpace(s string) string {
	if strings.IndexFunc(s, isSpace) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
