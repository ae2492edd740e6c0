package compiler

import (
	"strings"

	"github.com/magv/rat2c/internal/ir"
)

// Flatten strips all whitespace from one input expression and validates its
// surface structure: token alphabet, balanced parentheses, and comma
// placement. exprIndex identifies the expression in error messages.
//
// Flatten performs no tokenization beyond what validation needs; the
// flattened text is the exact byte sequence every later stage hashes and
// rewrites, so it must be produced once and never re-normalized.
func Flatten(text string, exprIndex int) (string, error) {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
		default:
			b.WriteByte(text[i])
		}
	}
	flat := b.String()
	if flat == "" {
		return "", malformed(exprIndex, -1, "empty expression")
	}
	if err := checkStructure(flat, exprIndex); err != nil {
		return "", err
	}
	return flat, nil
}

// checkStructure validates the flattened text: every byte must belong to the
// token alphabet, parentheses must balance, and commas may only separate
// call arguments.
func checkStructure(flat string, exprIndex int) error {
	depth := 0
	for i := 0; i < len(flat); i++ {
		c := flat[i]
		switch {
		case c == '(':
			depth++
			if i+1 < len(flat) && (flat[i+1] == ')' || flat[i+1] == ',') {
				return malformed(exprIndex, i+1, "empty argument")
			}
		case c == ')':
			depth--
			if depth < 0 {
				return malformed(exprIndex, i, "unbalanced ')'")
			}
		case c == ',':
			if depth == 0 {
				return malformed(exprIndex, i, "',' outside a function call")
			}
			if i+1 < len(flat) && (flat[i+1] == ',' || flat[i+1] == ')') {
				return malformed(exprIndex, i+1, "empty argument")
			}
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
		default:
			return malformed(exprIndex, i, "unexpected character %q", string(c))
		}
	}
	if depth != 0 {
		return malformed(exprIndex, -1, "unbalanced '(': %d unclosed", depth)
	}
	return nil
}

// CheckReserved rejects any identifier in the flattened expression that
// collides with a generated-name form. Both value names and call names are
// checked; the generators downstream assume their namespaces are untouched.
func CheckReserved(flat string, exprIndex int) error {
	for _, name := range ir.ScanNames(flat) {
		if ir.IsReserved(name) {
			return &CompileError{
				Code:    ErrCodeReservedIdent,
				Message: "identifier " + name + " uses a reserved generated-name form",
				Expr:    exprIndex,
				Offset:  strings.Index(flat, name),
			}
		}
	}
	for _, name := range ir.ScanCalls(flat) {
		if ir.IsReserved(name) {
			return &CompileError{
				Code:    ErrCodeReservedIdent,
				Message: "function " + name + " uses a reserved generated-name form",
				Expr:    exprIndex,
				Offset:  strings.Index(flat, name),
			}
		}
	}
	return nil
}
