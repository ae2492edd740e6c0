package compiler

import (
	"sort"

	"github.com/magv/rat2c/internal/ir"
)

// Vocabulary holds the variable and function names referenced by a set of
// input expressions. Variables become input parameters of the emitted
// function; functions pass through the whole pipeline as opaque operators.
type Vocabulary struct {
	Variables []string
	Functions []string
}

// ExtractVocabulary scans flattened expressions and returns their combined
// vocabulary with variables and functions each sorted.
func ExtractVocabulary(flats []string) Vocabulary {
	varSet := make(map[string]bool)
	funcSet := make(map[string]bool)
	for _, flat := range flats {
		for _, name := range ir.ScanNames(flat) {
			varSet[name] = true
		}
		for _, name := range ir.ScanCalls(flat) {
			funcSet[name] = true
		}
	}
	return Vocabulary{
		Variables: sortedKeys(varSet),
		Functions: sortedKeys(funcSet),
	}
}

// ResolveVariableOrder reconciles an explicitly declared variable order with
// the variables actually referenced. With no declaration the referenced set
// is used in sorted order. With a declaration, every referenced variable
// must appear in it (declared-but-unused variables are allowed; they become
// unused parameters, which keeps call sites stable across edits).
func ResolveVariableOrder(declared, referenced []string) ([]string, error) {
	if len(declared) == 0 {
		out := append([]string(nil), referenced...)
		sort.Strings(out)
		return out, nil
	}
	declaredSet := make(map[string]bool, len(declared))
	for _, v := range declared {
		declaredSet[v] = true
	}
	for _, v := range referenced {
		if !declaredSet[v] {
			return nil, &CompileError{
				Code:    ErrCodeUndeclaredVar,
				Message: "variable " + v + " is referenced but not declared",
				Expr:    -1,
				Offset:  -1,
			}
		}
	}
	return declared, nil
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
