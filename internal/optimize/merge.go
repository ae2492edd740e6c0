package optimize

import (
	"fmt"

	"github.com/magv/rat2c/internal/ir"
)

// Merge flattens per-fragment engine programs and the result bindings into
// one single-assignment stream.
//
// Engine programs freely reuse their own temporaries, so every non-final
// target is renamed into the aux<N> namespace, with right-hand sides
// rewritten through the current renaming as statements are visited in order.
// Fragment names (each defined once, by its block's final statement) and
// input variables pass through untouched.
//
// A result whose whole expression is a single fragment name referenced
// nowhere else absorbs that fragment: the fragment's defining statement is
// renamed to the result slot and the copy is dropped. This keeps the common
// one-expression-per-result case free of a trailing copy statement.
func Merge(fragments []ir.Fragment, programs []ir.Program, results ir.Program) (ir.Program, error) {
	if len(programs) != len(fragments) {
		return nil, fmt.Errorf("merge: %d programs for %d fragments", len(programs), len(fragments))
	}

	var merged ir.Program
	aux := 0
	for i, prog := range programs {
		rename := make(map[string]string)
		lookup := func(name string) (string, bool) {
			r, ok := rename[name]
			return r, ok
		}
		for _, stmt := range prog {
			expr := ir.RewriteNames(stmt.Expr, lookup)
			target := stmt.Target
			if target != fragments[i].Name {
				fresh := ir.AuxName(aux)
				aux++
				rename[target] = fresh
				target = fresh
			}
			merged = append(merged, ir.Statement{Target: target, Expr: expr})
		}
	}

	// Count fragment-name references across all right-hand sides to find
	// fragments referenced solely by their result binding.
	refs := make(map[string]int)
	for _, stmt := range merged {
		for _, name := range ir.ScanNames(stmt.Expr) {
			if ir.IsFragment(name) {
				refs[name]++
			}
		}
	}
	for _, stmt := range results {
		for _, name := range ir.ScanNames(stmt.Expr) {
			if ir.IsFragment(name) {
				refs[name]++
			}
		}
	}

	defIndex := make(map[string]int, len(fragments))
	for i, stmt := range merged {
		if ir.IsFragment(stmt.Target) {
			defIndex[stmt.Target] = i
		}
	}

	for _, stmt := range results {
		if ir.IsFragment(stmt.Expr) && refs[stmt.Expr] == 1 {
			idx, ok := defIndex[stmt.Expr]
			if !ok {
				return nil, fmt.Errorf("merge: result %s references undefined fragment %s", stmt.Target, stmt.Expr)
			}
			merged[idx].Target = stmt.Target
			continue
		}
		merged = append(merged, stmt)
	}
	return merged, nil
}
