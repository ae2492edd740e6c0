package optimize

import "github.com/magv/rat2c/internal/ir"

// EliminateAliases drops pure copy statements. A statement whose right-hand
// side is syntactically a single bare name records its target as an alias
// for that name and disappears; every later right-hand-side occurrence of
// the target is rewritten through the alias table. Aliases resolve
// transitively because right-hand sides are rewritten before the alias is
// recorded.
//
// Result slots must keep an explicit assignment, so a copy into a result
// slot survives (with its right-hand side rewritten).
func EliminateAliases(prog ir.Program) ir.Program {
	aliases := make(map[string]string)
	lookup := func(name string) (string, bool) {
		r, ok := aliases[name]
		return r, ok
	}
	out := make(ir.Program, 0, len(prog))
	for _, stmt := range prog {
		expr := ir.RewriteNames(stmt.Expr, lookup)
		if ir.IsIdent(expr) && !ir.IsResult(stmt.Target) {
			aliases[stmt.Target] = expr
			continue
		}
		out = append(out, ir.Statement{Target: stmt.Target, Expr: expr})
	}
	return out
}
