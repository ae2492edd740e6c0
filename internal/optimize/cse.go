package optimize

import "github.com/magv/rat2c/internal/ir"

// EliminateCommonSubexpressions performs global, purely textual CSE over the
// whole stream. A map from alias-resolved right-hand-side text to the first
// target that produced it is maintained; a later statement with an identical
// resolved right-hand side is dropped and its target aliased to the earlier
// one, propagated forward.
//
// Result slots are never elimination sources: a result statement is never
// dropped and never recorded in the map. A result whose right-hand side
// duplicates an earlier computation is reduced to a copy of the earlier
// target instead of recomputing.
//
// Matching is textual by design: algebraically equal but differently
// ordered expressions stay separate, since canonical ordering is the
// external engine's responsibility.
func EliminateCommonSubexpressions(prog ir.Program) ir.Program {
	firstTarget := make(map[string]string) // resolved RHS text -> first target
	aliases := make(map[string]string)
	lookup := func(name string) (string, bool) {
		r, ok := aliases[name]
		return r, ok
	}
	out := make(ir.Program, 0, len(prog))
	for _, stmt := range prog {
		expr := ir.RewriteNames(stmt.Expr, lookup)
		if first, ok := firstTarget[expr]; ok {
			if ir.IsResult(stmt.Target) {
				out = append(out, ir.Statement{Target: stmt.Target, Expr: first})
				continue
			}
			aliases[stmt.Target] = first
			continue
		}
		if !ir.IsResult(stmt.Target) {
			firstTarget[expr] = stmt.Target
		}
		out = append(out, ir.Statement{Target: stmt.Target, Expr: expr})
	}
	return out
}
