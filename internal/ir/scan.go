package ir

import "strings"

// ScanNames returns the distinct identifiers referenced by expression text,
// in first-occurrence order. Function-call names (an identifier immediately
// followed by an opening parenthesis) occupy a separate namespace and are
// excluded; so are numeric literals.
func ScanNames(expr string) []string {
	var names []string
	seen := make(map[string]bool)
	walkIdents(expr, func(name string, isCall bool) string {
		if !isCall && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return name
	})
	return names
}

// ScanCalls returns the distinct function-call names in expression text,
// in first-occurrence order.
func ScanCalls(expr string) []string {
	var names []string
	seen := make(map[string]bool)
	walkIdents(expr, func(name string, isCall bool) string {
		if isCall && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return name
	})
	return names
}

// RewriteNames replaces every non-call identifier occurrence for which
// lookup returns a replacement. Call names are never rewritten: aliases and
// slot bindings only ever cover value names, and the two namespaces must not
// bleed into each other.
func RewriteNames(expr string, lookup func(name string) (string, bool)) string {
	changed := false
	out := walkIdents(expr, func(name string, isCall bool) string {
		if isCall {
			return name
		}
		if repl, ok := lookup(name); ok {
			changed = true
			return repl
		}
		return name
	})
	if !changed {
		return expr
	}
	return out
}

// walkIdents scans expr byte-wise, invoking visit for every identifier with
// a flag marking call position, and splicing visit's return value into the
// rebuilt string. Non-identifier bytes pass through unchanged.
func walkIdents(expr string, visit func(name string, isCall bool) string) string {
	var b strings.Builder
	b.Grow(len(expr))
	for i := 0; i < len(expr); {
		c := expr[i]
		if !isIdentStart(c) {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(expr) && isIdentChar(expr[j]) {
			j++
		}
		isCall := j < len(expr) && expr[j] == '('
		b.WriteString(visit(expr[i:j], isCall))
		i = j
	}
	return b.String()
}
