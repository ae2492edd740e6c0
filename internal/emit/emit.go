// Package emit renders the final assignment sequence as a C function.
//
// The only arithmetic this package performs is spelling: rat(num,den) calls
// become exact double-precision quotients, inv(e) calls become reciprocals,
// result slots become writes into the output parameter. Any residual '/' or
// '^' reaching this point is an internal consistency error, not something
// to paper over.
package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/magv/rat2c/internal/ir"
)

// DefaultFunctionName is used when the caller does not pick one.
const DefaultFunctionName = "rat2c_eval"

// FunctionSpec describes the emitted function's fixed-arity signature: one
// output array parameter sized by Results, then one double parameter per
// variable in the given order.
type FunctionSpec struct {
	Name      string
	Variables []string
	Results   int
}

// Function writes the complete function definition: signature, scratch
// declarations at first use, and the assignment sequence. Output is
// deterministic, byte for byte, for a fixed spec and program.
func Function(w io.Writer, spec FunctionSpec, prog ir.Program) error {
	name := spec.Name
	if name == "" {
		name = DefaultFunctionName
	}

	params := make([]string, 0, len(spec.Variables)+1)
	params = append(params, "double *out")
	for _, v := range spec.Variables {
		params = append(params, "double "+v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "/* generated by rat2c: %d result(s), inputs (%s) */\n",
		spec.Results, strings.Join(spec.Variables, ", "))
	fmt.Fprintf(&b, "void %s(%s)\n{\n", name, strings.Join(params, ", "))

	declared := make(map[string]bool)
	for _, stmt := range prog {
		expr, err := lowerExpr(stmt.Expr)
		if err != nil {
			return fmt.Errorf("statement %q: %w", stmt.String(), err)
		}
		switch {
		case ir.IsResult(stmt.Target):
			fmt.Fprintf(&b, "    out[%d] = %s;\n", ir.ResultIndex(stmt.Target), expr)
		case declared[stmt.Target]:
			fmt.Fprintf(&b, "    %s = %s;\n", stmt.Target, expr)
		default:
			declared[stmt.Target] = true
			fmt.Fprintf(&b, "    double %s = %s;\n", stmt.Target, expr)
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// lowerExpr rewrites adapter calls into C arithmetic and result names into
// output references.
func lowerExpr(expr string) (string, error) {
	var b strings.Builder
	b.Grow(len(expr))
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == '/' || c == '^':
			return "", fmt.Errorf("unexpected %q in final expression", string(c))
		case !identStart(c):
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(expr) && identChar(expr[j]) {
			j++
		}
		name := expr[i:j]
		if j >= len(expr) || expr[j] != '(' {
			if ir.IsResult(name) {
				fmt.Fprintf(&b, "out[%d]", ir.ResultIndex(name))
			} else {
				b.WriteString(name)
			}
			i = j
			continue
		}
		close := matchParen(expr, j)
		args, err := splitArgs(expr[j+1 : close])
		if err != nil {
			return "", err
		}
		lowered := make([]string, len(args))
		for k, arg := range args {
			if lowered[k], err = lowerExpr(arg); err != nil {
				return "", err
			}
		}
		switch name {
		case "rat":
			if len(lowered) != 2 {
				return "", fmt.Errorf("rat() expects 2 arguments, got %d", len(lowered))
			}
			fmt.Fprintf(&b, "(%s./%s.)", lowered[0], lowered[1])
		case "inv":
			if len(lowered) != 1 {
				return "", fmt.Errorf("inv() expects 1 argument, got %d", len(lowered))
			}
			fmt.Fprintf(&b, "(1./(%s))", lowered[0])
		default:
			fmt.Fprintf(&b, "%s(%s)", name, strings.Join(lowered, ", "))
		}
		i = close + 1
	}
	return b.String(), nil
}

// splitArgs splits call-argument text at top-level commas.
func splitArgs(s string) ([]string, error) {
	if s == "" {
		return nil, fmt.Errorf("empty argument list")
	}
	var args []string
	start, depth := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return append(args, s[start:]), nil
}

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

func identStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func identChar(c byte) bool {
	return identStart(c) || (c >= '0' && c <= '9')
}
