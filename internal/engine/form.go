package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/magv/rat2c/internal/ir"
)

// OutputSentinel separates per-fragment output blocks in the engine's
// combined stdout. The adapter splits on it to recover programs positionally.
const OutputSentinel = "#=SPLIT=#"

// Adapter function names the engine uses in its output.
const (
	RatCall = "rat" // rat(num,den): exact rational coefficient
	InvCall = "inv" // inv(e): reciprocal, produced for negative exponents
	PowCall = "pow" // pow(e,n): integer exponentiation with literal n
)

// FORM invokes a FORM binary as the external simplifier.
type FORM struct {
	// Binary is the engine executable; defaults to "form" on PATH.
	Binary string
}

// NewFORM returns an adapter around the given binary path ("" selects
// "form" from PATH).
func NewFORM(binary string) *FORM {
	if binary == "" {
		binary = "form"
	}
	return &FORM{Binary: binary}
}

// Simplify writes the batch script, runs the engine once, and parses the
// combined output back into per-fragment programs. Any non-zero exit is
// fatal for the whole batch; the engine's diagnostics are surfaced verbatim.
func (f *FORM) Simplify(ctx context.Context, batch *Batch) ([]ir.Program, error) {
	script := Script(batch)

	file, err := os.CreateTemp("", "rat2c-*.frm")
	if err != nil {
		return nil, fmt.Errorf("creating engine script: %w", err)
	}
	defer os.Remove(file.Name())
	if _, err := file.WriteString(script); err != nil {
		file.Close()
		return nil, fmt.Errorf("writing engine script: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("writing engine script: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Binary, "-q", file.Name())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &EngineError{
			Code:        ErrCodeEngineFailed,
			Message:     fmt.Sprintf("%s exited abnormally", f.Binary),
			Diagnostics: strings.TrimSpace(stderr.String() + "\n" + stdout.String()),
			Err:         err,
		}
	}

	return ParseBatchOutput(stdout.String(), batch.Fragments)
}

// Script renders the FORM batch script: vocabulary declarations, then one
// optimize/write stanza per fragment in submission order, each followed by
// the output sentinel.
func Script(batch *Batch) string {
	var b strings.Builder

	workspace := batch.Workspace
	if workspace == "" {
		workspace = DefaultWorkspace
	}
	fmt.Fprintf(&b, "#: WorkSpace %s\n", workspace)
	b.WriteString("Off statistics;\n")

	symbols := make([]string, 0, len(batch.Variables)+len(batch.Fragments))
	symbols = append(symbols, batch.Variables...)
	for _, frag := range batch.Fragments {
		symbols = append(symbols, frag.Name)
	}
	if len(symbols) > 0 {
		fmt.Fprintf(&b, "Symbols %s;\n", strings.Join(symbols, ","))
	}

	functions := append([]string{RatCall, InvCall, PowCall}, batch.Functions...)
	fmt.Fprintf(&b, "CFunctions %s;\n", strings.Join(functions, ","))
	fmt.Fprintf(&b, "PolyRatFun %s;\n", RatCall)
	fmt.Fprintf(&b, "Format O%d;\n", batch.OptLevel)
	b.WriteString("Format nospaces;\n")

	for _, frag := range batch.Fragments {
		fmt.Fprintf(&b, "Local %s = %s;\n", frag.Name, frag.Body)
		b.WriteString(".sort\n")
		fmt.Fprintf(&b, "#optimize %s\n", frag.Name)
		b.WriteString("#write \"%O\"\n")
		fmt.Fprintf(&b, "#write \"%s=%%e\" %s\n", frag.Name, frag.Name)
		fmt.Fprintf(&b, "#write \"%s\"\n", OutputSentinel)
		b.WriteString("#clearoptimize\n")
		b.WriteString(".sort\n")
		fmt.Fprintf(&b, "Drop %s;\n", frag.Name)
		b.WriteString(".sort\n")
	}
	b.WriteString(".end\n")
	return b.String()
}

// ParseBatchOutput splits combined engine output on the sentinel and parses
// each block into a program. Blocks are matched to fragments positionally;
// the final statement of block i is renamed to fragments[i].Name. Outputs
// are contract-checked before being returned.
func ParseBatchOutput(output string, fragments []ir.Fragment) ([]ir.Program, error) {
	blocks := strings.Split(output, OutputSentinel)

	// The text after the last sentinel must be noise-free.
	tail := strings.TrimSpace(blocks[len(blocks)-1])
	if tail != "" {
		return nil, &EngineError{
			Code:    ErrCodeBatchShape,
			Message: fmt.Sprintf("unexpected trailing output after last sentinel: %q", truncate(tail, 80)),
		}
	}
	blocks = blocks[:len(blocks)-1]

	if len(blocks) != len(fragments) {
		return nil, &EngineError{
			Code: ErrCodeBatchShape,
			Message: fmt.Sprintf("engine returned %d output blocks for %d fragments",
				len(blocks), len(fragments)),
		}
	}

	programs := make([]ir.Program, len(fragments))
	for i, block := range blocks {
		prog, err := ir.ParseProgram(block)
		if err != nil {
			return nil, &ContractError{
				Code:     ErrCodeParseOutput,
				Message:  err.Error(),
				Fragment: fragments[i].Name,
			}
		}
		if len(prog) == 0 {
			return nil, &ContractError{
				Code:     ErrCodeParseOutput,
				Message:  "empty output block",
				Fragment: fragments[i].Name,
			}
		}
		prog[len(prog)-1].Target = fragments[i].Name
		if err := checkContract(prog, fragments[i].Name); err != nil {
			return nil, err
		}
		programs[i] = prog
	}
	return programs, nil
}

// checkContract rejects engine output the rest of the pipeline cannot
// handle. These are consistency errors, never auto-corrected: emitting code
// from a violating program could be silently wrong.
func checkContract(prog ir.Program, fragment string) error {
	for _, stmt := range prog {
		if strings.IndexByte(stmt.Expr, '/') >= 0 {
			return &ContractError{
				Code:     ErrCodeResidualDivision,
				Message:  fmt.Sprintf("division in %q", stmt.String()),
				Fragment: fragment,
			}
		}
		if strings.IndexByte(stmt.Expr, '.') >= 0 {
			return &ContractError{
				Code:     ErrCodeFloatMarker,
				Message:  fmt.Sprintf("floating-point marker in %q", stmt.String()),
				Fragment: fragment,
			}
		}
		if strings.IndexByte(stmt.Expr, '^') >= 0 {
			return &ContractError{
				Code:     ErrCodeResidualPower,
				Message:  fmt.Sprintf("'^' in %q; integer powers must arrive as %s()", stmt.String(), PowCall),
				Fragment: fragment,
			}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
