package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magv/rat2c/internal/compiler"
	"github.com/magv/rat2c/internal/emit"
	"github.com/magv/rat2c/internal/engine"
	"github.com/magv/rat2c/internal/ir"
	"github.com/magv/rat2c/internal/optimize"
	"github.com/magv/rat2c/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Variables    []string
	Functions    []string
	OptLevel     int
	Workspace    string
	EngineBinary string
	FunctionName string
	CachePath    string
	JobFile      string
	Output       string

	// Engine allows overriding the engine implementation (for testing).
	// If nil, defaults to a FORM subprocess at EngineBinary.
	Engine engine.Engine
}

// CompileResult is the success payload of the compile command.
type CompileResult struct {
	Function   string `json:"function"`
	Code       string `json:"code,omitempty"`
	OutputFile string `json:"output_file,omitempty"`
	Fragments  int    `json:"fragments"`
	Statements int    `json:"statements"`
	Slots      int    `json:"slots"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	return newCompileCommand(&CompileOptions{RootOptions: rootOpts})
}

// newCompileCommand builds the command around pre-populated options, so
// tests can inject a scripted engine.
func newCompileCommand(opts *CompileOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [flags] <file>...",
		Short: "Compile expressions to a C function",
		Long: `Compile arithmetic/rational expressions to a straight-line C function.

Each input file holds one expression per line; blank lines and '#' comments
are ignored, and '-' reads from stdin. Expressions are decomposed into
parenthesis-bounded fragments, simplified by the external engine in one
batch, then merged, deduplicated, and packed into a minimal set of scratch
variables.

Example:
  rat2c compile --var x --var y exprs.txt
  rat2c compile --job job.yaml -o out.c`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Variables, "var", nil, "declared variable, in parameter order (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Functions, "function", nil, "opaque function name (repeatable)")
	cmd.Flags().IntVarP(&opts.OptLevel, "opt-level", "O", engine.DefaultOptLevel, "engine optimization level (0-4)")
	cmd.Flags().StringVar(&opts.Workspace, "workspace", engine.DefaultWorkspace, "engine memory budget")
	cmd.Flags().StringVar(&opts.EngineBinary, "engine", "form", "path to the engine binary")
	cmd.Flags().StringVar(&opts.FunctionName, "fun-name", emit.DefaultFunctionName, "name of the emitted C function")
	cmd.Flags().StringVar(&opts.CachePath, "cache", "", "path to the fragment cache database (empty = disabled)")
	cmd.Flags().StringVar(&opts.JobFile, "job", "", "YAML job file with expressions and settings")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")

	return cmd
}

func runCompile(opts *CompileOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	exprs, err := gatherJob(opts, args, cmd)
	if err != nil {
		return err
	}
	if len(exprs) == 0 {
		return NewExitError(ExitCommandError, "no input expressions")
	}
	formatter.VerboseLog("Compiling %d expression(s)", len(exprs))

	unit, err := compiler.Compile(exprs, opts.Variables, opts.Functions)
	if err != nil {
		return reportCompileError(formatter, err)
	}
	formatter.VerboseLog("Decomposed into %d fragment(s), variables (%v)",
		len(unit.Fragments), unit.Variables)

	eng := opts.Engine
	if eng == nil {
		eng = engine.NewFORM(opts.EngineBinary)
	}
	if opts.CachePath != "" {
		st, err := store.Open(opts.CachePath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open cache", err)
		}
		defer st.Close()
		eng = &store.CachedEngine{Inner: eng, Store: st}
	}

	batch := &engine.Batch{
		Fragments: unit.Fragments,
		Variables: unit.Variables,
		Functions: unit.Functions,
		OptLevel:  opts.OptLevel,
		Workspace: opts.Workspace,
	}
	var programs []ir.Program
	if len(unit.Fragments) > 0 {
		programs, err = eng.Simplify(cmd.Context(), batch)
		if err != nil {
			return reportEngineError(formatter, err)
		}
	}

	final, stats, err := optimize.Run(unit.Fragments, programs, unit.Results)
	if err != nil {
		return reportEngineError(formatter, err)
	}
	formatter.VerboseLog("Pipeline: %d merged, %d expanded, %d after aliases, %d after CSE, %d final, %d slot(s)",
		stats.Merged, stats.Expanded, stats.AfterAliases, stats.AfterCSE, stats.Final, stats.Slots)

	spec := emit.FunctionSpec{
		Name:      opts.FunctionName,
		Variables: unit.Variables,
		Results:   len(unit.Results),
	}
	var code strings.Builder
	if err := emit.Function(&code, spec, final); err != nil {
		formatter.Error("EMIT", err.Error(), nil)
		return WrapExitError(ExitFailure, "code generation failed", err)
	}

	result := &CompileResult{
		Function:   spec.Name,
		Fragments:  len(unit.Fragments),
		Statements: stats.Final,
		Slots:      stats.Slots,
	}
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(code.String()), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
		result.OutputFile = opts.Output
		if opts.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintf(formatter.Writer, "✓ Wrote %s: %d statement(s), %d slot(s)\n",
			opts.Output, result.Statements, result.Slots)
		return nil
	}

	result.Code = code.String()
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	_, err = fmt.Fprint(formatter.Writer, result.Code)
	return err
}

// gatherJob merges the job file (if any) with command-line flags. Flags set
// explicitly on the command line win over job-file values.
func gatherJob(opts *CompileOptions, args []string, cmd *cobra.Command) ([]string, error) {
	var exprs []string
	if opts.JobFile != "" {
		job, err := LoadJob(opts.JobFile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid job file", err)
		}
		exprs = append(exprs, job.Expressions...)
		if len(opts.Variables) == 0 {
			opts.Variables = job.Variables
		}
		if len(opts.Functions) == 0 {
			opts.Functions = job.Functions
		}
		if job.OptLevel != nil && !cmd.Flags().Changed("opt-level") {
			opts.OptLevel = *job.OptLevel
		}
		if job.Workspace != "" && !cmd.Flags().Changed("workspace") {
			opts.Workspace = job.Workspace
		}
		if job.FunctionName != "" && !cmd.Flags().Changed("fun-name") {
			opts.FunctionName = job.FunctionName
		}
	}

	fromFiles, err := readInputFiles(cmd.InOrStdin(), args)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "reading input", err)
	}
	return append(exprs, fromFiles...), nil
}

// reportCompileError emits an input-validation failure and maps it to the
// command-error exit code.
func reportCompileError(formatter *OutputFormatter, err error) error {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		formatter.Error(string(ce.Code), ce.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid input", err)
	}
	formatter.Error("INVALID_INPUT", err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid input", err)
}

// reportEngineError emits an engine or pipeline failure and maps it to the
// pipeline-failure exit code. Engine diagnostics are surfaced verbatim.
func reportEngineError(formatter *OutputFormatter, err error) error {
	var ee *engine.EngineError
	if errors.As(err, &ee) {
		formatter.Error(string(ee.Code), ee.Message, ee.Diagnostics)
		return WrapExitError(ExitFailure, "engine invocation failed", err)
	}
	var ce *engine.ContractError
	if errors.As(err, &ce) {
		formatter.Error(string(ce.Code), ce.Error(), nil)
		return WrapExitError(ExitFailure, "engine output rejected", err)
	}
	if errors.Is(err, optimize.ErrBadExponent) {
		formatter.Error("BAD_EXPONENT", err.Error(), nil)
		return WrapExitError(ExitFailure, "engine output rejected", err)
	}
	formatter.Error("PIPELINE", err.Error(), nil)
	return WrapExitError(ExitFailure, "pipeline failed", err)
}
