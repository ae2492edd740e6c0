package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magv/rat2c/internal/compiler"
)

// ExpandOptions holds flags for the expand command.
type ExpandOptions struct {
	*RootOptions
	Variables []string
	Functions []string
}

// ExpandResult is the success payload of the expand command.
type ExpandResult struct {
	Variables []string         `json:"variables"`
	Functions []string         `json:"functions,omitempty"`
	Fragments []ExpandFragment `json:"fragments"`
	Results   []string         `json:"results"`
}

// ExpandFragment is one decomposed fragment in the expand output.
type ExpandFragment struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// NewExpandCommand creates the expand command.
func NewExpandCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExpandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "expand <file>...",
		Short: "Show the parenthesis decomposition without invoking the engine",
		Long: `Validate and decompose expressions, printing the fragment table.

This is a debugging aid: it shows exactly what would be submitted to the
external engine, in submission order, without invoking it.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Variables, "var", nil, "declared variable, in parameter order (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Functions, "function", nil, "opaque function name (repeatable)")

	return cmd
}

func runExpand(opts *ExpandOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	exprs, err := readInputFiles(cmd.InOrStdin(), args)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading input", err)
	}
	if len(exprs) == 0 {
		return NewExitError(ExitCommandError, "no input expressions")
	}

	unit, err := compiler.Compile(exprs, opts.Variables, opts.Functions)
	if err != nil {
		return reportCompileError(formatter, err)
	}

	result := &ExpandResult{
		Variables: unit.Variables,
		Functions: unit.Functions,
		Fragments: make([]ExpandFragment, len(unit.Fragments)),
		Results:   make([]string, len(unit.Results)),
	}
	for i, frag := range unit.Fragments {
		result.Fragments[i] = ExpandFragment{Name: frag.Name, Body: frag.Body}
	}
	for i, stmt := range unit.Results {
		result.Results[i] = stmt.String()
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	for _, frag := range result.Fragments {
		fmt.Fprintf(formatter.Writer, "%s = %s\n", frag.Name, frag.Body)
	}
	for _, stmt := range unit.Results {
		fmt.Fprintf(formatter.Writer, "%s = %s\n", stmt.Target, stmt.Expr)
	}
	return nil
}
