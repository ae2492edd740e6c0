package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magv/rat2c/internal/store"
)

// CacheOptions holds flags for the cache subcommands.
type CacheOptions struct {
	*RootOptions
	CachePath string
}

// CacheStats is the success payload of `cache stats`.
type CacheStats struct {
	Fragments int64 `json:"fragments"`
	Batches   int64 `json:"batches"`
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the fragment cache",
	}
	cmd.PersistentFlags().StringVar(&opts.CachePath, "cache", "", "path to the fragment cache database (required)")
	_ = cmd.MarkPersistentFlagRequired("cache")

	cmd.AddCommand(newCacheStatsCommand(opts))
	cmd.AddCommand(newCacheClearCommand(opts))
	return cmd
}

func newCacheStatsCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show cached fragment and batch counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			st, err := store.Open(opts.CachePath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open cache", err)
			}
			defer st.Close()

			fragments, batches, err := st.Stats(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to read cache stats", err)
			}
			if opts.Format == "json" {
				return formatter.Success(&CacheStats{Fragments: fragments, Batches: batches})
			}
			fmt.Fprintf(formatter.Writer, "%d fragment(s) across %d batch(es)\n", fragments, batches)
			return nil
		},
	}
}

func newCacheClearCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Remove all cached fragments",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			st, err := store.Open(opts.CachePath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open cache", err)
			}
			defer st.Close()

			if err := st.Clear(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "failed to clear cache", err)
			}
			if opts.Format == "json" {
				return formatter.Success("cleared")
			}
			fmt.Fprintln(formatter.Writer, "✓ Cache cleared")
			return nil
		},
	}
}
