// Package cli wires the chronicle commands: the host-facing actions that
// start the scheduler, run one pipeline pass, and query status.
package cli

import (
	"github.com/spf13/cobra"

	"chronicle.dev/chronicle/internal/output"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chronicle",
		Short: "Chronicle keeps a private, automatic snapshot history of your working directory",
		Long: `Chronicle periodically captures the state of a working directory into an
immutable, linearly-chained history of snapshots on a private ref, without
disturbing your active line of work: no checkout, no commits on your branch
unless configured otherwise.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().Bool("quiet", false, "suppress console output")

	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newOnceCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

// applyQuiet propagates the root --quiet flag to a command's logger.
func applyQuiet(cmd *cobra.Command, splog *output.Splog) {
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil && quiet {
		splog.SetQuiet(true)
	}
}
