package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chronicle.dev/chronicle/internal/engine"
	"chronicle.dev/chronicle/internal/git"
	"chronicle.dev/chronicle/internal/output"
)

// newOnceCmd creates the once command
func newOnceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single snapshot pipeline pass and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repoRoot, err := git.GetRepoRoot("")
			if err != nil {
				return err
			}

			splog := output.NewSplog()
			applyQuiet(cmd, splog)
			eng := engine.NewWithRunner(git.NewRunner(repoRoot), nil, splog)

			result, err := eng.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			switch result.Outcome {
			case engine.SnapshotCreated:
				splog.Info("snapshot %s", output.ColorGreen(result.Hash))
			case engine.SnapshotNoOp:
				splog.Info("no changes")
			case engine.SnapshotFailed:
				return fmt.Errorf("snapshot failed at %s: %w", result.Stage, result.Err)
			}
			return nil
		},
	}
}
