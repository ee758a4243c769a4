package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"chronicle.dev/chronicle/internal/config"
	"chronicle.dev/chronicle/internal/engine"
	"chronicle.dev/chronicle/internal/git"
	"chronicle.dev/chronicle/internal/output"
)

// newStartCmd creates the start command
func newStartCmd() *cobra.Command {
	var (
		intervalMillis int
		branchName     string
		message        string
		direct         bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the snapshot scheduler in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repoRoot, err := git.GetRepoRoot("")
			if err != nil {
				return err
			}

			splog, err := output.NewSplogWithConfig(output.GetLogFilePath())
			if err != nil {
				return err
			}
			defer func() { _ = splog.Close() }()
			applyQuiet(cmd, splog)

			cfg, err := config.Load(repoRoot)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("interval") {
				cfg.Interval = time.Duration(intervalMillis) * time.Millisecond
			}
			if cmd.Flags().Changed("branch") {
				cfg.BranchName = branchName
			}
			if cmd.Flags().Changed("message") {
				cfg.CommitMessage = message
			}
			if direct {
				cfg.SeparateBranch = false
			}

			eng := engine.NewWithRunner(git.NewRunner(repoRoot), cfg, splog)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := eng.Start(ctx); err != nil {
				return err
			}
			if !eng.Status().Running {
				// Disabled by configuration; reported already.
				return nil
			}

			<-ctx.Done()
			eng.Stop()
			return nil
		},
	}

	cmd.Flags().IntVar(&intervalMillis, "interval", 0, "snapshot interval in milliseconds")
	cmd.Flags().StringVar(&branchName, "branch", "", "history ref (branch) name for snapshots")
	cmd.Flags().StringVar(&message, "message", "", "commit message stored on every snapshot")
	cmd.Flags().BoolVar(&direct, "direct", false, "commit on the checked-out branch instead of a private ref")

	return cmd
}
