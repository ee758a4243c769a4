package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"chronicle.dev/chronicle/internal/config"
	"chronicle.dev/chronicle/internal/engine"
	chronicleerrors "chronicle.dev/chronicle/internal/errors"
	"chronicle.dev/chronicle/internal/git"
	"chronicle.dev/chronicle/internal/output"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the history ref tip, session markers and resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repoRoot, err := git.GetRepoRoot("")
			if err != nil {
				return err
			}

			cfg, err := config.Load(repoRoot)
			if err != nil {
				return err
			}

			splog := output.NewSplog()
			applyQuiet(cmd, splog)
			splog.Info("repository:  %s", repoRoot)
			splog.Info("mode:        %s", modeLabel(cfg))
			splog.Info("interval:    %s", cfg.EffectiveInterval())
			splog.Info("history ref: %s", output.ColorCyan(cfg.BranchName))

			runner := git.NewRunner(repoRoot)
			tip, err := runner.ReadRef(cfg.BranchName)
			switch {
			case errors.Is(err, chronicleerrors.ErrRefNotFound):
				splog.Info("tip:         %s", output.Dim("(no snapshots yet)"))
			case err != nil:
				return err
			default:
				info, err := git.ReadCommit(repoRoot, tip)
				if err != nil {
					return err
				}
				splog.Info("tip:         %s %s", output.ColorGreen(shortHash(info.Hash)), firstLine(info.Message))
				if len(info.Parents) > 0 {
					splog.Info("parent:      %s", output.Dim(shortHash(info.Parents[0])))
				}
			}

			tags, err := git.ListSessionTags(repoRoot, engine.SessionTagPrefix)
			if err != nil {
				return err
			}
			splog.Info("sessions:    %d", len(tags))

			return nil
		},
	}
}

func modeLabel(cfg *config.Config) string {
	if cfg.SeparateBranch {
		return "private history"
	}
	return output.ColorYellow("direct (commits on the checked-out branch)")
}

func shortHash(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
