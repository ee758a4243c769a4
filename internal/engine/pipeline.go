package engine

import (
	"context"

	"chronicle.dev/chronicle/internal/config"
	"chronicle.dev/chronicle/internal/git"
)

// RunPipeline performs one snapshot pass in the configured mode.
//
// Private-history mode builds a snapshot against the history ref.
// Direct mode stages and commits on whatever branch is checked out,
// treating "nothing to commit" exactly like a snapshot NoOp.
func RunPipeline(ctx context.Context, r git.Runner, cfg *config.Config) SnapshotResult {
	if cfg.SeparateBranch {
		return BuildSnapshot(ctx, r, cfg.BranchName, cfg.CommitMessage)
	}
	return directCommit(ctx, r, cfg.CommitMessage)
}

func directCommit(ctx context.Context, r git.Runner, message string) SnapshotResult {
	if err := r.StageAll(ctx); err != nil {
		return failed(StageStaging, err)
	}

	result, err := r.DirectCommit(ctx, message)
	if err != nil {
		return failed(StageCommit, err)
	}
	if result == git.CommitNoChanges {
		return SnapshotResult{Outcome: SnapshotNoOp}
	}

	sha, err := r.HeadRevision()
	if err != nil {
		// The commit landed; only the readback failed.
		return SnapshotResult{Outcome: SnapshotCreated}
	}
	return SnapshotResult{Outcome: SnapshotCreated, Hash: sha}
}
