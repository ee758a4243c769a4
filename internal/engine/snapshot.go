package engine

import (
	"context"
	"errors"

	chronicleerrors "chronicle.dev/chronicle/internal/errors"
	"chronicle.dev/chronicle/internal/git"
)

// BuildSnapshot captures the working directory into a new snapshot parented
// on historyRef's current tip (or parentless if the ref does not exist yet)
// and advances the ref atomically.
//
// The snapshot is built from the staged index rather than a checkout, so the
// files the user is editing are never disturbed and the checked-out branch is
// never required. The ref advance uses compare-and-swap against the tip read
// earlier; if anything else moved the ref in between, the update is rejected
// and reported instead of overwriting history.
//
// Emptiness is decided against the history ref's tip, not against HEAD: the
// status probe is only a cheap first check for a fully clean tree, because
// private-history snapshots never move HEAD and the status would otherwise
// stay dirty forever once an edit is staged. A candidate tree identical to
// the tip's tree is a NoOp.
func BuildSnapshot(ctx context.Context, r git.Runner, historyRef, message string) SnapshotResult {
	if err := r.StageAll(ctx); err != nil {
		return failed(StageStaging, err)
	}

	clean, err := r.StatusIsClean(ctx)
	if err != nil {
		return failed(StageStaging, err)
	}
	if clean {
		return SnapshotResult{Outcome: SnapshotNoOp}
	}

	tree, err := r.WriteIndexTree(ctx)
	if err != nil {
		return failed(StageTree, err)
	}

	parent, err := r.ReadRef(historyRef)
	if err != nil {
		if !errors.Is(err, chronicleerrors.ErrRefNotFound) {
			return failed(StageReadRef, err)
		}
		// First snapshot: the ref is created below with a parentless commit.
		parent = ""
	}

	if parent != "" {
		parentTree, err := r.TreeOfRevision(ctx, parent)
		if err != nil {
			return failed(StageReadRef, err)
		}
		if parentTree == tree {
			return SnapshotResult{Outcome: SnapshotNoOp}
		}
	}

	sha, err := r.CommitTree(ctx, tree, parent, message)
	if err != nil {
		return failed(StageCommit, err)
	}

	if err := r.UpdateRefCAS(ctx, historyRef, parent, sha); err != nil {
		return failed(StageUpdateRef, err)
	}

	return SnapshotResult{Outcome: SnapshotCreated, Hash: sha}
}
