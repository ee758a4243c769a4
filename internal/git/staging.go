package git

import (
	"context"
	"fmt"
)

// StageAll stages all changes including untracked files
func (r *realRunner) StageAll(ctx context.Context) error {
	_, err := r.cmd.Run(ctx, "add", "-A")
	if err != nil {
		return fmt.Errorf("failed to stage all changes: %w", err)
	}
	return nil
}

// StatusIsClean reports whether the working tree and index match HEAD.
// Safe to call in a repository with zero commits. Note that this compares
// against HEAD, not against the snapshot history ref; a clean status means
// no snapshot is needed, but a dirty one does not by itself mean new content.
func (r *realRunner) StatusIsClean(ctx context.Context) (bool, error) {
	output, err := r.cmd.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to read status: %w", err)
	}
	return output == "", nil
}
