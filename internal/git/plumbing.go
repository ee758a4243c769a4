package git

import (
	"context"
	"errors"
	"fmt"

	chronicleerrors "chronicle.dev/chronicle/internal/errors"
)

// WriteIndexTree hashes the currently staged content into a tree object and
// returns its hash. The working tree and HEAD are left untouched.
func (r *realRunner) WriteIndexTree(ctx context.Context) (string, error) {
	sha, err := r.cmd.Run(ctx, "write-tree")
	if err != nil {
		return "", fmt.Errorf("failed to write tree: %w", err)
	}
	return sha, nil
}

// CommitTree creates a commit object for the given tree. If parent is empty
// the commit is parentless. No ref is moved and nothing is checked out.
func (r *realRunner) CommitTree(ctx context.Context, tree, parent, message string) (string, error) {
	args := []string{"commit-tree", tree}
	if parent != "" {
		args = append(args, "-p", parent)
	}
	args = append(args, "-m", message)

	sha, err := r.cmd.Run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to create commit object: %w", err)
	}
	return sha, nil
}

// UpdateRefCAS atomically points the branch ref name at newValue, but only if
// the ref currently points at expectedOld. An empty expectedOld requires that
// the ref does not exist yet. On mismatch the update is rejected and a
// RefUpdateConflictError is returned; the ref is never overwritten.
func (r *realRunner) UpdateRefCAS(ctx context.Context, name, expectedOld, newValue string) error {
	refName := "refs/heads/" + name

	// git update-ref enforces the compare-and-swap: the third argument is the
	// required old value, with the empty string meaning "must not exist".
	_, err := r.cmd.Run(ctx, "update-ref", refName, newValue, expectedOld)
	if err == nil {
		return nil
	}

	// Classify the failure structurally: re-read the ref and compare against
	// the expected old value instead of pattern-matching git's error text.
	current, readErr := r.ReadRef(name)
	if readErr == nil && current != expectedOld {
		return chronicleerrors.NewRefUpdateConflictError(refName, expectedOld)
	}
	if errors.Is(readErr, chronicleerrors.ErrRefNotFound) && expectedOld != "" {
		return chronicleerrors.NewRefUpdateConflictError(refName, expectedOld)
	}
	return fmt.Errorf("failed to update ref %s: %w", refName, err)
}

// CreateTag creates a lightweight tag pointing at target. Callers check
// TagExists first; a lost race still fails here rather than moving the tag.
func (r *realRunner) CreateTag(ctx context.Context, name, target string) error {
	_, err := r.cmd.Run(ctx, "tag", name, target)
	if err != nil {
		if exists, checkErr := r.TagExists(name); checkErr == nil && exists {
			return chronicleerrors.NewTagExistsError(name)
		}
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// DirectCommit commits whatever is staged onto the currently checked-out
// branch. A clean status is the expected steady state and is reported as
// CommitNoChanges rather than an error.
func (r *realRunner) DirectCommit(ctx context.Context, message string) (CommitResult, error) {
	clean, err := r.StatusIsClean(ctx)
	if err != nil {
		return CommitNoChanges, err
	}
	if clean {
		return CommitNoChanges, nil
	}

	_, err = r.cmd.Run(ctx, "commit", "-m", message)
	if err != nil {
		return CommitNoChanges, fmt.Errorf("failed to commit: %w", err)
	}
	return CommitCreated, nil
}
