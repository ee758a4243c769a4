package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	chronicleerrors "chronicle.dev/chronicle/internal/errors"
)

// ReadRef returns the revision a branch ref points at. Absence is a
// structured outcome: ErrRefNotFound, never an exit-status guess.
func (r *realRunner) ReadRef(name string) (string, error) {
	repo, err := openRepository(r.workingDir)
	if err != nil {
		return "", err
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", chronicleerrors.ErrRefNotFound
		}
		return "", fmt.Errorf("failed to read ref %s: %w", name, err)
	}
	return ref.Hash().String(), nil
}

// TagExists reports whether a tag with the given name exists.
func (r *realRunner) TagExists(name string) (bool, error) {
	repo, err := openRepository(r.workingDir)
	if err != nil {
		return false, err
	}

	_, err = repo.Reference(plumbing.NewTagReferenceName(name), false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read tag %s: %w", name, err)
	}
	return true, nil
}

// HeadRevision returns the revision HEAD points at, or ErrRefNotFound in a
// repository with zero commits (unborn HEAD).
func (r *realRunner) HeadRevision() (string, error) {
	repo, err := openRepository(r.workingDir)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", chronicleerrors.ErrRefNotFound
		}
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// TreeOfRevision returns the tree hash recorded by the commit at revision.
func (r *realRunner) TreeOfRevision(_ context.Context, revision string) (string, error) {
	repo, err := openRepository(r.workingDir)
	if err != nil {
		return "", err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %s: %w", revision, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	return commit.TreeHash.String(), nil
}

// CommitInfo describes a snapshot commit for status display and verification.
type CommitInfo struct {
	Hash    string
	Tree    string
	Parents []string
	Message string
}

// ReadCommit reads a commit object from the repository at dir.
func ReadCommit(dir, revision string) (*CommitInfo, error) {
	repo, err := openRepository(dir)
	if err != nil {
		return nil, err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %s: %w", revision, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}

	info := &CommitInfo{
		Hash:    commit.Hash.String(),
		Tree:    commit.TreeHash.String(),
		Message: commit.Message,
	}
	for _, parent := range commit.ParentHashes {
		info.Parents = append(info.Parents, parent.String())
	}
	return info, nil
}

// ListSessionTags returns the names of tags with the given prefix, mapped to
// the revisions they point at.
func ListSessionTags(dir, prefix string) (map[string]string, error) {
	repo, err := openRepository(dir)
	if err != nil {
		return nil, err
	}

	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	result := make(map[string]string)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			result[name] = ref.Hash().String()
		}
		return nil
	})
	return result, err
}
