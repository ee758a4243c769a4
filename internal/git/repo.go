package git

import (
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"

	chronicleerrors "chronicle.dev/chronicle/internal/errors"
)

// openRepository opens the git repository containing dir.
func openRepository(dir string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", chronicleerrors.ErrNotARepository, dir)
	}
	return repo, nil
}

// GetRepoRoot returns the root directory of the Git repository containing dir.
// If dir is empty the current working directory is used.
func GetRepoRoot(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	repo, err := openRepository(dir)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	return worktree.Filesystem.Root(), nil
}
