package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"chronicle.dev/chronicle/internal/git"
	"chronicle.dev/chronicle/testhelpers"
)

func TestStageAll(t *testing.T) {
	t.Run("stages all changes including untracked", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewRunner(scene.Dir)

		require.NoError(t, scene.Repo.CreateChange("new content", "tracked", true))
		require.NoError(t, scene.Repo.CreateChange("untracked", "newfile", true))

		require.NoError(t, runner.StageAll(context.Background()))

		staged, err := scene.Repo.RunGitCommandAndGetOutput("diff", "--cached", "--name-only")
		require.NoError(t, err)
		require.NotEmpty(t, staged)
	})

	t.Run("is safe in a repository with zero commits", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		runner := git.NewRunner(scene.Dir)

		require.NoError(t, runner.StageAll(context.Background()))
	})
}

func TestStatusIsClean(t *testing.T) {
	t.Run("reports clean after a commit", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewRunner(scene.Dir)

		clean, err := runner.StatusIsClean(context.Background())
		require.NoError(t, err)
		require.True(t, clean)
	})

	t.Run("reports dirty with pending changes", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewRunner(scene.Dir)

		require.NoError(t, scene.Repo.CreateChange("pending", "pending", true))

		clean, err := runner.StatusIsClean(context.Background())
		require.NoError(t, err)
		require.False(t, clean)
	})

	t.Run("reports clean in an empty repository", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		runner := git.NewRunner(scene.Dir)

		clean, err := runner.StatusIsClean(context.Background())
		require.NoError(t, err)
		require.True(t, clean)
	})
}
