package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"chronicle.dev/chronicle/internal/engine"
	chronicleerrors "chronicle.dev/chronicle/internal/errors"
	"chronicle.dev/chronicle/internal/git"
	"chronicle.dev/chronicle/testhelpers"
)

const historyRef = "auto/diary"

func TestBuildSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a snapshot and is a no-op when run again", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewRunner(scene.Dir)

		require.NoError(t, scene.Repo.CreateChange("edit", "file", true))

		first := engine.BuildSnapshot(ctx, runner, historyRef, "checkpoint")
		require.Equal(t, engine.SnapshotCreated, first.Outcome)
		require.NotEmpty(t, first.Hash)

		second := engine.BuildSnapshot(ctx, runner, historyRef, "checkpoint")
		require.Equal(t, engine.SnapshotNoOp, second.Outcome)

		tip, err := runner.ReadRef(historyRef)
		require.NoError(t, err)
		require.Equal(t, first.Hash, tip)
	})

	t.Run("stays a no-op on every later run until the next edit", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewRunner(scene.Dir)

		require.NoError(t, scene.Repo.CreateChange("edit", "file", true))
		first := engine.BuildSnapshot(ctx, runner, historyRef, "checkpoint")
		require.Equal(t, engine.SnapshotCreated, first.Outcome)

		// The staged edit keeps the status dirty against HEAD, which the
		// snapshot never moved. Ticks with nothing new must still settle on
		// NoOp instead of minting identical-tree snapshots forever.
		for i := 0; i < 3; i++ {
			result := engine.BuildSnapshot(ctx, runner, historyRef, "checkpoint")
			require.Equal(t, engine.SnapshotNoOp, result.Outcome, "run %d", i)
		}

		tip, err := runner.ReadRef(historyRef)
		require.NoError(t, err)
		require.Equal(t, first.Hash, tip)

		require.NoError(t, scene.Repo.CreateChange("another edit", "file", true))
		second := engine.BuildSnapshot(ctx, runner, historyRef, "checkpoint")
		require.Equal(t, engine.SnapshotCreated, second.Outcome)

		info, err := git.ReadCommit(scene.Dir, second.Hash)
		require.NoError(t, err)
		require.Equal(t, []string{first.Hash}, info.Parents)
	})

	t.Run("chains parents across consecutive snapshots", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewRunner(scene.Dir)

		var hashes []string
		for i, content := range []string{"one", "two", "three"} {
			require.NoError(t, scene.Repo.CreateChange(content, "file", true))
			result := engine.BuildSnapshot(ctx, runner, historyRef, "checkpoint")
			require.Equal(t, engine.SnapshotCreated, result.Outcome, "snapshot %d", i)
			hashes = append(hashes, result.Hash)
		}

		for i := 1; i < len(hashes); i++ {
			info, err := git.ReadCommit(scene.Dir, hashes[i])
			require.NoError(t, err)
			require.Equal(t, []string{hashes[i-1]}, info.Parents)
		}

		tip, err := runner.ReadRef(historyRef)
		require.NoError(t, err)
		require.Equal(t, hashes[len(hashes)-1], tip)
	})

	t.Run("creates a parentless snapshot in a repository with zero commits", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		runner := git.NewRunner(scene.Dir)

		require.NoError(t, scene.Repo.CreateChange("first content", "file", true))

		result := engine.BuildSnapshot(ctx, runner, historyRef, "checkpoint")
		require.Equal(t, engine.SnapshotCreated, result.Outcome)

		info, err := git.ReadCommit(scene.Dir, result.Hash)
		require.NoError(t, err)
		require.Empty(t, info.Parents)

		tip, err := runner.ReadRef(historyRef)
		require.NoError(t, err)
		require.Equal(t, result.Hash, tip)
	})

	t.Run("stores the caller's message verbatim", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewRunner(scene.Dir)

		require.NoError(t, scene.Repo.CreateChange("edit", "file", true))

		result := engine.BuildSnapshot(ctx, runner, historyRef, "my diary entry")
		require.Equal(t, engine.SnapshotCreated, result.Outcome)

		info, err := git.ReadCommit(scene.Dir, result.Hash)
		require.NoError(t, err)
		require.Contains(t, info.Message, "my diary entry")
	})

	t.Run("does not touch the checked-out branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewRunner(scene.Dir)

		before, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)

		require.NoError(t, scene.Repo.CreateChange("edit", "file", true))
		result := engine.BuildSnapshot(ctx, runner, historyRef, "checkpoint")
		require.Equal(t, engine.SnapshotCreated, result.Outcome)

		after, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, before, after)

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "main", branch)
	})
}

// interceptRunner wraps a real runner and fires a hook after the history
// ref's tip is read, simulating an external writer racing the pipeline.
type interceptRunner struct {
	git.Runner
	afterReadRef func()
}

func (r *interceptRunner) ReadRef(name string) (string, error) {
	sha, err := r.Runner.ReadRef(name)
	if r.afterReadRef != nil {
		r.afterReadRef()
	}
	return sha, err
}

func TestBuildSnapshotCASRejection(t *testing.T) {
	ctx := context.Background()

	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	real := git.NewRunner(scene.Dir)

	// Seed the history ref.
	require.NoError(t, scene.Repo.CreateChange("seed", "file", true))
	seed := engine.BuildSnapshot(ctx, real, historyRef, "seed")
	require.Equal(t, engine.SnapshotCreated, seed.Outcome)

	// Prepare the commit an external writer will point the ref at.
	tree, err := real.TreeOfRevision(ctx, "HEAD")
	require.NoError(t, err)
	external, err := real.CommitTree(ctx, tree, seed.Hash, "external")
	require.NoError(t, err)

	runner := &interceptRunner{
		Runner: real,
		afterReadRef: func() {
			require.NoError(t, scene.Repo.ForceUpdateRef(historyRef, external))
		},
	}

	require.NoError(t, scene.Repo.CreateChange("racing edit", "file", true))
	result := engine.BuildSnapshot(ctx, runner, historyRef, "mine")

	require.Equal(t, engine.SnapshotFailed, result.Outcome)
	require.Equal(t, engine.StageUpdateRef, result.Stage)
	require.ErrorIs(t, result.Err, chronicleerrors.ErrRefUpdateConflict)

	// The externally-set tip must remain unchanged.
	tip, err := real.ReadRef(historyRef)
	require.NoError(t, err)
	require.Equal(t, external, tip)
}
