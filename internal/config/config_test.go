package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chronicle.dev/chronicle/internal/config"
	"chronicle.dev/chronicle/testhelpers"
)

func TestLoad(t *testing.T) {
	t.Run("returns defaults when no config file exists", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		cfg, err := config.Load(scene.Dir)
		require.NoError(t, err)
		require.Equal(t, config.Default(), cfg)
	})

	t.Run("reads values from the repository config file", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		contents := "enabled: false\ninterval: 30000\ncommitMessage: checkpoint\nseparateBranch: false\nbranchName: auto/diary\n"
		configPath := filepath.Join(scene.Dir, ".git", config.ConfigFileName)
		require.NoError(t, os.WriteFile(configPath, []byte(contents), 0600))

		cfg, err := config.Load(scene.Dir)
		require.NoError(t, err)
		require.False(t, cfg.Enabled)
		require.Equal(t, 30*time.Second, cfg.Interval)
		require.Equal(t, "checkpoint", cfg.CommitMessage)
		require.False(t, cfg.SeparateBranch)
		require.Equal(t, "auto/diary", cfg.BranchName)
	})

	t.Run("falls back to defaults for empty strings", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		contents := "commitMessage: \"\"\nbranchName: \"\"\n"
		configPath := filepath.Join(scene.Dir, ".git", config.ConfigFileName)
		require.NoError(t, os.WriteFile(configPath, []byte(contents), 0600))

		cfg, err := config.Load(scene.Dir)
		require.NoError(t, err)
		require.Equal(t, config.Default().CommitMessage, cfg.CommitMessage)
		require.Equal(t, config.Default().BranchName, cfg.BranchName)
	})

	t.Run("rejects a malformed config file", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		configPath := filepath.Join(scene.Dir, ".git", config.ConfigFileName)
		require.NoError(t, os.WriteFile(configPath, []byte("{not yaml"), 0600))

		_, err := config.Load(scene.Dir)
		require.Error(t, err)
	})
}

func TestWrite(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	cfg := config.Default()
	cfg.Interval = 90 * time.Second
	cfg.BranchName = "auto/diary"

	require.NoError(t, config.Write(scene.Dir, cfg))

	loaded, err := config.Load(scene.Dir)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestEffectiveInterval(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, 5*time.Minute, cfg.EffectiveInterval())

	cfg.Interval = 50 * time.Millisecond
	require.Equal(t, config.MinimumInterval, cfg.EffectiveInterval())

	cfg.Interval = config.MinimumInterval
	require.Equal(t, config.MinimumInterval, cfg.EffectiveInterval())
}
