// Package config provides the engine configuration, read from the bound
// repository's .git directory with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the per-repository config file, kept under .git so it
// never shows up in the working tree the engine is snapshotting.
const ConfigFileName = "chronicle.yaml"

// MinimumInterval is the floor applied to the configured snapshot cadence.
const MinimumInterval = time.Second

// Config holds the resolved engine options for one working directory.
type Config struct {
	// Enabled gates the scheduler; a disabled engine reports and stays inert.
	Enabled bool

	// Interval is the snapshot cadence.
	Interval time.Duration

	// CommitMessage is stored verbatim on every snapshot.
	CommitMessage string

	// SeparateBranch selects private-history mode; false commits directly on
	// the checked-out branch.
	SeparateBranch bool

	// BranchName is the private history ref (branch) name.
	BranchName string
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Enabled:        true,
		Interval:       5 * time.Minute,
		CommitMessage:  "chronicle snapshot",
		SeparateBranch: true,
		BranchName:     "chronicle/journal",
	}
}

// Load reads the configuration for the repository rooted at repoRoot.
// Missing files yield defaults; CHRONICLE_* environment variables override
// individual keys. The interval key is expressed in milliseconds.
func Load(repoRoot string) (*Config, error) {
	defaults := Default()

	v := viper.New()
	v.SetDefault("enabled", defaults.Enabled)
	v.SetDefault("interval", int(defaults.Interval/time.Millisecond))
	v.SetDefault("commitMessage", defaults.CommitMessage)
	v.SetDefault("separateBranch", defaults.SeparateBranch)
	v.SetDefault("branchName", defaults.BranchName)

	v.SetEnvPrefix("CHRONICLE")
	v.AutomaticEnv()

	configPath := filepath.Join(repoRoot, ".git", ConfigFileName)
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	cfg := &Config{
		Enabled:        v.GetBool("enabled"),
		Interval:       time.Duration(v.GetInt("interval")) * time.Millisecond,
		CommitMessage:  v.GetString("commitMessage"),
		SeparateBranch: v.GetBool("separateBranch"),
		BranchName:     v.GetString("branchName"),
	}
	if cfg.CommitMessage == "" {
		cfg.CommitMessage = defaults.CommitMessage
	}
	if cfg.BranchName == "" {
		cfg.BranchName = defaults.BranchName
	}
	return cfg, nil
}

// EffectiveInterval returns the configured interval clamped to the floor.
func (c *Config) EffectiveInterval() time.Duration {
	if c.Interval < MinimumInterval {
		return MinimumInterval
	}
	return c.Interval
}

// Write persists the configuration to the repository's config file.
func Write(repoRoot string, cfg *Config) error {
	v := viper.New()
	v.Set("enabled", cfg.Enabled)
	v.Set("interval", int(cfg.Interval/time.Millisecond))
	v.Set("commitMessage", cfg.CommitMessage)
	v.Set("separateBranch", cfg.SeparateBranch)
	v.Set("branchName", cfg.BranchName)

	configPath := filepath.Join(repoRoot, ".git", ConfigFileName)
	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config %s: %w", configPath, err)
	}
	return nil
}
