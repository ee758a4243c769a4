package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	chronicleerrors "chronicle.dev/chronicle/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner handles execution of git commands in a working directory
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner bound to a working directory
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// Run executes a git command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", chronicleerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", chronicleerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunGitCommandInDir executes a git command in a specific directory and returns the output.
func RunGitCommandInDir(dir string, args ...string) (string, error) {
	runner := &CommandRunner{workingDir: dir}
	return runner.Run(context.Background(), args...)
}

// CommitResult represents the result of a direct-mode commit
type CommitResult int

const (
	// CommitCreated indicates a commit was created on the current branch
	CommitCreated CommitResult = iota
	// CommitNoChanges indicates there was nothing to commit; this is an
	// expected outcome, not an error
	CommitNoChanges
)

// Runner defines the plumbing operations used by the snapshot engine.
// This allows the engine to be used with both real git and stub implementations.
type Runner interface {
	// Repository
	WorkingDir() string
	IsRepository() error

	// Staging and probing
	StageAll(ctx context.Context) error
	StatusIsClean(ctx context.Context) (bool, error)

	// Object creation
	WriteIndexTree(ctx context.Context) (string, error)
	CommitTree(ctx context.Context, tree, parent, message string) (string, error)

	// Refs and tags
	ReadRef(name string) (string, error)
	UpdateRefCAS(ctx context.Context, name, expectedOld, newValue string) error
	CreateTag(ctx context.Context, name, target string) error
	TagExists(name string) (bool, error)

	// Revision inspection
	HeadRevision() (string, error)
	TreeOfRevision(ctx context.Context, revision string) (string, error)

	// Direct mode
	DirectCommit(ctx context.Context, message string) (CommitResult, error)
}

// NewRunner returns the standard Runner implementation bound to a working directory.
func NewRunner(workingDir string) Runner {
	return &realRunner{
		workingDir: workingDir,
		cmd:        NewCommandRunner(workingDir),
	}
}

// realRunner implements Runner by shelling out to git for writes and using
// go-git for structured reads.
type realRunner struct {
	workingDir string
	cmd        *CommandRunner
}

func (r *realRunner) WorkingDir() string {
	return r.workingDir
}

// IsRepository verifies the working directory is inside a git work tree.
func (r *realRunner) IsRepository() error {
	if _, err := os.Stat(r.workingDir); err != nil {
		return chronicleerrors.ErrNotARepository
	}
	if _, err := openRepository(r.workingDir); err != nil {
		return err
	}
	return nil
}
