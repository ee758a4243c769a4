// Package errors provides sentinel errors and custom error types for the chronicle engine.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNotARepository indicates that the working directory is not a git repository
	ErrNotARepository = errors.New("not a git repository")

	// ErrRefUpdateConflict indicates that a compare-and-swap ref update was rejected
	// because the ref no longer points at the expected revision
	ErrRefUpdateConflict = errors.New("ref update conflict")

	// ErrTagExists indicates that a session tag with the requested name already exists
	ErrTagExists = errors.New("tag already exists")

	// ErrRefNotFound indicates that a ref does not exist
	ErrRefNotFound = errors.New("ref not found")
)

// RefUpdateConflictError is returned when a guarded ref update finds the ref
// pointing somewhere other than the expected old revision.
type RefUpdateConflictError struct {
	RefName  string
	Expected string
}

func (e *RefUpdateConflictError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("ref %s was created concurrently", e.RefName)
	}
	return fmt.Sprintf("ref %s no longer points at %s", e.RefName, e.Expected)
}

// Is returns true if the target error is ErrRefUpdateConflict
func (e *RefUpdateConflictError) Is(target error) bool {
	return target == ErrRefUpdateConflict
}

// NewRefUpdateConflictError creates a new RefUpdateConflictError
func NewRefUpdateConflictError(refName, expected string) *RefUpdateConflictError {
	return &RefUpdateConflictError{RefName: refName, Expected: expected}
}

// TagExistsError is returned when a session tag name collides with an existing tag.
type TagExistsError struct {
	TagName string
}

func (e *TagExistsError) Error() string {
	return fmt.Sprintf("tag %s already exists", e.TagName)
}

// Is returns true if the target error is ErrTagExists
func (e *TagExistsError) Is(target error) bool {
	return target == ErrTagExists
}

// NewTagExistsError creates a new TagExistsError
func NewTagExistsError(tagName string) *TagExistsError {
	return &TagExistsError{TagName: tagName}
}

// GitCommandError represents an error from a git command execution.
// Stdout and stderr are always captured so no failure detail is lost.
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
