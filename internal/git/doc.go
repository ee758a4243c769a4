// Package git provides the plumbing operations the snapshot engine runs
// against a repository.
//
// Writes go through the git binary (stage, write-tree, commit-tree,
// update-ref, tag) so the engine observes exactly what a user's git would.
// Structured reads (refs, commits, trees) go through go-git. The Runner
// interface is the seam between the engine and either path.
//
// This package should be the only place where direct git commands are executed.
package git
