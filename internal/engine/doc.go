// Package engine implements the snapshot engine: a scheduler that
// periodically captures the working directory into an immutable, linearly
// chained history of snapshots on a private ref, without disturbing the
// user's checked-out branch.
//
// The engine owns the history ref exclusively. Snapshots are built from the
// staged index (stage, write-tree, commit-tree) and the ref is advanced with
// compare-and-swap semantics, so a concurrent writer surfaces as a reported
// conflict rather than lost history. Plumbing failures are converted into
// typed results and never stop the scheduler; the next tick retries.
package engine
