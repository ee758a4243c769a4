package engine

import "fmt"

// SnapshotOutcome classifies the result of one snapshot pipeline invocation.
type SnapshotOutcome int

const (
	// SnapshotCreated indicates a new snapshot was committed and the ref advanced
	SnapshotCreated SnapshotOutcome = iota
	// SnapshotNoOp indicates the working tree had no changes; the expected
	// steady state between edits, not an error
	SnapshotNoOp
	// SnapshotFailed indicates a plumbing step failed; Stage names the step
	SnapshotFailed
)

// Stage identifies the pipeline step at which a snapshot attempt failed.
type Stage string

const (
	// StageStaging covers git add and the emptiness probe
	StageStaging Stage = "stage"
	// StageTree covers hashing the index into a tree object
	StageTree Stage = "tree"
	// StageReadRef covers reading the history ref tip
	StageReadRef Stage = "read-ref"
	// StageCommit covers building the commit object
	StageCommit Stage = "commit"
	// StageUpdateRef covers the compare-and-swap ref advance
	StageUpdateRef Stage = "update-ref"
)

// SnapshotResult is the outcome of one snapshot pipeline invocation.
// A failed result leaves the history ref untouched; partial writes never
// become visible.
type SnapshotResult struct {
	Outcome SnapshotOutcome
	// Hash is the new snapshot's hash when Outcome is SnapshotCreated
	Hash string
	// Stage is the failing step when Outcome is SnapshotFailed
	Stage Stage
	// Err carries the failure detail when Outcome is SnapshotFailed
	Err error
}

func (r SnapshotResult) String() string {
	switch r.Outcome {
	case SnapshotCreated:
		return fmt.Sprintf("created %s", r.Hash)
	case SnapshotNoOp:
		return "no changes"
	default:
		return fmt.Sprintf("failed at %s: %v", r.Stage, r.Err)
	}
}

func failed(stage Stage, err error) SnapshotResult {
	return SnapshotResult{Outcome: SnapshotFailed, Stage: stage, Err: err}
}

// TagOutcome classifies the result of session marking.
type TagOutcome int

const (
	// SessionTagged indicates a session marker tag was created
	SessionTagged TagOutcome = iota
	// SessionSkipped indicates no tag was created; Reason explains why.
	// Skipping is reported, never fatal to the engine.
	SessionSkipped
)

// TagResult is the outcome of marking a session boundary.
type TagResult struct {
	Outcome TagOutcome
	// TagName is the marker's name when Outcome is SessionTagged
	TagName string
	// Reason explains a skip
	Reason string
	// Err carries detail when the skip was caused by a plumbing failure
	Err error
}

func skipped(reason string, err error) TagResult {
	return TagResult{Outcome: SessionSkipped, Reason: reason, Err: err}
}
