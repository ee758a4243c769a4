package engine

import (
	"context"
	"errors"
	"time"

	chronicleerrors "chronicle.dev/chronicle/internal/errors"
	"chronicle.dev/chronicle/internal/git"
)

// SessionTagPrefix prefixes every session marker tag name.
const SessionTagPrefix = "session-"

// sessionAnchorMessage is stored on the bootstrap snapshot created when the
// history ref is seeded from an existing baseline commit.
const sessionAnchorMessage = "chronicle session start"

// SessionTagName derives a ref-name-safe marker name from wall-clock time.
func SessionTagName(t time.Time) string {
	return SessionTagPrefix + t.Format("20060102-150405")
}

// MarkSession stamps a session boundary at the tip of historyRef, creating
// the ref first if it has never been written.
//
// Bootstrapping: when the ref is absent and the repository has a baseline
// commit, a parentless snapshot carrying the baseline's tree (a zero-diff
// anchor) seeds the ref. When the repository has no commits at all the ref is
// left absent; the first real snapshot will create it, and tagging is retried
// on a later engine start.
func MarkSession(ctx context.Context, r git.Runner, historyRef string, now time.Time) TagResult {
	tip, err := r.ReadRef(historyRef)
	if errors.Is(err, chronicleerrors.ErrRefNotFound) {
		tip, err = bootstrapRef(ctx, r, historyRef)
		if errors.Is(err, chronicleerrors.ErrRefNotFound) {
			return skipped("repository has no commits yet; tagging deferred", nil)
		}
	}
	if err != nil {
		return skipped("could not resolve history ref tip", err)
	}

	name := SessionTagName(now)
	exists, err := r.TagExists(name)
	if err != nil {
		return skipped("could not check tag", err)
	}
	if exists {
		return skipped("tag "+name+" already exists", chronicleerrors.NewTagExistsError(name))
	}

	if err := r.CreateTag(ctx, name, tip); err != nil {
		return skipped("could not create tag "+name, err)
	}
	return TagResult{Outcome: SessionTagged, TagName: name}
}

// bootstrapRef seeds historyRef with a parentless snapshot whose tree equals
// the current baseline commit's tree. Returns ErrRefNotFound when the
// repository has zero commits and bootstrapping must be deferred.
func bootstrapRef(ctx context.Context, r git.Runner, historyRef string) (string, error) {
	head, err := r.HeadRevision()
	if err != nil {
		return "", err
	}

	tree, err := r.TreeOfRevision(ctx, head)
	if err != nil {
		return "", err
	}

	anchor, err := r.CommitTree(ctx, tree, "", sessionAnchorMessage)
	if err != nil {
		return "", err
	}

	// Empty expected-old: the ref must still not exist. A concurrent creator
	// wins and this bootstrap reports the conflict.
	if err := r.UpdateRefCAS(ctx, historyRef, "", anchor); err != nil {
		return "", err
	}
	return anchor, nil
}
