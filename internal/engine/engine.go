package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"chronicle.dev/chronicle/internal/config"
	"chronicle.dev/chronicle/internal/git"
	"chronicle.dev/chronicle/internal/output"
)

// Engine schedules periodic snapshot pipeline runs for one working directory.
//
// All run state lives on the instance, so independent engines (one per
// workspace root) never interfere with each other. Ticks are single-flight:
// while a pipeline invocation is in progress, overlapping ticks are dropped
// rather than queued.
type Engine struct {
	runner git.Runner
	splog  *output.Splog

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	cfg     *config.Config

	inFlight     atomic.Bool
	ticksRun     atomic.Uint64
	ticksSkipped atomic.Uint64

	lastMu     sync.Mutex
	lastResult *SnapshotResult
}

// New creates an engine bound to the repository at workingDir.
func New(workingDir string, splog *output.Splog) *Engine {
	return &Engine{
		runner: git.NewRunner(workingDir),
		splog:  splog,
	}
}

// NewWithRunner creates an engine with an explicit runner and configuration.
// Used by tests and by commands that override configuration per invocation.
// A nil cfg is resolved from the repository at Start.
func NewWithRunner(r git.Runner, cfg *config.Config, splog *output.Splog) *Engine {
	return &Engine{
		runner: r,
		splog:  splog,
		cfg:    cfg,
	}
}

// Status is a point-in-time view of the engine state.
type Status struct {
	Running      bool
	WorkingDir   string
	Config       *config.Config
	TicksRun     uint64
	TicksSkipped uint64
	LastResult   *SnapshotResult
}

// Start resolves configuration, marks the session boundary and arms the
// periodic snapshot timer. Starting an already-running engine is reported
// and is not an error. An invalid working directory is a hard stop for this
// invocation only; the engine stays inert and can be started again.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		e.splog.Info("chronicle is already running")
		return nil
	}

	if err := e.runner.IsRepository(); err != nil {
		e.mu.Unlock()
		return err
	}

	cfg := e.cfg
	if cfg == nil {
		loaded, err := config.Load(e.runner.WorkingDir())
		if err != nil {
			e.mu.Unlock()
			return err
		}
		cfg = loaded
	}
	if !cfg.Enabled {
		e.mu.Unlock()
		e.splog.Info("chronicle is disabled in configuration")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cfg = cfg
	e.cancel = cancel
	e.done = make(chan struct{})
	e.running = true
	e.mu.Unlock()

	if cfg.SeparateBranch {
		e.reportSession(MarkSession(runCtx, e.runner, cfg.BranchName, time.Now()))
	}

	go e.loop(runCtx, cfg)

	e.splog.Info("chronicle started: snapshots every %s on %q", cfg.EffectiveInterval(), cfg.BranchName)
	return nil
}

// Stop cancels future ticks and transitions to Stopped. It is idempotent and
// safe to call at any time, including during shutdown. A pipeline invocation
// already in flight runs to completion; its result is not acted upon further.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel := e.cancel
	done := e.done
	e.cancel = nil
	e.mu.Unlock()

	cancel()
	<-done
	e.splog.Info("chronicle stopped")
}

// Status reports the engine's current state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	status := Status{
		Running:    e.running,
		WorkingDir: e.runner.WorkingDir(),
		Config:     e.cfg,
	}
	e.mu.Unlock()

	status.TicksRun = e.ticksRun.Load()
	status.TicksSkipped = e.ticksSkipped.Load()

	e.lastMu.Lock()
	status.LastResult = e.lastResult
	e.lastMu.Unlock()
	return status
}

// RunOnce performs a single synchronous pipeline pass outside the scheduler.
func (e *Engine) RunOnce(ctx context.Context) (SnapshotResult, error) {
	if err := e.runner.IsRepository(); err != nil {
		return SnapshotResult{}, err
	}

	e.mu.Lock()
	cfg := e.cfg
	e.mu.Unlock()
	if cfg == nil {
		loaded, err := config.Load(e.runner.WorkingDir())
		if err != nil {
			return SnapshotResult{}, err
		}
		cfg = loaded
		e.mu.Lock()
		e.cfg = cfg
		e.mu.Unlock()
	}

	result := RunPipeline(ctx, e.runner, cfg)
	e.recordResult(result)
	return result, nil
}

// loop drives the ticker until the run context is cancelled. The config is
// captured at Start so ticks never read engine state without the lock.
func (e *Engine) loop(ctx context.Context, cfg *config.Config) {
	defer close(e.done)

	ticker := time.NewTicker(cfg.EffectiveInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick(ctx, cfg)
		}
	}
}

// tick launches one pipeline invocation unless one is still in flight, in
// which case this tick is dropped. Dropping rather than queueing keeps at
// most one stage/commit sequence running against the index.
func (e *Engine) tick(ctx context.Context, cfg *config.Config) {
	if !e.inFlight.CompareAndSwap(false, true) {
		e.ticksSkipped.Add(1)
		e.splog.Debug("snapshot still in flight; skipping tick")
		return
	}

	go func() {
		defer e.inFlight.Store(false)
		e.ticksRun.Add(1)

		result := RunPipeline(ctx, e.runner, cfg)
		e.recordResult(result)
		e.reportResult(result)
	}()
}

func (e *Engine) recordResult(result SnapshotResult) {
	e.lastMu.Lock()
	e.lastResult = &result
	e.lastMu.Unlock()
}

// reportResult surfaces genuine failures only; the steady-state NoOp makes
// no user-visible noise.
func (e *Engine) reportResult(result SnapshotResult) {
	switch result.Outcome {
	case SnapshotCreated:
		e.splog.Debug("snapshot %s", result.Hash)
	case SnapshotNoOp:
		e.splog.Debug("no changes")
	case SnapshotFailed:
		e.splog.Error("snapshot failed at %s: %v", result.Stage, result.Err)
	}
}

func (e *Engine) reportSession(result TagResult) {
	switch result.Outcome {
	case SessionTagged:
		e.splog.Info("session marked: %s", result.TagName)
	case SessionSkipped:
		if result.Err != nil {
			e.splog.Warn("session tagging skipped: %s (%v)", result.Reason, result.Err)
		} else {
			e.splog.Info("session tagging skipped: %s", result.Reason)
		}
	}
}
