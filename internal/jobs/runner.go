package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

var (
	// ErrRunInProgress is returned when a batch is submitted while another runs.
	ErrRunInProgress = errors.New("jobs: a batch is already running")
	ErrNoSteps       = errors.New("jobs: batch has no steps")
)

// ProgressFunc receives the completed fraction of the current step, in [0,1].
type ProgressFunc func(fraction float64)

// Step is one unit of a batch. Run reports intermediate progress through
// progress and returns a fatal error to abort the remaining steps.
type Step struct {
	Name string
	Run  func(ctx context.Context, progress ProgressFunc) error
}

// Summary describes a finished batch.
type Summary struct {
	Batch     string
	Success   bool
	Err       error
	Completed []string
	Started   time.Time
	Duration  time.Duration
}

// Batch is an ordered list of steps plus a finished callback. Finished is
// called exactly once, whether the steps succeed or not.
type Batch struct {
	Title    string
	Steps    []Step
	Finished func(ctx context.Context, summary Summary)
}

// Runner executes batches one at a time.
type Runner struct {
	mu       sync.Mutex
	running  bool
	logger   interfaces.Logger
	audit    AuditRecorder
	now      func() time.Time
	progress func(batch, step string, fraction float64)
}

type Option func(*Runner)

func WithLogger(logger interfaces.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(r *Runner) {
		r.audit = recorder
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithProgressListener observes step progress, typically to drive a UI.
func WithProgressListener(fn func(batch, step string, fraction float64)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Running reports whether a batch is executing.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Run executes batch synchronously. The context is checked between steps
// only; a step in flight always runs to completion.
func (r *Runner) Run(ctx context.Context, batch Batch) error {
	if len(batch.Steps) == 0 {
		return ErrNoSteps
	}
	if !r.acquire() {
		return ErrRunInProgress
	}
	defer r.release()

	started := r.now()
	summary := Summary{Batch: batch.Title, Started: started}
	logger := logging.WithFields(r.logger, map[string]any{"batch": batch.Title})
	logger.Debug("jobs.batch.started", "steps", len(batch.Steps))

	var runErr error
	for _, step := range batch.Steps {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		r.record(ctx, batch.Title, step.Name, AuditActionStarted, nil)
		progress := func(fraction float64) {
			if r.progress != nil {
				r.progress(batch.Title, step.Name, clamp(fraction))
			}
		}
		progress(0)
		if err := step.Run(ctx, progress); err != nil {
			runErr = fmt.Errorf("step %s: %w", step.Name, err)
			r.record(ctx, batch.Title, step.Name, AuditActionFailed, map[string]any{"error": err.Error()})
			logger.Error("jobs.step.failed", "step", step.Name, "error", err)
			break
		}
		progress(1)
		summary.Completed = append(summary.Completed, step.Name)
		r.record(ctx, batch.Title, step.Name, AuditActionCompleted, nil)
	}

	summary.Err = runErr
	summary.Success = runErr == nil
	summary.Duration = r.now().Sub(started)
	r.record(ctx, batch.Title, "", AuditActionFinished, map[string]any{"success": summary.Success})
	logger.Debug("jobs.batch.finished", "success", summary.Success, "duration", summary.Duration)

	if batch.Finished != nil {
		batch.Finished(ctx, summary)
	}
	return runErr
}

func (r *Runner) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	return true
}

func (r *Runner) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
}

func (r *Runner) record(ctx context.Context, batch, step, action string, meta map[string]any) {
	if r.audit == nil {
		return
	}
	if err := r.audit.Record(ctx, AuditEvent{
		Batch:      batch,
		Step:       step,
		Action:     action,
		OccurredAt: r.now(),
		Metadata:   meta,
	}); err != nil {
		r.logger.Warn("jobs.audit.record_failed", "error", err)
	}
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
