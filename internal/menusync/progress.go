package menusync

import (
	"context"
	"sync"
)

// FinishListener runs once when an import ends. err is the fatal error of the
// run, if any.
type FinishListener func(ctx context.Context, result *ImportResult, err error)

// Reporter counts record outcomes against the planned total and emits a
// single finish event.
type Reporter struct {
	mu        sync.Mutex
	total     int
	processed int
	result    *ImportResult
	progress  func(fraction float64)
	listeners []FinishListener
	finished  bool
}

// NewReporter returns a reporter for a run of style.
func NewReporter(style Style) *Reporter {
	return &Reporter{result: &ImportResult{Style: style}}
}

// SetTotal sets the number of snapshot records the run will process.
func (r *Reporter) SetTotal(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
}

// OnProgress registers the fraction callback, typically a job step progress.
func (r *Reporter) OnProgress(fn func(fraction float64)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = fn
}

// OnFinish registers a completion listener.
func (r *Reporter) OnFinish(fn FinishListener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Record adds one outcome. Deletions and other removal outcomes, failed ones
// included, are counted but do not advance progress.
func (r *Reporter) Record(outcome RecordOutcome) {
	r.mu.Lock()
	switch outcome.Outcome {
	case OutcomeCreated:
		r.result.Created++
	case OutcomeTranslated:
		r.result.Translated++
	case OutcomeUpdated:
		r.result.Updated++
	case OutcomeDeleted:
		r.result.Deleted++
	case OutcomeSkipped:
		r.result.Skipped++
	case OutcomeFailed:
		r.result.Failed++
		if outcome.Err != nil {
			r.result.Errors = append(r.result.Errors, outcome.Err)
		}
	}
	r.result.Outcomes = append(r.result.Outcomes, outcome)
	if !outcome.Removal && outcome.Outcome != OutcomeDeleted {
		r.processed++
	}
	progress, fraction := r.progress, r.fractionLocked()
	r.mu.Unlock()

	if progress != nil {
		progress(fraction)
	}
}

// Warn records a non fatal warning.
func (r *Reporter) Warn(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Warnings = append(r.result.Warnings, err)
}

// Pass counts one completed dependency pass.
func (r *Reporter) Pass() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Passes++
}

// Fraction returns processed/total, or 1 when there is nothing to process.
func (r *Reporter) Fraction() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fractionLocked()
}

func (r *Reporter) fractionLocked() float64 {
	if r.total <= 0 {
		return 1
	}
	if r.processed >= r.total {
		return 1
	}
	return float64(r.processed) / float64(r.total)
}

// Processed returns the number of snapshot records handled so far.
func (r *Reporter) Processed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processed
}

// Result returns the aggregated result.
func (r *Reporter) Result() *ImportResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// Finish invokes the listeners once. Later calls are ignored. A fatal err is
// appended to the result errors.
func (r *Reporter) Finish(ctx context.Context, err error) {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	if err != nil {
		r.result.Errors = append(r.result.Errors, err)
	}
	listeners := append([]FinishListener(nil), r.listeners...)
	result := r.result
	r.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, result, err)
	}
}
