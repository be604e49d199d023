package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-structure-sync/internal/jobs"
)

func TestRunnerExecutesStepsInOrder(t *testing.T) {
	audit := jobs.NewInMemoryAuditRecorder()
	var fractions []float64
	runner := jobs.NewRunner(
		jobs.WithAuditRecorder(audit),
		jobs.WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
		jobs.WithProgressListener(func(_, step string, fraction float64) {
			if step == "apply" {
				fractions = append(fractions, fraction)
			}
		}),
	)

	var order []string
	var finished *jobs.Summary
	err := runner.Run(context.Background(), jobs.Batch{
		Title: "import",
		Steps: []jobs.Step{
			{Name: "delete", Run: func(context.Context, jobs.ProgressFunc) error {
				order = append(order, "delete")
				return nil
			}},
			{Name: "apply", Run: func(_ context.Context, progress jobs.ProgressFunc) error {
				order = append(order, "apply")
				progress(0.5)
				progress(2)
				return nil
			}},
		},
		Finished: func(_ context.Context, summary jobs.Summary) {
			finished = &summary
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(order) != 2 || order[0] != "delete" || order[1] != "apply" {
		t.Fatalf("unexpected order %v", order)
	}
	if finished == nil || !finished.Success || len(finished.Completed) != 2 {
		t.Fatalf("unexpected summary %+v", finished)
	}
	want := []float64{0, 0.5, 1, 1}
	if len(fractions) != len(want) {
		t.Fatalf("expected fractions %v, got %v", want, fractions)
	}
	for i := range want {
		if fractions[i] != want[i] {
			t.Fatalf("expected fractions %v, got %v", want, fractions)
		}
	}
	if events := audit.Events(); len(events) != 5 || events[4].Action != jobs.AuditActionFinished {
		t.Fatalf("unexpected audit trail %+v", events)
	}
}

func TestRunnerStopsOnStepError(t *testing.T) {
	runner := jobs.NewRunner()
	boom := errors.New("boom")
	ranSecond := false
	var summary jobs.Summary

	err := runner.Run(context.Background(), jobs.Batch{
		Title: "import",
		Steps: []jobs.Step{
			{Name: "first", Run: func(context.Context, jobs.ProgressFunc) error { return boom }},
			{Name: "second", Run: func(context.Context, jobs.ProgressFunc) error {
				ranSecond = true
				return nil
			}},
		},
		Finished: func(_ context.Context, s jobs.Summary) { summary = s },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ranSecond {
		t.Fatal("expected second step to be skipped")
	}
	if summary.Success || !errors.Is(summary.Err, boom) {
		t.Fatalf("expected failed summary, got %+v", summary)
	}
}

func TestRunnerRejectsOverlappingRuns(t *testing.T) {
	runner := jobs.NewRunner()
	var nested error

	err := runner.Run(context.Background(), jobs.Batch{
		Title: "outer",
		Steps: []jobs.Step{{Name: "only", Run: func(ctx context.Context, _ jobs.ProgressFunc) error {
			if !runner.Running() {
				t.Fatal("expected runner to report running")
			}
			nested = runner.Run(ctx, jobs.Batch{
				Title: "inner",
				Steps: []jobs.Step{{Name: "noop", Run: func(context.Context, jobs.ProgressFunc) error { return nil }}},
			})
			return nil
		}}},
	})
	if err != nil {
		t.Fatalf("outer run: %v", err)
	}
	if !errors.Is(nested, jobs.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", nested)
	}
	if runner.Running() {
		t.Fatal("expected runner to be idle after run")
	}
}

func TestRunnerRequiresSteps(t *testing.T) {
	if err := jobs.NewRunner().Run(context.Background(), jobs.Batch{}); !errors.Is(err, jobs.ErrNoSteps) {
		t.Fatalf("expected ErrNoSteps, got %v", err)
	}
}
