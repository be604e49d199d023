package menusync

import (
	"context"
	"errors"
	"testing"
)

func TestReporterCountsAndFractions(t *testing.T) {
	r := NewReporter(StyleFull)
	if r.Fraction() != 1 {
		t.Fatalf("expected fraction 1 with no total, got %v", r.Fraction())
	}

	var seen []float64
	r.SetTotal(4)
	r.OnProgress(func(f float64) { seen = append(seen, f) })

	failure := errors.New("boom")
	r.Record(RecordOutcome{Identity: homeID, Language: "en", Outcome: OutcomeCreated})
	r.Record(RecordOutcome{Identity: strayID, Outcome: OutcomeDeleted})
	r.Record(RecordOutcome{Identity: aboutID, Language: "en", Outcome: OutcomeFailed, Err: failure})
	r.Warn(&TranslationConflictWarning{Identity: homeID, Language: "es"})
	r.Pass()

	if r.Processed() != 2 {
		t.Fatalf("deletions should not advance progress, processed=%d", r.Processed())
	}
	if r.Fraction() != 0.5 {
		t.Fatalf("expected fraction 0.5, got %v", r.Fraction())
	}
	want := []float64{0.25, 0.25, 0.5}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}

	result := r.Result()
	if result.Created != 1 || result.Deleted != 1 || result.Failed != 1 || result.Passes != 1 {
		t.Fatalf("unexpected counters %+v", result)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], failure) {
		t.Fatalf("expected failure to be collected, got %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !errors.Is(result.Warnings[0], ErrTranslationConflict) {
		t.Fatalf("expected conflict warning, got %v", result.Warnings)
	}
}

func TestReporterFinishesOnce(t *testing.T) {
	r := NewReporter(StyleSafe)
	calls := 0
	var got error
	r.OnFinish(func(_ context.Context, _ *ImportResult, err error) {
		calls++
		got = err
	})

	fatal := errors.New("step failed")
	r.Finish(context.Background(), fatal)
	r.Finish(context.Background(), nil)

	if calls != 1 {
		t.Fatalf("expected one finish event, got %d", calls)
	}
	if !errors.Is(got, fatal) {
		t.Fatalf("expected fatal error passed to listener, got %v", got)
	}
	if errs := r.Result().Errors; len(errs) != 1 {
		t.Fatalf("expected fatal error in result, got %v", errs)
	}
}

func TestReporterRemovalsDoNotAdvanceProgress(t *testing.T) {
	r := NewReporter(StyleForce)
	r.Record(RecordOutcome{Identity: strayID, Outcome: OutcomeFailed, Err: errors.New("locked"), Removal: true})
	r.Record(RecordOutcome{Identity: aboutID, Language: "fr", Outcome: OutcomeFailed, Err: errors.New("locked"), Removal: true})

	r.SetTotal(2)
	if r.Processed() != 0 || r.Fraction() != 0 {
		t.Fatalf("removals advanced progress: processed=%d fraction=%v", r.Processed(), r.Fraction())
	}
	r.Record(RecordOutcome{Identity: homeID, Language: "en", Outcome: OutcomeCreated})
	if r.Fraction() != 0.5 {
		t.Fatalf("expected 0.5, got %v", r.Fraction())
	}
	if r.Result().Failed != 2 {
		t.Fatalf("expected removal failures counted, got %+v", r.Result())
	}
}
