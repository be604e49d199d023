package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-structure-sync/internal/jobs"
	"github.com/goliatone/go-structure-sync/pkg/testsupport"
)

func TestBunAuditRecorderPersistsRunnerEvents(t *testing.T) {
	ctx := context.Background()
	db, err := testsupport.NewBunSQLiteDB(ctx)
	if err != nil {
		t.Fatalf("new bun db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	recorder := jobs.NewBunAuditRecorder(db)
	if err := recorder.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	runner := jobs.NewRunner(
		jobs.WithAuditRecorder(recorder),
		jobs.WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
	)
	err = runner.Run(ctx, jobs.Batch{
		Title: "export",
		Steps: []jobs.Step{{Name: "export", Run: func(context.Context, jobs.ProgressFunc) error { return nil }}},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	events, err := recorder.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected started, completed and finished events, got %+v", events)
	}
	if events[0].Action != jobs.AuditActionStarted || events[2].Action != jobs.AuditActionFinished {
		t.Fatalf("unexpected event order %+v", events)
	}
	if events[2].Metadata["success"] != true {
		t.Fatalf("expected success metadata, got %+v", events[2].Metadata)
	}

	if err := recorder.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if events, _ := recorder.List(ctx); len(events) != 0 {
		t.Fatalf("expected no events after clear, got %d", len(events))
	}
}

func TestBunAuditRecorderRequiresDatabase(t *testing.T) {
	recorder := jobs.NewBunAuditRecorder(nil)
	if err := recorder.Record(context.Background(), jobs.AuditEvent{}); err == nil {
		t.Fatal("expected error without database")
	}
}
