package jobs

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/uptrace/bun"
)

var ErrAuditDatabaseRequired = errors.New("jobs: bun audit recorder requires a database")

// AuditRecord is the table row of a persisted audit event.
type AuditRecord struct {
	bun.BaseModel `bun:"table:sync_audit_events,alias:sae"`

	ID         int64          `bun:",pk,autoincrement"`
	Batch      string         `bun:"batch,notnull"`
	Step       string         `bun:"step"`
	Action     string         `bun:"action,notnull"`
	OccurredAt time.Time      `bun:"occurred_at,notnull"`
	Metadata   map[string]any `bun:"metadata,type:jsonb"`
}

// BunAuditRecorder keeps audit events in the sync database so they survive
// the process, e.g. between CLI runs.
type BunAuditRecorder struct {
	db *bun.DB
}

func NewBunAuditRecorder(db *bun.DB) *BunAuditRecorder {
	return &BunAuditRecorder{db: db}
}

// EnsureSchema creates the audit table when missing.
func (r *BunAuditRecorder) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return ErrAuditDatabaseRequired
	}
	_, err := r.db.NewCreateTable().Model((*AuditRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (r *BunAuditRecorder) Record(ctx context.Context, event AuditEvent) error {
	if r.db == nil {
		return ErrAuditDatabaseRequired
	}
	row := &AuditRecord{
		Batch:      event.Batch,
		Step:       event.Step,
		Action:     event.Action,
		OccurredAt: event.OccurredAt.UTC(),
		Metadata:   maps.Clone(event.Metadata),
	}
	_, err := r.db.NewInsert().Model(row).Exec(ctx)
	return err
}

// List returns events in insertion order.
func (r *BunAuditRecorder) List(ctx context.Context) ([]AuditEvent, error) {
	if r.db == nil {
		return nil, ErrAuditDatabaseRequired
	}
	var rows []AuditRecord
	if err := r.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	events := make([]AuditEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, AuditEvent{
			Batch:      row.Batch,
			Step:       row.Step,
			Action:     row.Action,
			OccurredAt: row.OccurredAt,
			Metadata:   row.Metadata,
		})
	}
	return events, nil
}

func (r *BunAuditRecorder) Clear(ctx context.Context) error {
	if r.db == nil {
		return ErrAuditDatabaseRequired
	}
	_, err := r.db.NewDelete().Model((*AuditRecord)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

var (
	_ AuditRecorder = (*BunAuditRecorder)(nil)
	_ AuditRecorder = (*InMemoryAuditRecorder)(nil)
)
