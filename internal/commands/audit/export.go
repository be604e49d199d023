package auditcmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-structure-sync/internal/commands"
	"github.com/goliatone/go-structure-sync/internal/jobs"
	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

const (
	exportAuditMessageType = "sync.audit.export"
	exportAuditOperation   = "audit.export"
)

// AuditLog exposes read operations for recorded batch events.
type AuditLog interface {
	List(ctx context.Context) ([]jobs.AuditEvent, error)
}

// ExportAuditCommand retrieves recorded batch events, newest last.
type ExportAuditCommand struct {
	MaxRecords *int `json:"max_records,omitempty"`
}

// Type implements command.Message.
func (ExportAuditCommand) Type() string { return exportAuditMessageType }

// Validate ensures the command payload is well-formed.
func (m ExportAuditCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.MaxRecords, validation.By(func(value any) error {
			if m.MaxRecords == nil {
				return nil
			}
			if *m.MaxRecords < 0 {
				return validation.NewError("sync.audit.export.max_records_invalid", "max_records must be zero or positive")
			}
			return nil
		})),
	)
}

// ExportAuditHandler hands recorded events to an observer and logs them at
// debug level.
type ExportAuditHandler struct {
	inner *commands.Handler[ExportAuditCommand]
}

// NewExportAuditHandler constructs a handler wired to log. observer may be nil.
func NewExportAuditHandler(log AuditLog, logger interfaces.Logger, observer func([]jobs.AuditEvent), opts ...commands.HandlerOption[ExportAuditCommand]) *ExportAuditHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ExportAuditCommand) error {
		events, err := log.List(ctx)
		if err != nil {
			return err
		}
		// Keep the most recent events when limited.
		if msg.MaxRecords != nil && *msg.MaxRecords < len(events) {
			events = events[len(events)-*msg.MaxRecords:]
		}

		for idx, event := range events {
			logging.WithFields(baseLogger, map[string]any{
				"index":       idx,
				"batch":       event.Batch,
				"step":        event.Step,
				"action":      event.Action,
				"occurred_at": event.OccurredAt.Format(time.RFC3339),
				"metadata":    event.Metadata,
			}).Debug("audit.command.export.event")
		}
		logging.WithFields(baseLogger, map[string]any{
			"exported": len(events),
		}).Info("audit.command.export.completed")

		if observer != nil {
			observer(events)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportAuditCommand]{
		commands.WithLogger[ExportAuditCommand](baseLogger),
		commands.WithOperation[ExportAuditCommand](exportAuditOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportAuditHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ExportAuditCommand].
func (h *ExportAuditHandler) Execute(ctx context.Context, msg ExportAuditCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *ExportAuditHandler) Subscribe(maxRetries int) commands.CommandSubscription {
	return h.inner.Subscribe(maxRetries)
}

// CLIHandler satisfies command.CLICommand by returning the handler.
func (h *ExportAuditHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for audit export.
func (h *ExportAuditHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"audit", "export"},
		Group:       "audit",
		Description: "List recorded sync batch events",
	}
}
