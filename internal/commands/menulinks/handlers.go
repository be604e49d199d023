package menulinkscmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-structure-sync/internal/commands"
	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/internal/menusync"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

const (
	exportOperation          = "menu_links.export"
	importOperation          = "menu_links.import"
	validateOperation        = "menu_links.validate"
	invalidateCacheOperation = "menu_links.cache.invalidate"
)

var ErrCacheDisabled = errors.New("menu links command: cache is disabled")

// Service is the sync engine surface used by the handlers.
type Service interface {
	Export(ctx context.Context, opts menusync.ExportOptions) (*snapshot.Snapshot, error)
	Import(ctx context.Context, opts menusync.ImportOptions) (*menusync.ImportResult, error)
	Validate(ctx context.Context) ([]snapshot.Issue, error)
}

var _ Service = (*menusync.Service)(nil)

// Observers receive the outcome of a command, for callers such as the CLI
// that print it. Nil observers are skipped.
type Observers struct {
	Exported  func(*snapshot.Snapshot)
	Imported  func(*menusync.ImportResult)
	Validated func([]snapshot.Issue)
}

// ExportHandler runs snapshot exports.
type ExportHandler struct {
	inner *commands.Handler[ExportCommand]
}

func NewExportHandler(service Service, logger interfaces.Logger, observers Observers, opts ...commands.HandlerOption[ExportCommand]) *ExportHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ExportCommand) error {
		snap, err := service.Export(ctx, menusync.ExportOptions{Menus: msg.Menus})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"links":   len(snap.Groups),
			"records": snap.Len(),
		}).Info("menu_links.command.export.completed")
		if observers.Exported != nil {
			observers.Exported(snap)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportCommand]{
		commands.WithLogger[ExportCommand](baseLogger),
		commands.WithOperation[ExportCommand](exportOperation),
		commands.WithMessageFields(func(msg ExportCommand) map[string]any {
			if len(msg.Menus) == 0 {
				return nil
			}
			return map[string]any{"menus": msg.Menus}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ExportCommand].
func (h *ExportHandler) Execute(ctx context.Context, msg ExportCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportHandler runs snapshot imports. Per record failures are reported
// through the result and do not fail the command.
type ImportHandler struct {
	inner *commands.Handler[ImportCommand]
}

func NewImportHandler(service Service, logger interfaces.Logger, observers Observers, opts ...commands.HandlerOption[ImportCommand]) *ImportHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportCommand) error {
		style, err := menusync.ParseStyle(msg.Style)
		if err != nil {
			return err
		}
		result, err := service.Import(ctx, menusync.ImportOptions{Style: style, Menus: msg.Menus})
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created":    result.Created,
				"updated":    result.Updated,
				"translated": result.Translated,
				"deleted":    result.Deleted,
				"failed":     result.Failed,
				"warnings":   len(result.Warnings),
			}).Info("menu_links.command.import.completed")
			if observers.Imported != nil {
				observers.Imported(result)
			}
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[ImportCommand]{
		commands.WithLogger[ImportCommand](baseLogger),
		commands.WithOperation[ImportCommand](importOperation),
		commands.WithMessageFields(func(msg ImportCommand) map[string]any {
			fields := map[string]any{"style": msg.Style}
			if len(msg.Menus) > 0 {
				fields["menus"] = msg.Menus
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportCommand].
func (h *ImportHandler) Execute(ctx context.Context, msg ImportCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ValidateHandler checks the stored snapshot.
type ValidateHandler struct {
	inner *commands.Handler[ValidateCommand]
}

func NewValidateHandler(service Service, logger interfaces.Logger, observers Observers, opts ...commands.HandlerOption[ValidateCommand]) *ValidateHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, _ ValidateCommand) error {
		warnings, err := service.Validate(ctx)
		if observers.Validated != nil {
			observers.Validated(warnings)
		}
		if err != nil {
			var cfgErr *menusync.ConfigurationError
			if errors.As(err, &cfgErr) {
				return err
			}
			return &menusync.ConfigurationError{Err: err, Reason: "snapshot is invalid"}
		}
		for _, issue := range warnings {
			baseLogger.Warn("menu_links.command.validate.warning", "location", issue.Location, "issue", issue.Message)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateCommand]{
		commands.WithLogger[ValidateCommand](baseLogger),
		commands.WithOperation[ValidateCommand](validateOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ValidateCommand].
func (h *ValidateHandler) Execute(ctx context.Context, msg ValidateCommand) error {
	return h.inner.Execute(ctx, msg)
}

// InvalidateCacheHandler flushes the menu link read caches.
type InvalidateCacheHandler struct {
	inner *commands.Handler[InvalidateCacheCommand]
}

func NewInvalidateCacheHandler(cache menusync.CacheInvalidator, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateCacheCommand]) *InvalidateCacheHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, _ InvalidateCacheCommand) error {
		if cache == nil {
			return ErrCacheDisabled
		}
		if err := cache.InvalidateCache(ctx); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"operation": "invalidate",
		}).Info("menu_links.command.cache.invalidated")
		return nil
	}

	handlerOpts := []commands.HandlerOption[InvalidateCacheCommand]{
		commands.WithLogger[InvalidateCacheCommand](baseLogger),
		commands.WithOperation[InvalidateCacheCommand](invalidateCacheOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InvalidateCacheHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[InvalidateCacheCommand].
func (h *InvalidateCacheHandler) Execute(ctx context.Context, msg InvalidateCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}
