package auditcmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-structure-sync/internal/commands"
	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

const (
	cleanupAuditMessageType = "sync.audit.cleanup"
	cleanupAuditOperation   = "audit.cleanup"
)

// AuditCleaner extends AuditLog with cleanup capabilities.
type AuditCleaner interface {
	AuditLog
	Clear(ctx context.Context) error
}

// CleanupAuditCommand removes recorded events. When DryRun is true only the
// event count is reported.
type CleanupAuditCommand struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (CleanupAuditCommand) Type() string { return cleanupAuditMessageType }

// Validate satisfies command.Message.
func (CleanupAuditCommand) Validate() error { return nil }

type cleanupHandlerConfig struct {
	cronConfig command.HandlerConfig
	opts       []commands.HandlerOption[CleanupAuditCommand]
}

// CleanupHandlerOption customises the cleanup handler.
type CleanupHandlerOption func(*cleanupHandlerConfig)

// CleanupWithCronExpression overrides the cron expression for the cleanup handler.
func CleanupWithCronExpression(expression string) CleanupHandlerOption {
	return func(cfg *cleanupHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// CleanupWithHandlerOptions forwards options to the shared command handler.
func CleanupWithHandlerOptions(opts ...commands.HandlerOption[CleanupAuditCommand]) CleanupHandlerOption {
	return func(cfg *cleanupHandlerConfig) {
		cfg.opts = append(cfg.opts, opts...)
	}
}

// CleanupAuditHandler clears recorded events via the supplied cleaner.
type CleanupAuditHandler struct {
	inner      *commands.Handler[CleanupAuditCommand]
	cronConfig command.HandlerConfig
}

// NewCleanupAuditHandler constructs a handler that delegates to cleaner.
// observer, when set, receives the number of events removed or, on a dry
// run, found.
func NewCleanupAuditHandler(cleaner AuditCleaner, logger interfaces.Logger, observer func(count int, dryRun bool), opts ...CleanupHandlerOption) *CleanupAuditHandler {
	cfg := cleanupHandlerConfig{
		cronConfig: command.HandlerConfig{Expression: "@daily"},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CleanupAuditCommand) error {
		events, err := cleaner.List(ctx)
		if err != nil {
			return err
		}
		if !msg.DryRun {
			if err := cleaner.Clear(ctx); err != nil {
				return err
			}
		}
		logging.WithFields(baseLogger, map[string]any{
			"dry_run": msg.DryRun,
			"count":   len(events),
		}).Info("audit.command.cleanup.completed")
		if observer != nil {
			observer(len(events), msg.DryRun)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CleanupAuditCommand]{
		commands.WithLogger[CleanupAuditCommand](baseLogger),
		commands.WithOperation[CleanupAuditCommand](cleanupAuditOperation),
	}
	handlerOpts = append(handlerOpts, cfg.opts...)

	return &CleanupAuditHandler{
		inner:      commands.NewHandler(exec, handlerOpts...),
		cronConfig: cfg.cronConfig,
	}
}

// Execute satisfies command.Commander[CleanupAuditCommand].
func (h *CleanupAuditHandler) Execute(ctx context.Context, msg CleanupAuditCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *CleanupAuditHandler) Subscribe(maxRetries int) commands.CommandSubscription {
	return h.inner.Subscribe(maxRetries)
}

// CronHandler satisfies command.CronCommand by binding cleanup execution to a cron runner.
func (h *CleanupAuditHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), CleanupAuditCommand{})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron metadata.
func (h *CleanupAuditHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the cleanup handler to CLI integrations.
func (h *CleanupAuditHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for audit cleanup.
func (h *CleanupAuditHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"audit", "cleanup"},
		Group:       "audit",
		Description: "Remove recorded sync batch events; supports dry-run",
	}
}
