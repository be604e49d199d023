package structuresync

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-structure-sync/internal/commands"
	menulinkscmd "github.com/goliatone/go-structure-sync/internal/commands/menulinks"
	"github.com/goliatone/go-structure-sync/internal/di"
	"github.com/goliatone/go-structure-sync/internal/jobs"
	"github.com/goliatone/go-structure-sync/internal/menusync"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// Style selects how an import reconciles the snapshot with live links.
type Style = menusync.Style

const (
	StyleFull  = menusync.StyleFull
	StyleSafe  = menusync.StyleSafe
	StyleForce = menusync.StyleForce
)

type (
	ExportOptions  = menusync.ExportOptions
	ImportOptions  = menusync.ImportOptions
	ImportResult   = menusync.ImportResult
	RecordOutcome  = menusync.RecordOutcome
	FinishListener = menusync.FinishListener

	Snapshot      = snapshot.Snapshot
	SnapshotIssue = snapshot.Issue

	ConfigurationError = menusync.ConfigurationError
	OrderingError      = menusync.OrderingError

	// Option overrides container wiring, see the With* helpers.
	Option = di.Option
)

var (
	ErrStyleRequired   = menusync.ErrStyleRequired
	ErrUnknownStyle    = menusync.ErrUnknownStyle
	ErrSnapshotMissing = menusync.ErrSnapshotMissing
	ErrOrdering        = menusync.ErrOrdering
	ErrRunInProgress   = jobs.ErrRunInProgress
	ErrCacheDisabled   = menulinkscmd.ErrCacheDisabled
)

// ParseStyle resolves a style name; blank and unknown names are rejected.
func ParseStyle(value string) (Style, error) {
	return menusync.ParseStyle(value)
}

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return di.WithNotifier(notifier)
}

func WithFinishListener(fn FinishListener) Option {
	return di.WithFinishListener(fn)
}

// Module is the top level sync runtime.
type Module struct {
	container *di.Container
}

// New builds a module from cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Export writes the live menu links to the configured snapshot store.
func (m *Module) Export(ctx context.Context, opts ExportOptions) (*Snapshot, error) {
	if len(opts.Menus) == 0 {
		opts.Menus = m.container.Config.Sync.Menus
	}
	return m.container.SyncService().Export(ctx, opts)
}

// Import applies the stored snapshot. A blank style falls back to
// Sync.DefaultStyle; when that is blank too the import is rejected.
func (m *Module) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	if strings.TrimSpace(string(opts.Style)) == "" {
		opts.Style = Style(m.container.Config.Sync.DefaultStyle)
	}
	if len(opts.Menus) == 0 {
		opts.Menus = m.container.Config.Sync.Menus
	}
	return m.container.SyncService().Import(ctx, opts)
}

// Validate checks the stored snapshot and returns its warnings.
func (m *Module) Validate(ctx context.Context) ([]SnapshotIssue, error) {
	return m.container.SyncService().Validate(ctx)
}

// InvalidateCache flushes the repository read caches.
func (m *Module) InvalidateCache(ctx context.Context) error {
	if m.container.CacheService() == nil {
		return ErrCacheDisabled
	}
	return m.container.MenuLinkStore().InvalidateCache(ctx)
}

// Close releases storage opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}

// RegistrationOptions configures how command handlers are exposed.
type RegistrationOptions struct {
	Registry       commands.CommandRegistry
	Dispatcher     commands.CommandDispatcher
	Observers      menulinkscmd.Observers
	AuditObservers di.AuditObservers
}

// RegistrationResult captures the handlers and dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []commands.CommandSubscription
}

// RegisterCommands builds the menu link and audit command handlers and
// registers them with the optional registry and dispatcher.
func (m *Module) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	set, err := m.container.RegisterCommands(opts.Registry, menulinkscmd.WithObservers(opts.Observers))
	if err != nil {
		return nil, err
	}

	auditHandlers, err := m.container.RegisterAuditCommands(opts.Registry, opts.AuditObservers)
	if err != nil {
		return nil, err
	}

	result := &RegistrationResult{Handlers: append(set.Handlers(), auditHandlers...)}
	if opts.Dispatcher == nil {
		return result, nil
	}

	var errs error
	for _, handler := range result.Handlers {
		sub, err := opts.Dispatcher.RegisterCommand(handler)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if sub != nil {
			result.Subscriptions = append(result.Subscriptions, sub)
		}
	}
	return result, errs
}

// CommandDispatcher returns a dispatcher that subscribes handlers to the
// go-command dispatcher with the given retry budget.
func CommandDispatcher(maxRetries int) commands.CommandDispatcher {
	return commands.Dispatcher{MaxRetries: maxRetries}
}
