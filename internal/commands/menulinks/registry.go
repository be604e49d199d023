package menulinkscmd

import (
	"errors"

	"github.com/goliatone/go-structure-sync/internal/commands"
	"github.com/goliatone/go-structure-sync/internal/menusync"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// HandlerSet groups the menu link command handlers produced by RegisterCommands.
type HandlerSet struct {
	Export          *ExportHandler
	Import          *ImportHandler
	Validate        *ValidateHandler
	InvalidateCache *InvalidateCacheHandler
}

// Handlers lists the handlers in registration order.
func (s *HandlerSet) Handlers() []any {
	return []any{s.Export, s.Import, s.Validate, s.InvalidateCache}
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	observers      Observers
	cache          menusync.CacheInvalidator
	exportOpts     []commands.HandlerOption[ExportCommand]
	importOpts     []commands.HandlerOption[ImportCommand]
	validateOpts   []commands.HandlerOption[ValidateCommand]
	invalidateOpts []commands.HandlerOption[InvalidateCacheCommand]
}

// WithObservers forwards command outcomes to observers.
func WithObservers(observers Observers) Option {
	return func(cfg *options) {
		cfg.observers = observers
	}
}

// WithCacheInvalidator enables the cache invalidation command.
func WithCacheInvalidator(cache menusync.CacheInvalidator) Option {
	return func(cfg *options) {
		cfg.cache = cache
	}
}

// WithExportHandlerOptions forwards options to the ExportHandler constructor.
func WithExportHandlerOptions(opts ...commands.HandlerOption[ExportCommand]) Option {
	return func(cfg *options) {
		cfg.exportOpts = append(cfg.exportOpts, opts...)
	}
}

// WithImportHandlerOptions forwards options to the ImportHandler constructor.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportCommand]) Option {
	return func(cfg *options) {
		cfg.importOpts = append(cfg.importOpts, opts...)
	}
}

// WithValidateHandlerOptions forwards options to the ValidateHandler constructor.
func WithValidateHandlerOptions(opts ...commands.HandlerOption[ValidateCommand]) Option {
	return func(cfg *options) {
		cfg.validateOpts = append(cfg.validateOpts, opts...)
	}
}

// WithInvalidateCacheHandlerOptions forwards options to the InvalidateCacheHandler constructor.
func WithInvalidateCacheHandlerOptions(opts ...commands.HandlerOption[InvalidateCacheCommand]) Option {
	return func(cfg *options) {
		cfg.invalidateOpts = append(cfg.invalidateOpts, opts...)
	}
}

// RegisterCommands builds the menu link handlers and registers them with reg
// when one is given. The handler set is returned so callers can subscribe
// the handlers to a dispatcher.
func RegisterCommands(reg commands.CommandRegistry, service Service, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("menu links command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "menu_links")
	set := &HandlerSet{
		Export:          NewExportHandler(service, logger, cfg.observers, cfg.exportOpts...),
		Import:          NewImportHandler(service, logger, cfg.observers, cfg.importOpts...),
		Validate:        NewValidateHandler(service, logger, cfg.observers, cfg.validateOpts...),
		InvalidateCache: NewInvalidateCacheHandler(cfg.cache, logger, cfg.invalidateOpts...),
	}

	if reg != nil {
		for _, handler := range set.Handlers() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
