package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-structure-sync/internal/commands"
	auditcmd "github.com/goliatone/go-structure-sync/internal/commands/audit"
	menulinkscmd "github.com/goliatone/go-structure-sync/internal/commands/menulinks"
	"github.com/goliatone/go-structure-sync/internal/jobs"
	"github.com/goliatone/go-structure-sync/internal/locales"
	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/internal/logging/gologger"
	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/menusync"
	"github.com/goliatone/go-structure-sync/internal/runtimeconfig"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// ErrStorageDriverUnknown is returned when a storage provider has no SQL driver.
var ErrStorageDriverUnknown = errors.New("di: no sql driver for storage provider")

// Container wires the sync engine from runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	notifier       interfaces.Notifier

	bunDB    *bun.DB
	ownsDB   bool
	cacheTTL time.Duration

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	linkRepo        menulinks.MenuLinkRepository
	translationRepo menulinks.MenuLinkTranslationRepository
	localeRepo      locales.LocaleRepository

	store     *menulinks.Store
	registry  locales.Registry
	snapshots snapshot.Store
	audit     jobs.AuditRecorder
	runner    *jobs.Runner

	listeners []menusync.FinishListener
	service   *menusync.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an open database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the logger provider built from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithSnapshotStore overrides the snapshot store selected by configuration.
func WithSnapshotStore(store snapshot.Store) Option {
	return func(c *Container) {
		c.snapshots = store
	}
}

// WithRegistry overrides the locale backed language registry.
func WithRegistry(registry locales.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

func WithAuditRecorder(recorder jobs.AuditRecorder) Option {
	return func(c *Container) {
		c.audit = recorder
	}
}

// WithFinishListener is forwarded to the sync service.
func WithFinishListener(fn menusync.FinishListener) Option {
	return func(c *Container) {
		if fn != nil {
			c.listeners = append(c.listeners, fn)
		}
	}
}

// NewContainer validates cfg, opens storage and builds the sync service.
// Locales from configuration are seeded into the locale table.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Cache.TTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = time.Minute
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()

	steps := []func(context.Context) error{
		c.configureStorage,
		c.configureRepositories,
		c.configureLocales,
		c.configureSnapshots,
		c.configureService,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		c.cacheService = nil
		c.keySerializer = nil
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		cfg.TTL = c.cacheTTL
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			logging.ModuleLogger(c.loggerProvider, "sync.di").Warn("di.cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider))
	if c.bunDB == nil && provider != runtimeconfig.StorageMemory {
		db, err := openDB(provider, c.Config.Storage.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB == nil {
		return nil
	}
	return ensureSchema(ctx, c.bunDB)
}

func openDB(provider, dsn string) (*bun.DB, error) {
	switch provider {
	case runtimeconfig.StorageSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case runtimeconfig.StoragePostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrStorageDriverUnknown, provider)
	}
}

func ensureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*menulinks.MenuLink)(nil),
		(*menulinks.MenuLinkTranslation)(nil),
		(*locales.Locale)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return nil
}

func (c *Container) configureRepositories(context.Context) error {
	switch {
	case c.bunDB != nil && c.cacheService != nil:
		c.linkRepo = menulinks.NewBunMenuLinkRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.translationRepo = menulinks.NewBunMenuLinkTranslationRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.localeRepo = locales.NewBunLocaleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	case c.bunDB != nil:
		c.linkRepo = menulinks.NewBunMenuLinkRepository(c.bunDB)
		c.translationRepo = menulinks.NewBunMenuLinkTranslationRepository(c.bunDB)
		c.localeRepo = locales.NewBunLocaleRepository(c.bunDB)
	default:
		c.linkRepo = menulinks.NewMemoryMenuLinkRepository()
		c.translationRepo = menulinks.NewMemoryMenuLinkTranslationRepository()
		c.localeRepo = locales.NewMemoryLocaleRepository()
	}

	store, err := menulinks.NewStore(c.linkRepo, c.translationRepo,
		menulinks.WithStoreLogger(logging.MenusLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

func (c *Container) configureLocales(ctx context.Context) error {
	if c.registry != nil {
		return nil
	}
	codes := c.Config.I18N.NormalizedLocales()
	if err := locales.Seed(ctx, c.localeRepo, c.Config.I18N.DefaultLocale, codes...); err != nil {
		return fmt.Errorf("seed locales: %w", err)
	}
	c.registry = locales.NewRepositoryRegistry(c.localeRepo)
	return nil
}

func (c *Container) configureSnapshots(ctx context.Context) error {
	if c.snapshots != nil {
		return nil
	}
	logger := logging.SnapshotLogger(c.loggerProvider)
	switch strings.ToLower(strings.TrimSpace(c.Config.Snapshot.Provider)) {
	case runtimeconfig.SnapshotMemory:
		c.snapshots = snapshot.NewMemoryStore()
	case runtimeconfig.SnapshotDatabase:
		store := snapshot.NewBunStore(c.bunDB, c.Config.Snapshot.Key, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("snapshot schema: %w", err)
		}
		c.snapshots = store
	default:
		store, err := snapshot.NewFileStore(c.Config.Snapshot.Path, snapshot.WithFileLogger(logger))
		if err != nil {
			return err
		}
		c.snapshots = store
	}
	return nil
}

func (c *Container) configureService(ctx context.Context) error {
	if c.audit == nil {
		if c.bunDB != nil {
			recorder := jobs.NewBunAuditRecorder(c.bunDB)
			if err := recorder.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("audit schema: %w", err)
			}
			c.audit = recorder
		} else {
			c.audit = jobs.NewInMemoryAuditRecorder()
		}
	}
	c.runner = jobs.NewRunner(
		jobs.WithLogger(logging.JobsLogger(c.loggerProvider)),
		jobs.WithAuditRecorder(c.audit),
	)

	opts := []menusync.ServiceOption{
		menusync.WithLogger(logging.MenusLogger(c.loggerProvider)),
		menusync.WithRunner(c.runner),
		menusync.WithCacheInvalidator(c.store),
	}
	if c.notifier != nil {
		opts = append(opts, menusync.WithNotifier(c.notifier))
	}
	for _, listener := range c.listeners {
		opts = append(opts, menusync.WithFinishListener(listener))
	}

	service, err := menusync.NewService(c.store, c.snapshots, c.registry, opts...)
	if err != nil {
		return err
	}
	c.service = service
	return nil
}

// RegisterCommands registers the menu link command handlers with reg. The
// cache command is only enabled when caching is configured.
func (c *Container) RegisterCommands(reg commands.CommandRegistry, opts ...menulinkscmd.Option) (*menulinkscmd.HandlerSet, error) {
	if c.cacheService != nil {
		opts = append([]menulinkscmd.Option{menulinkscmd.WithCacheInvalidator(c.store)}, opts...)
	}
	return menulinkscmd.RegisterCommands(reg, c.service, c.loggerProvider, opts...)
}

// AuditObservers receive the outcome of the audit commands.
type AuditObservers struct {
	Exported func([]jobs.AuditEvent)
	Cleaned  func(count int, dryRun bool)
}

// RegisterAuditCommands registers the batch audit export and cleanup
// handlers with reg and returns them.
func (c *Container) RegisterAuditCommands(reg commands.CommandRegistry, observers AuditObservers) ([]any, error) {
	logger := commands.CommandLogger(c.loggerProvider, "audit")
	handlers := []any{
		auditcmd.NewExportAuditHandler(c.audit, logger, observers.Exported),
		auditcmd.NewCleanupAuditHandler(c.audit, logger, observers.Cleaned),
	}
	if reg != nil {
		for _, handler := range handlers {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return handlers, nil
}

// SyncService returns the configured sync service.
func (c *Container) SyncService() *menusync.Service {
	return c.service
}

// MenuLinkStore exposes the live store, mainly for seeding and inspection.
func (c *Container) MenuLinkStore() *menulinks.Store {
	return c.store
}

func (c *Container) SnapshotStore() snapshot.Store {
	return c.snapshots
}

func (c *Container) LanguageRegistry() locales.Registry {
	return c.registry
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// AuditRecorder returns the recorder receiving batch step events. It is
// persisted in the database for SQL storage providers.
func (c *Container) AuditRecorder() jobs.AuditRecorder {
	return c.audit
}

// CacheService returns the repository cache, nil when caching is off.
func (c *Container) CacheService() repocache.CacheService {
	return c.cacheService
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}
