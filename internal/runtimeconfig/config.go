package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-structure-sync/internal/menusync"
)

var (
	ErrStorageProviderUnknown   = errors.New("sync config: storage provider is invalid")
	ErrStorageDSNRequired       = errors.New("sync config: storage dsn is required for sql providers")
	ErrCacheTTLInvalid          = errors.New("sync config: cache ttl must be positive when cache is enabled")
	ErrCacheFeatureRequired     = errors.New("sync config: cache feature must be enabled to enable the cache")
	ErrLocalesRequired          = errors.New("sync config: at least one locale is required")
	ErrDefaultLocaleUnknown     = errors.New("sync config: default locale must be one of the configured locales")
	ErrSnapshotProviderUnknown  = errors.New("sync config: snapshot provider is invalid")
	ErrSnapshotPathRequired     = errors.New("sync config: snapshot path is required for the file provider")
	ErrSnapshotDatabaseRequired = errors.New("sync config: database snapshots require sql storage")
	ErrSyncStyleInvalid         = errors.New("sync config: default import style is invalid")
	ErrLoggingProviderRequired  = errors.New("sync config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown   = errors.New("sync config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("sync config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("sync config: logging format is invalid")
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	SnapshotMemory   = "memory"
	SnapshotFile     = "file"
	SnapshotDatabase = "database"
)

// Config aggregates the adapter bindings and feature flags of the sync module.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	I18N     I18NConfig     `mapstructure:"i18n"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Features Features       `mapstructure:"features"`
}

// StorageConfig selects the live menu link store.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// I18NConfig lists the languages exported for every link. The default
// locale is seeded as the site default.
type I18NConfig struct {
	Locales       []string `mapstructure:"locales"`
	DefaultLocale string   `mapstructure:"default_locale"`
}

// SnapshotConfig selects where snapshots are kept.
type SnapshotConfig struct {
	Provider string `mapstructure:"provider"`
	Path     string `mapstructure:"path"`
	// Key names the snapshot row for the database provider.
	Key string `mapstructure:"key"`
}

// SyncConfig holds import defaults used when a caller leaves them blank.
type SyncConfig struct {
	DefaultStyle string   `mapstructure:"default_style"`
	Menus        []string `mapstructure:"menus"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// Features toggles optional modules.
type Features struct {
	Logger bool `mapstructure:"logger"`
	Cache  bool `mapstructure:"cache"`
}

// DefaultConfig returns an in-process setup: SQLite in memory, YAML file
// snapshots and no logging. No import style is preset.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: StorageSQLite,
			DSN:      "file:menusync?mode=memory&cache=shared",
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		I18N: I18NConfig{
			Locales:       []string{"en"},
			DefaultLocale: "en",
		},
		Snapshot: SnapshotConfig{
			Provider: SnapshotFile,
			Path:     "config/sync/menu_links.yml",
			Key:      "menus",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch provider := normalize(cfg.Storage.Provider); provider {
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, provider)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Cache.Enabled {
		if !cfg.Features.Cache {
			return ErrCacheFeatureRequired
		}
		if cfg.Cache.TTL <= 0 {
			return ErrCacheTTLInvalid
		}
	}

	locales := cfg.I18N.NormalizedLocales()
	if len(locales) == 0 {
		return ErrLocalesRequired
	}
	if def := normalize(cfg.I18N.DefaultLocale); def != "" && !slices.Contains(locales, def) {
		return fmt.Errorf("%w: %s", ErrDefaultLocaleUnknown, def)
	}

	switch provider := normalize(cfg.Snapshot.Provider); provider {
	case SnapshotMemory:
	case SnapshotFile:
		if strings.TrimSpace(cfg.Snapshot.Path) == "" {
			return ErrSnapshotPathRequired
		}
	case SnapshotDatabase:
		if normalize(cfg.Storage.Provider) == StorageMemory {
			return ErrSnapshotDatabaseRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrSnapshotProviderUnknown, cfg.Snapshot.Provider)
	}

	if style := strings.TrimSpace(cfg.Sync.DefaultStyle); style != "" {
		if _, err := menusync.ParseStyle(style); err != nil {
			return fmt.Errorf("%w: %s", ErrSyncStyleInvalid, style)
		}
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// NormalizedLocales returns the configured locales lower cased, without
// blanks or duplicates.
func (c I18NConfig) NormalizedLocales() []string {
	out := make([]string, 0, len(c.Locales))
	for _, code := range c.Locales {
		code = normalize(code)
		if code == "" || slices.Contains(out, code) {
			continue
		}
		out = append(out, code)
	}
	return out
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
