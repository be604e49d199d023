package structuresync

import "github.com/goliatone/go-structure-sync/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown   = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired       = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid          = runtimeconfig.ErrCacheTTLInvalid
	ErrCacheFeatureRequired     = runtimeconfig.ErrCacheFeatureRequired
	ErrLocalesRequired          = runtimeconfig.ErrLocalesRequired
	ErrDefaultLocaleUnknown     = runtimeconfig.ErrDefaultLocaleUnknown
	ErrSnapshotProviderUnknown  = runtimeconfig.ErrSnapshotProviderUnknown
	ErrSnapshotPathRequired     = runtimeconfig.ErrSnapshotPathRequired
	ErrSnapshotDatabaseRequired = runtimeconfig.ErrSnapshotDatabaseRequired
	ErrSyncStyleInvalid         = runtimeconfig.ErrSyncStyleInvalid
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	I18NConfig     = runtimeconfig.I18NConfig
	SnapshotConfig = runtimeconfig.SnapshotConfig
	SyncConfig     = runtimeconfig.SyncConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	Features       = runtimeconfig.Features
)

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML, TOML or JSON file and MENUSYNC_* environment
// overrides on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
