package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MENUSYNC_STORAGE_DSN.
const EnvPrefix = "MENUSYNC"

// Load reads the configuration file at path, when given, on top of
// DefaultConfig. A .env file next to the configuration is loaded first and
// environment variables win over file values.
func Load(path string) (Config, error) {
	dir := "."
	if path != "" {
		dir = filepath.Dir(path)
	}
	envFile := filepath.Join(dir, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("sync config: load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("sync config: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("sync config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("sync config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("storage.provider", cfg.Storage.Provider)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("i18n.locales", cfg.I18N.Locales)
	v.SetDefault("i18n.default_locale", cfg.I18N.DefaultLocale)
	v.SetDefault("snapshot.provider", cfg.Snapshot.Provider)
	v.SetDefault("snapshot.path", cfg.Snapshot.Path)
	v.SetDefault("snapshot.key", cfg.Snapshot.Key)
	v.SetDefault("sync.default_style", cfg.Sync.DefaultStyle)
	v.SetDefault("sync.menus", cfg.Sync.Menus)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
	v.SetDefault("features.logger", cfg.Features.Logger)
	v.SetDefault("features.cache", cfg.Features.Cache)
}
