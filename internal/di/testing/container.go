package ditesting

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/di"
	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/runtimeconfig"
)

// MemoryConfig returns a configuration using in-memory links and snapshots.
func MemoryConfig(locales ...string) runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageMemory
	cfg.Snapshot.Provider = runtimeconfig.SnapshotMemory
	if len(locales) > 0 {
		cfg.I18N.Locales = locales
		cfg.I18N.DefaultLocale = locales[0]
	}
	return cfg
}

// SQLiteConfig returns a configuration backed by a private in-memory SQLite
// database, with snapshots kept in the same database.
func SQLiteConfig(locales ...string) runtimeconfig.Config {
	cfg := MemoryConfig(locales...)
	cfg.Storage.Provider = runtimeconfig.StorageSQLite
	cfg.Storage.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.Snapshot.Provider = runtimeconfig.SnapshotDatabase
	return cfg
}

// NewContainer builds a container from cfg and closes it when the test ends.
func NewContainer(tb testing.TB, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	tb.Helper()

	container, err := di.NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		tb.Fatalf("new container: %v", err)
	}
	tb.Cleanup(func() { _ = container.Close() })
	return container
}

// SeedLink creates a link in the container store with the given default
// language values.
func SeedLink(tb testing.TB, container *di.Container, id uuid.UUID, menu, lang, title string) *menulinks.Entity {
	tb.Helper()

	entity, err := container.MenuLinkStore().Create(context.Background(), menulinks.Draft{
		Identity: id,
		Language: lang,
		Values: map[string]any{
			menulinks.FieldMenuName: menu,
			menulinks.FieldTitle:    title,
			menulinks.FieldLink:     map[string]any{"uri": "internal:/", "options": map[string]any{}},
		},
	})
	if err != nil {
		tb.Fatalf("seed link %s: %v", id, err)
	}
	return entity
}
