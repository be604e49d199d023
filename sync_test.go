package structuresync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	structuresync "github.com/goliatone/go-structure-sync"
	"github.com/goliatone/go-structure-sync/internal/commands/fixtures"
	"github.com/goliatone/go-structure-sync/internal/menulinks"
)

var homeID = uuid.MustParse("11111111-1111-4111-8111-111111111111")

func newMemoryModule(t *testing.T, mutate func(*structuresync.Config)) *structuresync.Module {
	t.Helper()

	cfg := structuresync.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Snapshot.Provider = "memory"
	cfg.I18N.Locales = []string{"en", "es"}
	if mutate != nil {
		mutate(&cfg)
	}

	module, err := structuresync.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	if _, err := module.Container().MenuLinkStore().Create(context.Background(), menulinks.Draft{
		Identity: homeID,
		Language: "en",
		Values: map[string]any{
			menulinks.FieldMenuName: "main",
			menulinks.FieldTitle:    "Home",
		},
	}); err != nil {
		t.Fatalf("seed link: %v", err)
	}
	return module
}

func TestModuleImportRequiresStyle(t *testing.T) {
	ctx := context.Background()
	module := newMemoryModule(t, nil)

	if _, err := module.Export(ctx, structuresync.ExportOptions{}); err != nil {
		t.Fatalf("export: %v", err)
	}

	_, err := module.Import(ctx, structuresync.ImportOptions{})
	if !errors.Is(err, structuresync.ErrStyleRequired) {
		t.Fatalf("expected ErrStyleRequired, got %v", err)
	}
	var cfgErr *structuresync.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error, got %T", err)
	}
}

func TestModuleImportUsesConfiguredDefaultStyle(t *testing.T) {
	ctx := context.Background()
	module := newMemoryModule(t, func(cfg *structuresync.Config) {
		cfg.Sync.DefaultStyle = "full"
	})

	if _, err := module.Export(ctx, structuresync.ExportOptions{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	result, err := module.Import(ctx, structuresync.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Style != structuresync.StyleFull || result.Updated != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestModuleInvalidateCacheRequiresCache(t *testing.T) {
	module := newMemoryModule(t, nil)

	if err := module.InvalidateCache(context.Background()); !errors.Is(err, structuresync.ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
}

func TestModuleRegisterCommands(t *testing.T) {
	module := newMemoryModule(t, nil)
	registry := fixtures.NewRecordingRegistry()
	dispatcher := fixtures.NewRecordingDispatcher()

	result, err := module.RegisterCommands(structuresync.RegistrationOptions{
		Registry:   registry,
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 6 || len(registry.Handlers) != 6 {
		t.Fatalf("expected 6 handlers, got %d / %d", len(result.Handlers), len(registry.Handlers))
	}
	if len(result.Subscriptions) != 6 {
		t.Fatalf("expected 6 subscriptions, got %d", len(result.Subscriptions))
	}
}

func TestParseStyle(t *testing.T) {
	if style, err := structuresync.ParseStyle(" Force "); err != nil || style != structuresync.StyleForce {
		t.Fatalf("expected force, got %q / %v", style, err)
	}
	if _, err := structuresync.ParseStyle("mirror"); !errors.Is(err, structuresync.ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}
}
