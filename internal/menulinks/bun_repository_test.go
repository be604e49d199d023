package menulinks_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/pkg/testsupport"
)

func TestStoreWithBunStorageAndCache(t *testing.T) {
	ctx := context.Background()

	db, err := testsupport.NewBunSQLiteDB(ctx, (*menulinks.MenuLink)(nil), (*menulinks.MenuLinkTranslation)(nil))
	if err != nil {
		t.Fatalf("new bun db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	serializer := repocache.NewDefaultKeySerializer()

	store, err := menulinks.NewStore(
		menulinks.NewBunMenuLinkRepositoryWithCache(db, cacheService, serializer),
		menulinks.NewBunMenuLinkTranslationRepositoryWithCache(db, cacheService, serializer),
	)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if found, err := store.FindByIdentity(ctx, homeID); err != nil || found != nil {
		t.Fatalf("expected no entity before create, got %v / %v", found, err)
	}

	home, err := store.Create(ctx, menulinks.Draft{
		Identity: homeID,
		Language: "en",
		Values: map[string]any{
			"menu_name": "main",
			"title":     "Home",
			"link":      map[string]any{"uri": "internal:/", "options": map[string]any{}},
		},
	})
	if err != nil {
		t.Fatalf("create home: %v", err)
	}
	about, err := store.Create(ctx, menulinks.Draft{
		Identity: aboutID,
		Language: "en",
		Values: map[string]any{
			"menu_name": "main",
			"title":     "About",
			"parent":    menulinks.ParentReference(homeID.String()),
			"weight":    1,
		},
	})
	if err != nil {
		t.Fatalf("create about: %v", err)
	}
	if _, err := store.AttachTranslation(ctx, about, "es", map[string]any{
		"title":                      "Acerca",
		"content_translation_source": "en",
	}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(all))
	}

	reloaded, err := store.FindByIdentity(ctx, aboutID)
	if err != nil || reloaded == nil {
		t.Fatalf("find about: %v", err)
	}
	if reloaded.Link.ParentID == nil || *reloaded.Link.ParentID != home.LocalID() {
		t.Fatalf("expected parent %s, got %v", home.LocalID(), reloaded.Link.ParentID)
	}
	if !reloaded.HasTranslation("es") || reloaded.Values("es")["title"] != "Acerca" {
		t.Fatalf("expected es translation, got %v", reloaded.Values("es"))
	}

	if err := store.Delete(ctx, []*menulinks.Entity{reloaded}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	direct, err := menulinks.NewStore(
		menulinks.NewBunMenuLinkRepository(db),
		menulinks.NewBunMenuLinkTranslationRepository(db),
	)
	if err != nil {
		t.Fatalf("new uncached store: %v", err)
	}
	if found, err := direct.FindByIdentity(ctx, aboutID); err != nil || found != nil {
		t.Fatalf("expected about to be deleted, got %v / %v", found, err)
	}
	remaining, err := direct.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load remaining: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Identity() != homeID {
		t.Fatalf("expected only home to remain, got %d", len(remaining))
	}
}
