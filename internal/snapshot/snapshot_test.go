package snapshot_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/testsupport"
)

var (
	homeID    = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	aboutID   = uuid.MustParse("22222222-2222-4222-8222-222222222222")
	homeLocal = uuid.MustParse("aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa")
)

func ref(s string) *string { return &s }

func sampleSnapshot() *snapshot.Snapshot {
	snap := snapshot.New(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), []string{"main"})
	snap.Groups = []snapshot.Group{
		{
			Identity: homeID,
			Records: []snapshot.Record{
				{Identity: homeID, LocalID: homeLocal, Language: "en", MenuName: "main", TranslationSource: "und", Fields: map[string]any{"title": "Home", "weight": 0}},
				{Identity: homeID, LocalID: homeLocal, Language: "es", MenuName: "main", TranslationSource: "en", Fields: map[string]any{"title": "Inicio"}},
			},
		},
		{
			Identity: aboutID,
			Records: []snapshot.Record{
				{Identity: aboutID, Language: "en", MenuName: "main", Parent: ref("menu_link_content:" + homeID.String()), TranslationSource: "und", Fields: map[string]any{"title": "About"}},
			},
		},
	}
	return snap
}

func TestSnapshotHelpers(t *testing.T) {
	snap := sampleSnapshot()
	if snap.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", snap.Len())
	}
	if !snap.Contains(homeID, "es") || snap.Contains(aboutID, "es") {
		t.Fatal("unexpected Contains result")
	}
	if got := snap.Groups[0].Languages(); len(got) != 2 || got[0] != "en" {
		t.Fatalf("expected default language first, got %v", got)
	}
	if filtered := snap.FilterMenus([]string{"footer"}); len(filtered.Groups) != 0 {
		t.Fatalf("expected no footer groups, got %d", len(filtered.Groups))
	}
	if filtered := snap.FilterMenus(nil); filtered != snap {
		t.Fatal("expected empty filter to return the same snapshot")
	}
}

func TestFileStoreYAMLAndJSON(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"menus.yaml", "menus.json"} {
		t.Run(name, func(t *testing.T) {
			store, err := snapshot.NewFileStore(filepath.Join(t.TempDir(), "sync", name))
			if err != nil {
				t.Fatalf("new file store: %v", err)
			}

			if got, err := store.Read(ctx); err != nil || got != nil {
				t.Fatalf("expected empty read, got %v / %v", got, err)
			}
			if err := store.Write(ctx, sampleSnapshot()); err != nil {
				t.Fatalf("write: %v", err)
			}

			got, err := store.Read(ctx)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got.Len() != 3 || got.Groups[1].Identity != aboutID {
				t.Fatalf("unexpected snapshot after read: %+v", got)
			}
			if got.Groups[0].Records[0].LocalID != homeLocal {
				t.Fatalf("expected local id to survive, got %s", got.Groups[0].Records[0].LocalID)
			}
			if parent := got.Groups[1].Parent(); parent == nil || *parent != "menu_link_content:"+homeID.String() {
				t.Fatalf("unexpected parent %v", parent)
			}
			if title := got.Groups[0].Records[1].Fields["title"]; title != "Inicio" {
				t.Fatalf("unexpected title %v", title)
			}

			if err := store.Clear(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if got, _ := store.Read(ctx); got != nil {
				t.Fatal("expected cleared store to read nil")
			}
		})
	}
}

func TestMemoryStoreIsolatesWrites(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	snap := sampleSnapshot()
	if err := store.Write(ctx, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	snap.Groups[0].Records[0].Fields["title"] = "Changed"

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Groups[0].Records[0].Fields["title"] != "Home" {
		t.Fatal("expected stored snapshot to be immutable")
	}
}

func TestBunStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	db, err := testsupport.NewBunSQLiteDB(ctx)
	if err != nil {
		t.Fatalf("new bun db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := snapshot.NewBunStore(db, "", nil)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := store.Write(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("first write: %v", err)
	}

	smaller := sampleSnapshot()
	smaller.Groups = smaller.Groups[:1]
	if err := store.Write(ctx, smaller); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Groups) != 1 {
		t.Fatalf("expected overwrite to leave 1 group, got %d", len(got.Groups))
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, err := store.Read(ctx); err != nil || got != nil {
		t.Fatalf("expected nil after clear, got %v / %v", got, err)
	}
}

func TestValidateAcceptsSample(t *testing.T) {
	warnings, err := snapshot.Validate(sampleSnapshot())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestValidateRejectsDuplicateLanguage(t *testing.T) {
	snap := sampleSnapshot()
	snap.Groups[0].Records[1].Language = "en"

	_, err := snapshot.Validate(snap)
	var vErr *snapshot.ValidationError
	if !errors.As(err, &vErr) || !errors.Is(err, snapshot.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(vErr.Issues) != 1 || vErr.Issues[0].Location != "/groups/0/records/1" {
		t.Fatalf("unexpected issues %v", vErr.Issues)
	}
}

func TestValidateSchemaFailure(t *testing.T) {
	snap := sampleSnapshot()
	snap.Groups[1].Records[0].MenuName = ""

	if _, err := snapshot.Validate(snap); !errors.Is(err, snapshot.ErrInvalid) {
		t.Fatalf("expected schema failure, got %v", err)
	}
}

func TestValidateWarnsOnMissingSiblings(t *testing.T) {
	snap := sampleSnapshot()
	snap.Groups[0].Records = snap.Groups[0].Records[1:]
	snap.Groups[1].Records[0].Parent = ref("menu_link_content:" + uuid.NewString())

	warnings, err := snapshot.Validate(snap)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
}

func TestValidateWarnsOnUnknownFields(t *testing.T) {
	snap := sampleSnapshot()
	snap.Groups[1].Records[0].Fields["colour"] = "red"

	warnings, err := snapshot.Validate(snap)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("fields are not checked without a known list, got %v / %v", warnings, err)
	}

	warnings, err = snapshot.Validate(snap, snapshot.WithKnownFields("title", "weight"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Location != "/groups/1/records/0/fields/colour" {
		t.Fatalf("expected one unknown field warning, got %v", warnings)
	}
}
