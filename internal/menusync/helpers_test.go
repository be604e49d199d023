package menusync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/locales"
	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

var (
	homeID  = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	aboutID = uuid.MustParse("22222222-2222-4222-8222-222222222222")
	teamID  = uuid.MustParse("33333333-3333-4333-8333-333333333333")
	strayID = uuid.MustParse("44444444-4444-4444-8444-444444444444")

	homeLocal  = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000001")
	aboutLocal = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000002")

	fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func clock() time.Time { return fixedNow }

func parentOf(id uuid.UUID) *string {
	ref := menulinks.ParentReference(id.String())
	return &ref
}

func makeRecord(id uuid.UUID, lang, source string, parent *string, title string) snapshot.Record {
	return snapshot.Record{
		Identity:          id,
		Language:          lang,
		MenuName:          "main",
		Parent:            parent,
		TranslationSource: source,
		Fields: map[string]any{
			menulinks.FieldTitle:   title,
			menulinks.FieldWeight:  0,
			menulinks.FieldEnabled: true,
			menulinks.FieldLink:    map[string]any{"uri": "internal:/" + strings.ToLower(title)},
		},
	}
}

func makeGroup(records ...snapshot.Record) snapshot.Group {
	return snapshot.Group{Identity: records[0].Identity, Records: records}
}

func makeSnapshot(groups ...snapshot.Group) *snapshot.Snapshot {
	snap := snapshot.New(fixedNow, nil)
	snap.Groups = groups
	return snap
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	levels   []interfaces.NotifyLevel
}

func (n *recordingNotifier) Notify(_ context.Context, level interfaces.NotifyLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, level)
	n.messages = append(n.messages, message)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCache(context.Context) error {
	c.calls++
	return nil
}

type fixture struct {
	store     *menulinks.Store
	snapshots *snapshot.MemoryStore
	notifier  *recordingNotifier
	service   *Service
}

func newFixture(t *testing.T, snap *snapshot.Snapshot, opts ...ServiceOption) *fixture {
	t.Helper()
	f := &fixture{
		store:     menulinks.NewMemoryStore(menulinks.WithStoreClock(clock)),
		snapshots: snapshot.NewMemoryStore(),
		notifier:  &recordingNotifier{},
	}
	if snap != nil {
		if err := f.snapshots.Write(context.Background(), snap); err != nil {
			t.Fatalf("write snapshot: %v", err)
		}
	}
	opts = append([]ServiceOption{WithClock(clock), WithNotifier(f.notifier)}, opts...)
	service, err := NewService(f.store, f.snapshots, locales.NewStaticRegistry("en", "es", "fr"), opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.service = service
	return f
}

// seed creates a live link directly in the store.
func (f *fixture) seed(t *testing.T, id uuid.UUID, menu, lang, title string, parent *string) *menulinks.Entity {
	t.Helper()
	values := map[string]any{
		menulinks.FieldMenuName: menu,
		menulinks.FieldTitle:    title,
		menulinks.FieldLink:     map[string]any{"uri": "internal:/" + strings.ToLower(title)},
	}
	if parent != nil {
		values[menulinks.FieldParent] = *parent
	}
	entity, err := f.store.Create(context.Background(), menulinks.Draft{
		Identity: id,
		Language: lang,
		Values:   values,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", title, err)
	}
	return entity
}

func (f *fixture) translate(t *testing.T, entity *menulinks.Entity, lang, source, title string) *menulinks.Entity {
	t.Helper()
	updated, err := f.store.AttachTranslation(context.Background(), entity, lang, map[string]any{
		menulinks.FieldTitle:             title,
		menulinks.FieldTranslationSource: source,
	})
	if err != nil {
		t.Fatalf("translate %s/%s: %v", entity.Identity(), lang, err)
	}
	return updated
}

func (f *fixture) find(t *testing.T, id uuid.UUID) *menulinks.Entity {
	t.Helper()
	entity, err := f.store.FindByIdentity(context.Background(), id)
	if err != nil {
		t.Fatalf("find %s: %v", id, err)
	}
	return entity
}

func (f *fixture) all(t *testing.T) []*menulinks.Entity {
	t.Helper()
	entities, err := f.store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	return entities
}

var errStoreUnavailable = errors.New("store unavailable")

// failingStore fails selected writes and delegates everything else.
type failingStore struct {
	Store
	createFails map[uuid.UUID]bool
	deleteFails bool
}

func (s *failingStore) Create(ctx context.Context, draft menulinks.Draft) (*menulinks.Entity, error) {
	if s.createFails[draft.Identity] {
		return nil, errStoreUnavailable
	}
	return s.Store.Create(ctx, draft)
}

func (s *failingStore) Delete(ctx context.Context, entities []*menulinks.Entity) error {
	if s.deleteFails {
		return errStoreUnavailable
	}
	return s.Store.Delete(ctx, entities)
}

// serviceOver builds a service sharing the fixture snapshots and notifier
// but writing through store.
func (f *fixture) serviceOver(t *testing.T, store Store, opts ...ServiceOption) *Service {
	t.Helper()
	opts = append([]ServiceOption{WithClock(clock), WithNotifier(f.notifier)}, opts...)
	service, err := NewService(store, f.snapshots, locales.NewStaticRegistry("en", "es", "fr"), opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}
