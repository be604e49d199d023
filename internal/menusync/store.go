package menusync

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/menulinks"
)

// Store is the live menu link persistence the engine works against.
type Store interface {
	// FindByIdentity returns nil and no error when the identity is unknown.
	FindByIdentity(ctx context.Context, identity uuid.UUID) (*menulinks.Entity, error)
	FindByFilter(ctx context.Context, filter menulinks.Filter) ([]*menulinks.Entity, error)
	LoadAll(ctx context.Context) ([]*menulinks.Entity, error)
	Create(ctx context.Context, draft menulinks.Draft) (*menulinks.Entity, error)
	AttachTranslation(ctx context.Context, entity *menulinks.Entity, lang string, values map[string]any) (*menulinks.Entity, error)
	SetFieldValue(entity *menulinks.Entity, field string, value any, lang string) error
	Save(ctx context.Context, entity *menulinks.Entity) error
	Delete(ctx context.Context, entities []*menulinks.Entity) error
	RemoveTranslation(ctx context.Context, entity *menulinks.Entity, lang string) error
	IsFieldTranslatable(field string) bool
}

var _ Store = (*menulinks.Store)(nil)

// CacheInvalidator clears read caches after an import.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}
