package menulinks

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunMenuLinkRepository implements MenuLinkRepository with optional caching.
type BunMenuLinkRepository struct {
	repo         repository.Repository[*MenuLink]
	cacheService cache.CacheService
	cachePrefix  string
}

const menuLinkNamespace = "menu_link_content"

// NewBunMenuLinkRepository creates a menu link repository without caching.
func NewBunMenuLinkRepository(db *bun.DB) *BunMenuLinkRepository {
	return NewBunMenuLinkRepositoryWithCache(db, nil, nil)
}

// NewBunMenuLinkRepositoryWithCache creates a menu link repository with caching services.
func NewBunMenuLinkRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMenuLinkRepository {
	base := NewMenuLinkRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(menuLinkNamespace)
	}
	return &BunMenuLinkRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunMenuLinkRepository) Create(ctx context.Context, link *MenuLink) (*MenuLink, error) {
	record, err := r.repo.Create(ctx, link)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunMenuLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*MenuLink, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "menu_link", id.String())
	}
	return record, nil
}

func (r *BunMenuLinkRepository) GetByUUID(ctx context.Context, identity uuid.UUID) (*MenuLink, error) {
	record, err := r.repo.GetByIdentifier(ctx, identity.String())
	if err != nil {
		return nil, mapRepositoryError(err, "menu_link", identity.String())
	}
	return record, nil
}

func (r *BunMenuLinkRepository) List(ctx context.Context, filter Filter) ([]*MenuLink, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if len(filter.Menus) > 0 {
				q = q.Where("?TableAlias.menu_name IN (?)", bun.In(filter.Menus))
			}
			if len(filter.Identities) > 0 {
				q = q.Where("?TableAlias.uuid IN (?)", bun.In(filter.Identities))
			}
			if len(filter.LocalIDs) > 0 {
				q = q.Where("?TableAlias.id IN (?)", bun.In(filter.LocalIDs))
			}
			return q.OrderExpr("?TableAlias.menu_name ASC").
				OrderExpr("?TableAlias.weight ASC").
				OrderExpr("?TableAlias.uuid ASC")
		}),
	)
	return records, err
}

func (r *BunMenuLinkRepository) Update(ctx context.Context, link *MenuLink) (*MenuLink, error) {
	record, err := r.repo.Update(ctx, link)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunMenuLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &MenuLink{ID: id})
}

func (r *BunMenuLinkRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunMenuLinkTranslationRepository implements MenuLinkTranslationRepository with optional caching.
type BunMenuLinkTranslationRepository struct {
	repo         repository.Repository[*MenuLinkTranslation]
	cacheService cache.CacheService
	cachePrefix  string
}

const menuLinkTranslationNamespace = "menu_link_content_data"

// NewBunMenuLinkTranslationRepository creates a translation repository without caching.
func NewBunMenuLinkTranslationRepository(db *bun.DB) *BunMenuLinkTranslationRepository {
	return NewBunMenuLinkTranslationRepositoryWithCache(db, nil, nil)
}

// NewBunMenuLinkTranslationRepositoryWithCache creates a translation repository with caching services.
func NewBunMenuLinkTranslationRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMenuLinkTranslationRepository {
	base := NewMenuLinkTranslationRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(menuLinkTranslationNamespace)
	}
	return &BunMenuLinkTranslationRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunMenuLinkTranslationRepository) Create(ctx context.Context, translation *MenuLinkTranslation) (*MenuLinkTranslation, error) {
	record, err := r.repo.Create(ctx, translation)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunMenuLinkTranslationRepository) GetByLinkAndLanguage(ctx context.Context, linkID uuid.UUID, langcode string) (*MenuLinkTranslation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.link_id = ?", linkID).
				Where("?TableAlias.langcode = ?", langcode)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "menu_link_translation", Key: translationKey(linkID, langcode)}
	}
	return records[0], nil
}

func (r *BunMenuLinkTranslationRepository) ListByLinks(ctx context.Context, linkIDs []uuid.UUID) ([]*MenuLinkTranslation, error) {
	if len(linkIDs) == 0 {
		return nil, nil
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.link_id IN (?)", bun.In(linkIDs)).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	return records, err
}

func (r *BunMenuLinkTranslationRepository) Update(ctx context.Context, translation *MenuLinkTranslation) (*MenuLinkTranslation, error) {
	record, err := r.repo.Update(ctx, translation)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunMenuLinkTranslationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &MenuLinkTranslation{ID: id})
}

func (r *BunMenuLinkTranslationRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}

func translationKey(linkID uuid.UUID, langcode string) string {
	return linkID.String() + ":" + langcode
}
