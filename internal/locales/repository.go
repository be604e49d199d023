package locales

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-structure-sync/internal/identity"
)

// LocaleRepository exposes the language registry rows.
type LocaleRepository interface {
	GetByCode(ctx context.Context, code string) (*Locale, error)
	// List returns every locale ordered by position.
	List(ctx context.Context) ([]*Locale, error)
	Upsert(ctx context.Context, locale *Locale) (*Locale, error)
}

// NotFoundError is returned when a locale cannot be located.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("locale %q not found", e.Key)
}

// NewLocaleRepository creates a repository for Locale entities keyed by code.
func NewLocaleRepository(db *bun.DB) repository.Repository[*Locale] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Locale]{
		NewRecord: func() *Locale { return &Locale{} },
		GetID: func(l *Locale) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Locale, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "code"
		},
		GetIdentifierValue: func(l *Locale) string {
			return l.Code
		},
	})
}

type BunLocaleRepository struct {
	repo repository.Repository[*Locale]
}

func NewBunLocaleRepository(db *bun.DB) *BunLocaleRepository {
	return NewBunLocaleRepositoryWithCache(db, nil, nil)
}

// NewBunLocaleRepositoryWithCache constructs a LocaleRepository with optional caching.
func NewBunLocaleRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunLocaleRepository {
	base := NewLocaleRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunLocaleRepository{repo: base}
}

func (r *BunLocaleRepository) GetByCode(ctx context.Context, code string) (*Locale, error) {
	result, err := r.repo.GetByIdentifier(ctx, normalizeCode(code))
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Key: code}
		}
		return nil, fmt.Errorf("locale repository error: %w", err)
	}
	return result, nil
}

func (r *BunLocaleRepository) List(ctx context.Context) ([]*Locale, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.position ASC").
				OrderExpr("?TableAlias.code ASC")
		}),
	)
	return records, err
}

// Upsert inserts locale, or updates the row that already holds its code.
func (r *BunLocaleRepository) Upsert(ctx context.Context, locale *Locale) (*Locale, error) {
	prepared := prepareLocale(locale)
	existing, err := r.GetByCode(ctx, prepared.Code)
	if err == nil {
		prepared.ID = existing.ID
		return r.repo.Update(ctx, prepared)
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}
	return r.repo.Create(ctx, prepared)
}

// MemoryLocaleRepository stores locales by code.
type MemoryLocaleRepository struct {
	mu      sync.RWMutex
	locales map[string]*Locale
}

// NewMemoryLocaleRepository constructs the repository.
func NewMemoryLocaleRepository() *MemoryLocaleRepository {
	return &MemoryLocaleRepository{
		locales: make(map[string]*Locale),
	}
}

// GetByCode resolves a locale by code (case-insensitive).
func (m *MemoryLocaleRepository) GetByCode(_ context.Context, code string) (*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locales[normalizeCode(code)]
	if !ok {
		return nil, &NotFoundError{Key: code}
	}
	copied := *loc
	return &copied, nil
}

func (m *MemoryLocaleRepository) List(_ context.Context) ([]*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Locale, 0, len(m.locales))
	for _, loc := range m.locales {
		copied := *loc
		out = append(out, &copied)
	}
	slices.SortFunc(out, func(a, b *Locale) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.Code, b.Code))
	})
	return out, nil
}

func (m *MemoryLocaleRepository) Upsert(_ context.Context, locale *Locale) (*Locale, error) {
	prepared := prepareLocale(locale)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locales[prepared.Code] = prepared
	copied := *prepared
	return &copied, nil
}

func prepareLocale(locale *Locale) *Locale {
	copied := *locale
	copied.Code = normalizeCode(copied.Code)
	if copied.ID == uuid.Nil {
		copied.ID = identity.LocaleUUID(copied.Code)
	}
	if copied.Display == "" {
		copied.Display = copied.Code
	}
	return &copied
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
