package menulinks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MenuLinkRepository exposes persistence operations for menu links.
type MenuLinkRepository interface {
	Create(ctx context.Context, link *MenuLink) (*MenuLink, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MenuLink, error)
	GetByUUID(ctx context.Context, identity uuid.UUID) (*MenuLink, error)
	// List returns links matching filter ordered by menu, weight and uuid.
	List(ctx context.Context, filter Filter) ([]*MenuLink, error)
	Update(ctx context.Context, link *MenuLink) (*MenuLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MenuLinkTranslationRepository exposes persistence operations for link translations.
type MenuLinkTranslationRepository interface {
	Create(ctx context.Context, translation *MenuLinkTranslation) (*MenuLinkTranslation, error)
	GetByLinkAndLanguage(ctx context.Context, linkID uuid.UUID, langcode string) (*MenuLinkTranslation, error)
	ListByLinks(ctx context.Context, linkIDs []uuid.UUID) ([]*MenuLinkTranslation, error)
	Update(ctx context.Context, translation *MenuLinkTranslation) (*MenuLinkTranslation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CacheInvalidator is implemented by repositories that keep a read cache.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// NotFoundError is returned when a menu link resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
