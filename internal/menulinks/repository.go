package menulinks

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewMenuLinkRepository creates a repository for MenuLink entities keyed by
// their stable uuid.
func NewMenuLinkRepository(db *bun.DB) repository.Repository[*MenuLink] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MenuLink]{
		NewRecord: func() *MenuLink { return &MenuLink{} },
		GetID: func(link *MenuLink) uuid.UUID {
			return link.ID
		},
		SetID: func(link *MenuLink, id uuid.UUID) {
			link.ID = id
		},
		GetIdentifier: func() string {
			return "uuid"
		},
		GetIdentifierValue: func(link *MenuLink) string {
			return link.UUID.String()
		},
	})
}

// NewMenuLinkTranslationRepository creates a repository for MenuLinkTranslation entities.
func NewMenuLinkTranslationRepository(db *bun.DB) repository.Repository[*MenuLinkTranslation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MenuLinkTranslation]{
		NewRecord: func() *MenuLinkTranslation { return &MenuLinkTranslation{} },
		GetID: func(tr *MenuLinkTranslation) uuid.UUID {
			return tr.ID
		},
		SetID: func(tr *MenuLinkTranslation, id uuid.UUID) {
			tr.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(tr *MenuLinkTranslation) string {
			return tr.ID.String()
		},
	})
}
