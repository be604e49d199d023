package menulinks

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type memoryMenuLinkRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*MenuLink
	byUUID map[uuid.UUID]uuid.UUID
}

// NewMemoryMenuLinkRepository constructs an in-memory repository for menu links.
func NewMemoryMenuLinkRepository() MenuLinkRepository {
	return &memoryMenuLinkRepository{
		byID:   make(map[uuid.UUID]*MenuLink),
		byUUID: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *memoryMenuLinkRepository) Create(_ context.Context, link *MenuLink) (*MenuLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneMenuLink(link)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.byID[cloned.ID] = cloned
	m.byUUID[cloned.UUID] = cloned.ID
	return cloneMenuLink(cloned), nil
}

func (m *memoryMenuLinkRepository) GetByID(_ context.Context, id uuid.UUID) (*MenuLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu_link", Key: id.String()}
	}
	return cloneMenuLink(record), nil
}

func (m *memoryMenuLinkRepository) GetByUUID(_ context.Context, identity uuid.UUID) (*MenuLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byUUID[identity]
	if !ok {
		return nil, &NotFoundError{Resource: "menu_link", Key: identity.String()}
	}
	return cloneMenuLink(m.byID[id]), nil
}

func (m *memoryMenuLinkRepository) List(_ context.Context, filter Filter) ([]*MenuLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*MenuLink, 0, len(m.byID))
	for _, record := range m.byID {
		if filter.Matches(record) {
			records = append(records, cloneMenuLink(record))
		}
	}
	slices.SortFunc(records, func(a, b *MenuLink) int {
		return cmp.Or(
			cmp.Compare(a.MenuName, b.MenuName),
			cmp.Compare(a.Weight, b.Weight),
			cmp.Compare(a.UUID.String(), b.UUID.String()),
		)
	})
	return records, nil
}

func (m *memoryMenuLinkRepository) Update(_ context.Context, link *MenuLink) (*MenuLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[link.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "menu_link", Key: link.ID.String()}
	}
	if existing.UUID != link.UUID {
		delete(m.byUUID, existing.UUID)
	}

	cloned := cloneMenuLink(link)
	m.byID[cloned.ID] = cloned
	m.byUUID[cloned.UUID] = cloned.ID
	return cloneMenuLink(cloned), nil
}

func (m *memoryMenuLinkRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "menu_link", Key: id.String()}
	}
	delete(m.byUUID, existing.UUID)
	delete(m.byID, id)
	return nil
}

type memoryMenuLinkTranslationRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*MenuLinkTranslation
	byLink map[uuid.UUID][]uuid.UUID
}

// NewMemoryMenuLinkTranslationRepository constructs an in-memory repository for link translations.
func NewMemoryMenuLinkTranslationRepository() MenuLinkTranslationRepository {
	return &memoryMenuLinkTranslationRepository{
		byID:   make(map[uuid.UUID]*MenuLinkTranslation),
		byLink: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *memoryMenuLinkTranslationRepository) Create(_ context.Context, translation *MenuLinkTranslation) (*MenuLinkTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneTranslation(translation)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	if _, exists := m.byID[cloned.ID]; !exists {
		m.byLink[cloned.LinkID] = append(m.byLink[cloned.LinkID], cloned.ID)
	}
	m.byID[cloned.ID] = cloned
	return cloneTranslation(cloned), nil
}

func (m *memoryMenuLinkTranslationRepository) GetByLinkAndLanguage(_ context.Context, linkID uuid.UUID, langcode string) (*MenuLinkTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.byLink[linkID] {
		if record := m.byID[id]; record != nil && record.Langcode == langcode {
			return cloneTranslation(record), nil
		}
	}
	return nil, &NotFoundError{Resource: "menu_link_translation", Key: translationKey(linkID, langcode)}
}

func (m *memoryMenuLinkTranslationRepository) ListByLinks(_ context.Context, linkIDs []uuid.UUID) ([]*MenuLinkTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*MenuLinkTranslation
	for _, linkID := range linkIDs {
		for _, id := range m.byLink[linkID] {
			if record := m.byID[id]; record != nil {
				records = append(records, cloneTranslation(record))
			}
		}
	}
	return records, nil
}

func (m *memoryMenuLinkTranslationRepository) Update(_ context.Context, translation *MenuLinkTranslation) (*MenuLinkTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[translation.ID]; !ok {
		return nil, &NotFoundError{Resource: "menu_link_translation", Key: translation.ID.String()}
	}
	cloned := cloneTranslation(translation)
	m.byID[cloned.ID] = cloned
	return cloneTranslation(cloned), nil
}

func (m *memoryMenuLinkTranslationRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "menu_link_translation", Key: id.String()}
	}
	m.byLink[existing.LinkID] = slices.DeleteFunc(m.byLink[existing.LinkID], func(candidate uuid.UUID) bool {
		return candidate == id
	})
	if len(m.byLink[existing.LinkID]) == 0 {
		delete(m.byLink, existing.LinkID)
	}
	delete(m.byID, id)
	return nil
}

func cloneMenuLink(src *MenuLink) *MenuLink {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.ParentRef != nil {
		ref := *src.ParentRef
		cloned.ParentRef = &ref
	}
	if src.ParentID != nil {
		id := *src.ParentID
		cloned.ParentID = &id
	}
	cloned.Translations = nil
	return &cloned
}

func cloneTranslation(src *MenuLinkTranslation) *MenuLinkTranslation {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.Description != nil {
		desc := *src.Description
		cloned.Description = &desc
	}
	cloned.Link = cloneLinkTarget(src.Link)
	cloned.MenuLink = nil
	return &cloned
}

func cloneLinkTarget(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	cloned := maps.Clone(src)
	if options, ok := src["options"].(map[string]any); ok {
		cloned["options"] = maps.Clone(options)
	}
	return cloned
}
