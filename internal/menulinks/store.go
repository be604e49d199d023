package menulinks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/identity"
	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

var (
	ErrIdentityRequired     = errors.New("menulinks: identity is required")
	ErrLanguageRequired     = errors.New("menulinks: language is required")
	ErrDuplicateIdentity    = errors.New("menulinks: identity already exists")
	ErrLocalIDTaken         = errors.New("menulinks: local id already in use")
	ErrTranslationExists    = errors.New("menulinks: translation already exists")
	ErrDefaultTranslation   = errors.New("menulinks: cannot remove the default translation")
	ErrEntityNotPersisted   = errors.New("menulinks: entity has no link row")
	ErrRepositoriesRequired = errors.New("menulinks: link and translation repositories are required")
)

// Draft carries the values of a link that does not exist yet.
type Draft struct {
	Identity uuid.UUID
	// LocalID requests a specific store id. Zero lets the store assign one.
	LocalID  uuid.UUID
	Language string
	Values   map[string]any
}

// Store composes the link and translation repositories into entity level
// operations.
type Store struct {
	links        MenuLinkRepository
	translations MenuLinkTranslationRepository
	logger       interfaces.Logger
	now          func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for non fatal store diagnostics.
func WithStoreLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreClock overrides the timestamp source.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore wires a Store around the given repositories.
func NewStore(links MenuLinkRepository, translations MenuLinkTranslationRepository, opts ...StoreOption) (*Store, error) {
	if links == nil || translations == nil {
		return nil, ErrRepositoriesRequired
	}
	store := &Store{
		links:        links,
		translations: translations,
		logger:       logging.NoOp(),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// NewMemoryStore returns a Store backed by in-memory repositories.
func NewMemoryStore(opts ...StoreOption) *Store {
	store, _ := NewStore(NewMemoryMenuLinkRepository(), NewMemoryMenuLinkTranslationRepository(), opts...)
	return store
}

// FindByIdentity returns the entity with the given uuid, or nil when there is none.
func (s *Store) FindByIdentity(ctx context.Context, id uuid.UUID) (*Entity, error) {
	link, err := s.links.GetByUUID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	entities, err := s.hydrate(ctx, []*MenuLink{link})
	if err != nil {
		return nil, err
	}
	return entities[0], nil
}

// FindByFilter returns every entity matching filter.
func (s *Store) FindByFilter(ctx context.Context, filter Filter) ([]*Entity, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	links, err := s.links.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, links)
}

// LoadAll returns every entity in the store.
func (s *Store) LoadAll(ctx context.Context) ([]*Entity, error) {
	return s.FindByFilter(ctx, Filter{})
}

// Create persists a new link with a single translation in draft.Language.
func (s *Store) Create(ctx context.Context, draft Draft) (*Entity, error) {
	if draft.Identity == uuid.Nil {
		return nil, ErrIdentityRequired
	}
	if draft.Language == "" {
		return nil, ErrLanguageRequired
	}
	if existing, err := s.FindByIdentity(ctx, draft.Identity); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentity, draft.Identity)
	}

	localID := draft.LocalID
	if localID == uuid.Nil {
		localID = uuid.New()
	} else if _, err := s.links.GetByID(ctx, localID); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrLocalIDTaken, localID)
	} else if !IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	link := &MenuLink{
		ID:        localID,
		UUID:      draft.Identity,
		Langcode:  draft.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	translation := s.newTranslation(link.ID, draft.Language)
	entity := NewEntity(link, translation)
	if err := s.applyValues(entity, draft.Values, draft.Language); err != nil {
		return nil, err
	}
	if err := s.resolveParent(ctx, link); err != nil {
		return nil, err
	}

	created, err := s.links.Create(ctx, link)
	if err != nil {
		return nil, err
	}
	createdTranslation, err := s.translations.Create(ctx, translation)
	if err != nil {
		if delErr := s.links.Delete(ctx, created.ID); delErr != nil {
			s.logger.Warn("menulinks.create.rollback_failed", "error", delErr, "uuid", draft.Identity)
		}
		return nil, err
	}
	s.invalidate(ctx)
	return NewEntity(created, createdTranslation), nil
}

// AttachTranslation adds a lang translation to entity and persists it. Shared
// fields in values are applied to the link row as well; without any, the link
// row is not written.
func (s *Store) AttachTranslation(ctx context.Context, entity *Entity, lang string, values map[string]any) (*Entity, error) {
	if entity == nil || entity.Link == nil {
		return nil, ErrEntityNotPersisted
	}
	if lang == "" {
		return nil, ErrLanguageRequired
	}
	if entity.HasTranslation(lang) {
		return nil, fmt.Errorf("%w: %s/%s", ErrTranslationExists, entity.Identity(), lang)
	}

	translation := s.newTranslation(entity.LocalID(), lang)
	entity.putTranslation(translation)
	if err := s.applyValues(entity, values, lang); err != nil {
		entity.dropTranslation(lang)
		return nil, err
	}
	created, err := s.translations.Create(ctx, translation)
	if err != nil {
		entity.dropTranslation(lang)
		return nil, err
	}
	entity.putTranslation(created)
	if hasSharedField(values) {
		if err := s.saveLink(ctx, entity); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx)
	return entity, nil
}

// SetFieldValue writes value on the in-memory entity. Call Save to persist.
func (s *Store) SetFieldValue(entity *Entity, field string, value any, lang string) error {
	if entity == nil || entity.Link == nil {
		return ErrEntityNotPersisted
	}
	return entity.SetValue(field, value, lang)
}

// Save persists the link row and every loaded translation of entity.
func (s *Store) Save(ctx context.Context, entity *Entity) error {
	if entity == nil || entity.Link == nil {
		return ErrEntityNotPersisted
	}
	if err := s.saveLink(ctx, entity); err != nil {
		return err
	}
	for _, tr := range entity.Translations() {
		updated, err := s.translations.Update(ctx, tr)
		if err != nil {
			return err
		}
		entity.putTranslation(updated)
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes each entity together with all of its translations.
func (s *Store) Delete(ctx context.Context, entities []*Entity) error {
	var errs []error
	for _, entity := range entities {
		if entity == nil || entity.Link == nil {
			continue
		}
		if err := s.deleteOne(ctx, entity); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", entity.Identity(), err))
		}
	}
	s.invalidate(ctx)
	return errors.Join(errs...)
}

// RemoveTranslation deletes the lang translation of entity.
func (s *Store) RemoveTranslation(ctx context.Context, entity *Entity, lang string) error {
	if entity == nil || entity.Link == nil {
		return ErrEntityNotPersisted
	}
	if lang == entity.DefaultLanguage() {
		return ErrDefaultTranslation
	}
	tr := entity.Translation(lang)
	if tr == nil {
		return &NotFoundError{Resource: "menu_link_translation", Key: translationKey(entity.LocalID(), lang)}
	}
	if err := s.translations.Delete(ctx, tr.ID); err != nil {
		return err
	}
	entity.dropTranslation(lang)
	s.invalidate(ctx)
	return nil
}

// IsFieldTranslatable reports whether field is stored per language.
func (s *Store) IsFieldTranslatable(field string) bool {
	return IsFieldTranslatable(field)
}

// InvalidateCache clears the read caches of the underlying repositories.
func (s *Store) InvalidateCache(ctx context.Context) error {
	var errs []error
	for _, repo := range []any{s.links, s.translations} {
		if invalidator, ok := repo.(CacheInvalidator); ok {
			if err := invalidator.InvalidateCache(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Store) invalidate(ctx context.Context) {
	if err := s.InvalidateCache(ctx); err != nil {
		s.logger.Warn("menulinks.cache.invalidate_failed", "error", err)
	}
}

func (s *Store) hydrate(ctx context.Context, links []*MenuLink) ([]*Entity, error) {
	if len(links) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ID)
	}
	translations, err := s.translations.ListByLinks(ctx, ids)
	if err != nil {
		return nil, err
	}
	byLink := make(map[uuid.UUID][]*MenuLinkTranslation, len(links))
	for _, tr := range translations {
		byLink[tr.LinkID] = append(byLink[tr.LinkID], tr)
	}
	entities := make([]*Entity, 0, len(links))
	for _, link := range links {
		link.Translations = nil
		entities = append(entities, NewEntity(link, byLink[link.ID]...))
	}
	return entities, nil
}

func (s *Store) newTranslation(linkID uuid.UUID, lang string) *MenuLinkTranslation {
	now := s.now()
	return &MenuLinkTranslation{
		ID:                identity.TranslationUUID(linkID, lang),
		LinkID:            linkID,
		Langcode:          lang,
		Enabled:           true,
		TranslationSource: LanguageUndetermined,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// applyValues routes each known, writable field of values through the field
// table. Header fields such as uuid and langcode are skipped.
func (s *Store) applyValues(entity *Entity, values map[string]any, lang string) error {
	for _, spec := range fieldSpecs {
		value, ok := values[spec.Name]
		if !ok || spec.ReadOnly {
			continue
		}
		if err := entity.SetValue(spec.Name, value, lang); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) saveLink(ctx context.Context, entity *Entity) error {
	if err := s.resolveParent(ctx, entity.Link); err != nil {
		return err
	}
	entity.Link.UpdatedAt = s.now()
	updated, err := s.links.Update(ctx, entity.Link)
	if err != nil {
		return err
	}
	updated.Translations = nil
	entity.Link = updated
	return nil
}

// resolveParent fills ParentID from ParentRef. The reference is matched by
// uuid first and by local id second; an unknown parent leaves ParentID nil.
func (s *Store) resolveParent(ctx context.Context, link *MenuLink) error {
	if link.ParentRef == nil {
		link.ParentID = nil
		return nil
	}
	target, err := uuid.Parse(StripParentReference(*link.ParentRef))
	if err != nil {
		link.ParentID = nil
		return nil
	}

	parent, err := s.links.GetByUUID(ctx, target)
	if err != nil && !IsNotFound(err) {
		return err
	}
	if parent == nil {
		parent, err = s.links.GetByID(ctx, target)
		if err != nil && !IsNotFound(err) {
			return err
		}
	}
	if parent == nil || parent.ID == link.ID {
		link.ParentID = nil
		return nil
	}
	id := parent.ID
	link.ParentID = &id
	return nil
}

func (s *Store) deleteOne(ctx context.Context, entity *Entity) error {
	translations, err := s.translations.ListByLinks(ctx, []uuid.UUID{entity.LocalID()})
	if err != nil {
		return err
	}
	for _, tr := range translations {
		if err := s.translations.Delete(ctx, tr.ID); err != nil && !IsNotFound(err) {
			return err
		}
	}
	if err := s.links.Delete(ctx, entity.LocalID()); err != nil && !IsNotFound(err) {
		return err
	}
	entity.translations = map[string]*MenuLinkTranslation{}
	entity.languages = nil
	return nil
}

func hasSharedField(values map[string]any) bool {
	for _, spec := range fieldSpecs {
		if spec.Translatable || spec.ReadOnly {
			continue
		}
		if _, ok := values[spec.Name]; ok {
			return true
		}
	}
	return false
}
