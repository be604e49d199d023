package menulinks

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Entity is a menu link together with its loaded translations.
type Entity struct {
	Link         *MenuLink
	translations map[string]*MenuLinkTranslation
	languages    []string
}

// NewEntity assembles an entity from a link row and its translation rows.
func NewEntity(link *MenuLink, translations ...*MenuLinkTranslation) *Entity {
	entity := &Entity{
		Link:         link,
		translations: make(map[string]*MenuLinkTranslation, len(translations)),
	}
	for _, tr := range translations {
		entity.putTranslation(tr)
	}
	return entity
}

// Identity returns the stable uuid shared across environments.
func (e *Entity) Identity() uuid.UUID {
	if e == nil || e.Link == nil {
		return uuid.Nil
	}
	return e.Link.UUID
}

// LocalID returns the store assigned id.
func (e *Entity) LocalID() uuid.UUID {
	if e == nil || e.Link == nil {
		return uuid.Nil
	}
	return e.Link.ID
}

// DefaultLanguage returns the language of the original translation.
func (e *Entity) DefaultLanguage() string {
	if e == nil || e.Link == nil {
		return ""
	}
	return e.Link.Langcode
}

// HasTranslation reports whether a translation exists for lang.
func (e *Entity) HasTranslation(lang string) bool {
	if e == nil {
		return false
	}
	_, ok := e.translations[lang]
	return ok
}

// Translation returns the translation row for lang, or nil.
func (e *Entity) Translation(lang string) *MenuLinkTranslation {
	if e == nil {
		return nil
	}
	return e.translations[lang]
}

// Translations returns every translation row, default language first.
func (e *Entity) Translations() []*MenuLinkTranslation {
	out := make([]*MenuLinkTranslation, 0, len(e.translations))
	for _, lang := range e.Languages() {
		out = append(out, e.translations[lang])
	}
	return out
}

// Languages lists the languages with a translation, default language first.
func (e *Entity) Languages() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.languages))
	def := e.DefaultLanguage()
	if e.HasTranslation(def) {
		out = append(out, def)
	}
	for _, lang := range e.languages {
		if lang != def {
			out = append(out, lang)
		}
	}
	return out
}

// Values returns every field value of the lang translation keyed by field
// name, or nil when the translation does not exist.
func (e *Entity) Values(lang string) map[string]any {
	tr := e.Translation(lang)
	if tr == nil || e.Link == nil {
		return nil
	}
	values := map[string]any{
		FieldUUID:              e.Link.UUID.String(),
		FieldID:                e.Link.ID.String(),
		FieldLangcode:          tr.Langcode,
		FieldMenuName:          e.Link.MenuName,
		FieldParent:            nil,
		FieldWeight:            e.Link.Weight,
		FieldExpanded:          e.Link.Expanded,
		FieldTitle:             tr.Title,
		FieldDescription:       nil,
		FieldLink:              cloneLinkTarget(tr.Link),
		FieldEnabled:           tr.Enabled,
		FieldTranslationSource: tr.TranslationSource,
	}
	if e.Link.ParentRef != nil {
		values[FieldParent] = *e.Link.ParentRef
	}
	if tr.Description != nil {
		values[FieldDescription] = *tr.Description
	}
	return values
}

// SetValue writes value into the field named field. Translatable fields go to
// the lang translation, or to the default translation when lang is empty.
// Shared fields ignore lang.
func (e *Entity) SetValue(field string, value any, lang string) error {
	spec, ok := LookupField(field)
	if !ok {
		return ErrUnknownField
	}
	if spec.ReadOnly {
		return ErrReadOnlyField
	}
	if !spec.Translatable {
		return e.setShared(spec.Name, value)
	}
	if lang == "" {
		lang = e.DefaultLanguage()
	}
	tr := e.Translation(lang)
	if tr == nil {
		return &NotFoundError{Resource: "menu_link_translation", Key: translationKey(e.LocalID(), lang)}
	}
	return setTranslated(tr, spec.Name, value)
}

func (e *Entity) setShared(field string, value any) error {
	link := e.Link
	switch field {
	case FieldMenuName:
		name, err := asString(field, value)
		if err != nil {
			return err
		}
		link.MenuName = name
	case FieldParent:
		ref, err := asOptionalString(field, value)
		if err != nil {
			return err
		}
		if ref != nil && *ref == "" {
			ref = nil
		}
		if !sameRef(ref, link.ParentRef) {
			link.ParentID = nil
		}
		link.ParentRef = ref
	case FieldWeight:
		weight, err := asInt(field, value)
		if err != nil {
			return err
		}
		link.Weight = weight
	case FieldExpanded:
		expanded, err := asBool(field, value)
		if err != nil {
			return err
		}
		link.Expanded = expanded
	default:
		return ErrUnknownField
	}
	link.UpdatedAt = time.Now().UTC()
	return nil
}

func setTranslated(tr *MenuLinkTranslation, field string, value any) error {
	switch field {
	case FieldTitle:
		title, err := asString(field, value)
		if err != nil {
			return err
		}
		tr.Title = title
	case FieldDescription:
		desc, err := asOptionalString(field, value)
		if err != nil {
			return err
		}
		tr.Description = desc
	case FieldLink:
		target, err := asLinkTarget(field, value)
		if err != nil {
			return err
		}
		tr.Link = target
	case FieldEnabled:
		enabled, err := asBool(field, value)
		if err != nil {
			return err
		}
		tr.Enabled = enabled
	case FieldTranslationSource:
		source, err := asString(field, value)
		if err != nil {
			return err
		}
		if source == "" {
			source = LanguageUndetermined
		}
		tr.TranslationSource = source
	default:
		return ErrUnknownField
	}
	tr.UpdatedAt = time.Now().UTC()
	return nil
}

func (e *Entity) putTranslation(tr *MenuLinkTranslation) {
	if tr == nil {
		return
	}
	if _, exists := e.translations[tr.Langcode]; !exists {
		e.languages = append(e.languages, tr.Langcode)
	}
	e.translations[tr.Langcode] = tr
}

func (e *Entity) dropTranslation(lang string) {
	delete(e.translations, lang)
	e.languages = slices.DeleteFunc(e.languages, func(candidate string) bool {
		return candidate == lang
	})
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
