package menulinks

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// LanguageUndetermined marks a language neutral record. As a translation
	// source it means the record is the original, not a translation.
	LanguageUndetermined = "und"

	// EntityType prefixes parent references, as in "menu_link_content:<uuid>".
	EntityType = "menu_link_content"
)

// MenuLink is the shared, language independent part of a menu link.
type MenuLink struct {
	bun.BaseModel `bun:"table:menu_link_content,alias:mlc"`

	ID           uuid.UUID              `bun:",pk,type:uuid" json:"id"`
	UUID         uuid.UUID              `bun:"uuid,notnull,unique,type:uuid" json:"uuid"`
	Langcode     string                 `bun:"langcode,notnull" json:"langcode"`
	MenuName     string                 `bun:"menu_name,notnull" json:"menu_name"`
	ParentRef    *string                `bun:"parent_ref" json:"parent,omitempty"`
	ParentID     *uuid.UUID             `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Weight       int                    `bun:"weight,notnull,default:0" json:"weight"`
	Expanded     bool                   `bun:"expanded,notnull,default:false" json:"expanded"`
	CreatedAt    time.Time              `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time              `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Translations []*MenuLinkTranslation `bun:"rel:has-many,join:id=link_id" json:"translations,omitempty"`
}

// MenuLinkTranslation stores the per language values of a menu link.
type MenuLinkTranslation struct {
	bun.BaseModel `bun:"table:menu_link_content_data,alias:mlcd"`

	ID                uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	LinkID            uuid.UUID      `bun:"link_id,notnull,type:uuid" json:"link_id"`
	Langcode          string         `bun:"langcode,notnull" json:"langcode"`
	Title             string         `bun:"title,notnull" json:"title"`
	Description       *string        `bun:"description" json:"description,omitempty"`
	Link              map[string]any `bun:"link,type:jsonb" json:"link,omitempty"`
	Enabled           bool           `bun:"enabled,notnull" json:"enabled"`
	TranslationSource string         `bun:"translation_source,notnull,default:'und'" json:"content_translation_source"`
	CreatedAt         time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	MenuLink          *MenuLink      `bun:"rel:belongs-to,join:link_id=id" json:"-"`
}

// Locale is an entry of the language registry.
type Locale struct {
	bun.BaseModel `bun:"table:locales,alias:l"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Code      string    `bun:"code,notnull,unique" json:"code"`
	Display   string    `bun:"display_name,notnull" json:"display_name"`
	IsActive  bool      `bun:"is_active,notnull" json:"is_active"`
	IsDefault bool      `bun:"is_default,notnull,default:false" json:"is_default"`
	Position  int       `bun:"position,notnull,default:0" json:"position"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
