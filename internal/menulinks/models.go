package menulinks

import "github.com/goliatone/go-structure-sync/menulinks"

type (
	MenuLink            = menulinks.MenuLink
	MenuLinkTranslation = menulinks.MenuLinkTranslation
)

const (
	LanguageUndetermined = menulinks.LanguageUndetermined
	EntityType           = menulinks.EntityType
)
