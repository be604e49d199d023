package locales

import "github.com/goliatone/go-structure-sync/menulinks"

type Locale = menulinks.Locale
