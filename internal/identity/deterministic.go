package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// LocaleUUID returns the registry row id for a language code.
func LocaleUUID(localeCode string) uuid.UUID {
	return UUID("structure-sync:locale:" + strings.ToLower(strings.TrimSpace(localeCode)))
}

// TranslationUUID returns the row id of the langcode translation of a link.
// The same link and language always map to the same row.
func TranslationUUID(linkID uuid.UUID, langcode string) uuid.UUID {
	return UUID("structure-sync:menu_link_translation:" + linkID.String() + ":" + strings.ToLower(strings.TrimSpace(langcode)))
}
