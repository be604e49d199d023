package menusync

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
)

// LiveTranslation points at one language of a live entity.
type LiveTranslation struct {
	Entity   *menulinks.Entity
	Language string
}

// DiffResult is the comparison of a snapshot with a live set, by identity.
type DiffResult struct {
	Identities map[uuid.UUID]struct{}
	// ToDelete are live entities whose identity is not in the snapshot.
	ToDelete []*menulinks.Entity
	// ToPrune are live translations of kept entities missing from the snapshot.
	ToPrune []LiveTranslation
	// ToCreate are records whose identity has no live entity.
	ToCreate []snapshot.Record
	// ToTranslate are records of a live entity in a language it lacks.
	ToTranslate []snapshot.Record
	// ToUpdate are records whose (identity, language) exists live.
	ToUpdate []snapshot.Record
}

// Diff compares snap with live. Local ids are never compared.
//
// Only ToDelete and ToPrune drive mutation. The create, translate and update
// sets classify records against the live set as it was before the run; an
// import classifies each record again when it is applied, because a record
// in ToCreate becomes a translation once an earlier record created its entity.
func Diff(snap *snapshot.Snapshot, live []*menulinks.Entity) DiffResult {
	result := DiffResult{Identities: snap.Identities()}

	byIdentity := make(map[uuid.UUID]*menulinks.Entity, len(live))
	for _, entity := range live {
		byIdentity[entity.Identity()] = entity
		if _, kept := result.Identities[entity.Identity()]; !kept {
			result.ToDelete = append(result.ToDelete, entity)
			continue
		}
		for _, lang := range entity.Languages() {
			if !snap.Contains(entity.Identity(), lang) {
				result.ToPrune = append(result.ToPrune, LiveTranslation{Entity: entity, Language: lang})
			}
		}
	}

	for _, rec := range snap.Records() {
		entity, ok := byIdentity[rec.Identity]
		switch {
		case !ok:
			result.ToCreate = append(result.ToCreate, rec)
		case entity.HasTranslation(rec.Language):
			result.ToUpdate = append(result.ToUpdate, rec)
		default:
			result.ToTranslate = append(result.ToTranslate, rec)
		}
	}
	return result
}

// isOriginTranslation reports whether removing lang would delete the origin
// of the translation chain: its source language equals the default one's.
func isOriginTranslation(entity *menulinks.Entity, lang string) bool {
	tr := entity.Translation(lang)
	def := entity.Translation(entity.DefaultLanguage())
	if tr == nil || def == nil {
		return false
	}
	return tr.TranslationSource == def.TranslationSource
}
