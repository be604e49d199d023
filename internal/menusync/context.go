package menusync

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// Style selects the merge policy of an import.
type Style string

const (
	// StyleFull mirrors the snapshot: missing links are deleted, the rest
	// created or updated in place.
	StyleFull Style = "full"
	// StyleSafe only adds links and translations that do not exist yet.
	StyleSafe Style = "safe"
	// StyleForce deletes every live link and recreates the snapshot.
	StyleForce Style = "force"
)

// Styles lists the supported styles.
func Styles() []Style {
	return []Style{StyleFull, StyleSafe, StyleForce}
}

// ParseStyle validates a style name.
func ParseStyle(value string) (Style, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", &ConfigurationError{Err: ErrStyleRequired}
	}
	for _, style := range Styles() {
		if string(style) == trimmed {
			return style, nil
		}
	}
	return "", &ConfigurationError{Err: ErrUnknownStyle, Reason: value}
}

// ExportOptions narrows an export.
type ExportOptions struct {
	// Menus limits the export to these menus. Empty exports every menu.
	Menus []string
}

// ImportOptions configures an import run.
type ImportOptions struct {
	Style Style
	// Menus limits the import, and for the full style the deletions, to
	// these menus. Empty means every menu.
	Menus []string
}

// ImportContext is the state of one import run, handed to every stage.
type ImportContext struct {
	Style    Style
	Menus    []string
	Snapshot *snapshot.Snapshot
	Store    Store
	Reporter *Reporter
	Logger   interfaces.Logger

	entities map[uuid.UUID]*menulinks.Entity
	byLocal  map[uuid.UUID]*menulinks.Entity
	localIDs map[uuid.UUID]uuid.UUID
}

func newImportContext(style Style, menus []string, snap *snapshot.Snapshot, store Store, reporter *Reporter, logger interfaces.Logger) *ImportContext {
	ictx := &ImportContext{
		Style:    style,
		Menus:    menus,
		Snapshot: snap,
		Store:    store,
		Reporter: reporter,
		Logger:   logger,
		entities: map[uuid.UUID]*menulinks.Entity{},
		byLocal:  map[uuid.UUID]*menulinks.Entity{},
		localIDs: map[uuid.UUID]uuid.UUID{},
	}
	for _, rec := range snap.Records() {
		if rec.LocalID != uuid.Nil {
			ictx.localIDs[rec.LocalID] = rec.Identity
		}
	}
	return ictx
}

// remember caches entity under its identity and, when known, the snapshot
// local id it was created from.
func (ictx *ImportContext) remember(entity *menulinks.Entity, snapshotLocalID uuid.UUID) {
	if entity == nil {
		return
	}
	ictx.entities[entity.Identity()] = entity
	if snapshotLocalID != uuid.Nil {
		ictx.byLocal[snapshotLocalID] = entity
	}
}

func (ictx *ImportContext) forget(identity uuid.UUID) {
	delete(ictx.entities, identity)
}

// Outcome is the per record result of an import.
type Outcome string

const (
	OutcomeCreated    Outcome = "created"
	OutcomeTranslated Outcome = "translated"
	OutcomeUpdated    Outcome = "updated"
	OutcomeDeleted    Outcome = "deleted"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeFailed     Outcome = "failed"
)

// RecordOutcome is what happened to one (identity, language) pair.
type RecordOutcome struct {
	Identity uuid.UUID
	Language string
	Outcome  Outcome
	Err      error
	// Removal marks outcomes of deleting live links or translations. They
	// are not snapshot records and do not advance progress.
	Removal bool
}

// ImportResult aggregates the outcomes of a run.
type ImportResult struct {
	Style      Style
	Created    int
	Updated    int
	Translated int
	Deleted    int
	Failed     int
	Skipped    int
	Passes     int
	Warnings   []error
	Errors     []error
	Outcomes   []RecordOutcome
}

// Changed reports whether the run touched live data.
func (r *ImportResult) Changed() bool {
	return r.Created+r.Updated+r.Translated+r.Deleted > 0
}
