package menusync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/locales"
	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// headerFields are carried on the record itself rather than in Fields.
var headerFields = map[string]struct{}{
	menulinks.FieldUUID:              {},
	menulinks.FieldID:                {},
	menulinks.FieldLangcode:          {},
	menulinks.FieldMenuName:          {},
	menulinks.FieldParent:            {},
	menulinks.FieldTranslationSource: {},
}

// Exporter builds snapshots from the live store. It never writes to the store.
type Exporter struct {
	store    Store
	registry locales.Registry
	logger   interfaces.Logger
	now      func() time.Time
}

func NewExporter(store Store, registry locales.Registry, logger interfaces.Logger, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{
		store:    store,
		registry: registry,
		logger:   logging.Ensure(logger),
		now:      now,
	}
}

// Export emits one group per link, each holding a record for every active
// language that has a translation, the link's own language first. Links with
// no such translation are left out.
func (e *Exporter) Export(ctx context.Context, menus []string) (*snapshot.Snapshot, error) {
	active, err := e.registry.ActiveLanguages(ctx)
	if err != nil {
		return nil, err
	}
	entities, err := e.store.FindByFilter(ctx, menulinks.Filter{Menus: menus})
	if err != nil {
		return nil, err
	}

	snap := snapshot.New(e.now(), menus)
	seen := make(map[uuid.UUID]struct{}, len(entities))
	for _, entity := range entities {
		if _, dup := seen[entity.Identity()]; dup {
			continue
		}
		seen[entity.Identity()] = struct{}{}

		group := snapshot.Group{Identity: entity.Identity()}
		for _, lang := range locales.Prioritize(active, entity.DefaultLanguage()) {
			if !entity.HasTranslation(lang) {
				continue
			}
			rec := recordFromValues(entity.Values(lang))
			group.Records = append(group.Records, rec)
			logging.WithLinkContext(e.logger, rec.Identity.String(), rec.MenuName, rec.Language).
				Info("menus.sync.link.exported", "title", rec.Fields[menulinks.FieldTitle])
		}
		if len(group.Records) == 0 {
			e.logger.Debug("menus.sync.link.export_skipped", "uuid", entity.Identity())
			continue
		}
		snap.Groups = append(snap.Groups, group)
	}
	return snap, nil
}

func recordFromValues(values map[string]any) snapshot.Record {
	rec := snapshot.Record{
		Fields: make(map[string]any, len(values)),
	}
	if id, err := uuid.Parse(stringValue(values[menulinks.FieldUUID])); err == nil {
		rec.Identity = id
	}
	if id, err := uuid.Parse(stringValue(values[menulinks.FieldID])); err == nil {
		rec.LocalID = id
	}
	rec.Language = stringValue(values[menulinks.FieldLangcode])
	rec.MenuName = stringValue(values[menulinks.FieldMenuName])
	rec.TranslationSource = stringValue(values[menulinks.FieldTranslationSource])
	if parent, ok := values[menulinks.FieldParent].(string); ok && parent != "" {
		rec.Parent = &parent
	}
	for key, value := range values {
		if _, header := headerFields[key]; header {
			continue
		}
		rec.Fields[key] = value
	}
	return rec
}

// recordValues is the inverse of recordFromValues: a flat field map for the store.
func recordValues(rec snapshot.Record, parent *string) map[string]any {
	values := make(map[string]any, len(rec.Fields)+3)
	for key, value := range rec.Fields {
		values[key] = value
	}
	values[menulinks.FieldMenuName] = rec.MenuName
	values[menulinks.FieldTranslationSource] = rec.TranslationSource
	if parent != nil {
		values[menulinks.FieldParent] = *parent
	} else {
		values[menulinks.FieldParent] = nil
	}
	return values
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
