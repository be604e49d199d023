package menusync

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// recordAction applies one snapshot record during an ordered pass.
type recordAction func(ctx context.Context, ictx *ImportContext, orderer *Orderer, rec snapshot.Record)

// applyOrdered runs action over groups in dependency order, one pass at a
// time. The context is only checked between passes.
func (ictx *ImportContext) applyOrdered(ctx context.Context, groups []snapshot.Group, action recordAction) error {
	orderer := NewOrderer(groups)
	for pass, err := range orderer.Passes() {
		if err != nil {
			ictx.Logger.Error("menus.sync.ordering.failed", "error", err)
			return err
		}
		for _, group := range pass {
			for _, rec := range group.Records {
				action(ctx, ictx, orderer, rec)
			}
		}
		ictx.Reporter.Pass()
		ictx.Logger.Debug("menus.sync.pass.completed", "pass", orderer.PassCount(), "groups", len(pass))
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// setField writes one value through the field table. Translatable fields
// target the record language; shared fields target the entity.
func setField(store Store, entity *menulinks.Entity, field string, value any, lang string) error {
	if store.IsFieldTranslatable(field) {
		return store.SetFieldValue(entity, field, value, lang)
	}
	return store.SetFieldValue(entity, field, value, "")
}

// normalizeParent rewrites a parent pointing at a snapshot local id to the
// identity form, since local ids differ between stores.
func (ictx *ImportContext) normalizeParent(orderer *Orderer, rec snapshot.Record) *string {
	if rec.Parent == nil {
		return nil
	}
	raw := menulinks.StripParentReference(*rec.Parent)
	id, err := uuid.Parse(raw)
	if err != nil {
		return rec.Parent
	}
	if identity, ok := ictx.localIDs[id]; ok && identity != id {
		if _, isIdentity := orderer.identities[id]; !isIdentity {
			ref := menulinks.ParentReference(identity.String())
			return &ref
		}
	}
	return rec.Parent
}

// lookup returns the live entity for identity, preferring the run cache.
func (ictx *ImportContext) lookup(ctx context.Context, identity uuid.UUID) (*menulinks.Entity, error) {
	if entity, ok := ictx.entities[identity]; ok {
		return entity, nil
	}
	entity, err := ictx.Store.FindByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	if entity != nil {
		ictx.remember(entity, uuid.Nil)
	}
	return entity, nil
}

func (ictx *ImportContext) create(ctx context.Context, rec snapshot.Record, values map[string]any, localID uuid.UUID) {
	entity, err := ictx.Store.Create(ctx, menulinks.Draft{
		Identity: rec.Identity,
		LocalID:  localID,
		Language: rec.Language,
		Values:   values,
	})
	if err != nil {
		ictx.fail(rec, "create", err)
		return
	}
	ictx.remember(entity, rec.LocalID)
	ictx.recordLogger(rec).Info("menus.sync.link.created", "title", rec.Fields[menulinks.FieldTitle])
	ictx.Reporter.Record(RecordOutcome{Identity: rec.Identity, Language: rec.Language, Outcome: OutcomeCreated})
}

func (ictx *ImportContext) translate(ctx context.Context, entity *menulinks.Entity, rec snapshot.Record, values map[string]any) {
	updated, err := ictx.Store.AttachTranslation(ctx, entity, rec.Language, values)
	if err != nil {
		ictx.fail(rec, "translate", err)
		return
	}
	ictx.remember(updated, rec.LocalID)
	ictx.recordLogger(rec).Info("menus.sync.link.translated", "title", rec.Fields[menulinks.FieldTitle])
	ictx.Reporter.Record(RecordOutcome{Identity: rec.Identity, Language: rec.Language, Outcome: OutcomeTranslated})
}

func (ictx *ImportContext) update(ctx context.Context, entity *menulinks.Entity, rec snapshot.Record, values map[string]any) {
	for _, spec := range menulinks.FieldSpecs() {
		value, ok := values[spec.Name]
		if !ok || spec.ReadOnly {
			continue
		}
		if err := setField(ictx.Store, entity, spec.Name, value, rec.Language); err != nil {
			ictx.forget(rec.Identity)
			ictx.fail(rec, "update", err)
			return
		}
	}
	if err := ictx.Store.Save(ctx, entity); err != nil {
		ictx.forget(rec.Identity)
		ictx.fail(rec, "update", err)
		return
	}
	ictx.recordLogger(rec).Info("menus.sync.link.updated", "title", rec.Fields[menulinks.FieldTitle])
	ictx.Reporter.Record(RecordOutcome{Identity: rec.Identity, Language: rec.Language, Outcome: OutcomeUpdated})
}

func (ictx *ImportContext) deleteEntity(ctx context.Context, entity *menulinks.Entity) {
	identity := entity.Identity()
	title := ""
	if tr := entity.Translation(entity.DefaultLanguage()); tr != nil {
		title = tr.Title
	}
	menu := entity.Link.MenuName
	if err := ictx.Store.Delete(ctx, []*menulinks.Entity{entity}); err != nil {
		opErr := &StoreOperationError{Op: "delete", Identity: identity, Err: err}
		ictx.Logger.Error("menus.sync.link.delete_failed", "uuid", identity, "error", err)
		ictx.Reporter.Record(RecordOutcome{Identity: identity, Outcome: OutcomeFailed, Err: opErr, Removal: true})
		return
	}
	ictx.forget(identity)
	logging.WithLinkContext(ictx.Logger, identity.String(), menu, "").Info("menus.sync.link.deleted", "title", title)
	ictx.Reporter.Record(RecordOutcome{Identity: identity, Outcome: OutcomeDeleted, Removal: true})
}

func (ictx *ImportContext) pruneTranslation(ctx context.Context, target LiveTranslation) {
	entity, lang := target.Entity, target.Language
	title := ""
	if tr := entity.Translation(lang); tr != nil {
		title = tr.Title
	}
	if isOriginTranslation(entity, lang) {
		warning := &TranslationConflictWarning{Identity: entity.Identity(), Language: lang, Title: title}
		logging.WithLinkContext(ictx.Logger, entity.Identity().String(), entity.Link.MenuName, lang).
			Warn("menus.sync.translation.origin_kept", "title", title)
		ictx.Reporter.Warn(warning)
		return
	}
	if err := ictx.Store.RemoveTranslation(ctx, entity, lang); err != nil {
		opErr := &StoreOperationError{Op: "remove translation", Identity: entity.Identity(), Language: lang, Err: err}
		ictx.Logger.Error("menus.sync.translation.remove_failed", "uuid", entity.Identity(), "langcode", lang, "error", err)
		ictx.Reporter.Record(RecordOutcome{Identity: entity.Identity(), Language: lang, Outcome: OutcomeFailed, Err: opErr, Removal: true})
		return
	}
	logging.WithLinkContext(ictx.Logger, entity.Identity().String(), entity.Link.MenuName, lang).
		Info("menus.sync.translation.deleted", "title", title)
	ictx.Reporter.Record(RecordOutcome{Identity: entity.Identity(), Language: lang, Outcome: OutcomeDeleted, Removal: true})
}

func (ictx *ImportContext) fail(rec snapshot.Record, op string, err error) {
	opErr := &StoreOperationError{Op: op, Identity: rec.Identity, Language: rec.Language, Err: err}
	ictx.recordLogger(rec).Error("menus.sync.link.failed", "op", op, "error", err)
	ictx.Reporter.Record(RecordOutcome{Identity: rec.Identity, Language: rec.Language, Outcome: OutcomeFailed, Err: opErr})
}

func (ictx *ImportContext) skip(rec snapshot.Record, reason string) {
	ictx.recordLogger(rec).Debug("menus.sync.link.skipped", "reason", reason)
	ictx.Reporter.Record(RecordOutcome{Identity: rec.Identity, Language: rec.Language, Outcome: OutcomeSkipped})
}

func (ictx *ImportContext) recordLogger(rec snapshot.Record) interfaces.Logger {
	return logging.WithLinkContext(ictx.Logger, rec.Identity.String(), rec.MenuName, rec.Language)
}

// translatableOnly drops shared fields so attaching a translation leaves the
// existing link row untouched.
func translatableOnly(store Store, values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		if store.IsFieldTranslatable(key) {
			out[key] = value
		}
	}
	return out
}
