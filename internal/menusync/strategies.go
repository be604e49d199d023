package menusync

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/jobs"
	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
)

// stepsFor returns the batch steps implementing style.
func stepsFor(ictx *ImportContext) []jobs.Step {
	switch ictx.Style {
	case StyleFull:
		return fullSteps(ictx)
	case StyleSafe:
		return safeSteps(ictx)
	case StyleForce:
		return forceSteps(ictx)
	default:
		return nil
	}
}

// fullSteps deletes what the snapshot no longer holds, then creates, updates
// and translates the rest in dependency order. With a menu filter, only links
// of those menus are candidates for deletion. A snapshot without links deletes
// nothing.
func fullSteps(ictx *ImportContext) []jobs.Step {
	return []jobs.Step{
		{
			Name: "delete",
			Run: func(ctx context.Context, progress jobs.ProgressFunc) error {
				if len(ictx.Snapshot.Groups) == 0 {
					ictx.Logger.Warn("menus.sync.delete.skipped", "reason", "snapshot holds no links")
					return nil
				}
				live, err := ictx.Store.FindByFilter(ctx, menulinks.Filter{Menus: ictx.Menus})
				if err != nil {
					return err
				}
				diff := Diff(ictx.Snapshot, live)
				ictx.Logger.Debug("menus.sync.diff",
					"delete", len(diff.ToDelete),
					"prune", len(diff.ToPrune),
					"create", len(diff.ToCreate),
					"translate", len(diff.ToTranslate),
					"update", len(diff.ToUpdate),
				)

				deleted := make(map[uuid.UUID]struct{}, len(diff.ToDelete))
				for i, entity := range diff.ToDelete {
					ictx.deleteEntity(ctx, entity)
					deleted[entity.Identity()] = struct{}{}
					progress(float64(i+1) / float64(len(diff.ToDelete)+len(diff.ToPrune)))
				}
				for i, target := range diff.ToPrune {
					ictx.pruneTranslation(ctx, target)
					progress(float64(len(diff.ToDelete)+i+1) / float64(len(diff.ToDelete)+len(diff.ToPrune)))
				}
				for _, entity := range live {
					if _, gone := deleted[entity.Identity()]; !gone {
						ictx.remember(entity, uuid.Nil)
					}
				}
				return nil
			},
		},
		{
			Name: "apply",
			Run: func(ctx context.Context, progress jobs.ProgressFunc) error {
				ictx.Reporter.SetTotal(ictx.Snapshot.Len())
				ictx.Reporter.OnProgress(progress)
				return ictx.applyOrdered(ctx, ictx.Snapshot.Groups, applyFull)
			},
		},
	}
}

func applyFull(ctx context.Context, ictx *ImportContext, orderer *Orderer, rec snapshot.Record) {
	values := recordValues(rec, ictx.normalizeParent(orderer, rec))
	entity, err := ictx.lookup(ctx, rec.Identity)
	if err != nil {
		ictx.fail(rec, "lookup", err)
		return
	}
	switch {
	case entity == nil:
		ictx.create(ctx, rec, values, uuid.Nil)
	case !entity.HasTranslation(rec.Language):
		ictx.translate(ctx, entity, rec, values)
	default:
		ictx.update(ctx, entity, rec, values)
	}
}

// safeSteps adds the records whose (identity, language) has no live
// counterpart and leaves everything else untouched.
func safeSteps(ictx *ImportContext) []jobs.Step {
	return []jobs.Step{
		{
			Name: "apply",
			Run: func(ctx context.Context, progress jobs.ProgressFunc) error {
				live, err := ictx.Store.LoadAll(ctx)
				if err != nil {
					return err
				}
				for _, entity := range live {
					ictx.remember(entity, uuid.Nil)
				}
				subset := ictx.newRecords()
				ictx.Reporter.SetTotal(subset.Len())
				if len(subset.Groups) == 0 {
					ictx.Logger.Info("No new menu links to import", "event", "menus.sync.import.nothing_new")
					return nil
				}
				ictx.Reporter.OnProgress(progress)
				return ictx.applyOrdered(ctx, subset.Groups, applySafe)
			},
		},
	}
}

// newRecords filters the snapshot to records with no live counterpart.
func (ictx *ImportContext) newRecords() *snapshot.Snapshot {
	out := &snapshot.Snapshot{
		Version:    ictx.Snapshot.Version,
		ExportedAt: ictx.Snapshot.ExportedAt,
		Menus:      ictx.Snapshot.Menus,
	}
	for _, group := range ictx.Snapshot.Groups {
		entity := ictx.entities[group.Identity]
		filtered := snapshot.Group{Identity: group.Identity}
		for _, rec := range group.Records {
			if entity != nil && entity.HasTranslation(rec.Language) {
				continue
			}
			filtered.Records = append(filtered.Records, rec)
		}
		if len(filtered.Records) > 0 {
			out.Groups = append(out.Groups, filtered)
		}
	}
	return out
}

func applySafe(ctx context.Context, ictx *ImportContext, orderer *Orderer, rec snapshot.Record) {
	values := recordValues(rec, ictx.normalizeParent(orderer, rec))
	entity, err := ictx.lookup(ctx, rec.Identity)
	if err != nil {
		ictx.fail(rec, "lookup", err)
		return
	}
	switch {
	case entity == nil:
		ictx.create(ctx, rec, values, uuid.Nil)
	case entity.HasTranslation(rec.Language):
		ictx.skip(rec, "translation exists")
	default:
		ictx.translate(ctx, entity, rec, translatableOnly(ictx.Store, values))
	}
}

// forceSteps deletes every live link, then recreates the snapshot. Original
// records become new entities keeping their snapshot local id; translations
// attach to the entity created for their local id.
func forceSteps(ictx *ImportContext) []jobs.Step {
	return []jobs.Step{
		{
			Name: "delete",
			Run: func(ctx context.Context, progress jobs.ProgressFunc) error {
				live, err := ictx.Store.LoadAll(ctx)
				if err != nil {
					return err
				}
				for i, entity := range live {
					ictx.deleteEntity(ctx, entity)
					progress(float64(i+1) / float64(len(live)))
				}
				ictx.Logger.Info("menus.sync.links.deleted_all", "count", len(live))
				return nil
			},
		},
		{
			Name: "apply",
			Run: func(ctx context.Context, progress jobs.ProgressFunc) error {
				ictx.Reporter.SetTotal(ictx.Snapshot.Len())
				ictx.Reporter.OnProgress(progress)
				return ictx.applyOrdered(ctx, ictx.Snapshot.Groups, applyForce)
			},
		},
	}
}

func applyForce(ctx context.Context, ictx *ImportContext, orderer *Orderer, rec snapshot.Record) {
	values := recordValues(rec, ictx.normalizeParent(orderer, rec))
	if rec.IsOriginal() {
		ictx.create(ctx, rec, values, rec.LocalID)
		return
	}

	entity, err := ictx.translationTarget(ctx, rec)
	if err != nil {
		ictx.fail(rec, "lookup", err)
		return
	}
	if entity == nil {
		ictx.fail(rec, "translate", ErrNoTranslationTarget)
		return
	}
	ictx.translate(ctx, entity, rec, values)
}

// translationTarget finds the entity a translation record belongs to: the
// entity created in this run for its local id, then a live entity holding that
// local id, then one holding its identity.
func (ictx *ImportContext) translationTarget(ctx context.Context, rec snapshot.Record) (*menulinks.Entity, error) {
	if rec.LocalID != uuid.Nil {
		if entity, ok := ictx.byLocal[rec.LocalID]; ok {
			return entity, nil
		}
		found, err := ictx.Store.FindByFilter(ctx, menulinks.Filter{LocalIDs: []uuid.UUID{rec.LocalID}})
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return found[0], nil
		}
	}
	return ictx.lookup(ctx, rec.Identity)
}
