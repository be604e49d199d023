package menusync

import (
	"iter"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
)

// Orderer releases snapshot groups parent first. Each pass holds every
// pending group whose parent is absent, external to the snapshot or applied
// in an earlier pass.
type Orderer struct {
	groups     []snapshot.Group
	identities map[uuid.UUID]struct{}
	byLocal    map[uuid.UUID]uuid.UUID
	done       map[uuid.UUID]struct{}
	passes     int
}

func NewOrderer(groups []snapshot.Group) *Orderer {
	o := &Orderer{
		groups:     groups,
		identities: make(map[uuid.UUID]struct{}, len(groups)),
		byLocal:    make(map[uuid.UUID]uuid.UUID, len(groups)),
		done:       make(map[uuid.UUID]struct{}, len(groups)),
	}
	for _, g := range groups {
		o.identities[g.Identity] = struct{}{}
		for _, rec := range g.Records {
			if rec.LocalID != uuid.Nil {
				o.byLocal[rec.LocalID] = g.Identity
			}
		}
	}
	return o
}

// ParentIdentity resolves the parent of g to a snapshot identity. ok is false
// when g has no parent or the parent lies outside the snapshot.
func (o *Orderer) ParentIdentity(g snapshot.Group) (uuid.UUID, bool) {
	ref := g.Parent()
	if ref == nil || strings.TrimSpace(*ref) == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(menulinks.StripParentReference(*ref))
	if err != nil {
		return uuid.Nil, false
	}
	if _, ok := o.identities[id]; ok {
		return id, true
	}
	if identity, ok := o.byLocal[id]; ok {
		return identity, true
	}
	return uuid.Nil, false
}

// Passes yields the groups of each pass. Groups yielded in a pass count as
// done once the consumer returns, whether or not applying them succeeded.
// When a pass would be empty while groups remain, it yields an
// *OrderingError and stops, so at most len(groups) passes run.
func (o *Orderer) Passes() iter.Seq2[[]snapshot.Group, error] {
	return func(yield func([]snapshot.Group, error) bool) {
		pending := make([]snapshot.Group, 0, len(o.groups))
		for _, g := range o.groups {
			if _, ok := o.done[g.Identity]; !ok {
				pending = append(pending, g)
			}
		}

		for len(pending) > 0 {
			var eligible, waiting []snapshot.Group
			for _, g := range pending {
				if o.eligible(g) {
					eligible = append(eligible, g)
				} else {
					waiting = append(waiting, g)
				}
			}
			if len(eligible) == 0 {
				stuck := make([]uuid.UUID, 0, len(waiting))
				for _, g := range waiting {
					stuck = append(stuck, g.Identity)
				}
				yield(nil, &OrderingError{Stuck: stuck, Passes: o.passes})
				return
			}

			o.passes++
			cont := yield(eligible, nil)
			for _, g := range eligible {
				o.done[g.Identity] = struct{}{}
			}
			if !cont {
				return
			}
			pending = waiting
		}
	}
}

// PassCount returns the number of passes yielded so far.
func (o *Orderer) PassCount() int {
	return o.passes
}

func (o *Orderer) eligible(g snapshot.Group) bool {
	parent, inSnapshot := o.ParentIdentity(g)
	if !inSnapshot {
		return true
	}
	_, ok := o.done[parent]
	return ok
}
