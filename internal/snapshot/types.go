package snapshot

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Version is the document version written by this package.
const Version = 1

// Record is one language variant of a menu link.
type Record struct {
	Identity          uuid.UUID      `json:"uuid" yaml:"uuid"`
	LocalID           uuid.UUID      `json:"id" yaml:"id"`
	Language          string         `json:"langcode" yaml:"langcode"`
	MenuName          string         `json:"menu_name" yaml:"menu_name"`
	Parent            *string        `json:"parent" yaml:"parent"`
	TranslationSource string         `json:"content_translation_source" yaml:"content_translation_source"`
	Fields            map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// IsOriginal reports whether the record is not a translation of another language.
func (r Record) IsOriginal() bool {
	return r.TranslationSource == "" || r.TranslationSource == "und"
}

// Group holds every language variant of one link, default language first.
type Group struct {
	Identity uuid.UUID `json:"uuid" yaml:"uuid"`
	Records  []Record  `json:"records" yaml:"records"`
}

// Record returns the lang variant of the group.
func (g Group) Record(lang string) (Record, bool) {
	for _, rec := range g.Records {
		if rec.Language == lang {
			return rec, true
		}
	}
	return Record{}, false
}

// Languages lists the group languages in order.
func (g Group) Languages() []string {
	out := make([]string, 0, len(g.Records))
	for _, rec := range g.Records {
		out = append(out, rec.Language)
	}
	return out
}

// MenuName returns the menu of the default record.
func (g Group) MenuName() string {
	if len(g.Records) == 0 {
		return ""
	}
	return g.Records[0].MenuName
}

// Parent returns the parent reference of the default record.
func (g Group) Parent() *string {
	if len(g.Records) == 0 {
		return nil
	}
	return g.Records[0].Parent
}

// Snapshot is an exported set of menu links.
type Snapshot struct {
	Version    int       `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Menus      []string  `json:"menus" yaml:"menus"`
	Groups     []Group   `json:"groups" yaml:"groups"`
}

// New returns an empty snapshot stamped with now.
func New(now time.Time, menus []string) *Snapshot {
	return &Snapshot{
		Version:    Version,
		ExportedAt: now.UTC(),
		Menus:      slices.Clone(menus),
	}
}

// Len returns the number of records across all groups.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, g := range s.Groups {
		total += len(g.Records)
	}
	return total
}

// Records flattens the snapshot in group order.
func (s *Snapshot) Records() []Record {
	if s == nil {
		return nil
	}
	out := make([]Record, 0, s.Len())
	for _, g := range s.Groups {
		out = append(out, g.Records...)
	}
	return out
}

// Identities returns the set of identities present in the snapshot.
func (s *Snapshot) Identities() map[uuid.UUID]struct{} {
	out := map[uuid.UUID]struct{}{}
	if s == nil {
		return out
	}
	for _, g := range s.Groups {
		out[g.Identity] = struct{}{}
	}
	return out
}

// Contains reports whether the snapshot has a record for (identity, lang).
func (s *Snapshot) Contains(identity uuid.UUID, lang string) bool {
	if s == nil {
		return false
	}
	for _, g := range s.Groups {
		if g.Identity != identity {
			continue
		}
		if _, ok := g.Record(lang); ok {
			return true
		}
	}
	return false
}

// FilterMenus returns a copy holding only groups of the given menus. An empty
// menu list returns the snapshot unchanged.
func (s *Snapshot) FilterMenus(menus []string) *Snapshot {
	if s == nil || len(menus) == 0 {
		return s
	}
	out := &Snapshot{
		Version:    s.Version,
		ExportedAt: s.ExportedAt,
		Menus:      slices.Clone(menus),
	}
	for _, g := range s.Groups {
		if slices.Contains(menus, g.MenuName()) {
			out.Groups = append(out.Groups, g)
		}
	}
	return out
}

// Store persists the current snapshot. A new Write replaces the previous
// snapshot wholesale.
type Store interface {
	Write(ctx context.Context, snap *Snapshot) error
	// Read returns nil and no error when nothing has been written.
	Read(ctx context.Context) (*Snapshot, error)
	Clear(ctx context.Context) error
}
