package menulinks

import (
	"fmt"
	"slices"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Filter narrows a link lookup. Empty slices do not constrain the result;
// non-empty slices are combined with AND.
type Filter struct {
	Menus      []string
	Identities []uuid.UUID
	LocalIDs   []uuid.UUID
}

// IsZero reports whether the filter matches every link.
func (f Filter) IsZero() bool {
	return len(f.Menus) == 0 && len(f.Identities) == 0 && len(f.LocalIDs) == 0
}

// Matches reports whether link satisfies the filter.
func (f Filter) Matches(link *MenuLink) bool {
	if link == nil {
		return false
	}
	if len(f.Menus) > 0 && !slices.Contains(f.Menus, link.MenuName) {
		return false
	}
	if len(f.Identities) > 0 && !slices.Contains(f.Identities, link.UUID) {
		return false
	}
	if len(f.LocalIDs) > 0 && !slices.Contains(f.LocalIDs, link.ID) {
		return false
	}
	return true
}

// Validate checks that every menu name is a machine name.
func (f Filter) Validate() error {
	for _, name := range f.Menus {
		if !slug.IsValid(name) {
			return fmt.Errorf("menulinks: invalid menu name %q", name)
		}
	}
	return nil
}
