package menulinkscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-structure-sync/internal/menusync"
)

const (
	exportMessageType          = "sync.menu_links.export"
	importMessageType          = "sync.menu_links.import"
	validateMessageType        = "sync.menu_links.validate"
	invalidateCacheMessageType = "sync.menu_links.cache.invalidate"
)

// ExportCommand writes the live menu links to the snapshot store.
type ExportCommand struct {
	Menus []string `json:"menus,omitempty"`
}

// Type implements command.Message.
func (ExportCommand) Type() string { return exportMessageType }

// Validate satisfies command.Message.
func (m ExportCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Menus, validation.Each(validation.Required, validation.By(menuName))),
	)
}

// ImportCommand applies the stored snapshot with the given style.
type ImportCommand struct {
	Style string   `json:"style"`
	Menus []string `json:"menus,omitempty"`
}

// Type implements command.Message.
func (ImportCommand) Type() string { return importMessageType }

// Validate satisfies command.Message.
func (m ImportCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Style,
			validation.Required.Error("style is required"),
			validation.By(styleName),
		),
		validation.Field(&m.Menus, validation.Each(validation.Required, validation.By(menuName))),
	)
}

// ValidateCommand checks the stored snapshot without touching live data.
type ValidateCommand struct{}

// Type implements command.Message.
func (ValidateCommand) Type() string { return validateMessageType }

// Validate satisfies command.Message.
func (ValidateCommand) Validate() error { return nil }

// InvalidateCacheCommand clears cached menu link lookups.
type InvalidateCacheCommand struct{}

// Type implements command.Message.
func (InvalidateCacheCommand) Type() string { return invalidateCacheMessageType }

// Validate satisfies command.Message.
func (InvalidateCacheCommand) Validate() error {
	return validation.ValidateStruct(&InvalidateCacheCommand{})
}

func styleName(value any) error {
	style, _ := value.(string)
	if strings.TrimSpace(style) == "" {
		return nil
	}
	if _, err := menusync.ParseStyle(style); err != nil {
		return validation.NewError("sync.menu_links.import.style_invalid", "style must be one of full, safe or force")
	}
	return nil
}

func menuName(value any) error {
	name, _ := value.(string)
	if name == "" || slug.IsValid(name) {
		return nil
	}
	return validation.NewError("sync.menu_links.menu_invalid", "menu names must be machine names")
}
