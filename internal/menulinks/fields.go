package menulinks

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field names used in snapshot records and live values.
const (
	FieldUUID              = "uuid"
	FieldID                = "id"
	FieldLangcode          = "langcode"
	FieldMenuName          = "menu_name"
	FieldParent            = "parent"
	FieldWeight            = "weight"
	FieldExpanded          = "expanded"
	FieldTitle             = "title"
	FieldDescription       = "description"
	FieldLink              = "link"
	FieldEnabled           = "enabled"
	FieldTranslationSource = "content_translation_source"
)

// FieldSpec describes how a field is stored. Translatable fields live on the
// per language translation row; the rest are shared by every language.
type FieldSpec struct {
	Name         string
	Translatable bool
	ReadOnly     bool
}

var fieldSpecs = []FieldSpec{
	{Name: FieldUUID, ReadOnly: true},
	{Name: FieldID, ReadOnly: true},
	{Name: FieldLangcode, Translatable: true, ReadOnly: true},
	{Name: FieldMenuName},
	{Name: FieldParent},
	{Name: FieldWeight},
	{Name: FieldExpanded},
	{Name: FieldTitle, Translatable: true},
	{Name: FieldDescription, Translatable: true},
	{Name: FieldLink, Translatable: true},
	{Name: FieldEnabled, Translatable: true},
	{Name: FieldTranslationSource, Translatable: true},
}

var (
	ErrUnknownField  = errors.New("menulinks: unknown field")
	ErrReadOnlyField = errors.New("menulinks: field is read only")
	ErrInvalidValue  = errors.New("menulinks: invalid field value")
)

// FieldSpecs returns the field table in declaration order.
func FieldSpecs() []FieldSpec {
	out := make([]FieldSpec, len(fieldSpecs))
	copy(out, fieldSpecs)
	return out
}

// LookupField returns the spec for name.
func LookupField(name string) (FieldSpec, bool) {
	for _, spec := range fieldSpecs {
		if spec.Name == name {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// IsFieldTranslatable reports whether name is stored per language. Unknown
// fields are reported as not translatable.
func IsFieldTranslatable(name string) bool {
	spec, ok := LookupField(name)
	return ok && spec.Translatable
}

// ParentReference builds the "menu_link_content:<id>" form of a parent pointer.
func ParentReference(id string) string {
	return EntityType + ":" + id
}

// StripParentReference removes the entity type prefix from ref.
func StripParentReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if _, rest, ok := strings.Cut(ref, ":"); ok {
		return rest
	}
	return ref
}

func invalidValue(field string, value any) error {
	return fmt.Errorf("%w: %s=%v (%T)", ErrInvalidValue, field, value, value)
}

func asString(field string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case nil:
		return "", nil
	default:
		return "", invalidValue(field, value)
	}
}

func asOptionalString(field string, value any) (*string, error) {
	if value == nil {
		return nil, nil
	}
	s, err := asString(field, value)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func asInt(field string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, invalidValue(field, value)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, invalidValue(field, value)
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, invalidValue(field, value)
	}
}

func asBool(field string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, invalidValue(field, value)
		}
		return b, nil
	default:
		return false, invalidValue(field, value)
	}
}

// asLinkTarget accepts a {uri, options} map, or a single item list of one.
func asLinkTarget(field string, value any) (map[string]any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return cloneLinkTarget(v), nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		if len(v) == 1 {
			return asLinkTarget(field, v[0])
		}
	case string:
		return map[string]any{"uri": v}, nil
	}
	return nil, invalidValue(field, value)
}
