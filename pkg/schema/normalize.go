package schema

import (
	"fmt"
	"strings"
)

// containerSource pairs a legacy container property with the mapping
// that turns its entries into FieldDefs. Precedence is positional: the
// first container that yields at least one field wins and later
// containers are ignored entirely, never merged.
type containerSource struct {
	name string
	fn   func([]any) []FieldDef
}

var containerSources = []containerSource{
	{name: "fields", fn: mapCanonicalFields},
	{name: "formFields", fn: mapCanonicalFields},
	{name: "items", fn: mapCanonicalFields},
	{name: "schema", fn: mapLegacyFields},
}

// NormalizeFields extracts the canonical ordered field list from a raw
// form record. It is a pure function: absent or malformed containers
// yield an empty list, never an error.
func NormalizeFields(record map[string]any) []FieldDef {
	if record == nil {
		return nil
	}
	for _, src := range containerSources {
		entries, ok := record[src.name].([]any)
		if !ok || len(entries) == 0 {
			continue
		}
		if fields := src.fn(entries); len(fields) > 0 {
			return fields
		}
	}
	return nil
}

func mapCanonicalFields(entries []any) []FieldDef {
	fields := make([]FieldDef, 0, len(entries))
	for _, entry := range entries {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		field, ok := fieldFromRaw(raw)
		if !ok {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

// mapLegacyFields maps the oldest stored shape field-by-field: property
// names are renamed, missing properties defaulted, empty option strings
// dropped, and required coerced to a strict boolean.
func mapLegacyFields(entries []any) []FieldDef {
	fields := make([]FieldDef, 0, len(entries))
	for _, entry := range entries {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := stringProp(raw, "id", "fieldId", "key")
		if id == "" {
			continue
		}
		field := FieldDef{
			ID:          id,
			Type:        fieldTypeOf(stringProp(raw, "type", "kind")),
			Label:       stringProp(raw, "label", "title", "name"),
			Description: stringProp(raw, "description", "consentText"),
		}
		if required, ok := raw["required"].(bool); ok {
			field.Required = required
		}
		if field.Type.IsChoice() {
			field.Options = cleanOptions(raw["options"])
		}
		if field.Label == "" {
			field.Label = id
		}
		fields = append(fields, field)
	}
	return fields
}

func fieldFromRaw(raw map[string]any) (FieldDef, bool) {
	id := stringProp(raw, "id")
	if id == "" {
		return FieldDef{}, false
	}
	field := FieldDef{
		ID:          id,
		Type:        fieldTypeOf(stringProp(raw, "type")),
		Label:       stringProp(raw, "label"),
		Description: stringProp(raw, "description"),
	}
	if required, ok := raw["required"].(bool); ok {
		field.Required = required
	}
	// Options only mean something on choice types; stray lists on other
	// fields are malformed input and get dropped.
	if field.Type.IsChoice() {
		field.Options = cleanOptions(raw["options"])
	}
	return field, true
}

func fieldTypeOf(raw string) FieldType {
	t := FieldType(strings.TrimSpace(strings.ToLower(raw)))
	if t == "" {
		return FieldText
	}
	return t
}

func cleanOptions(raw any) []string {
	entries, ok := raw.([]any)
	if !ok || len(entries) == 0 {
		return nil
	}
	options := make([]string, 0, len(entries))
	for _, entry := range entries {
		option := strings.TrimSpace(anyString(entry))
		if option == "" {
			continue
		}
		options = append(options, option)
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

func stringProp(raw map[string]any, names ...string) string {
	for _, name := range names {
		if value, ok := raw[name].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func anyString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
