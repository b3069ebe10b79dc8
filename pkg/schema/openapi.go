package schema

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FieldsFromOpenAPI maps an OpenAPI object schema's properties to field
// definitions so forms can be seeded from an API contract instead of
// hand-edited records. Property names become field ids, enums become
// select options, and the schema's required list drives Required.
// Properties are emitted in name order since OpenAPI objects carry no
// positional ordering.
func FieldsFromOpenAPI(ref *openapi3.SchemaRef) []FieldDef {
	if ref == nil || ref.Value == nil || len(ref.Value.Properties) == 0 {
		return nil
	}
	src := ref.Value

	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]FieldDef, 0, len(names))
	for _, name := range names {
		property := src.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		field := fieldFromProperty(name, property.Value)
		if _, ok := required[name]; ok {
			field.Required = true
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func fieldFromProperty(name string, property *openapi3.Schema) FieldDef {
	field := FieldDef{
		ID:          name,
		Label:       labelFor(name, property),
		Description: property.Description,
		Type:        FieldText,
	}

	switch {
	case schemaTypeIs(property, "boolean"):
		field.Type = FieldCheckbox
	case schemaTypeIs(property, "integer"), schemaTypeIs(property, "number"):
		field.Type = FieldNumber
	case schemaTypeIs(property, "array"):
		field.Type = FieldCheckboxes
		if property.Items != nil && property.Items.Value != nil {
			field.Options = enumOptions(property.Items.Value.Enum)
		}
	case len(property.Enum) > 0:
		field.Type = FieldSelect
		field.Options = enumOptions(property.Enum)
	default:
		switch property.Format {
		case "email":
			field.Type = FieldEmail
		case "tel", "phone":
			field.Type = FieldPhone
		default:
			if property.MaxLength != nil && *property.MaxLength > 255 {
				field.Type = FieldTextarea
			}
		}
	}
	return field
}

func labelFor(name string, property *openapi3.Schema) string {
	if title := strings.TrimSpace(property.Title); title != "" {
		return title
	}
	return name
}

func schemaTypeIs(property *openapi3.Schema, want string) bool {
	if property.Type == nil {
		return false
	}
	for _, t := range property.Type.Slice() {
		if t == want {
			return true
		}
	}
	return false
}

func enumOptions(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	options := make([]string, 0, len(values))
	for _, value := range values {
		if option := strings.TrimSpace(anyString(value)); option != "" {
			options = append(options, option)
		}
	}
	if len(options) == 0 {
		return nil
	}
	return options
}
