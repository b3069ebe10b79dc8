// Package render turns a normalized form schema plus a submitted answer
// set into the self-contained HTML document handed to the artifact
// compiler. Formatting is deterministic per field type so the same
// submission always produces the same document.
package render

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formpipe/pkg/schema"
)

// defaultConsentText is shown for a granted consent whose field carries
// neither a description nor a label.
const defaultConsentText = "הסכמה"

// FormatValue converts a raw answer value into its canonical display
// string for the given field. The second return reports whether a row
// should be emitted at all: consent fields that were not granted and
// signature fields never produce rows; every other field emits a row
// even when the formatted value is empty.
func FormatValue(field schema.FieldDef, raw any) (string, bool) {
	switch field.Type {
	case schema.FieldSignature:
		return "", false
	case schema.FieldConsent:
		if granted, ok := raw.(bool); !ok || !granted {
			return "", false
		}
		if text := strings.TrimSpace(field.Description); text != "" {
			return text, true
		}
		if text := strings.TrimSpace(field.Label); text != "" {
			return text, true
		}
		return defaultConsentText, true
	case schema.FieldCheckbox, schema.FieldCheckboxes:
		if list, ok := raw.([]any); ok {
			return joinList(list), true
		}
		if list, ok := raw.([]string); ok {
			return strings.Join(list, ", "), true
		}
		return coerceString(raw), true
	case schema.FieldRichText:
		return StripMarkup(coerceString(raw)), true
	default:
		if list, ok := raw.([]any); ok {
			return joinList(list), true
		}
		if list, ok := raw.([]string); ok {
			return strings.Join(list, ", "), true
		}
		return coerceString(raw), true
	}
}

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// StripMarkup removes every markup tag from raw, collapses runs of
// whitespace to single spaces, and trims the result. Entities are
// unescaped so later HTML escaping does not double-encode them.
func StripMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	cleaned := html.UnescapeString(stripPolicy.Sanitize(trimmed))
	return strings.Join(strings.Fields(cleaned), " ")
}

func joinList(list []any) string {
	parts := make([]string, 0, len(list))
	for _, entry := range list {
		parts = append(parts, coerceString(entry))
	}
	return strings.Join(parts, ", ")
}

func coerceString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; keep integers undecorated.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}
