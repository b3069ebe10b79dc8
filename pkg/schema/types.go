// Package schema models form definitions as stored by the form editor
// and reconciles the several historical shapes a stored field list can
// take into one canonical ordered list of field definitions.
package schema

import "strings"

// FieldType enumerates the field kinds the submission renderer understands.
type FieldType string

const (
	FieldText       FieldType = "text"
	FieldTextarea   FieldType = "textarea"
	FieldNumber     FieldType = "number"
	FieldPhone      FieldType = "phone"
	FieldEmail      FieldType = "email"
	FieldConsent    FieldType = "consent"
	FieldSelect     FieldType = "select"
	FieldRadio      FieldType = "radio"
	FieldCheckbox   FieldType = "checkbox"
	FieldCheckboxes FieldType = "checkboxes"
	FieldSignature  FieldType = "signature"
	FieldRichText   FieldType = "richtext"
)

// IsChoice reports whether the type carries an options list.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldSelect, FieldRadio, FieldCheckbox, FieldCheckboxes:
		return true
	}
	return false
}

// FieldDef describes one field of a form schema. ID is opaque and stable
// across edits; answers key by it.
type FieldDef struct {
	ID       string
	Type     FieldType
	Label    string
	Required bool
	// Options is present and non-empty only for choice types.
	Options []string
	// Description carries the consent text for consent fields.
	Description string
}

// FormDefinition is the read-only view of a stored form record consumed
// by the pipeline. SubmissionCount is mutated only through the ledger.
type FormDefinition struct {
	ID               string
	Title            string
	Description      string
	Fields           []FieldDef
	NotifyRecipients []string
	OwnerRef         string
	SubmissionCount  int64
	PublicRef        string
}

// DisplayTitle returns the form title with a product default when the
// record stores none.
func (f FormDefinition) DisplayTitle() string {
	if title := strings.TrimSpace(f.Title); title != "" {
		return title
	}
	return "טופס"
}
