package render

import (
	"html"

	"github.com/goliatone/go-formpipe/pkg/schema"
)

// Row is one label/value line of the rendered document.
type Row struct {
	Label string
	Value string
}

// Rows builds the ordered row list for a submission: the synthetic
// leading rows (subject name, then group) when those pseudo-answers are
// non-empty, followed by the schema-declared fields in schema order.
// Signature fields and non-granted consents emit no row; other fields
// emit a row even when the formatted value is empty.
func Rows(fields []schema.FieldDef, answers AnswerSet, leading Leading) []Row {
	leading = leading.withDefaults()

	rows := make([]Row, 0, len(fields)+2)
	if subject := answers.SubjectName(); subject != "" {
		rows = append(rows, Row{Label: leading.SubjectLabel, Value: subject})
	}
	if group := leading.GroupDisplay(answers.GroupKey()); group != "" {
		rows = append(rows, Row{Label: leading.GroupLabel, Value: group})
	}

	for _, field := range fields {
		value, emit := FormatValue(field, answers[field.ID])
		if !emit {
			continue
		}
		rows = append(rows, Row{Label: rowLabel(field), Value: value})
	}
	return rows
}

func rowLabel(field schema.FieldDef) string {
	if field.Label != "" {
		return field.Label
	}
	if field.Type != "" {
		return string(field.Type)
	}
	return field.ID
}

func rowHTML(row Row) string {
	return `<div class="row"><div class="label">` + html.EscapeString(row.Label) +
		`</div><div class="value">` + html.EscapeString(row.Value) + `</div></div>`
}
