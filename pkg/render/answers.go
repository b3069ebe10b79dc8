package render

import "strings"

// AnswerSet maps field ids (plus the two leading pseudo-keys) to raw
// submitted values.
type AnswerSet map[string]any

// Pseudo-keys for the product's mandatory leading answers. Older clients
// submitted them under alternate spellings, so lookups try the aliases
// in order.
const (
	KeySubjectName = "studentName"
	KeyGroup       = "group"
)

var (
	subjectAliases = []string{KeySubjectName, "student_name", "שם החניכ.ה"}
	groupAliases   = []string{KeyGroup, "groupId", "קבוצה"}
)

// SubjectName returns the trimmed subject-name pseudo-answer, trying the
// historical alias keys in order.
func (a AnswerSet) SubjectName() string {
	return a.firstString(subjectAliases)
}

// GroupKey returns the raw group pseudo-answer before label mapping.
func (a AnswerSet) GroupKey() string {
	return a.firstString(groupAliases)
}

func (a AnswerSet) firstString(keys []string) string {
	for _, key := range keys {
		raw, ok := a[key]
		if !ok {
			continue
		}
		if value := strings.TrimSpace(coerceString(raw)); value != "" {
			return value
		}
	}
	return ""
}

// Leading configures the synthetic leading rows and the group display
// labels. The zero value falls back to the product defaults.
type Leading struct {
	SubjectLabel string
	GroupLabel   string
	// GroupNames maps stored group keys to display labels. Values that
	// already are display labels pass through unchanged.
	GroupNames map[string]string
}

// DefaultLeading mirrors the labels the product has always printed.
func DefaultLeading() Leading {
	return Leading{
		SubjectLabel: "שם החניכ.ה",
		GroupLabel:   "קבוצה",
		GroupNames: map[string]string{
			"barkan":      "ברקן",
			"geranium":    "גרניום",
			"geranium_he": "גרניום",
			"durian":      "דוריאן",
			"hel":         "הל",
		},
	}
}

// GroupDisplay resolves a stored group key to its display label. Known
// display labels and unknown keys pass through unchanged.
func (l Leading) GroupDisplay(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	for _, label := range l.GroupNames {
		if value == label {
			return value
		}
	}
	if label, ok := l.GroupNames[strings.ToLower(value)]; ok {
		return label
	}
	return value
}

func (l Leading) withDefaults() Leading {
	defaults := DefaultLeading()
	if l.SubjectLabel == "" {
		l.SubjectLabel = defaults.SubjectLabel
	}
	if l.GroupLabel == "" {
		l.GroupLabel = defaults.GroupLabel
	}
	if l.GroupNames == nil {
		l.GroupNames = defaults.GroupNames
	}
	return l
}
