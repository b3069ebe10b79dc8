package deliver

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// illegalFilenameChars matches everything outside the allowed set:
// word characters, whitespace, dot, dash, and the Hebrew block.
var illegalFilenameChars = regexp.MustCompile(`[^\w\s.\-\x{0590}-\x{05FF}]`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFilename normalizes a name part for use in a filename: NFKD
// normalization, removal of characters illegal in filenames (and
// anything else outside the allowed set), and whitespace collapsed to
// underscores. Hebrew letters are preserved. Empty input falls back to
// the product's default document name.
func SanitizeFilename(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		s = "טופס"
	}
	s = norm.NFKD.String(s)
	s = illegalFilenameChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespaceRun.ReplaceAllString(s, "_")
	return s
}

// AttachmentName builds the artifact filename from the subject name,
// group label, and form title. Each part is sanitized independently and
// empty parts are dropped.
func AttachmentName(subject, group, title string) string {
	var parts []string
	for _, raw := range []string{subject, group} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if part := SanitizeFilename(raw); part != "" {
			parts = append(parts, part)
		}
	}
	// Title always contributes; SanitizeFilename substitutes the default
	// document name when it is empty.
	parts = append(parts, SanitizeFilename(title))
	return strings.Join(parts, "-") + ".pdf"
}
