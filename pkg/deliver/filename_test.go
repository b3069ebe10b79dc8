package deliver_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formpipe/pkg/deliver"
)

func TestSanitizeFilenameRemovesIllegalChars(t *testing.T) {
	got := deliver.SanitizeFilename(`Jane/Doe*?.pdf`)
	if strings.ContainsAny(got, `/\:*?"<>|`) {
		t.Fatalf("sanitized name %q still contains illegal characters", got)
	}
	if !strings.Contains(got, "Jane") || !strings.Contains(got, "Doe") {
		t.Fatalf("sanitized name %q lost letters", got)
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("sanitized name %q lost the extension", got)
	}
}

func TestSanitizeFilenamePreservesHebrew(t *testing.T) {
	got := deliver.SanitizeFilename("טופס טיול 2024!")
	if want := "טופס_טיול_2024"; got != want {
		t.Fatalf("SanitizeFilename = %q, want %q", got, want)
	}
}

func TestSanitizeFilenameCollapsesWhitespace(t *testing.T) {
	got := deliver.SanitizeFilename("  Dana   Levi  ")
	if want := "Dana_Levi"; got != want {
		t.Fatalf("SanitizeFilename = %q, want %q", got, want)
	}
}

func TestSanitizeFilenameEmptyFallsBack(t *testing.T) {
	if got := deliver.SanitizeFilename("   "); got != "טופס" {
		t.Fatalf("SanitizeFilename(empty) = %q", got)
	}
}

func TestAttachmentName(t *testing.T) {
	cases := []struct {
		name                  string
		subject, group, title string
		want                  string
	}{
		{
			name:    "all parts",
			subject: "Dana Levi", group: "Group A", title: "Trip Form",
			want: "Dana_Levi-Group_A-Trip_Form.pdf",
		},
		{
			name:  "missing subject and group",
			title: "Trip Form",
			want:  "Trip_Form.pdf",
		},
		{
			name: "everything empty falls back to default title",
			want: "טופס.pdf",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := deliver.AttachmentName(tc.subject, tc.group, tc.title)
			if got != tc.want {
				t.Fatalf("AttachmentName = %q, want %q", got, tc.want)
			}
		})
	}
}
