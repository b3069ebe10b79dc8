package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-formpipe/pkg/assets"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/schema"
)

const testTemplate = `<html><head><!--STYLE--></head>
<body>{{header_img}}<h1>{{title}}</h1><div class="desc">{{description}}</div>
<div class="rows">{{rows}}</div>{{signature}}<footer>{{printDate}}</footer></body></html>`

func testAssets() assets.Assets {
	return assets.Assets{
		TemplateHTML: testTemplate,
		CSS:          ".row{direction:rtl}",
		FontDataURL:  "data:font/ttf;base64,AAEAAA==",
	}
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	}
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	form := schema.FormDefinition{
		Title:       "Trip Form",
		Description: "<p>Bring water</p>",
		Fields: []schema.FieldDef{
			{ID: "f1", Type: schema.FieldText, Label: "Notes"},
		},
	}
	answers := render.AnswerSet{"studentName": "Dana Levi", "group": "Group A", "f1": "All good"}

	r := render.New(testAssets(), render.WithClock(fixedClock()))
	result, err := r.Render(form, answers, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"<h1>Trip Form</h1>",
		// description is trusted rich text, inserted verbatim
		"<p>Bring water</p>",
		"Dana Levi",
		"Group A",
		"All good",
		"@font-face",
		"data:font/ttf;base64,AAEAAA==",
		"14.03.2025, 09:30",
	} {
		if !strings.Contains(result.HTML, want) {
			t.Fatalf("document missing %q:\n%s", want, result.HTML)
		}
	}
	for _, leftover := range []string{"{{title}}", "{{rows}}", "{{signature}}", "{{header_img}}", "<!--STYLE-->"} {
		if strings.Contains(result.HTML, leftover) {
			t.Fatalf("unsubstituted placeholder %q left in document", leftover)
		}
	}
	if result.SubjectName != "Dana Levi" || result.GroupLabel != "Group A" || result.Title != "Trip Form" {
		t.Fatalf("derived result = %+v", result)
	}

	// Leading rows come first, schema rows after.
	if strings.Index(result.HTML, "Dana Levi") > strings.Index(result.HTML, "All good") {
		t.Fatal("subject row must precede schema rows")
	}
	if strings.Index(result.HTML, "Group A") > strings.Index(result.HTML, "All good") {
		t.Fatal("group row must precede schema rows")
	}
}

func TestRenderEscapesValuesButTrustsDescription(t *testing.T) {
	form := schema.FormDefinition{
		Title:       "A & B <Form>",
		Description: `<b onload="x">desc</b>`,
		Fields:      []schema.FieldDef{{ID: "f1", Type: schema.FieldText, Label: "No<tes>"}},
	}
	answers := render.AnswerSet{"f1": `"quoted" & <tagged>`}

	result, err := render.New(testAssets(), render.WithClock(fixedClock())).Render(form, answers, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(result.HTML, "A &amp; B &lt;Form&gt;") {
		t.Fatal("title must be escaped")
	}
	if !strings.Contains(result.HTML, "No&lt;tes&gt;") {
		t.Fatal("labels must be escaped")
	}
	if !strings.Contains(result.HTML, "&#34;quoted&#34; &amp; &lt;tagged&gt;") {
		t.Fatal("values must be escaped")
	}
	if !strings.Contains(result.HTML, `<b onload="x">desc</b>`) {
		t.Fatal("description is trusted rich text and must pass through unchanged")
	}
}

func TestRenderSignatureBlock(t *testing.T) {
	form := schema.FormDefinition{Title: "T"}
	r := render.New(testAssets(), render.WithClock(fixedClock()))

	withSig, err := r.Render(form, render.AnswerSet{}, "data:image/png;base64,QUJD")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(withSig.HTML, `class="signature"`) ||
		!strings.Contains(withSig.HTML, "data:image/png;base64,QUJD") {
		t.Fatal("signature block missing")
	}

	withoutSig, err := r.Render(form, render.AnswerSet{}, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(withoutSig.HTML, `class="signature"`) {
		t.Fatal("signature block must be absent when no payload was supplied")
	}
}

func TestRenderConsentOmission(t *testing.T) {
	form := schema.FormDefinition{
		Title: "Trip Form",
		Fields: []schema.FieldDef{
			{ID: "f1", Type: schema.FieldText, Label: "Notes"},
			{ID: "c1", Type: schema.FieldConsent, Description: "I agree to the terms"},
		},
	}
	answers := render.AnswerSet{"f1": "ok", "c1": false}

	result, err := render.New(testAssets(), render.WithClock(fixedClock())).Render(form, answers, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(result.HTML, "I agree to the terms") {
		t.Fatal("non-granted consent must not appear in the document")
	}
}

func TestRenderHeaderImage(t *testing.T) {
	loaded := testAssets()
	loaded.HeaderDataURI = "data:image/png;base64,SEVBRA=="

	result, err := render.New(loaded, render.WithClock(fixedClock())).Render(schema.FormDefinition{Title: "T"}, render.AnswerSet{}, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(result.HTML, `<img class="header-img" src="data:image/png;base64,SEVBRA==" alt="" />`) {
		t.Fatal("header image tag missing")
	}
}
