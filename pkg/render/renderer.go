package render

import (
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-formpipe/pkg/assets"
	"github.com/goliatone/go-formpipe/pkg/fail"
	"github.com/goliatone/go-formpipe/pkg/schema"
)

// Template placeholders. Substitution is literal text replacement:
// labels, values, and the title are HTML-escaped before insertion, while
// the form description is inserted verbatim because it is rich text
// authored by staff in the form editor. That asymmetry is inherited
// product behavior; revisit before description content can ever come
// from an untrusted author.
const (
	placeholderStyle     = "<!--STYLE-->"
	placeholderTitle     = "{{title}}"
	placeholderDesc      = "{{description}}"
	placeholderRows      = "{{rows}}"
	placeholderSignature = "{{signature}}"
	placeholderHeader    = "{{header_img}}"
	placeholderPrintDate = "{{printDate}}"
)

// Result is the fully substituted document plus the derived strings the
// delivery channels reuse for subjects and filenames.
type Result struct {
	HTML        string
	Title       string
	SubjectName string
	GroupLabel  string
}

// Renderer assembles submission documents from loaded assets.
type Renderer struct {
	assets  assets.Assets
	leading Leading
	now     func() time.Time
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithLeading overrides the leading-row labels and group label mapping.
func WithLeading(leading Leading) Option {
	return func(r *Renderer) {
		r.leading = leading
	}
}

// WithClock injects the print-date clock. Tests pin it for deterministic
// output.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs a Renderer over already loaded assets.
func New(loaded assets.Assets, options ...Option) *Renderer {
	r := &Renderer{
		assets:  loaded,
		leading: DefaultLeading(),
		now:     time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Render substitutes the document placeholders of the submission
// template and returns the self-contained document. signatureDataURL,
// when non-empty, becomes an inline image block; it is never written to
// disk.
func (r *Renderer) Render(form schema.FormDefinition, answers AnswerSet, signatureDataURL string) (Result, error) {
	if strings.TrimSpace(r.assets.TemplateHTML) == "" {
		return Result{}, fail.FailedPrecondition("submission template is empty")
	}

	title := form.DisplayTitle()
	rows := Rows(form.Fields, answers, r.leading)

	var rowsHTML strings.Builder
	for i, row := range rows {
		if i > 0 {
			rowsHTML.WriteString("\n")
		}
		rowsHTML.WriteString(rowHTML(row))
	}

	signatureHTML := ""
	if signatureDataURL != "" {
		signatureHTML = `<div class="signature"><div class="sig-label">חתימה:</div><img src="` +
			html.EscapeString(signatureDataURL) + `" alt="signature" /></div>`
	}

	headerHTML := ""
	if r.assets.HeaderDataURI != "" {
		headerHTML = `<img class="header-img" src="` + r.assets.HeaderDataURI + `" alt="" />`
	}

	leading := r.leading.withDefaults()
	doc := strings.NewReplacer(
		placeholderStyle, r.styleBlock(),
		placeholderTitle, html.EscapeString(title),
		placeholderDesc, form.Description,
		placeholderRows, rowsHTML.String(),
		placeholderSignature, signatureHTML,
		placeholderHeader, headerHTML,
		placeholderPrintDate, r.now().Format("02.01.2006, 15:04"),
	).Replace(r.assets.TemplateHTML)

	return Result{
		HTML:        doc,
		Title:       title,
		SubjectName: answers.SubjectName(),
		GroupLabel:  leading.GroupDisplay(answers.GroupKey()),
	}, nil
}

// styleBlock embeds the font as a data-URI font face ahead of the print
// stylesheet so the document renders without network access.
func (r *Renderer) styleBlock() string {
	var b strings.Builder
	b.WriteString("<style>")
	if r.assets.FontDataURL != "" {
		b.WriteString("@font-face{font-family:'NotoHeb';src:url('")
		b.WriteString(r.assets.FontDataURL)
		b.WriteString("') format('truetype');font-weight:400;font-style:normal;font-display:swap;}\n")
	}
	b.WriteString(r.assets.CSS)
	b.WriteString("</style>")
	return b.String()
}
