// Package assets loads the fixed document resources the renderer embeds
// into every submission document: the HTML template, the print
// stylesheet, the Hebrew font, and an optional header image.
package assets

import (
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/goliatone/go-formpipe/pkg/fail"
)

// DefaultDir is the deployment-relative asset location.
const DefaultDir = "assets"

// Relative asset paths under the asset directory.
const (
	templatePath  = "templates/submission.html"
	stylePath     = "styles/pdf.css"
	fontPath      = "fonts/NotoSansHebrew-Regular.ttf"
	headerPNGPath = "img/header.png"
	headerJPGPath = "img/header.jpg"
)

// Assets holds the loaded resources ready for inline embedding. Binary
// resources are pre-encoded as data URIs so the rendered document needs
// no external references.
type Assets struct {
	TemplateHTML  string
	CSS           string
	FontDataURL   string
	HeaderDataURI string
}

// Loader reads assets from a directory on disk.
type Loader struct {
	dir string
}

// NewLoader returns a Loader rooted at dir, falling back to DefaultDir
// when dir is empty.
func NewLoader(dir string) Loader {
	if dir == "" {
		dir = DefaultDir
	}
	return Loader{dir: dir}
}

// Load reads every required asset, failing with a precondition error
// that names every missing path before any of them is read. The header
// image is optional; PNG wins over JPG when both exist.
func (l Loader) Load() (Assets, error) {
	required := []string{templatePath, stylePath, fontPath}

	var missing []string
	for _, rel := range required {
		full := filepath.Join(l.dir, rel)
		if _, err := os.Stat(full); err != nil {
			missing = append(missing, full)
		}
	}
	if len(missing) > 0 {
		return Assets{}, fail.FailedPrecondition("missing asset files", missing...)
	}

	templateHTML, err := os.ReadFile(filepath.Join(l.dir, templatePath))
	if err != nil {
		return Assets{}, fail.Internal("read template", err)
	}
	css, err := os.ReadFile(filepath.Join(l.dir, stylePath))
	if err != nil {
		return Assets{}, fail.Internal("read stylesheet", err)
	}
	font, err := os.ReadFile(filepath.Join(l.dir, fontPath))
	if err != nil {
		return Assets{}, fail.Internal("read font", err)
	}

	loaded := Assets{
		TemplateHTML: string(templateHTML),
		CSS:          string(css),
		FontDataURL:  "data:font/ttf;base64," + base64.StdEncoding.EncodeToString(font),
	}

	if img, err := os.ReadFile(filepath.Join(l.dir, headerPNGPath)); err == nil {
		loaded.HeaderDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
	} else if img, err := os.ReadFile(filepath.Join(l.dir, headerJPGPath)); err == nil {
		loaded.HeaderDataURI = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img)
	}

	return loaded, nil
}
