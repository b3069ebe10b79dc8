// Package template provides the pongo2-backed template engine used for
// the delivery-side templates (email subject and body). The submission
// document itself is produced by literal placeholder substitution in
// pkg/render and deliberately does not go through this engine.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"
)

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract so callers can swap engines without touching channel code.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
	globals   map[string]any
}

// WithBaseDir loads named templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads named templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default ".tpl" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobalData seeds context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// WithGoTemplateOptions accepts go-template engine options for callers
// migrating from that engine; the pongo2 set needs none of them.
func WithGoTemplateOptions(_ ...gotemplatepkg.Option) Option {
	return func(*config) {}
}

// Engine satisfies TemplateRenderer over a pongo2 template set.
type Engine struct {
	mu sync.RWMutex

	set     *pongo2.TemplateSet
	cache   map[string]*pongo2.Template
	globals pongo2.Context
	ext     string
}

var _ TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. Callers rendering only inline strings may
// pass no loader options; named-template lookups then fail.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("template: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		loaders = append(loaders, pongo2.MustNewLocalFileSystemLoader(""))
	}

	engine := &Engine{
		set:     pongo2.NewSet("formpipe", loaders...),
		cache:   make(map[string]*pongo2.Template),
		globals: pongo2.Context{},
		ext:     cfg.extension,
	}
	if err := engine.GlobalContext(cfg.globals); err != nil {
		return nil, err
	}
	return engine, nil
}

// Render treats name as inline content when it looks like template text,
// otherwise as a named template.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.ContainsAny(name, "{}\n") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate executes a named template from the configured loaders.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("template: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}

	tmpl, err := e.load(path)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, out...)
}

// RenderString executes inline template content.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("template: engine is nil")
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("template: parse inline template: %w", err)
	}
	return e.execute(tmpl, data, out...)
}

// RegisterFilter exposes fn as a pongo2 filter under name.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("template: filter name is required")
	}
	if fn == nil {
		return fmt.Errorf("template: filter %q is nil", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		result, err := fn(in.Interface(), param.Interface())
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the context handed to every render.
func (e *Engine) GlobalContext(data any) error {
	if data == nil {
		return nil
	}
	values, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("template: global context must be map[string]any, got %T", data)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for key, value := range values {
		e.globals[key] = value
	}
	return nil
}

func (e *Engine) load(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("template: load %q: %w", path, err)
	}

	e.mu.Lock()
	e.cache[path] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, out ...io.Writer) (string, error) {
	ctx := pongo2.Context{}
	e.mu.RLock()
	for key, value := range e.globals {
		ctx[key] = value
	}
	e.mu.RUnlock()

	switch values := data.(type) {
	case nil:
	case pongo2.Context:
		ctx.Update(values)
	case map[string]any:
		ctx.Update(values)
	default:
		return "", fmt.Errorf("template: render data must be map[string]any, got %T", data)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("template: execute: %w", err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := w.Write([]byte(rendered)); err != nil {
			return "", fmt.Errorf("template: write output: %w", err)
		}
	}
	return rendered, nil
}
