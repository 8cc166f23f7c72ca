package render

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-modelcard/pkg/card"
	"github.com/goliatone/go-modelcard/pkg/render/template"
	"github.com/goliatone/go-modelcard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-modelcard/pkg/schema"
)

//go:embed templates
var embedded embed.FS

// Built-in format names.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Default template names, relative to the template root.
const (
	DefaultHTMLTemplate     = "html/default.html"
	DefaultMarkdownTemplate = "md/default.md"
)

// Templates returns the embedded default templates rooted so that
// DefaultHTMLTemplate and DefaultMarkdownTemplate (plus ".tpl") resolve.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option configures the built-in renderers.
type Option func(*config)

type config struct {
	templateDir string
	engine      template.TemplateRenderer
	themes      theme.ThemeSelector
}

// WithTemplateDir loads templates from dir before falling back to the
// embedded defaults, so a copied and edited default overrides the original.
func WithTemplateDir(dir string) Option {
	return func(cfg *config) {
		cfg.templateDir = dir
	}
}

// WithEngine replaces the template engine entirely.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.engine = engine
	}
}

// WithThemeSelector sets where Options.Theme and Options.Variant are resolved.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.themes = selector
	}
}

// TemplateRenderer renders a card through a named template. The template
// sees each card section under its JSON name (model_details, ...), plus
// schema_version and theme.
type TemplateRenderer struct {
	name            string
	contentType     string
	defaultTemplate string
	engine          template.TemplateRenderer
	themes          theme.ThemeSelector
}

var _ Renderer = (*TemplateRenderer)(nil)

// NewHTML returns the built-in HTML renderer.
func NewHTML(opts ...Option) (*TemplateRenderer, error) {
	return newTemplateRenderer(FormatHTML, "text/html; charset=utf-8", DefaultHTMLTemplate, opts)
}

// NewMarkdown returns the built-in Markdown renderer.
func NewMarkdown(opts ...Option) (*TemplateRenderer, error) {
	return newTemplateRenderer(FormatMarkdown, "text/markdown; charset=utf-8", DefaultMarkdownTemplate, opts)
}

func newTemplateRenderer(name, contentType, defaultTemplate string, opts []Option) (*TemplateRenderer, error) {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	if cfg.engine == nil {
		engineOpts := []gotemplate.Option{gotemplate.WithFS(Templates())}
		if cfg.templateDir != "" {
			engineOpts = append([]gotemplate.Option{gotemplate.WithBaseDir(cfg.templateDir)}, engineOpts...)
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("render: %s engine: %w", name, err)
		}
		cfg.engine = engine
	}
	if cfg.themes == nil {
		themes, err := NewThemes()
		if err != nil {
			return nil, err
		}
		cfg.themes = themes
	}

	return &TemplateRenderer{
		name:            name,
		contentType:     contentType,
		defaultTemplate: defaultTemplate,
		engine:          cfg.engine,
		themes:          cfg.themes,
	}, nil
}

func (r *TemplateRenderer) Name() string { return r.name }

func (r *TemplateRenderer) ContentType() string { return r.contentType }

// Render executes opts.Template, or the renderer's default template.
func (r *TemplateRenderer) Render(ctx context.Context, c *card.ModelCard, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := r.templateData(c, opts)
	if err != nil {
		return nil, err
	}
	name := opts.Template
	if name == "" {
		name = r.defaultTemplate
	}
	out, err := r.engine.Render(name, data)
	if err != nil {
		return nil, fmt.Errorf("render: %s: %w", r.name, err)
	}
	return []byte(out), nil
}

func (r *TemplateRenderer) templateData(c *card.ModelCard, opts Options) (map[string]any, error) {
	raw, err := c.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("render: encode card: %w", err)
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("render: decode card: %w", err)
	}

	selection, err := r.themes.Select(opts.Theme, opts.Variant)
	if err != nil {
		return nil, err
	}
	data["theme"] = ResolveTheme(selection)
	data["schema_version"] = schema.Current
	return data, nil
}

// Default returns a registry holding the HTML and Markdown renderers, with
// "md" as an alias for Markdown.
func Default(opts ...Option) (*Registry, error) {
	html, err := NewHTML(opts...)
	if err != nil {
		return nil, err
	}
	md, err := NewMarkdown(opts...)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	reg.MustRegister(html)
	reg.MustRegister(md)
	if err := reg.Alias("md", FormatMarkdown); err != nil {
		return nil, err
	}
	return reg, nil
}
