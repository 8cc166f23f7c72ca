package modelcard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-modelcard/internal/logging"
	"github.com/goliatone/go-modelcard/pkg/card"
	"github.com/goliatone/go-modelcard/pkg/cardpb"
	"github.com/goliatone/go-modelcard/pkg/extract"
	"github.com/goliatone/go-modelcard/pkg/migrate"
	"github.com/goliatone/go-modelcard/pkg/payload"
	"github.com/goliatone/go-modelcard/pkg/render"
	"github.com/goliatone/go-modelcard/pkg/validation"
)

// Asset layout below the output directory.
const (
	ProtoFile         = "data/model_card.pb"
	TemplateDir       = "template"
	ModelCardsDir     = "model_cards"
	DefaultOutputDir  = "model_card_assets"
	defaultExportName = "model_card"
)

// ErrNoProtoAsset is returned when the card asset has not been scaffolded yet.
var ErrNoProtoAsset = errors.New("modelcard: no model card asset, run Scaffold first")

// Option customises the toolkit.
type Option func(*Toolkit)

// WithOutputDir sets the directory holding the card asset, the editable
// templates and exported documents.
func WithOutputDir(dir string) Option {
	return func(t *Toolkit) {
		if dir != "" {
			t.outputDir = dir
		}
	}
}

// WithLogger sets the logger used to trace decoding and asset writes.
func WithLogger(logger hclog.Logger) Option {
	return func(t *Toolkit) {
		t.logger = logging.OrNull(logger)
	}
}

// WithExtractors registers the extractors Scaffold runs, in order.
func WithExtractors(extractors ...extract.Extractor) Option {
	return func(t *Toolkit) {
		t.extractors = append(t.extractors, extractors...)
	}
}

// WithMigrator replaces the migrator used by Decode.
func WithMigrator(m *migrate.Migrator) Option {
	return func(t *Toolkit) {
		if m != nil {
			t.migrator = m
		}
	}
}

// WithValidator replaces the validator used by Decode.
func WithValidator(v *validation.Validator) Option {
	return func(t *Toolkit) {
		if v != nil {
			t.validator = v
		}
	}
}

// WithRenderers replaces the renderer registry. Without it, Export uses the
// built-in renderers reading templates from the scaffolded template dir.
func WithRenderers(reg *render.Registry) Option {
	return func(t *Toolkit) {
		t.registry = reg
	}
}

// WithTemplateDir makes the built-in renderers read templates from dir
// instead of the scaffolded copies below the output directory.
func WithTemplateDir(dir string) Option {
	return func(t *Toolkit) {
		t.templateDir = dir
	}
}

// WithTheme selects the theme and variant Export renders with.
func WithTheme(name, variant string) Option {
	return func(t *Toolkit) {
		t.theme = name
		t.variant = variant
	}
}

// WithLoader replaces the loader used by Load.
func WithLoader(l payload.Loader) Option {
	return func(t *Toolkit) {
		if l != nil {
			t.loader = l
		}
	}
}

// Toolkit ties the record, its codecs and the renderers to an asset
// directory:
//
//	<output_dir>/data/model_card.pb   current card, proto form
//	<output_dir>/template/...         editable copies of the default templates
//	<output_dir>/model_cards/...      exported documents
type Toolkit struct {
	outputDir  string
	logger     hclog.Logger
	extractors []extract.Extractor
	migrator   *migrate.Migrator
	validator  *validation.Validator
	loader     payload.Loader
	theme       string
	variant     string
	templateDir string

	registry     *render.Registry
	embedded     *render.Registry
	embeddedOnce sync.Once
	embeddedErr  error
}

// New constructs a Toolkit.
func New(opts ...Option) *Toolkit {
	t := &Toolkit{
		outputDir: DefaultOutputDir,
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	if t.validator == nil {
		t.validator = validation.New()
	}
	if t.migrator == nil {
		t.migrator = migrate.New(migrate.WithValidator(t.validator), migrate.WithLogger(t.logger.Named("migrate")))
	}
	if t.loader == nil {
		t.loader = NewLoader()
	}
	return t
}

// OutputDir returns the asset directory.
func (t *Toolkit) OutputDir() string {
	return t.outputDir
}

// ProtoPath returns the path of the proto-form card asset.
func (t *Toolkit) ProtoPath() string {
	return filepath.Join(t.outputDir, filepath.FromSlash(ProtoFile))
}

// TemplatePath returns the directory holding the editable templates.
func (t *Toolkit) TemplatePath() string {
	return filepath.Join(t.outputDir, TemplateDir)
}

// Decode parses a JSON or YAML payload of any known schema version, migrates
// it to the current schema, validates it and builds the record.
func (t *Toolkit) Decode(raw []byte) (*card.ModelCard, error) {
	doc, format, err := payload.Decode(raw)
	if err != nil {
		return nil, err
	}
	migrated, from, err := t.migrator.Migrate(doc)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("decoded payload", "format", format, "version", from, "current", t.migrator.Current())

	encoded, err := json.Marshal(migrated)
	if err != nil {
		return nil, fmt.Errorf("modelcard: encode migrated payload: %w", err)
	}
	return card.FromJSON(encoded, card.WithValidator(t.validator))
}

// Load reads src with the toolkit's loader and decodes it.
func (t *Toolkit) Load(ctx context.Context, src payload.Source) (*card.ModelCard, error) {
	doc, err := t.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	c, err := t.Decode(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("modelcard: %s: %w", doc.Location(), err)
	}
	return c, nil
}

// Encode returns the versioned JSON form of c.
func (t *Toolkit) Encode(c *card.ModelCard) ([]byte, error) {
	return c.ToJSON(card.WithSchemaVersion(), card.WithIndent("  "))
}

// Scaffold merges the fragments of every extractor, then the JSON overrides
// (may be empty), and writes the result together with editable copies of the
// default templates to the output directory.
func (t *Toolkit) Scaffold(ctx context.Context, overrides []byte) (*card.ModelCard, error) {
	fragment, err := extract.Collect(ctx, t.extractors...)
	if err != nil {
		return nil, err
	}
	c := card.New()
	if err := c.MergeFromProto(fragment); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(overrides))) > 0 {
		if err := c.MergeFromJSON(overrides, card.WithValidator(t.validator)); err != nil {
			return nil, fmt.Errorf("modelcard: apply overrides: %w", err)
		}
	}

	if err := t.UpdateModelCard(c); err != nil {
		return nil, err
	}
	if err := copyTemplates(render.Templates(), t.TemplatePath()); err != nil {
		return nil, err
	}
	t.logger.Info("scaffolded model card assets", "dir", t.outputDir, "extractors", len(t.extractors))
	return c, nil
}

// UpdateModelCard replaces the card asset with c. A card failing card.Check
// is rejected and the existing asset is kept.
func (t *Toolkit) UpdateModelCard(c *card.ModelCard) error {
	if c == nil {
		return card.ErrNilCard
	}
	if err := c.Check(); err != nil {
		return fmt.Errorf("modelcard: %w", err)
	}
	data, err := c.ToProto().Marshal()
	if err != nil {
		return fmt.Errorf("modelcard: encode card: %w", err)
	}
	path := t.ProtoPath()
	if err := writeFile(path, data); err != nil {
		return err
	}
	t.logger.Debug("wrote model card asset", "path", path, "bytes", len(data))
	return nil
}

// LoadModelCard reads the card asset.
func (t *Toolkit) LoadModelCard() (*card.ModelCard, error) {
	data, err := os.ReadFile(t.ProtoPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoProtoAsset
		}
		return nil, fmt.Errorf("modelcard: read card asset: %w", err)
	}
	pb := &cardpb.ModelCard{}
	if err := pb.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("modelcard: decode %s: %w", t.ProtoPath(), err)
	}
	return card.FromProto(pb)
}

// Export renders the card in format and writes it to
// <output_dir>/model_cards/<outputFile>. A nil c renders the card asset; a
// non-nil c replaces the asset first. An empty outputFile defaults to
// "model_card" plus the format's extension.
func (t *Toolkit) Export(ctx context.Context, c *card.ModelCard, format, outputFile string) ([]byte, error) {
	if c != nil {
		if err := t.UpdateModelCard(c); err != nil {
			return nil, err
		}
	}
	current, err := t.LoadModelCard()
	if err != nil {
		return nil, err
	}

	renderer, err := t.renderer(format)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(ctx, current, render.Options{Theme: t.theme, Variant: t.variant})
	if err != nil {
		return nil, err
	}

	if outputFile == "" {
		outputFile = defaultExportName + extension(renderer.Name())
	}
	path := filepath.Join(t.outputDir, ModelCardsDir, outputFile)
	if err := writeFile(path, out); err != nil {
		return nil, err
	}
	t.logger.Info("exported model card", "format", renderer.Name(), "path", path)
	return out, nil
}

// Render renders c in format without touching the asset directory.
func (t *Toolkit) Render(ctx context.Context, c *card.ModelCard, format string) ([]byte, error) {
	if c == nil {
		return nil, card.ErrNilCard
	}
	renderer, err := t.renderer(format)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, c, render.Options{Theme: t.theme, Variant: t.variant})
}

func (t *Toolkit) renderer(format string) (render.Renderer, error) {
	reg, err := t.renderers()
	if err != nil {
		return nil, err
	}
	return reg.Get(format)
}

// RenderTemplateDir returns the directory the built-in renderers read
// templates from: the WithTemplateDir directory, else the scaffolded copies
// once they exist. It is empty while only the embedded templates are used.
func (t *Toolkit) RenderTemplateDir() string {
	if t.templateDir != "" {
		return t.templateDir
	}
	if info, err := os.Stat(t.TemplatePath()); err == nil && info.IsDir() {
		return t.TemplatePath()
	}
	return ""
}

// renderers builds the registry for one render. Templates on disk are parsed
// again on every call so edits show up in the next Export.
func (t *Toolkit) renderers() (*render.Registry, error) {
	if t.registry != nil {
		return t.registry, nil
	}
	if dir := t.RenderTemplateDir(); dir != "" {
		return render.Default(render.WithTemplateDir(dir))
	}
	t.embeddedOnce.Do(func() {
		t.embedded, t.embeddedErr = render.Default()
	})
	return t.embedded, t.embeddedErr
}

func extension(format string) string {
	switch format {
	case render.FormatHTML:
		return ".html"
	case render.FormatMarkdown:
		return ".md"
	default:
		return "." + format
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("modelcard: create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("modelcard: write %s: %w", path, err)
	}
	return nil
}
