package schema

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed versions/*.yaml
var versionFS embed.FS

const (
	// Current is the schema version the record is shaped after.
	Current = "0.0.2"
	// Oldest is the earliest version a payload can be migrated from.
	Oldest = "0.0.1"
	// VersionKey is the payload key carrying the schema version tag.
	VersionKey = "schema_version"
	// RootComponent names the component schema describing a whole card.
	RootComponent = "ModelCard"
)

// ErrUnknownVersion is returned for versions the registry does not hold.
var ErrUnknownVersion = errors.New("schema: unknown schema version")

// Schema is a parsed schema version.
type Schema struct {
	Version  string
	Document *openapi3.T
	Root     *openapi3.Schema
}

// Registry holds the field-shape definition of every known schema version.
// Each version is parsed once, on first lookup. A Registry is safe for
// concurrent use.
type Registry struct {
	entries map[string]*entry
	order   []string
}

type entry struct {
	raw    []byte
	once   sync.Once
	schema *Schema
	err    error
}

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	sources map[string][]byte
	fsys    fs.FS
	dir     string
}

// WithVersion registers raw as the OpenAPI document for version, replacing
// any embedded definition of the same version.
func WithVersion(version string, raw []byte) Option {
	return func(cfg *registryConfig) {
		cfg.sources[version] = append([]byte(nil), raw...)
	}
}

// WithFS reads version documents named v<version>.yaml from dir in fsys
// instead of the embedded set.
func WithFS(fsys fs.FS, dir string) Option {
	return func(cfg *registryConfig) {
		cfg.fsys = fsys
		cfg.dir = dir
	}
}

// New builds a registry from the embedded version documents plus any
// registered through options.
func New(opts ...Option) (*Registry, error) {
	cfg := registryConfig{
		sources: map[string][]byte{},
		fsys:    versionFS,
		dir:     "versions",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	reg := &Registry{entries: map[string]*entry{}}
	if cfg.fsys != nil {
		found, err := readVersions(cfg.fsys, cfg.dir)
		if err != nil {
			return nil, err
		}
		for version, raw := range found {
			reg.entries[version] = &entry{raw: raw}
		}
	}
	for version, raw := range cfg.sources {
		reg.entries[version] = &entry{raw: raw}
	}
	if len(reg.entries) == 0 {
		return nil, errors.New("schema: no versions registered")
	}

	parsed := make([]*semver.Version, 0, len(reg.entries))
	for version := range reg.entries {
		v, err := semver.StrictNewVersion(version)
		if err != nil {
			return nil, fmt.Errorf("schema: invalid version %q: %w", version, err)
		}
		parsed = append(parsed, v)
	}
	sort.Sort(semver.Collection(parsed))
	for _, v := range parsed {
		reg.order = append(reg.order, v.Original())
	}
	return reg, nil
}

// MustNew is New for statically known inputs. It panics on error.
func MustNew(opts ...Option) *Registry {
	reg, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return reg
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the shared registry of embedded versions.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = MustNew()
	})
	return defaultReg
}

func readVersions(fsys fs.FS, dir string) (map[string][]byte, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "v*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("schema: list versions: %w", err)
	}
	out := make(map[string][]byte, len(matches))
	for _, name := range matches {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", name, err)
		}
		version := strings.TrimSuffix(strings.TrimPrefix(path.Base(name), "v"), ".yaml")
		out[version] = raw
	}
	return out, nil
}

// Versions lists the known versions, oldest first.
func (r *Registry) Versions() []string {
	return append([]string(nil), r.order...)
}

// Latest returns the newest known version.
func (r *Registry) Latest() string {
	return r.order[len(r.order)-1]
}

// Has reports whether version is registered.
func (r *Registry) Has(version string) bool {
	_, ok := r.entries[version]
	return ok
}

// Compare orders two versions with semantic-version precedence. Both must be
// valid semantic versions but need not be registered.
func (r *Registry) Compare(a, b string) (int, error) {
	va, err := semver.StrictNewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("schema: invalid version %q: %w", a, err)
	}
	vb, err := semver.StrictNewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("schema: invalid version %q: %w", b, err)
	}
	return va.Compare(vb), nil
}

// Lookup returns the parsed schema for version. An empty version selects the
// latest.
func (r *Registry) Lookup(version string) (*Schema, error) {
	if version == "" {
		version = r.Latest()
	}
	e, ok := r.entries[version]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}
	e.once.Do(func() {
		e.schema, e.err = parse(version, e.raw)
	})
	return e.schema, e.err
}

func parse(version string, raw []byte) (*Schema, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load version %s: %w", version, err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("schema: version %s is not a valid document: %w", version, err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("schema: version %s has no components", version)
	}
	root := doc.Components.Schemas[RootComponent]
	if root == nil || root.Value == nil {
		return nil, fmt.Errorf("schema: version %s does not define %s", version, RootComponent)
	}
	return &Schema{Version: version, Document: doc, Root: root.Value}, nil
}
