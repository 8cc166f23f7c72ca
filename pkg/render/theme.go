package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the built-in manifest returned by DefaultManifest.
const DefaultThemeName = "modelcard"

// Theme is the resolved styling handed to templates under the "theme" key.
type Theme struct {
	Name    string            `json:"name"`
	Variant string            `json:"variant,omitempty"`
	Tokens  map[string]string `json:"tokens,omitempty"`
	CSSVars map[string]string `json:"css_vars,omitempty"`
	// Style is a ready-to-embed ":root { ... }" rule declaring CSSVars.
	Style string `json:"style,omitempty"`
}

// DefaultManifest returns the built-in light theme with a "dark" variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent":      "#1a73e8",
			"background":  "#ffffff",
			"border":      "#d0d7de",
			"font-family": "-apple-system, 'Segoe UI', Helvetica, Arial, sans-serif",
			"foreground":  "#1f2328",
			"muted":       "#57606a",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"accent":     "#8ab4f8",
					"background": "#0d1117",
					"border":     "#30363d",
					"foreground": "#e6edf3",
					"muted":      "#8d96a0",
				},
			},
		},
	}
}

type manifestRegistry interface {
	Register(*theme.Manifest) error
}

// Themes selects manifests by name and variant. Manifests are checked by a
// go-theme registry when added. The zero value is not usable; use NewThemes.
type Themes struct {
	mu          sync.RWMutex
	provider    manifestRegistry
	manifests   map[string]*theme.Manifest
	defaultName string
}

// NewThemes returns a selector holding the built-in manifest plus extra.
func NewThemes(extra ...*theme.Manifest) (*Themes, error) {
	t := &Themes{
		provider:    theme.NewRegistry(),
		manifests:   make(map[string]*theme.Manifest),
		defaultName: DefaultThemeName,
	}
	for _, m := range append([]*theme.Manifest{DefaultManifest()}, extra...) {
		if err := t.Add(m); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add registers a manifest, replacing none: names must be unique.
func (t *Themes) Add(m *theme.Manifest) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("render: theme manifest requires a name")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.manifests[m.Name]; exists {
		return fmt.Errorf("render: theme %q already registered", m.Name)
	}
	if err := t.provider.Register(m); err != nil {
		return fmt.Errorf("render: register theme %q: %w", m.Name, err)
	}
	t.manifests[m.Name] = m
	return nil
}

// Names lists registered theme names.
func (t *Themes) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.manifests))
	for name := range t.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select picks a manifest. An empty name selects the built-in theme and an
// empty variant selects the base tokens.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = t.defaultName
	}

	t.mu.RLock()
	m, ok := t.manifests[name]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

var _ theme.ThemeSelector = (*Themes)(nil)

// ResolveTheme flattens a selection into template-ready tokens. Variant
// tokens override base tokens and every token becomes a "--name" CSS
// variable. Values that could escape a style block are dropped.
func ResolveTheme(sel *theme.Selection) Theme {
	if sel == nil {
		return Theme{}
	}
	out := Theme{Name: sel.Theme, Variant: sel.Variant}
	if sel.Manifest == nil {
		return out
	}

	tokens := make(map[string]string, len(sel.Manifest.Tokens))
	for key, value := range sel.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := sel.Manifest.Variants[sel.Variant]; ok && sel.Variant != "" {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	for key, value := range tokens {
		if strings.ContainsAny(key+value, "<>{};") {
			delete(tokens, key)
		}
	}
	if len(tokens) == 0 {
		return out
	}

	out.Tokens = tokens
	out.CSSVars = make(map[string]string, len(tokens))
	keys := make([]string, 0, len(tokens))
	for key, value := range tokens {
		out.CSSVars["--"+key] = value
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		fmt.Fprintf(&b, " --%s: %s;", key, tokens[key])
	}
	b.WriteString(" }")
	out.Style = b.String()
	return out
}
