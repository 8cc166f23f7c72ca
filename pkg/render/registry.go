package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores renderers by format name. Lookups are case-insensitive and
// aliases such as "md" resolve to their canonical format.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	aliases   map[string]string
}

// NewRegistry returns a registry with no formats; see Default for the
// built-in html and markdown renderers.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		aliases:   make(map[string]string),
	}
}

// Register files renderer under its lower-cased Name. A format can only be
// registered once.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: nil renderer")
	}
	name := normalizeFormat(renderer.Name())
	if name == "" {
		return errors.New("render: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: format %q registered twice", name)
	}
	r.renderers[name] = renderer
	return nil
}

// MustRegister is Register for built-in wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Alias makes alias resolve to the renderer registered as format.
func (r *Registry) Alias(alias, format string) error {
	alias, format = normalizeFormat(alias), normalizeFormat(format)
	if alias == "" || format == "" {
		return fmt.Errorf("render: alias and format are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.renderers[format]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if _, taken := r.renderers[alias]; taken {
		return fmt.Errorf("render: alias %q shadows a registered renderer", alias)
	}
	r.aliases[alias] = format
	return nil
}

// Get resolves a format name or alias.
func (r *Registry) Get(name string) (Renderer, error) {
	key := normalizeFormat(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	renderer, ok := r.renderers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return renderer, nil
}

// MustGet panics when name does not resolve.
func (r *Registry) MustGet(name string) Renderer {
	renderer, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return renderer
}

// List returns the sorted canonical format names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name resolves.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

func normalizeFormat(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
