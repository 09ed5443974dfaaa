// file: internal/metadata/registry.go
// version: 1.0.0
// guid: 3c8e1f5a-9b2d-4c7e-8a10-6f4d2b9e5c83

package metadata

import "fmt"

// Registry holds the configured providers keyed by source. It is built once
// at startup and read-only afterwards.
type Registry struct {
	providers map[SourceKind]Provider
	order     []SourceKind
}

// NewRegistry builds a registry from the given providers. Nil entries and
// duplicate sources are construction errors, not runtime surprises.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{providers: make(map[SourceKind]Provider, len(providers))}
	for _, p := range providers {
		if p == nil {
			return nil, fmt.Errorf("nil provider passed to registry")
		}
		source := p.Source()
		if _, exists := r.providers[source]; exists {
			return nil, fmt.Errorf("duplicate provider for source %q", source)
		}
		r.providers[source] = p
		r.order = append(r.order, source)
	}
	return r, nil
}

// Get returns the provider for a source, if one is registered.
func (r *Registry) Get(source SourceKind) (Provider, bool) {
	p, ok := r.providers[source]
	return p, ok
}

// Sources lists the registered sources in registration order.
func (r *Registry) Sources() []SourceKind {
	out := make([]SourceKind, len(r.order))
	copy(out, r.order)
	return out
}

// Providers lists the registered providers in registration order.
func (r *Registry) Providers() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, source := range r.order {
		out = append(out, r.providers[source])
	}
	return out
}

// Len reports how many providers are registered.
func (r *Registry) Len() int {
	return len(r.order)
}
