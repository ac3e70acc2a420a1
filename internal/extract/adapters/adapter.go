package adapters

import (
	"context"
	"sort"
	"strings"

	"github.com/ppiankov/profilemap/internal/extract"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/validate"
)

// Adapter defines the interface for site-specific account extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// Domains lists the two-label domains this adapter serves
	Domains() []string

	// ExtractAccountData returns whatever account attributes the site exposes.
	// Keys are loose names (name, email, phone, ...), not canonical fields.
	ExtractAccountData(ctx context.Context, page *extract.Page) (*model.Bag, error)
}

// Registry maps normalized domains to adapters. It is built once and not
// mutated after startup.
type Registry struct {
	byDomain map[string]Adapter
}

// NewRegistry creates a registry holding the built-in site catalog
func NewRegistry(noise *validate.NoiseFilter) *Registry {
	registry := &Registry{
		byDomain: make(map[string]Adapter),
	}

	// Register built-in adapters
	for _, a := range Builtin(noise) {
		registry.Register(a)
	}

	return registry
}

// Register adds an adapter for each of its domains. A later registration
// for the same domain replaces the earlier one.
func (r *Registry) Register(adapter Adapter) {
	for _, d := range adapter.Domains() {
		r.byDomain[strings.ToLower(d)] = adapter
	}
}

// Lookup returns the adapter registered for domain
func (r *Registry) Lookup(domain string) (Adapter, bool) {
	if r == nil {
		return nil, false
	}
	a, ok := r.byDomain[strings.ToLower(domain)]
	return a, ok
}

// Domains returns every registered domain, sorted
func (r *Registry) Domains() []string {
	out := make([]string, 0, len(r.byDomain))
	for d := range r.byDomain {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
