package llm

import (
	"sort"
	"strings"
)

// Registry holds the providers configured for a run, keyed by canonical
// name. Lookups are case-insensitive.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a provider under its canonical name, replacing any prior
// provider with the same name. Nil and unnamed providers are ignored.
func (r *Registry) Register(p Provider) {
	if r == nil || p == nil {
		return
	}
	name := canonicalName(p.Name())
	if name == "" {
		return
	}
	if r.providers == nil {
		r.providers = map[string]Provider{}
	}
	r.providers[name] = p
}

func (r *Registry) Get(name string) (Provider, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.providers[canonicalName(name)]
	return p, ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	if r == nil || len(r.providers) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
