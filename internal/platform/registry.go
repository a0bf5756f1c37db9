package platform

import "github.com/usman-fahimullah/canopy-syndication/internal/model"

// Registry is a static lookup from platform identifier to adapter instance.
// Adapters are registered once at startup; no adapter is registered for
// platforms that are reserved in the enumeration but not yet integrated.
type Registry struct {
	adapters map[model.Platform]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: map[model.Platform]Adapter{}}
}

func (r *Registry) Register(p model.Platform, a Adapter) {
	r.adapters[p] = a
}

func (r *Registry) Lookup(p model.Platform) (Adapter, bool) {
	a, ok := r.adapters[p]
	return a, ok
}

// Platforms lists the registered platform identifiers.
func (r *Registry) Platforms() []model.Platform {
	out := make([]model.Platform, 0, len(r.adapters))
	for p := range r.adapters {
		out = append(out, p)
	}
	return out
}
