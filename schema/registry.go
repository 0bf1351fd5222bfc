package schema

import (
	"sort"
	"sync"
)

// Factory creates a fresh model instance
type Factory func() Declarer

// Registry registered models by entity name, with a per-name schema cache
type Registry struct {
	namer      Namer
	factories  sync.Map
	cacheStore sync.Map
}

// NewRegistry create a registry using namer
func NewRegistry(namer Namer) *Registry {
	if namer == nil {
		namer = NamingStrategy{}
	}
	return &Registry{namer: namer}
}

// Namer naming strategy of the registry
func (r *Registry) Namer() Namer {
	return r.namer
}

// Register parse and remember each model factory under its entity name
func (r *Registry) Register(factories ...Factory) error {
	for _, factory := range factories {
		s, _, err := Parse(factory(), r.namer)
		if err != nil {
			return err
		}
		r.factories.Store(s.Name, factory)
		r.cacheStore.Store(s.Name, s)
	}
	return nil
}

// New instantiate a registered model
func (r *Registry) New(name string) (Declarer, error) {
	if v, ok := r.factories.Load(name); ok {
		return v.(Factory)(), nil
	}
	return nil, &EntityError{Model: name, Err: ErrUnknownModel}
}

// Schema cached schema of a registered model
func (r *Registry) Schema(name string) (*Schema, error) {
	if v, ok := r.cacheStore.Load(name); ok {
		return v.(*Schema), nil
	}
	return nil, &EntityError{Model: name, Err: ErrUnknownModel}
}

// Resolve schema of a relation's target model
func (r *Registry) Resolve(owner *Schema, rel *Relationship) (*Schema, error) {
	if v, ok := r.cacheStore.Load(rel.Target); ok {
		return v.(*Schema), nil
	}
	return nil, &EntityError{Model: owner.Name, Field: rel.Name, Err: ErrUnknownModel}
}

// Names registered entity names, sorted
func (r *Registry) Names() []string {
	var names []string
	r.factories.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}
