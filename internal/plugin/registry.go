package plugin

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/agentx-labs/plugx/internal/config"
)

// Registry maps component names to instances in load order. Each instance
// carries an activation flag that can be toggled after loading.
//
// A Registry is not safe for concurrent modification.
type Registry struct {
	names []string
	items map[string]*item

	// cfg is the configuration of the composite that built the registry.
	cfg config.Section
}

type item struct {
	value     any
	activated bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*item)}
}

// Sanitize returns the key a component name is stored under: dots become
// underscores.
func Sanitize(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

// Set stores v under name, activated. When the name is already taken the
// previous instance is replaced and the name moves to the end of the order.
// It reports whether an instance was replaced.
func (r *Registry) Set(name string, v any) bool {
	key := Sanitize(name)
	_, replaced := r.items[key]
	if replaced {
		r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == key })
	}
	r.names = append(r.names, key)
	r.items[key] = &item{value: v, activated: true}
	return replaced
}

// Get returns the instance stored under name.
func (r *Registry) Get(name string) (any, bool) {
	it, ok := r.items[Sanitize(name)]
	if !ok {
		return nil, false
	}
	return it.value, true
}

// Lookup returns the instance stored under name if it has type T.
func Lookup[T any](r *Registry, name string) (T, bool) {
	var zero T
	v, ok := r.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Delete removes name. It reports whether it was present.
func (r *Registry) Delete(name string) bool {
	key := Sanitize(name)
	if _, ok := r.items[key]; !ok {
		return false
	}
	delete(r.items, key)
	r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == key })
	return true
}

// Names returns the stored names in load order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of stored instances.
func (r *Registry) Len() int {
	return len(r.names)
}

// All iterates over every instance in load order.
func (r *Registry) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, name := range slices.Clone(r.names) {
			it, ok := r.items[name]
			if !ok {
				continue
			}
			if !yield(name, it.value) {
				return
			}
		}
	}
}

// Activated iterates over the activated instances in load order.
func (r *Registry) Activated() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for name, v := range r.All() {
			if !r.IsActivated(name) {
				continue
			}
			if !yield(name, v) {
				return
			}
		}
	}
}

// SetActivated toggles the activation flag of name without removing it.
// It reports whether name is present.
func (r *Registry) SetActivated(name string, activated bool) bool {
	it, ok := r.items[Sanitize(name)]
	if !ok {
		return false
	}
	it.activated = activated
	return true
}

// IsActivated reports whether name is present and activated.
func (r *Registry) IsActivated(name string) bool {
	it, ok := r.items[Sanitize(name)]
	return ok && it.activated
}

// Config returns the configuration of the composite component that built
// the registry, without its child sections. It is nil for other registries.
func (r *Registry) Config() config.Section {
	return r.cfg
}

// Copy returns a shallow copy of r in the same order, then stores each of
// overrides in name order.
func (r *Registry) Copy(overrides map[string]any) *Registry {
	c := r.snapshot()
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		c.Set(name, overrides[name])
	}
	return c
}

func (r *Registry) snapshot() *Registry {
	c := &Registry{
		names: slices.Clone(r.names),
		items: make(map[string]*item, len(r.items)),
		cfg:   r.cfg,
	}
	for k, it := range r.items {
		copied := *it
		c.items[k] = &copied
	}
	return c
}

// restore puts r back in the state captured by snapshot.
func (r *Registry) restore(s *Registry) {
	r.names = s.names
	r.items = s.items
	r.cfg = s.cfg
}
