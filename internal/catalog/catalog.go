// Package catalog is the table of extensions known to plugx. Extensions are
// either linked statically (registered from init functions) or bound from
// plugx.yaml manifests found on disk. Each extension contributes a named
// factory to an extension point group.
package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Package describes the distribution an extension comes from.
type Package struct {
	Name        string
	Version     string
	Location    string
	Description string
}

// Extension is one factory contributed to a group under a name.
type Extension[F any] struct {
	Name    string
	Package Package
	Factory F
}

// Catalog holds extensions by group and factories by ID. Reads are safe for
// concurrent use.
type Catalog[F any] struct {
	mu        sync.RWMutex
	groups    map[string][]Extension[F]
	factories map[string]F
	packages  map[string]Package
}

// New returns an empty catalog.
func New[F any]() *Catalog[F] {
	return &Catalog[F]{
		groups:    make(map[string][]Extension[F]),
		factories: make(map[string]F),
		packages:  make(map[string]Package),
	}
}

// Register adds ext to group. It panics if group or the extension name is
// empty. Registering the same name twice in a group keeps both entries; the
// loader decides which one wins.
func (c *Catalog[F]) Register(group string, ext Extension[F]) {
	if group == "" {
		panic("catalog: Register with empty group")
	}
	if ext.Name == "" {
		panic("catalog: Register with empty extension name in group " + group)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[group] = append(c.groups[group], ext)
	c.addPackage(ext.Package)
}

// RegisterFactory makes f available to manifests under id. It panics if id
// is empty or already taken.
func (c *Catalog[F]) RegisterFactory(id string, f F) {
	if id == "" {
		panic("catalog: RegisterFactory with empty id")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.factories[id]; dup {
		panic("catalog: RegisterFactory called twice for factory " + id)
	}
	c.factories[id] = f
}

// RegisterPackage records a package without contributing extensions, so
// that manifests can require it.
func (c *Catalog[F]) RegisterPackage(p Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addPackage(p)
}

func (c *Catalog[F]) addPackage(p Package) {
	if p.Name == "" {
		return
	}
	if _, ok := c.packages[p.Name]; !ok {
		c.packages[p.Name] = p
	}
}

// Include copies the extensions, factories and packages of other into c.
// Extensions of other come after those already in c. It panics when both
// catalogs define the same factory ID.
func (c *Catalog[F]) Include(other *Catalog[F]) {
	other.mu.RLock()
	groups := make(map[string][]Extension[F], len(other.groups))
	for g, exts := range other.groups {
		groups[g] = slices.Clone(exts)
	}
	factories := make(map[string]F, len(other.factories))
	for id, f := range other.factories {
		factories[id] = f
	}
	packages := slices.Collect(maps.Values(other.packages))
	other.mu.RUnlock()

	for _, g := range slices.Sorted(maps.Keys(groups)) {
		for _, ext := range groups[g] {
			c.Register(g, ext)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(factories)) {
		c.RegisterFactory(id, factories[id])
	}
	for _, p := range packages {
		c.RegisterPackage(p)
	}
}

// Factory returns the factory registered under id.
func (c *Catalog[F]) Factory(id string) (F, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.factories[id]
	return f, ok
}

// FactoryIDs returns the registered factory IDs, sorted.
func (c *Catalog[F]) FactoryIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.factories))
	for id := range c.factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Discover returns the extensions registered in group in registration
// order. An unknown group yields an empty result.
func (c *Catalog[F]) Discover(group string) []Extension[F] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.groups[group])
}

// Groups returns the names of the groups having at least one extension,
// sorted.
func (c *Catalog[F]) Groups() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Packages returns the known packages sorted by name.
func (c *Catalog[F]) Packages() []Package {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Package, 0, len(c.packages))
	for _, p := range c.packages {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Package) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Package returns the package called name.
func (c *Catalog[F]) Package(name string) (Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.packages[name]
	return p, ok
}

func (p Package) String() string {
	if p.Version == "" {
		return p.Name
	}
	return fmt.Sprintf("%s %s", p.Name, p.Version)
}
