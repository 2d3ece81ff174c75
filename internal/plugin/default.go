package plugin

import (
	"fmt"

	"github.com/agentx-labs/plugx/internal/catalog"
	"github.com/agentx-labs/plugx/internal/manifest"
)

var defaultCatalog = catalog.New[Factory]()

// Default returns the catalog filled by Register and RegisterFactory.
func Default() *Catalog {
	return defaultCatalog
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return catalog.New[Factory]()
}

// Register contributes f to group under name in the default catalog. It is
// meant to be called from init functions.
func Register(group, name string, pkg catalog.Package, f Factory) {
	defaultCatalog.Register(group, Entry{Name: name, Package: pkg, Factory: f})
}

// RegisterFactory makes f available to manifests of the default catalog
// under id.
func RegisterFactory(id string, f Factory) {
	defaultCatalog.RegisterFactory(id, f)
}

// Resolver binds manifest entry points to the factories of cat. Composite
// and selection entry points build their factory from the manifest alone.
func Resolver(cat *Catalog) catalog.Resolver[Factory] {
	return func(ep manifest.EntryPoint, _ catalog.Package) (Factory, error) {
		kind := ep.EffectiveKind()
		if kind != manifest.KindFactory && ep.Group == "" {
			return nil, fmt.Errorf("%s entry point %s without group", kind, ep.Name)
		}

		var f Factory
		switch kind {
		case manifest.KindFactory:
			found, ok := cat.Factory(ep.Factory)
			if !ok {
				return nil, fmt.Errorf("unknown factory %q", ep.Factory)
			}
			f = found
		case manifest.KindComposite:
			f = NewComposite(CompositeSpec{Group: ep.Group})
		case manifest.KindSelection:
			f = NewSelection(SelectionSpec{Group: ep.Group, Selector: ep.Selector})
		default:
			return nil, fmt.Errorf("unknown entry point kind %q", kind)
		}
		return Override(f, ep.Priority, ep.Description), nil
	}
}
