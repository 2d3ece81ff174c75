package plugin

import (
	"context"

	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/schema"
)

// CompositeSpec declares a component made of the components of another
// group, configured from sub-sections of its own section.
type CompositeSpec struct {
	// Group is the extension point group of the children.
	Group string
	// Schema declares the parameters of the composite itself.
	Schema       *schema.Schema
	// Priority zero means DefaultPriority.
	Priority     int
	Description  string
	Dependencies []Dependency
	// Init, when set, is called with the loaded children before the
	// registry is returned.
	Init func(ctx context.Context, id Identity, children *Registry, args Args) error
}

// NewComposite returns a factory whose component is a *Registry holding the
// activated children of spec.Group. The children are configured by the
// sub-sections of the composite's section; its other parameters are
// available through Registry.Config.
func NewComposite(spec CompositeSpec) Factory {
	if spec.Group == "" {
		panic("plugin: NewComposite without group")
	}
	return &composite{spec: spec}
}

type composite struct {
	spec CompositeSpec
}

func (c *composite) ConfigSchema() *schema.Schema {
	if c.spec.Schema == nil {
		return schema.New()
	}
	return c.spec.Schema.Clone()
}

func (c *composite) LoadPriority() int {
	if c.spec.Priority == 0 {
		return DefaultPriority
	}
	return c.spec.Priority
}

func (c *composite) Description() string        { return c.spec.Description }
func (c *composite) Dependencies() []Dependency { return c.spec.Dependencies }
func (c *composite) ChildGroup() string         { return c.spec.Group }

// ChildSchema adds the schemas of the activated children to own. The result
// accepts undeclared parameters, so that sections of deactivated children
// are ignored.
func (c *composite) ChildSchema(l *Loader, own *schema.Schema, sec config.Section, path []string) (*schema.Schema, error) {
	active, err := l.activeEntries(c.spec.Group, sec, path)
	if err != nil {
		return nil, err
	}
	children, err := l.Aggregate(active, sec.Only(entryNames(active)), path...)
	if err != nil {
		return nil, err
	}
	return own.Merge(children).Open(), nil
}

// New loads the children from the already validated section. They are not
// validated again.
func (c *composite) New(ctx context.Context, id Identity, cfg config.Section, args Args) (any, error) {
	l := id.Loader
	if l == nil {
		return nil, errNoLoader(id.Name)
	}

	active, err := l.activeEntries(c.spec.Group, cfg, id.Path)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	reg.cfg = ownConfig(cfg, c.ConfigSchema())
	if err := l.instantiate(ctx, id.passLogger(l), reg, Order(active), cfg, id.Path, id.scope); err != nil {
		return nil, err
	}

	if c.spec.Init != nil {
		if err := c.spec.Init(ctx, id, reg, args); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ownConfig keeps the parameters of cfg that are not child sections, plus
// the sections s declares.
func ownConfig(cfg config.Section, s *schema.Schema) config.Section {
	own := config.Section{}
	for k, v := range cfg {
		if _, isSection := v.(config.Section); isSection {
			if _, declared := s.Section(k); !declared {
				continue
			}
		}
		own[k] = v
	}
	return own
}
