package plugin

import (
	"context"
	"fmt"
	"slices"

	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/schema"
)

// DefaultSelector is the parameter naming the selected child.
const DefaultSelector = "type"

// SelectionSpec declares a component delegating to exactly one component of
// another group, chosen by a selector parameter.
type SelectionSpec struct {
	Group string
	// Selector defaults to DefaultSelector.
	Selector     string
	// Priority zero means DefaultPriority.
	Priority     int
	Description  string
	Dependencies []Dependency
}

// Selection is the component built by a selection factory.
type Selection struct {
	name     string
	selector string
	choice   string
	reg      *Registry
}

// Plugin returns the selected component.
func (s *Selection) Plugin() any {
	v, _ := s.reg.Get(s.name)
	return v
}

// Choice returns the name of the selected child.
func (s *Selection) Choice() string { return s.choice }

// Selector returns the selector parameter name.
func (s *Selection) Selector() string { return s.selector }

// Registry returns the registry holding the selected component under the
// selection's own name.
func (s *Selection) Registry() *Registry { return s.reg }

// NewSelection returns a selection factory. The section of a selection is
// flat: it holds the selector next to the parameters of the chosen child.
func NewSelection(spec SelectionSpec) Factory {
	if spec.Group == "" {
		panic("plugin: NewSelection without group")
	}
	if spec.Selector == "" {
		spec.Selector = DefaultSelector
	}
	return &selection{spec: spec}
}

type selection struct {
	spec SelectionSpec
}

func (s *selection) ConfigSchema() *schema.Schema {
	return schema.New().Set(s.spec.Selector, schema.String()).Require(s.spec.Selector)
}

func (s *selection) LoadPriority() int {
	if s.spec.Priority == 0 {
		return DefaultPriority
	}
	return s.spec.Priority
}

func (s *selection) Description() string        { return s.spec.Description }
func (s *selection) Dependencies() []Dependency { return s.spec.Dependencies }
func (s *selection) ChildGroup() string         { return s.spec.Group }

// choose returns the child named by the selector of sec, interpolated
// against the loader globals.
func (s *selection) choose(l *Loader, sec config.Section, path []string) (Entry, string, error) {
	var value string
	if raw, ok := sec[s.spec.Selector]; ok && raw != nil {
		expanded, err := config.Expand(raw, l.Globals)
		if err != nil {
			return Entry{}, "", l.relocate(config.NewBadConfiguration("", []config.Issue{{
				Sections: slices.Clone(path),
				Field:    s.spec.Selector,
				Message:  err.Error(),
			}}), nil)
		}
		value = fmt.Sprint(expanded)
	}

	choices := Order(l.Catalog.Discover(s.spec.Group))
	invalid := &InvalidSelectionError{Section: slices.Clone(path), Selector: s.spec.Selector, Value: value}
	if value == "" {
		return Entry{}, "", invalid
	}
	for _, e := range choices {
		if e.Name == value {
			return e, value, nil
		}
	}
	invalid.Choices = entryNames(choices)
	slices.Sort(invalid.Choices)
	return Entry{}, "", invalid
}

// ChildSchema returns the schema of the selected child extended with own.
func (s *selection) ChildSchema(l *Loader, own *schema.Schema, sec config.Section, path []string) (*schema.Schema, error) {
	child, _, err := s.choose(l, sec, path)
	if err != nil {
		return nil, err
	}
	cs, err := l.entrySchema(child.Factory, sec, path)
	if err != nil {
		return nil, err
	}
	return cs.Merge(own), nil
}

// New instantiates the selected child under the selection's name.
func (s *selection) New(ctx context.Context, id Identity, cfg config.Section, _ Args) (any, error) {
	l := id.Loader
	if l == nil {
		return nil, errNoLoader(id.Name)
	}

	child, choice, err := s.choose(l, cfg, id.Path)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	own := Entry{Name: id.Name, Package: child.Package, Factory: child.Factory}
	sec := config.Section{id.Name: cfg.Without(s.spec.Selector, config.ActivatedKey)}
	if err := l.instantiate(ctx, id.passLogger(l), reg, []Entry{own}, sec, id.Path[:len(id.Path)-1], id.scope); err != nil {
		return nil, err
	}
	return &Selection{name: Sanitize(id.Name), selector: s.spec.Selector, choice: choice, reg: reg}, nil
}

func errNoLoader(name string) error {
	return fmt.Errorf("%s: no loader in component identity", name)
}
