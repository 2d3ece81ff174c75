package plugin

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/agentx-labs/plugx/internal/catalog"
	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/schema"
)

// DefaultPriority is the load priority of factories that do not set one.
// The Priority fields of Spec, Func, CompositeSpec and SelectionSpec treat
// zero as unset; wrap a factory with Override to load it at priority zero.
// Lower priorities load first.
const DefaultPriority = 1000

// Entry is an extension whose factory builds a component.
type Entry = catalog.Extension[Factory]

// Catalog is a catalog of component factories.
type Catalog = catalog.Catalog[Factory]

// Identity is handed to a factory together with its configuration.
type Identity struct {
	Name    string
	Package catalog.Package

	// Path locates the component section in the configuration tree.
	Path []string

	// Logger is named after the component.
	Logger *zap.Logger

	// Loader is the loader running the current pass. Composite factories
	// use it to load their children.
	Loader *Loader

	// scope lists the registries visible to children, innermost first.
	scope []*Registry
	// pass is the logger of the running pass, before naming.
	pass *zap.Logger
}

// passLogger returns the pass logger, or the loader's one outside a pass.
func (id Identity) passLogger(l *Loader) *zap.Logger {
	if id.pass != nil {
		return id.pass
	}
	return l.Logger
}

// Factory builds one component from its validated configuration.
type Factory interface {
	// ConfigSchema describes the parameters of the component. nil means
	// the component takes any parameter.
	ConfigSchema() *schema.Schema
	LoadPriority() int
	Description() string
	// Dependencies lists the services injected into New.
	Dependencies() []Dependency
	// New returns the component. A nil component is not registered.
	New(ctx context.Context, id Identity, cfg config.Section, args Args) (any, error)
}

// Parent is implemented by factories whose configuration section also
// configures child components discovered from another group.
type Parent interface {
	ChildGroup() string
	// ChildSchema completes own, the factory's schema, with the schemas
	// of the children configured by sec.
	ChildSchema(l *Loader, own *schema.Schema, sec config.Section, path []string) (*schema.Schema, error)
}

// Spec declares a component with a typed configuration C.
type Spec[C any, T any] struct {
	// Priority zero means DefaultPriority, see Override.
	Priority     int
	Description  string
	Dependencies []Dependency
	New          func(ctx context.Context, id Identity, cfg C, args Args) (T, error)
}

// Define returns the factory described by spec. The configuration schema is
// reflected from C and every section is decoded into a C before New is
// called.
func Define[C any, T any](spec Spec[C, T]) Factory {
	if spec.New == nil {
		panic("plugin: Define without New function")
	}
	return &defined[C, T]{spec: spec, schema: schema.For[C]()}
}

type defined[C any, T any] struct {
	spec   Spec[C, T]
	schema *schema.Schema
}

func (d *defined[C, T]) ConfigSchema() *schema.Schema { return d.schema.Clone() }
func (d *defined[C, T]) Description() string          { return d.spec.Description }
func (d *defined[C, T]) Dependencies() []Dependency   { return d.spec.Dependencies }

func (d *defined[C, T]) LoadPriority() int {
	if d.spec.Priority == 0 {
		return DefaultPriority
	}
	return d.spec.Priority
}

func (d *defined[C, T]) New(ctx context.Context, id Identity, cfg config.Section, args Args) (any, error) {
	var c C
	if err := schema.Decode(cfg, &c); err != nil {
		return nil, err
	}
	inst, err := d.spec.New(ctx, id, c, args)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// Func is a factory without typed configuration. The component receives its
// section as is.
type Func struct {
	Schema   *schema.Schema
	// Priority zero means DefaultPriority, see Override.
	Priority int
	Desc     string
	Deps     []Dependency
	Build    func(ctx context.Context, id Identity, cfg config.Section, args Args) (any, error)
}

func (f *Func) ConfigSchema() *schema.Schema {
	if f.Schema == nil {
		return schema.New()
	}
	return f.Schema.Clone()
}

func (f *Func) LoadPriority() int {
	if f.Priority == 0 {
		return DefaultPriority
	}
	return f.Priority
}

func (f *Func) Description() string        { return f.Desc }
func (f *Func) Dependencies() []Dependency { return f.Deps }

func (f *Func) New(ctx context.Context, id Identity, cfg config.Section, args Args) (any, error) {
	if f.Build == nil {
		return nil, fmt.Errorf("factory of %s has no build function", id.Name)
	}
	return f.Build(ctx, id, cfg, args)
}

// Override changes the priority and description of an existing factory, as
// requested by a manifest entry point. Unlike the Priority fields, a non-nil
// priority of zero is kept.
func Override(f Factory, priority *int, description string) Factory {
	if priority == nil && description == "" {
		return f
	}
	return &overridden{Factory: f, priority: priority, description: description}
}

type overridden struct {
	Factory
	priority    *int
	description string
}

func (o *overridden) LoadPriority() int {
	if o.priority != nil {
		return *o.priority
	}
	return o.Factory.LoadPriority()
}

func (o *overridden) Description() string {
	if o.description != "" {
		return o.description
	}
	return o.Factory.Description()
}

func (o *overridden) unwrap() Factory { return o.Factory }

// asParent finds the Parent implementation of f, looking through overrides.
func asParent(f Factory) (Parent, bool) {
	for {
		if p, ok := f.(Parent); ok {
			return p, true
		}
		u, ok := f.(interface{ unwrap() Factory })
		if !ok {
			return nil, false
		}
		f = u.unwrap()
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
