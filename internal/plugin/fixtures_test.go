package plugin

import (
	"context"
	"errors"

	"github.com/agentx-labs/plugx/internal/catalog"
	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/schema"
)

var testPackage = catalog.Package{Name: "plugx-tests", Version: "1.2.0", Location: "/opt/plugx/tests", Description: "test components"}

// stub is a factory recording what it was built with.
type stub struct {
	priority int
	deps     []Dependency
	schema   *schema.Schema
	err      error
	nilValue bool
	built    *[]string
}

type component struct {
	Name string
	Cfg  config.Section
	Args Args
}

func (s *stub) ConfigSchema() *schema.Schema {
	if s.schema == nil {
		return nil
	}
	return s.schema.Clone()
}

func (s *stub) LoadPriority() int {
	if s.priority == 0 {
		return DefaultPriority
	}
	return s.priority
}

func (s *stub) Description() string        { return "stub component" }
func (s *stub) Dependencies() []Dependency { return s.deps }

func (s *stub) New(_ context.Context, id Identity, cfg config.Section, args Args) (any, error) {
	if s.built != nil {
		*s.built = append(*s.built, id.Name)
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.nilValue {
		return nil, nil
	}
	return &component{Name: id.Name, Cfg: cfg, Args: args}, nil
}

var errBoom = errors.New("boom")

func entry(name string, f Factory) Entry {
	return Entry{Name: name, Package: testPackage, Factory: f}
}

func catalogOf(groups map[string][]Entry) *Catalog {
	cat := NewCatalog()
	for group, entries := range groups {
		for _, e := range entries {
			cat.Register(group, e)
		}
	}
	return cat
}

type test1Config struct {
	Value1 int    `json:"value1"`
	Value2 string `json:"value2"`
}

type test2Config struct {
	Value1 int    `json:"value1,omitempty" jsonschema:"default=10"`
	Value2 string `json:"value2,omitempty" jsonschema:"default=$root/b.txt"`
	Value3 string `json:"value3"`
}

type testService[C any] struct {
	Name   string
	Config C
}

func test1Factory() Factory {
	return Define(Spec[test1Config, *testService[test1Config]]{
		New: func(_ context.Context, id Identity, cfg test1Config, _ Args) (*testService[test1Config], error) {
			return &testService[test1Config]{Name: id.Name, Config: cfg}, nil
		},
	})
}

func test2Factory() Factory {
	return Define(Spec[test2Config, *testService[test2Config]]{
		Priority:    2000,
		Description: "second test service",
		New: func(_ context.Context, id Identity, cfg test2Config, _ Args) (*testService[test2Config], error) {
			return &testService[test2Config]{Name: id.Name, Config: cfg}, nil
		},
	})
}

type ldapConfig struct {
	Host string `json:"host,omitempty" jsonschema:"default=localhost"`
	Port int    `json:"port,omitempty" jsonschema:"default=389,minimum=1"`
}

type userConfig struct {
	DefaultUser string `json:"default_user,omitempty" jsonschema:"default=John Doe <$default_email>"`
}

type authConfig struct {
	Value1 int `json:"value1,omitempty" jsonschema:"default=10"`
}

func ldapFactory() Factory {
	return Define(Spec[ldapConfig, ldapConfig]{
		Description: "LDAP authentication",
		New: func(_ context.Context, _ Identity, cfg ldapConfig, _ Args) (ldapConfig, error) {
			return cfg, nil
		},
	})
}

func userFactory() Factory {
	return Define(Spec[userConfig, userConfig]{
		Priority:    1100,
		Description: "local users",
		New: func(_ context.Context, _ Identity, cfg userConfig, _ Args) (userConfig, error) {
			return cfg, nil
		},
	})
}

// authCatalog holds an "authentication" composite and an "auth" selection
// over the same two children.
func authCatalog() *Catalog {
	return catalogOf(map[string][]Entry{
		"services": {
			entry("authentication", NewComposite(CompositeSpec{
				Group:       "auth",
				Schema:      schema.For[authConfig](),
				Description: "authentication backends",
			})),
			entry("auth", NewSelection(SelectionSpec{Group: "auth", Priority: 1500})),
		},
		"auth": {
			entry("ldap", ldapFactory()),
			entry("user", userFactory()),
		},
	})
}
