package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Manifest describes an extension package and its entry points.
type Manifest struct {
	Package     string                  `yaml:"package" json:"package"`
	Version     string                  `yaml:"version,omitempty" json:"version,omitempty"`
	Description string                  `yaml:"description,omitempty" json:"description,omitempty"`
	Location    string                  `yaml:"location,omitempty" json:"location,omitempty"`
	Requires    map[string]string       `yaml:"requires,omitempty" json:"requires,omitempty"`
	EntryPoints map[string][]EntryPoint `yaml:"entry_points" json:"entry_points"`

	// Path is the file the manifest was read from.
	Path string `yaml:"-" json:"-"`
}

// EntryPoint binds a component name in a group to a factory.
type EntryPoint struct {
	Name        string `yaml:"name" json:"name"`
	Factory     string `yaml:"factory,omitempty" json:"factory,omitempty"`
	Kind        string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Group       string `yaml:"group,omitempty" json:"group,omitempty"`
	Selector    string `yaml:"selector,omitempty" json:"selector,omitempty"`
	Priority    *int   `yaml:"priority,omitempty" json:"priority,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Entry point kinds. An empty kind means KindFactory.
const (
	KindFactory   = "factory"
	KindComposite = "composite"
	KindSelection = "selection"
)

// ValidKinds contains all valid entry point kinds.
var ValidKinds = []string{
	KindFactory,
	KindComposite,
	KindSelection,
}

// EffectiveKind returns the kind of e, defaulting to KindFactory.
func (e EntryPoint) EffectiveKind() string {
	if e.Kind == "" {
		return KindFactory
	}
	return e.Kind
}

// SemVer parses the package version. A manifest without version yields nil.
func (m *Manifest) SemVer() (*semver.Version, error) {
	if m.Version == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return nil, fmt.Errorf("parsing version of package %s: %w", m.Package, err)
	}
	return v, nil
}

// CheckRequires verifies the package requirements of m against the versions
// of the other known packages.
func (m *Manifest) CheckRequires(known map[string]*semver.Version) error {
	for _, name := range sortedKeys(m.Requires) {
		constraint := m.Requires[name]
		c, err := semver.NewConstraint(constraint)
		if err != nil {
			return fmt.Errorf("package %s: parsing constraint %q for %s: %w", m.Package, constraint, name, err)
		}
		v, ok := known[name]
		if !ok {
			return fmt.Errorf("package %s requires %s %s, which is not installed", m.Package, name, constraint)
		}
		if v == nil {
			return fmt.Errorf("package %s requires %s %s, which has no version", m.Package, name, constraint)
		}
		if !c.Check(v) {
			return fmt.Errorf("package %s requires %s %s, found %s", m.Package, name, constraint, v)
		}
	}
	return nil
}

// Groups returns the groups m contributes to, sorted.
func (m *Manifest) Groups() []string {
	return sortedKeys(m.EntryPoints)
}
