package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/plugx/internal/catalog"
	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/manifest"
)

func intPtr(i int) *int { return &i }

func TestResolver(t *testing.T) {
	cat := NewCatalog()
	cat.RegisterFactory("tests.ldap", ldapFactory())
	resolve := Resolver(cat)

	f, err := resolve(manifest.EntryPoint{Name: "ldap", Factory: "tests.ldap"}, testPackage)
	require.NoError(t, err)
	assert.Equal(t, DefaultPriority, f.LoadPriority())
	assert.Equal(t, "LDAP authentication", f.Description())

	f, err = resolve(manifest.EntryPoint{Name: "ldap", Factory: "tests.ldap", Priority: intPtr(5), Description: "directory"}, testPackage)
	require.NoError(t, err)
	assert.Equal(t, 5, f.LoadPriority())
	assert.Equal(t, "directory", f.Description())

	f, err = resolve(manifest.EntryPoint{Name: "auth", Kind: manifest.KindComposite, Group: "auth", Priority: intPtr(0)}, testPackage)
	require.NoError(t, err)
	assert.Equal(t, 0, f.LoadPriority())
	p, ok := asParent(f)
	require.True(t, ok)
	assert.Equal(t, "auth", p.ChildGroup())

	f, err = resolve(manifest.EntryPoint{Name: "auth", Kind: manifest.KindSelection, Group: "auth", Selector: "backend"}, testPackage)
	require.NoError(t, err)
	sel, ok := f.(*selection)
	require.True(t, ok)
	assert.Equal(t, "backend", sel.spec.Selector)
}

func TestResolver_Errors(t *testing.T) {
	resolve := Resolver(NewCatalog())

	_, err := resolve(manifest.EntryPoint{Name: "ldap", Factory: "tests.nowhere"}, testPackage)
	assert.EqualError(t, err, `unknown factory "tests.nowhere"`)

	_, err = resolve(manifest.EntryPoint{Name: "auth", Kind: manifest.KindSelection}, testPackage)
	assert.EqualError(t, err, "selection entry point auth without group")

	_, err = resolve(manifest.EntryPoint{Name: "auth", Kind: "plugin", Group: "x"}, testPackage)
	assert.EqualError(t, err, `unknown entry point kind "plugin"`)
}

func TestManifestBoundComponents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.plugx.yaml"), []byte(`package: acme-auth
version: 2.0.0
location: /opt/acme
entry_points:
  services:
    - name: auth
      kind: selection
      group: acme.auth
  acme.auth:
    - name: ldap
      factory: tests.ldap
    - name: user
      factory: tests.user
`), 0o644))

	cat := NewCatalog()
	cat.RegisterFactory("tests.ldap", ldapFactory())
	cat.RegisterFactory("tests.user", userFactory())
	_, err := cat.LoadManifests(context.Background(), catalog.BuildSources([]string{dir}), Resolver(cat))
	require.NoError(t, err)

	reg := NewRegistry()
	sec := config.Section{"auth": config.Section{"type": "ldap", "port": "636"}}
	require.NoError(t, NewLoader(cat).Load(context.Background(), reg, "services", sec))

	sel, ok := Lookup[*Selection](reg, "auth")
	require.True(t, ok)
	assert.Equal(t, ldapConfig{Host: "localhost", Port: 636}, sel.Plugin())

	infos := Describe(cat, "services", reg)
	require.Len(t, infos, 2)
	assert.Equal(t, "acme-auth", infos[0].Package)
	assert.Equal(t, "2.0.0", infos[0].Version)
	assert.Equal(t, "/opt/acme", infos[0].Location)
}

func TestDefaultCatalog(t *testing.T) {
	Register("plugx.tests.default", "probe", testPackage, &stub{})
	RegisterFactory("plugx.tests.probe", &stub{})

	entries := Default().Discover("plugx.tests.default")
	require.Len(t, entries, 1)
	assert.Equal(t, "probe", entries[0].Name)
	_, ok := Default().Factory("plugx.tests.probe")
	assert.True(t, ok)
}
