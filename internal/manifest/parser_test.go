package manifest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestParse_Auth(t *testing.T) {
	m, err := Parse(testPath("valid-auth.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "acme-auth", m.Package)
	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, testdataDir, m.Location)
	assert.Equal(t, testPath("valid-auth.yaml"), m.Path)
	assert.Equal(t, map[string]string{"plugx": ">= 0.1.0"}, m.Requires)
	assert.Equal(t, []string{"acme.auth.backends", "plugx.services"}, m.Groups())

	services := m.EntryPoints["plugx.services"]
	require.Len(t, services, 1)
	assert.Equal(t, "auth", services[0].Name)
	assert.Equal(t, KindSelection, services[0].EffectiveKind())
	assert.Equal(t, "acme.auth.backends", services[0].Group)

	backends := m.EntryPoints["acme.auth.backends"]
	require.Len(t, backends, 2)
	assert.Equal(t, KindFactory, backends[0].EffectiveKind())
	assert.Nil(t, backends[0].Priority)
	require.NotNil(t, backends[1].Priority)
	assert.Equal(t, 10, *backends[1].Priority)
}

func TestParse_FileNotFound(t *testing.T) {
	_, err := Parse(testPath("nonexistent.yaml"))
	require.Error(t, err)
}

func TestLoad_Valid(t *testing.T) {
	m, err := Load(testPath("valid-minimal.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "minimal", m.Package)
	assert.Empty(t, m.Version)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(testPath("invalid-missing-package.yaml"))
	require.Error(t, err)

	var invalid *InvalidError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, testPath("invalid-missing-package.yaml"), invalid.Path)
	assert.NotEmpty(t, invalid.Issues)
	assert.Contains(t, err.Error(), "package")
}

func TestSemVer(t *testing.T) {
	m := &Manifest{Package: "p", Version: "1.2.3"}
	v, err := m.SemVer()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())

	v, err = (&Manifest{Package: "p"}).SemVer()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = (&Manifest{Package: "p", Version: "x"}).SemVer()
	require.Error(t, err)
}

func TestCheckRequires(t *testing.T) {
	m := &Manifest{Package: "acme-auth", Requires: map[string]string{"plugx": ">= 0.2.0, < 1.0.0"}}

	tests := []struct {
		name    string
		known   map[string]*semver.Version
		wantErr string
	}{
		{"satisfied", map[string]*semver.Version{"plugx": semver.MustParse("0.3.1")}, ""},
		{"too old", map[string]*semver.Version{"plugx": semver.MustParse("0.1.0")}, "found 0.1.0"},
		{"missing", map[string]*semver.Version{}, "not installed"},
		{"unversioned", map[string]*semver.Version{"plugx": nil}, "has no version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.CheckRequires(tt.known)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
