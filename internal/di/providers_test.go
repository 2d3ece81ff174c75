package di_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/plugx/internal/branding"
	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/di"
	"github.com/agentx-labs/plugx/internal/plugin"
)

const manifest = `package: acme-logging
version: 1.0.0
requires:
  plugx: ">= 1.0.0"
entry_points:
  plugx.services:
    - name: audit_logger
      factory: plugx.logger
      priority: 20
`

func TestNewRuntime(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugx.yaml"), []byte(manifest), 0o644))

	settings := di.Settings{
		Version:           "1.1.0",
		ConfigFile:        filepath.Join(dir, "app.yaml"),
		Vars:              map[string]string{"stage": "test"},
		ExtensionDirs:     []string{dir, filepath.Join(dir, "missing")},
		ActivationDefault: true,
		LogLevel:          "error",
	}

	err := di.NewRuntime(settings).Invoke(func(i di.Injector) error {
		cat, err := di.ResolveCatalog(i)
		require.NoError(t, err)
		entries := cat.Discover(branding.ServicesGroup())
		require.Len(t, entries, 2)
		assert.Equal(t, "logger", entries[0].Name)
		assert.Equal(t, "audit_logger", entries[1].Name)
		assert.Equal(t, 20, entries[1].Factory.LoadPriority())

		loader, err := di.ResolveLoader(i)
		require.NoError(t, err)
		assert.Equal(t, "test", loader.Globals["stage"])
		assert.Equal(t, dir, loader.Globals["here"])
		assert.Equal(t, settings.ConfigFile, loader.File)

		reg := plugin.NewRegistry()
		require.NoError(t, loader.Load(context.Background(), reg, branding.ServicesGroup(), config.Section{}))
		assert.Equal(t, []string{"logger", "audit_logger"}, reg.Names())
		return nil
	})
	require.NoError(t, err)
}

func TestNewRuntime_BadLogLevel(t *testing.T) {
	err := di.NewRuntime(di.Settings{LogLevel: "loud"}).Invoke(func(i di.Injector) error {
		_, err := di.ResolveLogger(i)
		return err
	})
	assert.ErrorContains(t, err, "parsing log level")
}

func TestWithLoader(t *testing.T) {
	var got *plugin.Loader
	handler := di.WithLoader(func(_ *cobra.Command, _ di.Injector, loader *plugin.Loader) error {
		got = loader
		return nil
	})

	runE := di.RunEWithRuntime(di.NewRuntime(di.Settings{Version: "1.0.0", LogLevel: "info"}), handler)
	require.NoError(t, runE(&cobra.Command{Use: "test"}, nil))
	require.NotNil(t, got)
	assert.False(t, got.ActivationDefault)
}

func TestGlobals(t *testing.T) {
	t.Setenv("PLUGX_TEST_GLOBAL", "from-env")

	globals, err := di.Globals(di.Settings{Vars: map[string]string{"root": "/srv"}})
	require.NoError(t, err)

	v, ok := globals.Get("env.PLUGX_TEST_GLOBAL")
	require.True(t, ok)
	assert.Equal(t, "from-env", v)
	assert.Equal(t, "/srv", globals["root"])
	_, ok = globals["here"]
	assert.False(t, ok)

	expanded, err := config.Expand("${env.PLUGX_TEST_GLOBAL}/$root", globals)
	require.NoError(t, err)
	assert.Equal(t, "from-env//srv", expanded)
}
