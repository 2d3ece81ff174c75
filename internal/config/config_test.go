package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileIsNotAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, LoadSettings(v))
}

func TestLoadSettings_ReadsFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PLUGX_GROUP", "from.env")

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".plugx"), 0o755))
	require.NoError(t, os.WriteFile(FilePath(), []byte("log_level: debug\n"), 0o644))

	v := viper.New()
	require.NoError(t, LoadSettings(v))
	assert.Equal(t, "debug", v.GetString("log_level"))
	assert.Equal(t, "from.env", v.GetString("group"))
}

func TestFilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".plugx", "config.yaml"), FilePath())
}

func TestSaveSetting(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, LoadSettings(v))
	require.NoError(t, SaveSetting(v, "log-level", "warn"))

	reloaded := viper.New()
	require.NoError(t, LoadSettings(reloaded))
	assert.Equal(t, "warn", reloaded.GetString("log-level"))
}

func TestLoadSettings_DashedKeysFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLUGX_LOG_FORMAT", "json")

	v := viper.New()
	require.NoError(t, LoadSettings(v))
	assert.Equal(t, "json", v.GetString("log-format"))
}
