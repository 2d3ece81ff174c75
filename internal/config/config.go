package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/plugx/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Dir returns the path to the CLI settings directory (~/.plugx/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the settings file (~/.plugx/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the settings directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory %s: %w", dir, err)
	}
	return nil
}

// LoadSettings prepares v to read CLI settings from the settings file and
// from environment variables carrying the branding prefix. A missing settings
// file is not an error.
func LoadSettings(v *viper.Viper) error {
	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading settings %s: %w", FilePath(), err)
	}
	return nil
}

// SaveSetting stores key in v and writes the settings file.
func SaveSetting(v *viper.Viper, key string, value any) error {
	if err := EnsureDir(); err != nil {
		return err
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(FilePath()); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
