// Package branding provides compile-time identity values for the CLI and the
// default extension point it loads.
//
// branding.yaml is embedded with //go:embed; forks rename the binary, the
// environment prefix and the default services group by editing it.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	GoModule        string `yaml:"go_module"`
	ServicesGroup   string `yaml:"services_group"`
	ServicesSection string `yaml:"services_section"`
	ManifestName    string `yaml:"manifest_name"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:         "plugx",
			DisplayName:     "Plugx",
			Description:     "Configuration-driven plugin and service registry",
			HomeDir:         ".plugx",
			EnvPrefix:       "PLUGX",
			GoModule:        "github.com/agentx-labs/plugx",
			ServicesGroup:   "plugx.services",
			ServicesSection: "services",
			ManifestName:    "plugx.yaml",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "plugx").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Plugx").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".plugx").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PLUGX").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// ServicesGroup returns the extension point loaded when none is given.
func ServicesGroup() string { load(); return defaults.ServicesGroup }

// ServicesSection returns the configuration section holding the services.
func ServicesSection() string { load(); return defaults.ServicesSection }

// ManifestName returns the file name recognized as an extension manifest.
func ManifestName() string { load(); return defaults.ManifestName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "PLUGX_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
