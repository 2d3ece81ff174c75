package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentx-labs/plugx/internal/branding"
	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/di"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// Setting keys, shared by flags, environment variables and the settings
// file.
const (
	keyConfig            = "config"
	keyGroup             = "group"
	keySection           = "section"
	keyVar               = "var"
	keyExtensions        = "extensions"
	keyActivationDefault = "activation-default"
	keyLogLevel          = "log-level"
	keyLogFormat         = "log-format"
)

var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` discovers components contributed by extension packages, validates
their configuration against the schemas they declare and wires them together.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadSettings(settings)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP(keyConfig, "c", "", "Component configuration file (yaml, json, toml, ini)")
	flags.StringP(keyGroup, "g", branding.ServicesGroup(), "Extension point group to load")
	flags.String(keySection, branding.ServicesSection(), "Configuration section of the group, empty for the whole file")
	flags.StringArray(keyVar, nil, "Interpolation variable as name=value (repeatable)")
	flags.StringSlice(keyExtensions, []string{filepath.Join(config.Dir(), "extensions")}, "Directories searched for extension manifests")
	flags.Bool(keyActivationDefault, true, "Activate components without 'activated' parameter")
	flags.String(keyLogLevel, "warn", "Log level (debug, info, warn, error)")
	flags.String(keyLogFormat, "console", "Log format (console, json)")

	if err := settings.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("binding flags: %v", err))
	}
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// currentSettings resolves the command settings from flags, environment
// and settings file.
func currentSettings() (di.Settings, error) {
	vars, err := parseVars(settings.GetStringSlice(keyVar))
	if err != nil {
		return di.Settings{}, err
	}
	return di.Settings{
		Version:           buildVersion,
		ConfigFile:        settings.GetString(keyConfig),
		Group:             settings.GetString(keyGroup),
		Section:           settings.GetString(keySection),
		Vars:              vars,
		ExtensionDirs:     settings.GetStringSlice(keyExtensions),
		ActivationDefault: settings.GetBool(keyActivationDefault),
		LogLevel:          settings.GetString(keyLogLevel),
		LogFormat:         settings.GetString(keyLogFormat),
	}, nil
}

// withRuntime runs handler inside a fresh di runtime built from the
// current settings.
func withRuntime(handler func(cmd *cobra.Command, injector di.Injector) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := currentSettings()
		if err != nil {
			return err
		}
		return di.RunEWithRuntime(di.NewRuntime(s), handler)(cmd, args)
	}
}

// loadSection reads the configuration of the group from the file named by
// s. Without file the configuration is empty.
func loadSection(s di.Settings) (config.Section, error) {
	if s.ConfigFile == "" {
		return config.Section{}, nil
	}
	return config.ReadSection(s.ConfigFile, s.Section)
}
