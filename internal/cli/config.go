package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentx-labs/plugx/internal/branding"
	"github.com/agentx-labs/plugx/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI settings",
	Long: fmt.Sprintf(`Read and write the default values of the global flags, stored at ~/%s/config.yaml.
Environment variables prefixed with %s_ take precedence over the file.`, branding.HomeDir(), branding.EnvPrefix()),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if rootCmd.PersistentFlags().Lookup(key) == nil {
			return fmt.Errorf("unknown setting %q", key)
		}

		// A separate instance keeps flag defaults out of the file.
		v := viper.New()
		if err := config.LoadSettings(v); err != nil {
			return err
		}
		if err := config.SaveSetting(v, key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), settings.Get(args[0]))
		return nil
	},
}
