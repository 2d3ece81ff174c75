package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/agentx-labs/plugx/internal/di"
	"github.com/agentx-labs/plugx/internal/plugin"
)

var validatePrint bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration of a group",
	Long: `Check the configuration of every activated component of the group against
its schema, without creating any component. All problems are reported at once.`,
	Args: cobra.NoArgs,
	RunE: withRuntime(di.WithLoader(runValidate)),
}

func init() {
	validateCmd.Flags().BoolVar(&validatePrint, "print", false, "Print the completed configuration as YAML")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, injector di.Injector, loader *plugin.Loader) error {
	s, err := di.ResolveSettings(injector)
	if err != nil {
		return err
	}
	sec, err := loadSection(s)
	if err != nil {
		return err
	}

	completed, err := loader.Validate(s.Group, sec)
	if err != nil {
		return err
	}

	if !validatePrint {
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration of %s is valid.\n", s.Group)
		return nil
	}
	out, err := yaml.Marshal(completed.Dict())
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
