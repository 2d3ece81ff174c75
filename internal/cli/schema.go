package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/plugx/internal/di"
	"github.com/agentx-labs/plugx/internal/plugin"
)

var schemaYAML bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration schema of a group",
	Long: `Print the JSON Schema of the group configuration. The schema depends on the
configuration itself: deactivated components are left out and selections
contribute the schema of their chosen component.`,
	Args: cobra.NoArgs,
	RunE: withRuntime(di.WithLoader(runSchema)),
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaYAML, "yaml", false, "Print the schema as YAML")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, injector di.Injector, loader *plugin.Loader) error {
	s, err := di.ResolveSettings(injector)
	if err != nil {
		return err
	}
	sec, err := loadSection(s)
	if err != nil {
		return err
	}

	sch, err := loader.Schema(s.Group, sec)
	if err != nil {
		return err
	}

	var out []byte
	if schemaYAML {
		out, err = sch.YAML()
	} else {
		out, err = sch.Document()
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
