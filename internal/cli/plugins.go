package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentx-labs/plugx/internal/di"
	"github.com/agentx-labs/plugx/internal/plugin"
	"github.com/agentx-labs/plugx/internal/report"
)

var (
	pluginsColumns     []string
	pluginsJSON        bool
	pluginsCatalogOnly bool
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Load the components of a group and report them",
	Long: `Load the components of the group with the given configuration, then list
every component known for the group in load order. Activated components are
marked with X; children of composite components are indented.`,
	Args: cobra.NoArgs,
	RunE: withRuntime(di.WithLoader(runPlugins)),
}

func init() {
	pluginsCmd.Flags().StringSliceVar(&pluginsColumns, "columns", nil, "Extra columns (package, version, location, description)")
	pluginsCmd.Flags().BoolVar(&pluginsJSON, "json", false, "Output in JSON format")
	pluginsCmd.Flags().BoolVar(&pluginsCatalogOnly, "catalog-only", false, "Report the catalog without loading anything")
	rootCmd.AddCommand(pluginsCmd)
}

func runPlugins(cmd *cobra.Command, injector di.Injector, loader *plugin.Loader) error {
	s, err := di.ResolveSettings(injector)
	if err != nil {
		return err
	}

	var reg *plugin.Registry
	if !pluginsCatalogOnly {
		sec, err := loadSection(s)
		if err != nil {
			return err
		}
		reg = plugin.NewRegistry()
		if err := loader.Load(cmd.Context(), reg, s.Group, sec); err != nil {
			return fmt.Errorf("loading %s: %w", s.Group, err)
		}
	}

	return report.Write(cmd.OutOrStdout(), plugin.Describe(loader.Catalog, s.Group, reg), report.Options{
		Title:   s.Group,
		Columns: pluginsColumns,
		JSON:    pluginsJSON,
		Color:   !color.NoColor,
	})
}
