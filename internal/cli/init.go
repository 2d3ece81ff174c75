package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/di"
	"github.com/agentx-labs/plugx/internal/plugin"
)

var (
	initGlobal bool
	initForce  bool
)

func init() {
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "Initialize the settings directory (~/.plugx/) instead")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a starter configuration",
	Long: `Write a configuration file holding the default parameters of every component
of the group, ready to be edited. The file defaults to the --config flag.

With --global, create the settings directory and its extensions directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if initGlobal {
			return runGlobalInit(cmd)
		}
		return withRuntime(di.WithLoader(func(cmd *cobra.Command, injector di.Injector, loader *plugin.Loader) error {
			return runConfigInit(cmd, injector, loader, args)
		}))(cmd, args)
	},
}

func runGlobalInit(cmd *cobra.Command) error {
	if err := config.EnsureDir(); err != nil {
		return err
	}
	extensions := filepath.Join(config.Dir(), "extensions")
	if err := os.MkdirAll(extensions, 0o755); err != nil {
		return fmt.Errorf("creating extensions directory: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", config.Dir())
	return nil
}

func runConfigInit(cmd *cobra.Command, injector di.Injector, loader *plugin.Loader, args []string) error {
	s, err := di.ResolveSettings(injector)
	if err != nil {
		return err
	}
	path := s.ConfigFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no configuration file given")
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	completed, err := loader.Validate(s.Group, config.Section{})
	if err != nil {
		return err
	}
	doc := completed.Dict()
	if s.Section != "" {
		doc = map[string]any{s.Section: doc}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
