package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/plugx/internal/catalog"
	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/di"
	"github.com/agentx-labs/plugx/internal/manifest"
)

var checkManifest string

var errChecksFailed = errors.New("some checks failed")

func init() {
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a manifest file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check of settings, extensions and configuration",
	Long: `Run diagnostic checks: the settings file, the manifests of the extension
directories, the catalog they build and the configuration of the group.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if checkManifest != "" {
			return runManifestCheck(w, checkManifest)
		}

		s, err := currentSettings()
		if err != nil {
			return err
		}
		ok := runSettingsCheck(w)
		ok = runExtensionsCheck(w, s.ExtensionDirs) && ok
		ok = runCatalogCheck(cmd, s) && ok
		if !ok {
			return errChecksFailed
		}
		return nil
	},
}

func runSettingsCheck(w io.Writer) bool {
	fmt.Fprintln(w, "Settings check:")
	path := config.FilePath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  [INFO] %s not found, using defaults\n", path)
		return true
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", path)
	return true
}

func runExtensionsCheck(w io.Writer, dirs []string) bool {
	fmt.Fprintln(w, "Extensions check:")
	ok := true
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			fmt.Fprintf(w, "  [INFO] %s: directory missing\n", dir)
			continue
		}
		paths := catalog.FindManifests(catalog.BuildSources([]string{dir}))
		if len(paths) == 0 {
			fmt.Fprintf(w, "  [INFO] %s: no manifest found\n", dir)
		}
		for _, path := range paths {
			ok = reportManifest(w, path) && ok
		}
	}
	return ok
}

// runCatalogCheck builds the catalog, then validates the configuration of
// the group when a configuration file is given.
func runCatalogCheck(cmd *cobra.Command, s di.Settings) bool {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Catalog check:")
	err := di.NewRuntime(s).Invoke(func(i di.Injector) error {
		loader, err := di.ResolveLoader(i)
		if err != nil {
			return err
		}
		cat := loader.Catalog
		fmt.Fprintf(w, "  [ OK ] %d package(s), %d group(s), %d factory ID(s)\n",
			len(cat.Packages()), len(cat.Groups()), len(cat.FactoryIDs()))
		if len(cat.Discover(s.Group)) == 0 {
			fmt.Fprintf(w, "  [WARN] no component in group %s\n", s.Group)
		}

		if s.ConfigFile == "" {
			return nil
		}
		fmt.Fprintln(w, "Configuration check:")
		sec, err := loadSection(s)
		if err != nil {
			return err
		}
		if _, err := loader.Validate(s.Group, sec); err != nil {
			return err
		}
		fmt.Fprintf(w, "  [ OK ] %s configures %s\n", s.ConfigFile, s.Group)
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return false
	}
	return true
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)
	if !reportManifest(w, path) {
		return fmt.Errorf("manifest %s is invalid", path)
	}
	return nil
}

func reportManifest(w io.Writer, path string) bool {
	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}

	if result.Valid {
		m, err := manifest.Parse(path)
		if err != nil {
			fmt.Fprintf(w, "  [ OK ] %s\n", path)
			return true
		}
		fmt.Fprintf(w, "  [ OK ] %s: %s %s, %d group(s)\n", path, m.Package, m.Version, len(m.Groups()))
		return true
	}

	fmt.Fprintf(w, "  [FAIL] %s: %d validation issue(s):\n", path, len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return false
}
