package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/plugx/internal/di"
)

var packagesJSON bool

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List the extension packages and the groups they contribute to",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runPackages),
}

func init() {
	packagesCmd.Flags().BoolVar(&packagesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(packagesCmd)
}

// packageEntry represents a package for display.
type packageEntry struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Location string   `json:"location"`
	Groups   []string `json:"groups"`
}

func runPackages(cmd *cobra.Command, injector di.Injector) error {
	cat, err := di.ResolveCatalog(injector)
	if err != nil {
		return err
	}

	groups := map[string][]string{}
	for _, group := range cat.Groups() {
		for _, ext := range cat.Discover(group) {
			names := groups[ext.Package.Name]
			if len(names) == 0 || names[len(names)-1] != group {
				groups[ext.Package.Name] = append(names, group)
			}
		}
	}

	var entries []packageEntry
	for _, p := range cat.Packages() {
		entries = append(entries, packageEntry{Name: p.Name, Version: p.Version, Location: p.Location, Groups: groups[p.Name]})
	}

	if packagesJSON {
		return printPackagesJSON(cmd, entries)
	}
	return printPackagesTable(cmd, entries)
}

func printPackagesTable(cmd *cobra.Command, entries []packageEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No packages found.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tLOCATION\tGROUPS")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, version, e.Location, joinGroups(e.Groups))
	}
	return w.Flush()
}

func joinGroups(groups []string) string {
	if len(groups) == 0 {
		return "-"
	}
	return strings.Join(groups, ", ")
}

func printPackagesJSON(cmd *cobra.Command, entries []packageEntry) error {
	if entries == nil {
		entries = []packageEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
