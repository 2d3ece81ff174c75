package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/plugx/internal/branding"
)

// Source is a directory searched for extension manifests.
type Source struct {
	Name     string // e.g., "project", "user"
	BasePath string // path to the source root
}

// BuildSources turns a list of directories into sources named after their
// base name. Empty entries are skipped.
func BuildSources(dirs []string) []Source {
	var sources []Source
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		sources = append(sources, Source{Name: filepath.Base(dir), BasePath: dir})
	}
	return sources
}

// FindManifests walks the sources in order and returns every manifest path
// found. Within a directory only the first manifest in name order is used.
// Inaccessible sources are skipped.
func FindManifests(sources []Source) []string {
	seenDirs := make(map[string]bool)
	var result []string

	for _, src := range sources {
		if _, err := os.Stat(src.BasePath); err != nil {
			continue
		}

		_ = filepath.WalkDir(src.BasePath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // skip inaccessible entries
			}
			if d.IsDir() {
				if path != src.BasePath && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !isManifestFile(d.Name()) {
				return nil
			}

			dir, err := filepath.Abs(filepath.Dir(path))
			if err != nil {
				dir = filepath.Dir(path)
			}
			if seenDirs[dir] {
				return nil
			}
			seenDirs[dir] = true
			result = append(result, path)
			return nil
		})
	}

	return result
}

// isManifestFile returns true for "plugx.yaml" and "<name>.plugx.yaml".
func isManifestFile(name string) bool {
	manifest := branding.ManifestName()
	return name == manifest || strings.HasSuffix(name, "."+manifest)
}
