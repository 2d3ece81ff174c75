// Package config implements the hierarchical configuration tree consumed by the
// plugin loader. A Section is a map of keys to scalar values or nested
// sections; string values may reference other values with ${path},
// ${path:default} or $name, resolved against the same section, its ancestors
// and an externally supplied set of variables.
//
// The package also manages the CLI settings file stored at ~/.plugx/config.yaml.
package config
