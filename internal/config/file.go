package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// keyDelimiter replaces viper's default "." so that component names
// containing dots stay single keys.
const keyDelimiter = "::"

// ReadFile parses a configuration file into a Section. The format is chosen
// from the file extension (yaml, json, toml, ini, ...). Keys are lower-cased.
func ReadFile(path string) (Section, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return FromMap(v.AllSettings()), nil
}

// ReadSection reads a configuration file and returns the section called
// name, or the whole file when name is empty. A missing section yields an
// empty Section.
func ReadSection(path, name string) (Section, error) {
	root, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return root, nil
	}
	sec := root.Sub(name)
	if sec == nil {
		return Section{}, nil
	}
	return sec, nil
}
