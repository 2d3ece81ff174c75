package di

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/do/v2"
	"go.uber.org/zap"

	"github.com/agentx-labs/plugx/internal/builtin"
	"github.com/agentx-labs/plugx/internal/catalog"
	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/logging"
	"github.com/agentx-labs/plugx/internal/plugin"
)

// Settings are the values a command runs with, resolved from flags, the
// environment and the settings file.
type Settings struct {
	Version string
	// ConfigFile is the component configuration to load.
	ConfigFile string
	// Group is the extension point to load and Section the part of the
	// configuration file configuring it.
	Group   string
	Section string
	// Vars are extra interpolation globals given as name=value.
	Vars              map[string]string
	ExtensionDirs     []string
	ActivationDefault bool
	LogLevel          string
	LogFormat         string
}

// NewRuntime returns the runtime of the CLI commands.
func NewRuntime(settings Settings) *Runtime {
	return New(
		provideSettings(settings),
		provideLogger,
		provideCatalog,
		provideLoader,
	)
}

func provideSettings(settings Settings) Module {
	return func(i Injector) error {
		do.ProvideValue(i, settings)
		return nil
	}
}

func provideLogger(i Injector) error {
	do.Provide(i, func(i Injector) (*zap.Logger, error) {
		s, err := do.Invoke[Settings](i)
		if err != nil {
			return nil, err
		}
		return logging.New(s.LogLevel, s.LogFormat)
	})
	return nil
}

// provideCatalog registers the catalog: plugx's own components, the
// statically linked ones, then the ones bound by manifests found in the
// extension directories.
func provideCatalog(i Injector) error {
	do.Provide(i, func(i Injector) (*plugin.Catalog, error) {
		s, err := do.Invoke[Settings](i)
		if err != nil {
			return nil, err
		}
		logger, err := do.Invoke[*zap.Logger](i)
		if err != nil {
			return nil, err
		}

		cat := plugin.NewCatalog()
		builtin.Register(cat, s.Version)
		cat.Include(plugin.Default())

		var dirs []string
		for _, dir := range s.ExtensionDirs {
			if _, err := os.Stat(dir); err == nil {
				dirs = append(dirs, dir)
			}
		}
		manifests, err := cat.LoadManifests(context.Background(), catalog.BuildSources(dirs), plugin.Resolver(cat))
		if err != nil {
			return nil, err
		}
		for _, m := range manifests {
			logger.Debug("extension manifest loaded", zap.String("package", m.Package), zap.String("path", m.Path))
		}
		return cat, nil
	})
	return nil
}

func provideLoader(i Injector) error {
	do.Provide(i, func(i Injector) (*plugin.Loader, error) {
		s, err := do.Invoke[Settings](i)
		if err != nil {
			return nil, err
		}
		logger, err := do.Invoke[*zap.Logger](i)
		if err != nil {
			return nil, err
		}
		cat, err := do.Invoke[*plugin.Catalog](i)
		if err != nil {
			return nil, err
		}

		globals, err := Globals(s)
		if err != nil {
			return nil, err
		}
		return plugin.NewLoader(cat,
			plugin.WithGlobals(globals),
			plugin.WithActivationDefault(s.ActivationDefault),
			plugin.WithFile(s.ConfigFile),
			plugin.WithLogger(logger),
		), nil
	})
	return nil
}

// Globals returns the interpolation globals of s: the process environment
// under "env", the configuration file under "config_filename" and its
// directory under "here", then the user variables.
func Globals(s Settings) (config.Vars, error) {
	env := map[string]any{}
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			env[name] = value
		}
	}

	globals := config.Vars{"env": env}
	if s.ConfigFile != "" {
		abs, err := filepath.Abs(s.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", s.ConfigFile, err)
		}
		globals["config_filename"] = abs
		globals["here"] = filepath.Dir(abs)
	}
	for name, value := range s.Vars {
		globals[name] = value
	}
	return globals, nil
}
