package di

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentx-labs/plugx/internal/plugin"
)

// ResolveSettings retrieves the command settings.
func ResolveSettings(injector Injector) (Settings, error) {
	s, err := do.Invoke[Settings](injector)
	if err != nil {
		return Settings{}, fmt.Errorf("resolve settings dependency: %w", err)
	}
	return s, nil
}

// ResolveLogger retrieves the logger.
func ResolveLogger(injector Injector) (*zap.Logger, error) {
	logger, err := do.Invoke[*zap.Logger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}
	return logger, nil
}

// ResolveCatalog retrieves the component catalog.
func ResolveCatalog(injector Injector) (*plugin.Catalog, error) {
	cat, err := do.Invoke[*plugin.Catalog](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog dependency: %w", err)
	}
	return cat, nil
}

// ResolveLoader retrieves the component loader.
func ResolveLoader(injector Injector) (*plugin.Loader, error) {
	loader, err := do.Invoke[*plugin.Loader](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve loader dependency: %w", err)
	}
	return loader, nil
}

// WithLoader decorates a handler to resolve the loader beforehand.
func WithLoader(
	handler func(cmd *cobra.Command, injector Injector, loader *plugin.Loader) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		loader, err := ResolveLoader(injector)
		if err != nil {
			return err
		}
		return handler(cmd, injector, loader)
	}
}
