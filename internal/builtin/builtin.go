// Package builtin contributes the components shipped with plugx itself.
package builtin

import (
	"context"

	"go.uber.org/zap"

	"github.com/agentx-labs/plugx/internal/branding"
	"github.com/agentx-labs/plugx/internal/catalog"
	"github.com/agentx-labs/plugx/internal/logging"
	"github.com/agentx-labs/plugx/internal/plugin"
)

// LoggerFactoryID binds the logger component from manifests.
const LoggerFactoryID = "plugx.logger"

// LoggerConfig configures the logger component.
type LoggerConfig struct {
	Level  string `json:"level,omitempty" jsonschema:"default=info,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `json:"format,omitempty" jsonschema:"default=console,enum=console,enum=json"`
}

// LoggerFactory builds a *zap.Logger from its section. It loads before the
// default priority so that other services can depend on it.
func LoggerFactory() plugin.Factory {
	return plugin.Define(plugin.Spec[LoggerConfig, *zap.Logger]{
		Priority:    10,
		Description: "Structured logger",
		New: func(_ context.Context, _ plugin.Identity, cfg LoggerConfig, _ plugin.Args) (*zap.Logger, error) {
			return logging.New(cfg.Level, cfg.Format)
		},
	})
}

// Package returns the package describing plugx itself.
func Package(version string) catalog.Package {
	return catalog.Package{
		Name:        branding.CLIName(),
		Version:     version,
		Location:    branding.GoModule(),
		Description: branding.Description(),
	}
}

// Register adds the plugx package and its components to cat.
func Register(cat *plugin.Catalog, version string) {
	pkg := Package(version)
	logger := LoggerFactory()

	cat.RegisterPackage(pkg)
	cat.RegisterFactory(LoggerFactoryID, logger)
	cat.Register(branding.ServicesGroup(), plugin.Entry{Name: "logger", Package: pkg, Factory: logger})
}
