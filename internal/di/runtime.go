// Package di wires the collaborators of the CLI commands with samber/do.
// Every command invocation gets a fresh injector built from the runtime
// modules.
package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector is the dependency container handed to command handlers.
type Injector = do.Injector

// Module registers providers into an injector.
type Module func(Injector) error

// Runtime creates injectors from a fixed list of modules.
type Runtime struct {
	modules []Module
}

// New returns a runtime applying modules, in order, to each injector.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke builds a fresh injector from the runtime modules followed by extra,
// runs handler with it and shuts the injector down.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()
	defer injector.Shutdown()

	for _, module := range append(append([]Module{}, r.modules...), extra...) {
		if module == nil {
			continue
		}
		if err := module(injector); err != nil {
			return err
		}
	}
	return handler(injector)
}

// RunEWithRuntime adapts handler to a cobra RunE function.
func RunEWithRuntime(r *Runtime, handler func(cmd *cobra.Command, injector Injector) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return r.Invoke(func(injector Injector) error {
			return handler(cmd, injector)
		})
	}
}
