package plugin

const (
	// DefaultSuffix is appended to a dependency name to form its parameter
	// name.
	DefaultSuffix = "service"
	// DefaultSelfName is the dependency name resolving to the registry
	// itself.
	DefaultSelfName = "services"
)

// Args holds the arguments of a factory call, keyed by parameter name.
type Args map[string]any

// Arg returns the argument param if it has type T.
func Arg[T any](args Args, param string) (T, bool) {
	var zero T
	v, ok := args[param]
	if !ok || v == nil {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Dependency is a service a callable needs.
type Dependency struct {
	Name     string
	Optional bool
	// Default is bound when an optional dependency is unavailable.
	Default any
}

// Requires declares a mandatory dependency on the service name.
func Requires(name string) Dependency {
	return Dependency{Name: name}
}

// Optional declares a dependency on the service name that falls back to def.
func Optional(name string, def any) Dependency {
	return Dependency{Name: name, Optional: true, Default: def}
}

// Injector resolves dependencies against a registry. Services missing from
// it are looked up in Fallback, in order.
type Injector struct {
	Registry *Registry
	Fallback []*Registry
	Suffix   string
	SelfName string
}

// NewInjector returns an injector over reg with the default suffix and self
// name.
func NewInjector(reg *Registry) *Injector {
	return &Injector{Registry: reg, Suffix: DefaultSuffix, SelfName: DefaultSelfName}
}

// Param returns the parameter name of d, e.g. "db_service".
func (in *Injector) Param(d Dependency) string {
	return d.Name + "_" + in.Suffix
}

// Resolve returns explicit extended with every dependency it does not
// already provide. Deactivated services count as absent.
func (in *Injector) Resolve(deps []Dependency, explicit Args) (Args, error) {
	args := make(Args, len(explicit)+len(deps))
	for k, v := range explicit {
		args[k] = v
	}

	for _, d := range deps {
		param := in.Param(d)
		if _, ok := explicit[param]; ok {
			continue
		}

		if d.Name == in.SelfName {
			args[param] = in.Registry
			continue
		}

		if v, ok := in.lookup(d.Name); ok {
			args[param] = v
			continue
		}

		if !d.Optional {
			return nil, &MissingServiceError{Param: param}
		}
		args[param] = d.Default
	}
	return args, nil
}

// Invoke calls fn with the resolved arguments and returns its result
// unchanged.
func (in *Injector) Invoke(deps []Dependency, fn func(Args) (any, error), explicit Args) (any, error) {
	args, err := in.Resolve(deps, explicit)
	if err != nil {
		return nil, err
	}
	return fn(args)
}

// Call is Invoke for callables returning a T.
func Call[T any](in *Injector, deps []Dependency, fn func(Args) (T, error), explicit Args) (T, error) {
	var zero T
	args, err := in.Resolve(deps, explicit)
	if err != nil {
		return zero, err
	}
	return fn(args)
}

// lookup returns the first activated service called name.
func (in *Injector) lookup(name string) (any, bool) {
	for _, reg := range append([]*Registry{in.Registry}, in.Fallback...) {
		if reg == nil || !reg.IsActivated(name) {
			continue
		}
		return reg.Get(name)
	}
	return nil, false
}
