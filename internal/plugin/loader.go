package plugin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/schema"
)

// Loader runs load passes over the groups of a catalog.
type Loader struct {
	Catalog *Catalog
	// Globals are the values available to interpolation besides the
	// configuration tree itself.
	Globals config.Vars
	// ActivationDefault applies to components without "activated"
	// parameter.
	ActivationDefault bool
	// File names the configuration source in error messages.
	File string
	// Suffix and SelfName configure dependency injection.
	Suffix   string
	SelfName string
	Logger   *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithGlobals sets the interpolation globals.
func WithGlobals(globals config.Vars) Option {
	return func(l *Loader) { l.Globals = globals }
}

// WithActivationDefault sets the activation default.
func WithActivationDefault(activated bool) Option {
	return func(l *Loader) { l.ActivationDefault = activated }
}

// WithFile sets the configuration file name reported in errors.
func WithFile(file string) Option {
	return func(l *Loader) { l.File = file }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.Logger = logger }
}

// WithSuffix sets the suffix of dependency parameter names.
func WithSuffix(suffix string) Option {
	return func(l *Loader) { l.Suffix = suffix }
}

// NewLoader returns a loader over cat. Components are activated by default.
func NewLoader(cat *Catalog, opts ...Option) *Loader {
	l := &Loader{
		Catalog:           cat,
		ActivationDefault: true,
		Suffix:            DefaultSuffix,
		SelfName:          DefaultSelfName,
		Logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Injector returns an injector over reg configured like l.
func (l *Loader) Injector(reg *Registry) *Injector {
	return &Injector{Registry: reg, Suffix: l.Suffix, SelfName: l.SelfName}
}

// Prepared is a configuration completed and validated for a group, ready
// to be instantiated.
type Prepared struct {
	Group   string
	Entries []Entry
	Config  config.Section
	Schema  *schema.Schema
}

// Prepare discovers the activated entries of group and completes sec
// against their aggregate schema: defaults are merged, references
// interpolated, values coerced, then the whole section is validated. All
// configuration problems are returned in one *config.BadConfigurationError.
func (l *Loader) Prepare(group string, sec config.Section, path ...string) (*Prepared, error) {
	active, err := l.activeEntries(group, sec, path)
	if err != nil {
		return nil, err
	}
	restricted := sec.Only(entryNames(active))

	s, err := l.Aggregate(active, restricted, path...)
	if err != nil {
		return nil, err
	}

	completed, err := schema.MergeDefaults(s, restricted).Interpolate(l.Globals)
	if err != nil {
		return nil, l.relocate(err, path)
	}
	completed = schema.Coerce(s, completed)
	if err := schema.Validate(s, completed, l.File, path...); err != nil {
		return nil, err
	}

	return &Prepared{Group: group, Entries: Order(active), Config: completed, Schema: s}, nil
}

// Load runs a full pass: group's activated components are configured from
// sec and stored into reg. On error reg is left as it was.
func (l *Loader) Load(ctx context.Context, reg *Registry, group string, sec config.Section) error {
	log := l.Logger.With(zap.String("pass", uuid.NewString()), zap.String("group", group))

	p, err := l.Prepare(group, sec)
	if err != nil {
		log.Error("configuration rejected", zap.Error(err))
		return err
	}
	log.Debug("configuration validated", zap.Strings("components", entryNames(p.Entries)))

	return l.instantiate(ctx, log, reg, p.Entries, p.Config, nil, nil)
}

// Validate runs the pass without instantiating anything and returns the
// completed configuration.
func (l *Loader) Validate(group string, sec config.Section) (config.Section, error) {
	p, err := l.Prepare(group, sec)
	if err != nil {
		return nil, err
	}
	return p.Config, nil
}

// Schema returns the aggregate schema of group for sec.
func (l *Loader) Schema(group string, sec config.Section) (*schema.Schema, error) {
	active, err := l.activeEntries(group, sec, nil)
	if err != nil {
		return nil, err
	}
	return l.Aggregate(active, sec.Only(entryNames(active)))
}

// Instantiate builds entries in their given order and stores the non-nil
// components into reg. sec holds one validated sub-section per entry. The
// first failure stops the pass and leaves reg as it was.
func (l *Loader) Instantiate(ctx context.Context, reg *Registry, entries []Entry, sec config.Section, path ...string) error {
	return l.instantiate(ctx, l.Logger, reg, entries, sec, path, nil)
}

// instantiate resolves dependencies in reg, then in outer.
func (l *Loader) instantiate(ctx context.Context, log *zap.Logger, reg *Registry, entries []Entry, sec config.Section, path []string, outer []*Registry) error {
	saved := reg.snapshot()
	inj := l.Injector(reg)
	inj.Fallback = outer
	scope := append([]*Registry{reg}, outer...)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			reg.restore(saved)
			return fmt.Errorf("loading %s: %w", e.Name, err)
		}

		id := Identity{
			Name:    e.Name,
			Package: e.Package,
			Path:    append(slices.Clone(path), e.Name),
			Loader:  l,
			scope:   scope,
			pass:    log,
		}
		id.Logger = log.Named(strings.Join(id.Path, "."))
		cfg := sec.Sub(e.Name).Without(config.ActivatedKey)

		f := e.Factory
		inst, err := inj.Invoke(f.Dependencies(), func(args Args) (any, error) {
			return f.New(ctx, id, cfg, args)
		}, nil)
		if err != nil {
			log.Error(fmt.Sprintf("'%s' can't be loaded", e.Name), zap.String("package", e.Package.Name), zap.Error(err))
			reg.restore(saved)
			return &ComponentLoadError{Name: e.Name, Package: e.Package, Err: err}
		}

		if isNil(inst) {
			log.Debug("component not registered", zap.String("name", e.Name))
			continue
		}
		if reg.Set(e.Name, inst) {
			log.Warn("component replaced", zap.String("name", Sanitize(e.Name)))
		}
		log.Debug("component loaded", zap.String("name", e.Name), zap.String("package", e.Package.Name))
	}
	return nil
}

// activeEntries discovers group and keeps the activated entries.
func (l *Loader) activeEntries(group string, sec config.Section, path []string) ([]Entry, error) {
	all := l.Catalog.Discover(group)
	for _, name := range conflicts(all) {
		l.Logger.Warn("name contributed more than once, the last one wins",
			zap.String("group", group), zap.String("name", name))
	}

	active, err := FilterActivated(all, sec, l.Globals, l.ActivationDefault, path...)
	if err != nil {
		return nil, l.relocate(err, nil)
	}
	l.Logger.Debug("extensions discovered", zap.String("group", group),
		zap.Int("discovered", len(all)), zap.Int("activated", len(active)))
	return active, nil
}

// relocate sets the file of a configuration error and prefixes its
// sections with path.
func (l *Loader) relocate(err error, path []string) error {
	var bad *config.BadConfigurationError
	if !errors.As(err, &bad) {
		return err
	}
	issues := make([]config.Issue, len(bad.Issues))
	for i, issue := range bad.Issues {
		issue.Sections = append(slices.Clone(path), issue.Sections...)
		issues[i] = issue
	}
	return config.NewBadConfiguration(l.File, issues)
}

// asIssue extracts configuration issues from err.
func asIssue(err error) ([]config.Issue, bool) {
	var sel *InvalidSelectionError
	if errors.As(err, &sel) {
		return []config.Issue{sel.Issue()}, true
	}
	var bad *config.BadConfigurationError
	if errors.As(err, &bad) {
		return bad.Issues, true
	}
	return nil, false
}
