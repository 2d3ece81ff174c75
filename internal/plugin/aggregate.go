package plugin

import (
	"errors"
	"slices"

	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/schema"
)

// Aggregate builds the schema of sec for the given activated entries: one
// sub-section per entry, described by the entry's own schema plus the
// activation flag. Entries configuring children (composites, selections)
// contribute their children's schemas too. Nothing is instantiated.
func (l *Loader) Aggregate(entries []Entry, sec config.Section, path ...string) (*schema.Schema, error) {
	root := schema.New()
	var (
		issues []config.Issue
		errs   []error
	)
	for _, e := range Order(entries) {
		s, err := l.entrySchema(e.Factory, sec.Sub(e.Name), append(slices.Clone(path), e.Name))
		if err != nil {
			if issue, ok := asIssue(err); ok {
				issues = append(issues, issue...)
				errs = append(errs, err)
				continue
			}
			return nil, err
		}
		root.Nest(e.Name, s)
	}

	// A lone invalid selection is returned as is.
	var sel *InvalidSelectionError
	if len(errs) == 1 && len(issues) == 1 && errors.As(errs[0], &sel) {
		return nil, sel
	}
	if err := config.NewBadConfiguration(l.File, issues); err != nil {
		return nil, err
	}
	return root, nil
}

func (l *Loader) entrySchema(f Factory, sec config.Section, path []string) (*schema.Schema, error) {
	s := f.ConfigSchema()
	if s == nil {
		s = schema.New()
	}
	if p, ok := asParent(f); ok {
		full, err := p.ChildSchema(l, s, sec, path)
		if err != nil {
			return nil, err
		}
		s = full
	}
	return s.WithActivated(l.ActivationDefault), nil
}
