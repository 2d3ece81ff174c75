package plugin

import (
	"slices"

	"github.com/agentx-labs/plugx/internal/config"
	"github.com/agentx-labs/plugx/internal/schema"
)

// FilterActivated keeps the entries whose "activated" parameter is true.
// The parameter is read from the entry's own sub-section of sec,
// interpolated against globals only, and defaults to activationDefault.
// Invalid values of all entries are reported together. path locates sec in
// the configuration tree.
func FilterActivated(entries []Entry, sec config.Section, globals config.Vars, activationDefault bool, path ...string) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	s := schema.New()
	values := config.Section{}
	var issues []config.Issue

	for _, e := range entries {
		s.Nest(e.Name, schema.New().Set(config.ActivatedKey, schema.Boolean(activationDefault)))

		own := config.Section{}
		values[e.Name] = own
		raw, ok := sec.Sub(e.Name)[config.ActivatedKey]
		if !ok {
			continue
		}
		expanded, err := config.Expand(raw, globals)
		if err != nil {
			issues = append(issues, config.Issue{
				Sections: append(slices.Clone(path), e.Name),
				Field:    config.ActivatedKey,
				Message:  err.Error(),
			})
			continue
		}
		own[config.ActivatedKey] = expanded
	}
	if err := config.NewBadConfiguration("", issues); err != nil {
		return nil, err
	}

	values = schema.Coerce(s, schema.MergeDefaults(s, values))
	if err := schema.Validate(s, values, "", path...); err != nil {
		return nil, err
	}

	var active []Entry
	for _, e := range entries {
		if on, _ := values.Sub(e.Name)[config.ActivatedKey].(bool); on {
			active = append(active, e)
		}
	}
	return active, nil
}
