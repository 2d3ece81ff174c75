package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentx-labs/plugx/internal/config"
)

const resourceName = "config.schema.json"

var printer = message.NewPrinter(language.English)

// Validate checks sec against s and returns a *config.BadConfigurationError
// listing every problem found. prefix is prepended to the section path of
// each issue. Other errors mean the schema itself could not be compiled.
func Validate(s *Schema, sec config.Section, file string, prefix ...string) error {
	compiled, err := compile(s)
	if err != nil {
		return err
	}

	data, err := json.Marshal(sec.Dict())
	if err != nil {
		return fmt.Errorf("converting configuration to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("preparing configuration for validation: %w", err)
	}

	err = compiled.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("unexpected validation error type: %w", err)
	}
	return config.NewBadConfiguration(file, extractIssues(ve, prefix))
}

func compile(s *Schema) (*jsonschema.Schema, error) {
	data, err := json.Marshal(s.js)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema JSON: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceName, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := c.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return compiled, nil
}

func extractIssues(ve *jsonschema.ValidationError, prefix []string) []config.Issue {
	var issues []config.Issue
	collectIssues(ve, prefix, &issues)
	if len(issues) == 0 {
		return []config.Issue{{Sections: slices.Clone(prefix), Message: ve.Error()}}
	}
	return deduplicate(issues)
}

// collectIssues walks the error tree down to its leaves. Object level
// failures (missing or unknown parameters) yield one issue per parameter.
func collectIssues(ve *jsonschema.ValidationError, prefix []string, issues *[]config.Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, prefix, issues)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}

	loc := append(slices.Clone(prefix), ve.InstanceLocation...)
	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		for _, name := range k.Missing {
			*issues = append(*issues, config.Issue{Sections: loc, Field: name, Message: "value is missing"})
		}
		return
	case *kind.AdditionalProperties:
		for _, name := range k.Properties {
			*issues = append(*issues, config.Issue{Sections: loc, Field: name, Message: "unknown parameter"})
		}
		return
	}

	kw := ve.ErrorKind.KeywordPath()
	if len(kw) > 0 {
		switch kw[len(kw)-1] {
		case "oneOf", "allOf", "anyOf", "$ref":
			return
		}
	}

	issue := config.Issue{Sections: loc, Message: ve.ErrorKind.LocalizedString(printer)}
	if n := len(ve.InstanceLocation); n > 0 {
		issue.Sections = loc[:len(loc)-1]
		issue.Field = loc[len(loc)-1]
	}
	*issues = append(*issues, issue)
}

func deduplicate(issues []config.Issue) []config.Issue {
	seen := make(map[string]bool, len(issues))
	var result []config.Issue
	for _, issue := range issues {
		key := issue.String()
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
