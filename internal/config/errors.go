package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrBadConfiguration matches every *BadConfigurationError with errors.Is.
var ErrBadConfiguration = errors.New("bad configuration")

// Issue is a single configuration problem located by its section path and
// parameter name.
type Issue struct {
	Sections []string
	Field    string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("section \"[%s]\", parameter %q: %s", strings.Join(i.Sections, " / "), i.Field, i.Message)
}

// BadConfigurationError reports every issue found while resolving and
// validating a configuration tree. It is returned once, after the whole tree
// has been checked.
type BadConfigurationError struct {
	File   string
	Issues []Issue
}

func (e *BadConfigurationError) Error() string {
	file := e.File
	if file == "" {
		file = "<undefined>"
	}
	lines := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		lines = append(lines, fmt.Sprintf("file %q, %s", file, issue))
	}
	return "bad configuration:\n- " + strings.Join(lines, "\n- ")
}

// Is reports whether target is ErrBadConfiguration.
func (e *BadConfigurationError) Is(target error) bool {
	return target == ErrBadConfiguration
}

// NewBadConfiguration returns nil when issues is empty, otherwise a
// *BadConfigurationError with the issues sorted by location.
func NewBadConfiguration(file string, issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	sorted := slices.Clone(issues)
	slices.SortStableFunc(sorted, func(a, b Issue) int {
		if c := slices.Compare(a.Sections, b.Sections); c != 0 {
			return c
		}
		return strings.Compare(a.Field, b.Field)
	})
	return &BadConfigurationError{File: file, Issues: sorted}
}

// Join merges the issues of several errors. Errors that are not
// *BadConfigurationError are returned unchanged, first one wins.
func Join(file string, errs ...error) error {
	var issues []Issue
	for _, err := range errs {
		if err == nil {
			continue
		}
		var bad *BadConfigurationError
		if !errors.As(err, &bad) {
			return err
		}
		issues = append(issues, bad.Issues...)
	}
	return NewBadConfiguration(file, issues)
}
