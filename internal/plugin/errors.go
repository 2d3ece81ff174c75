package plugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentx-labs/plugx/internal/catalog"
	"github.com/agentx-labs/plugx/internal/config"
)

var (
	// ErrMissingService matches every *MissingServiceError.
	ErrMissingService = errors.New("missing service")
	// ErrInvalidSelection matches every *InvalidSelectionError.
	ErrInvalidSelection = errors.New("invalid selection")
)

// MissingServiceError reports a mandatory dependency that is absent or
// deactivated. Param is the parameter name of the dependency.
type MissingServiceError struct {
	Param string
}

func (e *MissingServiceError) Error() string {
	return fmt.Sprintf("missing service %q", e.Param)
}

// Is reports whether target is ErrMissingService.
func (e *MissingServiceError) Is(target error) bool {
	return target == ErrMissingService
}

// InvalidSelectionError reports a selection section whose selector is
// absent or names no available choice.
type InvalidSelectionError struct {
	Section  []string
	Selector string
	Value    string
	Choices  []string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("bad configuration: section \"[%s]\", parameter %q: %s",
		strings.Join(e.Section, " / "), e.Selector, e.reason())
}

func (e *InvalidSelectionError) reason() string {
	if e.Value == "" {
		return "required"
	}
	msg := fmt.Sprintf("invalid value '%s', ", e.Value)
	if len(e.Choices) == 0 {
		return msg + "no choice available"
	}
	quoted := make([]string, len(e.Choices))
	for i, c := range e.Choices {
		quoted[i] = "'" + c + "'"
	}
	return msg + "can only be " + strings.Join(quoted, " or ")
}

// Is reports whether target is ErrInvalidSelection or
// config.ErrBadConfiguration.
func (e *InvalidSelectionError) Is(target error) bool {
	return target == ErrInvalidSelection || target == config.ErrBadConfiguration
}

// Issue returns the error as a configuration issue.
func (e *InvalidSelectionError) Issue() config.Issue {
	return config.Issue{Sections: e.Section, Field: e.Selector, Message: e.reason()}
}

// ComponentLoadError wraps the error of a factory that failed to build its
// component.
type ComponentLoadError struct {
	Name    string
	Package catalog.Package
	Err     error
}

func (e *ComponentLoadError) Error() string {
	if e.Package.Name == "" {
		return fmt.Sprintf("loading %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("loading %s from %s: %v", e.Name, e.Package, e.Err)
}

func (e *ComponentLoadError) Unwrap() error {
	return e.Err
}
