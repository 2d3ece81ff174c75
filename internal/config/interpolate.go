package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// maxInterpolationDepth bounds chained references; deeper chains are
// reported as loops.
const maxInterpolationDepth = 10

// reference matches "$$", "${name}", "${name:default}" and "$name".
var reference = regexp.MustCompile(`\$(?:(\$)|\{([^{}:]+)(?::([^{}]*))?\}|([A-Za-z_][A-Za-z0-9_]*))`)

// Interpolate returns a copy of s where every string value has its
// references substituted. A reference is looked up in the value's own
// section, then in each ancestor up to s, then in globals. When the reference
// is missing the literal default after ":" is used; without a default the
// reference is reported as an issue. All issues are returned together in a
// *BadConfigurationError.
//
// A value made of a single reference takes the type of the referenced value.
// A reference naming the key that holds it skips that key, so `root: $root`
// takes root from an ancestor or from globals.
func (s Section) Interpolate(globals Vars) (Section, error) {
	ip := &interpolator{source: s, root: s.Clone(), globals: globals}
	ip.walk(ip.root, nil)
	if err := NewBadConfiguration("", ip.issues); err != nil {
		return nil, err
	}
	return ip.root, nil
}

// Expand substitutes the references of a single value against globals only.
func Expand(value any, globals Vars) (any, error) {
	ip := &interpolator{globals: globals}
	out, err := ip.value(value, nil, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type interpolator struct {
	// source is read for lookups, root receives the substituted values.
	source  Section
	root    Section
	globals Vars
	issues  []Issue
}

func (ip *interpolator) walk(sec Section, path []string) {
	for _, key := range sec.Keys() {
		if child, ok := sec[key].(Section); ok {
			ip.walk(child, append(slices.Clone(path), key))
			continue
		}
		out, err := ip.value(sec[key], path, []string{keyOf(path, key)})
		if err != nil {
			ip.issues = append(ip.issues, Issue{Sections: slices.Clone(path), Field: key, Message: err.Error()})
			continue
		}
		sec[key] = out
	}
}

// keyOf identifies the parameter name of the section at path.
func keyOf(path []string, name string) string {
	return strings.Join(append(slices.Clone(path), name), "\x1f")
}

// value expands v, found in the section at path. stack holds the keys being
// expanded, the innermost last.
func (ip *interpolator) value(v any, path []string, stack []string) (any, error) {
	switch val := v.(type) {
	case string:
		return ip.expand(val, path, stack)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			expanded, err := ip.value(item, path, stack)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

func (ip *interpolator) expand(s string, path []string, stack []string) (any, error) {
	matches := reference.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}
	if len(stack) > maxInterpolationDepth {
		return nil, fmt.Errorf("interpolation loop detected in %q", s)
	}

	whole := len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(s)

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		last = m[1]

		if m[2] != -1 {
			b.WriteByte('$')
			continue
		}

		name := ""
		if m[4] != -1 {
			name = strings.TrimSpace(s[m[4]:m[5]])
		} else {
			name = s[m[8]:m[9]]
		}

		resolved, err := ip.resolve(name, path, stack)
		if errors.Is(err, errLoop) {
			return nil, fmt.Errorf("interpolation loop detected in %q", s)
		}
		if err != nil {
			return nil, err
		}
		if resolved == nil {
			if m[6] == -1 {
				return nil, fmt.Errorf("missing option %q in interpolation", name)
			}
			resolved = s[m[6]:m[7]]
		}

		if whole && m[2] == -1 {
			if _, isString := resolved.(string); !isString {
				return resolved, nil
			}
		}
		b.WriteString(fmt.Sprint(resolved))
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

var errLoop = errors.New("interpolation loop")

// resolve returns nil when name is not found anywhere.
func (ip *interpolator) resolve(name string, path []string, stack []string) (any, error) {
	if ip.source != nil {
		parts := strings.Split(name, ".")
		for i := len(path); i >= 0; i-- {
			scope := ip.source.At(path[:i])
			v, ok := scope.Get(name)
			if !ok {
				continue
			}
			if _, isSection := v.(Section); isSection {
				continue
			}
			owner := append(slices.Clone(path[:i]), parts[:len(parts)-1]...)
			key := keyOf(owner, parts[len(parts)-1])
			if len(stack) > 0 && stack[len(stack)-1] == key {
				continue
			}
			if slices.Contains(stack, key) {
				return nil, errLoop
			}
			return ip.value(v, owner, append(slices.Clone(stack), key))
		}
	}
	if v, ok := ip.globals.Get(name); ok {
		if _, isSection := v.(Section); !isSection {
			return v, nil
		}
	}
	return nil, nil
}
