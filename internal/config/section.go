package config

import (
	"fmt"
	"slices"
	"strings"
)

// ActivatedKey is the reserved per-component key gating activation.
const ActivatedKey = "activated"

// Section is a node of the configuration tree. Values are scalars, lists, or
// nested Sections.
type Section map[string]any

// Vars holds externally supplied values available to interpolation. Nested
// maps are addressed with dotted paths.
type Vars map[string]any

// FromMap deep-copies m into a Section, converting every nested map into a
// Section. Maps with non-string keys (as produced by some YAML decoders) are
// converted with fmt.Sprint on the key.
func FromMap(m map[string]any) Section {
	s := make(Section, len(m))
	for k, v := range m {
		s[k] = normalize(v)
	}
	return s
}

func normalize(v any) any {
	switch val := v.(type) {
	case Section:
		return FromMap(val)
	case map[string]any:
		return FromMap(val)
	case Vars:
		return FromMap(val)
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = v
		}
		return FromMap(m)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return val
	}
}

// Sub returns the child section called name, or nil when absent or when the
// key holds a scalar.
func (s Section) Sub(name string) Section {
	if s == nil {
		return nil
	}
	child, _ := s[name].(Section)
	return child
}

// Get looks up a dotted path ("a.b.c") starting at s.
func (s Section) Get(path string) (any, bool) {
	return lookup(s, strings.Split(path, "."))
}

// At returns the section reached by following names from s. Missing
// intermediate sections yield nil.
func (s Section) At(names []string) Section {
	cur := s
	for _, name := range names {
		cur = cur.Sub(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Sections returns the names of the child sections, sorted.
func (s Section) Sections() []string {
	var names []string
	for k, v := range s {
		if _, ok := v.(Section); ok {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	return names
}

// Keys returns every key of s, sorted.
func (s Section) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a deep copy of s.
func (s Section) Clone() Section {
	if s == nil {
		return nil
	}
	return FromMap(s)
}

// Merge overlays other onto s recursively: nested sections are merged, any
// other value in other replaces the one in s.
func (s Section) Merge(other Section) {
	for k, v := range other {
		if src, ok := v.(Section); ok {
			if dst, ok := s[k].(Section); ok {
				dst.Merge(src)
				continue
			}
			s[k] = src.Clone()
			continue
		}
		s[k] = normalize(v)
	}
}

// Only returns a copy of s keeping its scalar values and only the child
// sections whose names are listed.
func (s Section) Only(names []string) Section {
	out := make(Section, len(s))
	for k, v := range s {
		if child, ok := v.(Section); ok {
			if slices.Contains(names, k) {
				out[k] = child.Clone()
			}
			continue
		}
		out[k] = normalize(v)
	}
	return out
}

// Without returns a shallow copy of s with the given keys removed.
func (s Section) Without(keys ...string) Section {
	out := make(Section, len(s))
	for k, v := range s {
		if !slices.Contains(keys, k) {
			out[k] = v
		}
	}
	return out
}

// Dict converts s back into plain nested map[string]any values.
func (s Section) Dict() map[string]any {
	m := make(map[string]any, len(s))
	for k, v := range s {
		m[k] = plain(v)
	}
	return m
}

func plain(v any) any {
	switch val := v.(type) {
	case Section:
		return val.Dict()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return val
	}
}

// Get looks up a dotted path in the variables. Only the value found is
// normalized.
func (v Vars) Get(path string) (any, bool) {
	var cur any = map[string]any(v)
	for _, name := range strings.Split(path, ".") {
		var (
			next any
			ok   bool
		)
		switch m := cur.(type) {
		case map[string]any:
			next, ok = m[name]
		case Section:
			next, ok = m[name]
		case Vars:
			next, ok = m[name]
		case map[any]any:
			next, ok = m[name]
		}
		if !ok {
			return nil, false
		}
		cur = next
	}
	return normalize(cur), true
}

func lookup(s Section, names []string) (any, bool) {
	if s == nil || len(names) == 0 {
		return nil, false
	}
	v, ok := s[names[0]]
	if !ok {
		return nil, false
	}
	if len(names) == 1 {
		return v, true
	}
	child, ok := v.(Section)
	if !ok {
		return nil, false
	}
	return lookup(child, names[1:])
}
