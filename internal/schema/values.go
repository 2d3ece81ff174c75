package schema

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cast"

	"github.com/agentx-labs/plugx/internal/config"
)

// MergeDefaults returns a copy of sec where every absent parameter with a
// declared default is filled in. Declared sub-sections are created when
// missing so that their own defaults and required parameters apply.
func MergeDefaults(s *Schema, sec config.Section) config.Section {
	out := sec.Clone()
	if out == nil {
		out = config.Section{}
	}
	mergeDefaults(s.js, out)
	return out
}

func mergeDefaults(js *jsonschema.Schema, sec config.Section) {
	for pair := js.Properties.Oldest(); pair != nil; pair = pair.Next() {
		name, prop := pair.Key, pair.Value
		if isObject(prop) {
			child, ok := sec[name].(config.Section)
			if !ok {
				if _, present := sec[name]; present {
					continue
				}
				child = config.Section{}
				sec[name] = child
			}
			mergeDefaults(prop, child)
			continue
		}
		if _, present := sec[name]; present || prop == nil || prop.Default == nil {
			continue
		}
		sec[name] = defaultValue(prop.Default)
	}
}

func defaultValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	default:
		return val
	}
}

// Coerce returns a copy of sec where textual values are converted to the
// types their parameters declare. Values that cannot be converted are kept
// as is and later reported by Validate.
func Coerce(s *Schema, sec config.Section) config.Section {
	out := sec.Clone()
	if out == nil {
		out = config.Section{}
	}
	coerceSection(s.js, out)
	return out
}

func coerceSection(js *jsonschema.Schema, sec config.Section) {
	for pair := js.Properties.Oldest(); pair != nil; pair = pair.Next() {
		v, ok := sec[pair.Key]
		if !ok || pair.Value == nil {
			continue
		}
		if child, isSection := v.(config.Section); isSection {
			if isObject(pair.Value) {
				coerceSection(pair.Value, child)
			}
			continue
		}
		sec[pair.Key] = coerce(pair.Value, v)
	}
}

func coerce(js *jsonschema.Schema, v any) any {
	switch js.Type {
	case "integer":
		switch val := v.(type) {
		case string, json.Number:
			if i, err := cast.ToInt64E(strings.TrimSpace(cast.ToString(val))); err == nil {
				return i
			}
		case float64:
			if val == math.Trunc(val) {
				return int64(val)
			}
		}
	case "number":
		switch v.(type) {
		case string, json.Number, int, int64, int32, uint, uint64:
			if f, err := cast.ToFloat64E(v); err == nil {
				return f
			}
		}
	case "boolean":
		if s, ok := v.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "yes", "on":
				return true
			case "no", "off":
				return false
			}
			if b, err := cast.ToBoolE(strings.TrimSpace(s)); err == nil {
				return b
			}
		}
	case "string":
		switch v.(type) {
		case int, int64, float64, bool, json.Number:
			return cast.ToString(v)
		}
	case "array":
		items := toList(v)
		if js.Items == nil {
			return items
		}
		for i, item := range items {
			items[i] = coerce(js.Items, item)
		}
		return items
	}
	return v
}

// toList turns a comma separated string into a list.
func toList(v any) []any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		copy(out, val)
		return out
	case string:
		if strings.TrimSpace(val) == "" {
			return []any{}
		}
		parts := strings.Split(val, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out
	default:
		return []any{v}
	}
}
