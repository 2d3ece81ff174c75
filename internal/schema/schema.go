package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/invopop/jsonschema"
	"go.yaml.in/yaml/v3"
)

// Schema describes the parameters of one configuration section.
type Schema struct {
	js *jsonschema.Schema
}

var reflector = &jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
	ExpandedStruct:            true,
	Mapper:                    typeMapper,
}

// typeMapper keeps durations human readable ("30s", "5m").
func typeMapper(t reflect.Type) *jsonschema.Schema {
	if t == reflect.TypeFor[time.Duration]() {
		return &jsonschema.Schema{
			Type:    "string",
			Pattern: "^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$",
		}
	}
	return nil
}

// New returns an empty object schema that accepts any parameter.
func New() *Schema {
	return &Schema{js: &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}}
}

// Reflect builds a schema from the struct (or pointer to struct) v. Unknown
// parameters are rejected. Any other kind of value yields New().
func Reflect(v any) *Schema {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct || t.Name() == "" {
		return New()
	}
	js := reflector.ReflectFromType(t)
	js.Version = ""
	js.ID = ""
	if js.Properties == nil {
		js.Properties = jsonschema.NewProperties()
	}
	return &Schema{js: js}
}

// For is Reflect for the type parameter T.
func For[T any]() *Schema {
	var zero T
	return Reflect(&zero)
}

// Boolean returns a boolean parameter with a default value.
func Boolean(def bool) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Default: def}
}

// String returns a string parameter restricted to choices when any are given.
func String(choices ...string) *jsonschema.Schema {
	js := &jsonschema.Schema{Type: "string"}
	for _, c := range choices {
		js.Enum = append(js.Enum, c)
	}
	return js
}

// JSON exposes the underlying JSON Schema document.
func (s *Schema) JSON() *jsonschema.Schema {
	return s.js
}

// Clone returns a copy that can be modified without affecting s.
func (s *Schema) Clone() *Schema {
	return &Schema{js: cloneJS(s.js)}
}

func cloneJS(js *jsonschema.Schema) *jsonschema.Schema {
	if js == nil {
		return nil
	}
	c := *js
	c.Required = slices.Clone(js.Required)
	c.Items = cloneJS(js.Items)
	if js.Properties != nil {
		c.Properties = jsonschema.NewProperties()
		for pair := js.Properties.Oldest(); pair != nil; pair = pair.Next() {
			c.Properties.Set(pair.Key, cloneJS(pair.Value))
		}
	}
	return &c
}

// Set declares (or replaces) the parameter name.
func (s *Schema) Set(name string, prop *jsonschema.Schema) *Schema {
	s.js.Properties.Set(name, prop)
	return s
}

// Require marks the given parameters as mandatory.
func (s *Schema) Require(names ...string) *Schema {
	for _, name := range names {
		if !slices.Contains(s.js.Required, name) {
			s.js.Required = append(s.js.Required, name)
		}
	}
	return s
}

// Nest declares a sub-section called name described by child.
func (s *Schema) Nest(name string, child *Schema) *Schema {
	return s.Set(name, child.js)
}

// Property returns the parameter or sub-section called name.
func (s *Schema) Property(name string) (*jsonschema.Schema, bool) {
	return s.js.Properties.Get(name)
}

// Section returns the sub-section called name.
func (s *Schema) Section(name string) (*Schema, bool) {
	prop, ok := s.js.Properties.Get(name)
	if !ok || !isObject(prop) {
		return nil, false
	}
	return &Schema{js: prop}, true
}

// Properties returns the declared names in declaration order.
func (s *Schema) Properties() []string {
	names := make([]string, 0, s.js.Properties.Len())
	for pair := s.js.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Merge returns a copy of s extended with the parameters of other. On a
// name clash the parameter of other wins.
func (s *Schema) Merge(other *Schema) *Schema {
	out := s.Clone()
	if other == nil {
		return out
	}
	for pair := other.js.Properties.Oldest(); pair != nil; pair = pair.Next() {
		out.js.Properties.Set(pair.Key, cloneJS(pair.Value))
	}
	out.Require(other.js.Required...)
	return out
}

// Open returns a copy of s that accepts parameters it does not declare.
func (s *Schema) Open() *Schema {
	out := s.Clone()
	out.js.AdditionalProperties = nil
	return out
}

// WithActivated returns a copy of s carrying the reserved activation flag.
func (s *Schema) WithActivated(def bool) *Schema {
	return s.Clone().Set("activated", Boolean(def))
}

// MarshalJSON implements json.Marshaler.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.js)
}

// Document returns s as a standalone, indented JSON Schema document.
func (s *Schema) Document() ([]byte, error) {
	doc := cloneJS(s.js)
	doc.Version = jsonschema.Version
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return data, nil
}

// YAML returns the schema rendered as YAML.
func (s *Schema) YAML() ([]byte, error) {
	data, err := json.Marshal(s.js)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("converting schema to YAML: %w", err)
	}
	blockStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("converting schema to YAML: %w", err)
	}
	return out, nil
}

// blockStyle drops the JSON flow and quoting styles kept by the decoder.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func isObject(js *jsonschema.Schema) bool {
	return js != nil && js.Type == "object" && js.Properties != nil
}
