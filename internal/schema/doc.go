// Package schema declares, completes and validates configuration sections.
//
// A Schema is a JSON Schema object reflected from a typed Go config struct
// (field names from `json` tags, defaults and constraints from `jsonschema`
// tags). Loading a section against a schema runs four steps: MergeDefaults
// fills absent parameters, Coerce converts textual values to the declared
// types, Validate reports every remaining problem at once, and Decode turns
// the section into the typed struct handed to a component.
package schema
