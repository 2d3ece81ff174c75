// Package manifest handles parsing and validation of plugx extension
// manifests. A manifest (plugx.yaml) describes one extension package and the
// entry points it contributes to named groups. It is validated against the
// embedded JSON schema before being parsed.
package manifest
