// Package cli defines the Cobra command tree of the plugx CLI. Each file
// registers one top-level command with the root command. Commands resolve
// their collaborators through the di runtime and only handle flags and
// output formatting.
package cli
