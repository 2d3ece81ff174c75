// Package plugin loads configurable components into registries.
//
// Components are produced by factories contributed to extension point groups
// of a catalog. Loading a group runs a single pass: discover the group's
// extensions, keep the activated ones, build the aggregate schema of their
// configuration, complete and validate the configuration as a whole, then
// instantiate every component in (priority, name) order, injecting the
// services it depends on from the registry being populated.
//
// Composite factories produce a registry of their own, loaded from a child
// group and a nested configuration section. Selection factories load exactly
// one child chosen by a selector parameter.
package plugin
