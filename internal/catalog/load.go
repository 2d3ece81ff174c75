package catalog

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/agentx-labs/plugx/internal/manifest"
)

// maxParallelLoads bounds the number of manifests read at once.
const maxParallelLoads = 8

// Resolver turns a manifest entry point into a factory.
type Resolver[F any] func(ep manifest.EntryPoint, pkg Package) (F, error)

type binding[F any] struct {
	group string
	ext   Extension[F]
}

// LoadManifests reads every manifest found in sources, checks package
// requirements and registers the entry points through resolve. Manifests
// are read concurrently but registered in discovery order. Nothing is
// registered when any manifest fails.
func (c *Catalog[F]) LoadManifests(ctx context.Context, sources []Source, resolve Resolver[F]) ([]*manifest.Manifest, error) {
	paths := FindManifests(sources)
	manifests := make([]*manifest.Manifest, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := manifest.Load(path)
			if err != nil {
				return err
			}
			manifests[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading manifests: %w", err)
	}

	known, err := c.knownVersions(manifests)
	if err != nil {
		return nil, err
	}

	var bindings []binding[F]
	for _, m := range manifests {
		if err := m.CheckRequires(known); err != nil {
			return nil, fmt.Errorf("checking requirements of %s: %w", m.Path, err)
		}
		pkg := Package{Name: m.Package, Version: m.Version, Location: m.Location, Description: m.Description}
		for _, group := range m.Groups() {
			for _, ep := range m.EntryPoints[group] {
				f, err := resolve(ep, pkg)
				if err != nil {
					return nil, fmt.Errorf("binding %s/%s from %s: %w", group, ep.Name, m.Path, err)
				}
				bindings = append(bindings, binding[F]{group: group, ext: Extension[F]{Name: ep.Name, Package: pkg, Factory: f}})
			}
		}
	}

	for _, m := range manifests {
		c.RegisterPackage(Package{Name: m.Package, Version: m.Version, Location: m.Location, Description: m.Description})
	}
	for _, b := range bindings {
		c.Register(b.group, b.ext)
	}
	return manifests, nil
}

// knownVersions maps every package name to its version, rejecting packages
// declared by more than one manifest.
func (c *Catalog[F]) knownVersions(manifests []*manifest.Manifest) (map[string]*semver.Version, error) {
	known := make(map[string]*semver.Version)
	for _, p := range c.Packages() {
		v, _ := semver.NewVersion(p.Version)
		known[p.Name] = v
	}

	declared := make(map[string]string)
	for _, m := range manifests {
		if prev, dup := declared[m.Package]; dup {
			return nil, fmt.Errorf("package %s declared by both %s and %s", m.Package, prev, m.Path)
		}
		declared[m.Package] = m.Path

		v, err := m.SemVer()
		if err != nil {
			return nil, err
		}
		known[m.Package] = v
	}
	return known, nil
}
