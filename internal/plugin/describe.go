package plugin

// Info describes one discovered component for reports.
type Info struct {
	// Level is the nesting depth, 0 for the components of the described
	// group.
	Level       int    `json:"level"`
	Priority    int    `json:"priority"`
	Activated   bool   `json:"activated"`
	Name        string `json:"name"`
	Package     string `json:"package"`
	Version     string `json:"version"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Describe lists every component of group known to cat in load order,
// activated or not. reg is the registry a load pass filled for group; it may
// be nil. The children of loaded composites and selections follow their
// parent one level deeper.
func Describe(cat *Catalog, group string, reg *Registry) []Info {
	return describe(cat, Order(cat.Discover(group)), reg, 0)
}

func describe(cat *Catalog, entries []Entry, reg *Registry, level int) []Info {
	var infos []Info
	for _, e := range entries {
		infos = append(infos, Info{
			Level:       level,
			Priority:    e.Factory.LoadPriority(),
			Activated:   reg != nil && reg.IsActivated(e.Name),
			Name:        e.Name,
			Package:     e.Package.Name,
			Version:     e.Package.Version,
			Location:    e.Package.Location,
			Description: e.Factory.Description(),
		})

		p, ok := asParent(e.Factory)
		if !ok || reg == nil {
			continue
		}
		inst, _ := reg.Get(e.Name)
		children := Order(cat.Discover(p.ChildGroup()))

		switch v := inst.(type) {
		case *Registry:
			infos = append(infos, describe(cat, children, v, level+1)...)
		case *Selection:
			for _, c := range children {
				if c.Name != v.Choice() {
					continue
				}
				info := describe(cat, []Entry{c}, nil, level+1)
				for i := range info {
					info[i].Activated = true
				}
				infos = append(infos, info...)
			}
		}
	}
	return infos
}
