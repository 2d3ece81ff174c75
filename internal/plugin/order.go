package plugin

import (
	"cmp"
	"slices"
)

// Order sorts entries by (priority, name) and removes duplicate names. When
// a name appears more than once, the later entry replaces the earlier one
// and takes its place at the end of the result.
func Order(entries []Entry) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.Factory.LoadPriority(), b.Factory.LoadPriority()),
			cmp.Compare(a.Name, b.Name),
		)
	})

	out := make([]Entry, 0, len(sorted))
	for _, e := range sorted {
		out = slices.DeleteFunc(out, func(prev Entry) bool { return prev.Name == e.Name })
		out = append(out, e)
	}
	return out
}

// conflicts returns the names contributed more than once, in order of
// first appearance.
func conflicts(entries []Entry) []string {
	seen := make(map[string]int, len(entries))
	var names []string
	for _, e := range entries {
		seen[e.Name]++
		if seen[e.Name] == 2 {
			names = append(names, e.Name)
		}
	}
	return names
}

func entryNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
