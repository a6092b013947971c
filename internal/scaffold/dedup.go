package scaffold

import (
	"path"

	"planforge/internal/scan"
)

// DuplicatesToRemove applies the duplicate policy to a snapshot of the
// materialized tree and returns the entries to delete.
//
// Entries are grouped by basename. For a name the layout plans somewhere,
// root-level copies are removed unless the root is one of the planned
// locations. For a name the layout never mentions, a single copy is kept: the
// deepest one, ties broken by the lexically smallest path.
func DuplicatesToRemove(entries []scan.Entry, layout *Layout) []scan.Entry {
	var remove []scan.Entry
	groups := scan.GroupByName(entries)
	for _, name := range sortedGroupNames(groups) {
		group := groups[name]
		if len(group) < 2 {
			continue
		}
		expected := map[string]bool{}
		for _, f := range layout.FilesNamed(name) {
			expected[path.Dir(f)] = true
		}
		if len(expected) > 0 {
			if expected["."] {
				continue
			}
			for _, e := range group {
				if e.AtRoot() {
					remove = append(remove, e)
				}
			}
			continue
		}
		keep := group[0]
		for _, e := range group[1:] {
			if e.Depth > keep.Depth || (e.Depth == keep.Depth && e.Path < keep.Path) {
				keep = e
			}
		}
		for _, e := range group {
			if e.Path != keep.Path {
				remove = append(remove, e)
			}
		}
	}
	return remove
}

func sortedGroupNames(groups map[string][]scan.Entry) []string {
	m := make(map[string]bool, len(groups))
	for k := range groups {
		m[k] = true
	}
	return sortedKeys(m)
}
