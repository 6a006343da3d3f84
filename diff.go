package tardelta

import "slices"

// Manifest records which paths differ between two archives. It is the sole
// persisted description of the diff, serialized as JSON into the delta
// archive's first entry.
//
// The three sets are pairwise disjoint: changed paths exist in both archives
// with differing fingerprints, added paths only in the new archive, removed
// paths only in the old. Unchanged paths appear nowhere.
type Manifest struct {
	Changed []string `json:"changed"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// ComputeDiff classifies every path of the two indexes. The returned
// manifest's path lists are sorted lexicographically so that serialized
// output is reproducible across runs; they are empty, never nil, so the
// JSON form always carries three arrays.
func ComputeDiff(oldIdx, newIdx Index) *Manifest {
	m := &Manifest{
		Changed: []string{},
		Added:   []string{},
		Removed: []string{},
	}
	for path, newFP := range newIdx {
		oldFP, ok := oldIdx[path]
		switch {
		case !ok:
			m.Added = append(m.Added, path)
		case newFP != oldFP:
			m.Changed = append(m.Changed, path)
		}
	}
	for path := range oldIdx {
		if _, ok := newIdx[path]; !ok {
			m.Removed = append(m.Removed, path)
		}
	}
	slices.Sort(m.Changed)
	slices.Sort(m.Added)
	slices.Sort(m.Removed)
	return m
}

// pathSet builds a membership set over the given path lists.
func pathSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, p := range list {
			set[p] = struct{}{}
		}
	}
	return set
}
