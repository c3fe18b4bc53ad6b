package proctree

import (
	"procmon/process"
	"procmon/search"
)

// Filter prunes the forest to the records matching every predicate plus all
// of their ancestors. Predicates are applied in order, each narrowing the
// result of the previous one.
func Filter(records []process.Record, f *Forest, preds []search.Predicate) {
	if len(preds) == 0 {
		return
	}

	index := process.IndexByID(records)
	for _, p := range preds {
		keep := matching(records, p)
		addAncestors(records, index, keep)
		f.retain(keep)
	}
}

func matching(records []process.Record, p search.Predicate) map[process.ProcessID]struct{} {
	keep := make(map[process.ProcessID]struct{})
	for i := range records {
		if search.Match(&records[i], p) {
			keep[records[i].ID] = struct{}{}
		}
	}
	return keep
}

// addAncestors walks up from every kept record and keeps each ancestor.
// A walk stops at the root sentinel, at a parent missing from the snapshot
// and at a record whose chain was already walked, so cycles terminate.
func addAncestors(records []process.Record, index map[process.ProcessID]int, keep map[process.ProcessID]struct{}) {
	walked := make(map[process.ProcessID]struct{}, len(keep))

	matched := make([]process.ProcessID, 0, len(keep))
	for id := range keep {
		matched = append(matched, id)
	}

	for _, id := range matched {
		for {
			if _, done := walked[id]; done {
				break
			}
			walked[id] = struct{}{}

			i, ok := index[id]
			if !ok {
				break
			}
			parent := records[i].ParentID
			if parent == process.RootParent {
				break
			}
			keep[parent] = struct{}{}
			id = parent
		}
	}
}

func (f *Forest) retain(keep map[process.ProcessID]struct{}) {
	f.Roots = retained(f.Roots, keep)
	for parent, children := range f.Children {
		children = retained(children, keep)
		if len(children) == 0 {
			delete(f.Children, parent)
			continue
		}
		f.Children[parent] = children
	}
}

func retained(list []*process.Record, keep map[process.ProcessID]struct{}) []*process.Record {
	out := list[:0]
	for _, rec := range list {
		if _, ok := keep[rec.ID]; ok {
			out = append(out, rec)
		}
	}
	return out
}
