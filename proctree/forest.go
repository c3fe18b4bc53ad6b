// Package proctree turns a flat process snapshot into an ordered, indented
// display list: build the parent/child forest, filter it while keeping
// ancestors visible, sort every level and flatten it depth first.
package proctree

import "procmon/process"

// Forest is the parent/child view of a snapshot. It holds pointers into the
// record slice it was built from and never copies records.
type Forest struct {
	Roots    []*process.Record
	Children map[process.ProcessID][]*process.Record
}

// Build splits records into roots and a parent id to children map.
// Children whose parent is not in the snapshot stay in their bucket and are
// never reached from a root.
func Build(records []process.Record) *Forest {
	f := &Forest{
		Children: make(map[process.ProcessID][]*process.Record),
	}

	for i := range records {
		rec := &records[i]
		if rec.ParentID == process.RootParent {
			f.Roots = append(f.Roots, rec)
			continue
		}
		f.Children[rec.ParentID] = append(f.Children[rec.ParentID], rec)
	}

	return f
}

// Sort orders the roots and every children bucket
func (f *Forest) Sort(col process.Column, order process.SortOrder) {
	Sort(f.Roots, col, order)
	for _, children := range f.Children {
		Sort(children, col, order)
	}
}
