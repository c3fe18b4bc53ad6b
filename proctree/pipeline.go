package proctree

import (
	"procmon/process"
	"procmon/search"
)

// Options selects how a snapshot is filtered and ordered
type Options struct {
	Column process.Column
	Order  process.SortOrder
	Query  string
}

// Run builds, filters, sorts and flattens one snapshot
func Run(records []process.Record, opts Options) []process.DisplayRow {
	forest := Build(records)
	Filter(records, forest, search.Parse(opts.Query))
	forest.Sort(opts.Column, opts.Order)
	return Flatten(records, forest)
}
