package proctree

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"procmon/process"
)

// Sort orders list in place by col. The sort is stable; Descending sorts
// ascending and then reverses, so tied records come out in the reverse of
// their ascending order.
func Sort(list []*process.Record, col process.Column, order process.SortOrder) {
	slices.SortStableFunc(list, compareBy(col))
	if order == process.Descending {
		slices.Reverse(list)
	}
}

func compareBy(col process.Column) func(a, b *process.Record) int {
	switch col {
	case process.ColumnID:
		return func(a, b *process.Record) int { return cmp.Compare(a.ID, b.ID) }
	case process.ColumnCPU:
		return func(a, b *process.Record) int { return cmp.Compare(cpuKey(a), cpuKey(b)) }
	case process.ColumnMemory:
		return func(a, b *process.Record) int { return cmp.Compare(a.MemoryBytes, b.MemoryBytes) }
	case process.ColumnParentID:
		return func(a, b *process.Record) int { return cmp.Compare(a.ParentID, b.ParentID) }
	case process.ColumnState:
		return func(a, b *process.Record) int { return cmp.Compare(a.State, b.State) }
	case process.ColumnStartTime:
		return compareStartTime
	case process.ColumnUser:
		return func(a, b *process.Record) int { return cmpFold(a.User, b.User) }
	case process.ColumnCommand:
		return func(a, b *process.Record) int { return cmpFold(a.Command, b.Command) }
	default:
		return func(a, b *process.Record) int { return cmpFold(a.Name, b.Name) }
	}
}

// cpuKey rounds to two decimals so nearly equal values compare as ties
func cpuKey(r *process.Record) int64 {
	return int64(math.Round(r.CPUPercent * 100))
}

// compareStartTime orders a missing start time before any known one
func compareStartTime(a, b *process.Record) int {
	switch {
	case a.StartTime == nil && b.StartTime == nil:
		return 0
	case a.StartTime == nil:
		return -1
	case b.StartTime == nil:
		return 1
	}
	return a.StartTime.Compare(*b.StartTime)
}

func cmpFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
