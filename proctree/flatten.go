package proctree

import "procmon/process"

type stackItem struct {
	id    process.ProcessID
	depth int
}

// Flatten walks the forest depth first with an explicit stack and returns the
// rows in display order: every parent directly precedes its subtree and
// siblings keep the order of their slice. Ids that cannot be resolved back to
// a record are skipped.
func Flatten(records []process.Record, f *Forest) []process.DisplayRow {
	index := process.IndexByID(records)

	stack := make([]stackItem, 0, len(f.Roots))
	for i := len(f.Roots) - 1; i >= 0; i-- {
		stack = append(stack, stackItem{id: f.Roots[i].ID})
	}

	rows := make([]process.DisplayRow, 0, len(records))
	visited := make(map[process.ProcessID]struct{}, len(records))

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[node.id]; seen {
			continue
		}
		visited[node.id] = struct{}{}

		if i, ok := index[node.id]; ok {
			rows = append(rows, process.DisplayRow{Process: records[i], Depth: node.depth})
		}

		children := f.Children[node.id]
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, stackItem{id: children[i].ID, depth: node.depth + 1})
		}
	}

	return rows
}
