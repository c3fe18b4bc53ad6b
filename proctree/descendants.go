package proctree

import (
	"slices"

	"procmon/process"
)

// Descendants returns every process below pid, ordered so that each process
// comes before its parent. pid itself is not included.
func Descendants(f *Forest, pid process.ProcessID) []process.ProcessID {
	visited := map[process.ProcessID]struct{}{pid: {}}
	stack := []process.ProcessID{pid}

	var order []process.ProcessID
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range f.Children[id] {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			order = append(order, child.ID)
			stack = append(stack, child.ID)
		}
	}

	// parents were recorded before their children
	slices.Reverse(order)
	return order
}
