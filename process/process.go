// Package process defines the process record model shared by the sources,
// the tree pipeline and the renderers.
package process

import "errors"

var (
	// ErrNoProcesses is returned when a source lists nothing at all, which
	// usually means the process table is not readable.
	ErrNoProcesses = errors.New("no processes listed")

	// ErrInvalidPID is returned for pids that cannot name a process.
	ErrInvalidPID = errors.New("invalid pid")
)

// IndexByID maps each process id to its position in records
func IndexByID(records []Record) map[ProcessID]int {
	index := make(map[ProcessID]int, len(records))
	for i := range records {
		index[records[i].ID] = i
	}
	return index
}
