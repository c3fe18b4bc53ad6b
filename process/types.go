package process

import "time"

// ProcessID represents a unique identifier for a process
type ProcessID int

// RootParent is the parent id of a process that has no parent in the snapshot
const RootParent ProcessID = 0

// Unknown is used for string fields that could not be read
const Unknown = "unknown"

// Record is one snapshot of a single process at refresh time
type Record struct {
	ID          ProcessID  // Process ID
	ParentID    ProcessID  // Parent Process ID, RootParent for roots
	Name        string     // Executable name
	Command     string     // Command line joined with spaces
	User        string     // Owning user name
	CPUPercent  float64    // Lifetime CPU usage
	MemoryBytes uint64     // Resident minus shared memory in bytes
	State       State      // Scheduler state
	StartTime   *time.Time // nil when the start time is not known
	FilesUsing  []string   // Paths of currently open files
}

// DisplayRow is a record positioned in the flattened tree
type DisplayRow struct {
	Process Record
	Depth   int
}
