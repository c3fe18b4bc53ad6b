package process

import "context"

// Lister enumerates every process visible to the caller.
// A failure for a single process must not fail the whole listing.
type Lister interface {
	ListProcesses(ctx context.Context) ([]Record, error)
}

// Terminator delivers termination signals to a process
type Terminator interface {
	// Terminate sends SIGTERM
	Terminate(pid ProcessID) error

	// Kill sends SIGKILL
	Kill(pid ProcessID) error
}
