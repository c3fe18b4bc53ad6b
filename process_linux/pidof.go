//go:build linux

package process_linux

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"procmon/process"

	"golang.org/x/sys/unix"
)

// Signaller implements process.Terminator with kill(2)
type Signaller struct {
	root string
}

// NewSignaller creates a Signaller that checks liveness under root, or
// under /proc when root is empty
func NewSignaller(root string) *Signaller {
	if root == "" {
		root = DefaultRoot
	}
	return &Signaller{root: root}
}

// Signal sends sig to pid. A process that is already gone counts as success.
func (s *Signaller) Signal(pid process.ProcessID, sig unix.Signal) error {
	// kill(2) with 0 or a negative pid targets process groups
	if pid <= 0 {
		return fmt.Errorf("%w: %d", process.ErrInvalidPID, pid)
	}

	if err := unix.Kill(int(pid), sig); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
		return fmt.Errorf("failed to send %v to process %d: %w", unix.SignalName(sig), pid, err)
	}
	return nil
}

// Terminate sends SIGTERM
func (s *Signaller) Terminate(pid process.ProcessID) error {
	return s.Signal(pid, unix.SIGTERM)
}

// Kill sends SIGKILL
func (s *Signaller) Kill(pid process.ProcessID) error {
	return s.Signal(pid, unix.SIGKILL)
}

// WaitExit waits until the pid disappears or ctx is done.
// Returns true if the process exited.
func (s *Signaller) WaitExit(ctx context.Context, pid process.ProcessID) bool {
	tick := 25 * time.Millisecond
	for {
		if !s.exists(pid) {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(tick):
		}

		// back off up to 250ms to reduce pressure on /proc
		if tick < 250*time.Millisecond {
			tick += 10 * time.Millisecond
		}
	}
}

func (s *Signaller) exists(pid process.ProcessID) bool {
	_, err := os.Stat(filepath.Join(s.root, strconv.Itoa(int(pid))))
	if err == nil {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	// For transient errors (permission, EIO): fall back to kill 0
	return unix.Kill(int(pid), 0) == nil
}
