package process_psutil

import (
	"context"
	"errors"
	"fmt"

	"procmon/process"

	psutil "github.com/shirou/gopsutil/v3/process"
)

// Signaller implements process.Terminator through gopsutil
type Signaller struct{}

// Terminate sends SIGTERM, or the platform equivalent
func (Signaller) Terminate(pid process.ProcessID) error {
	return signal(pid, "terminate", (*psutil.Process).TerminateWithContext)
}

// Kill sends SIGKILL, or the platform equivalent
func (Signaller) Kill(pid process.ProcessID) error {
	return signal(pid, "kill", (*psutil.Process).KillWithContext)
}

// signal delivers through send. A process that is already gone counts as success.
func signal(pid process.ProcessID, action string, send func(*psutil.Process, context.Context) error) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", process.ErrInvalidPID, pid)
	}

	ctx := context.Background()
	p, err := psutil.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		if errors.Is(err, psutil.ErrorProcessNotRunning) {
			return nil
		}
		return fmt.Errorf("failed to open process %d: %w", pid, err)
	}

	if err := send(p, ctx); err != nil {
		return fmt.Errorf("failed to %s process %d: %w", action, pid, err)
	}
	return nil
}
