// Package process_psutil lists processes through gopsutil, for platforms
// or deployments where /proc is not directly readable.
package process_psutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"procmon/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/shirou/gopsutil/v3/host"
	psutil "github.com/shirou/gopsutil/v3/process"
)

// ticksPerSecond is the resolution used when converting gopsutil's second
// based times into ticks. Create times are reported in milliseconds.
const ticksPerSecond = 1000

// Lister implements process.Lister using gopsutil
type Lister struct {
	log *logger.Logger
}

// NewLister creates a gopsutil backed Lister
func NewLister() *Lister {
	return &Lister{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "psutil")),
	}
}

// ListProcesses snapshots every visible process. Memory is the resident set
// size as gopsutil does not report shared pages on every platform.
func (l *Lister) ListProcesses(ctx context.Context) ([]process.Record, error) {
	procs, err := psutil.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	sys := l.systemInfo(ctx)

	records := make([]process.Record, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := readProcess(ctx, p, sys)
		if err != nil {
			l.log.Debugln("Skipping process", p.Pid, err)
			continue
		}

		records = append(records, process.Ingest(raw, sys))
	}

	if len(records) == 0 {
		return nil, process.ErrNoProcesses
	}

	return records, nil
}

func (l *Lister) systemInfo(ctx context.Context) process.SystemInfo {
	sys := process.SystemInfo{
		PageSize:       1,
		TicksPerSecond: ticksPerSecond,
	}

	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		sys.UptimeSeconds = float64(uptime)
	} else {
		l.log.Debugln("Failed to read uptime:", err)
	}

	if boot, err := host.BootTimeWithContext(ctx); err == nil {
		sys.BootTime = bootTime(boot)
	} else {
		l.log.Debugln("Failed to read boot time:", err)
	}

	return sys
}

// readProcess fails only when the parent id is unreadable, which means the
// process is gone. Every other field degrades to its fallback.
func readProcess(ctx context.Context, p *psutil.Process, sys process.SystemInfo) (process.RawProcess, error) {
	ppid, err := p.PpidWithContext(ctx)
	if err != nil {
		return process.RawProcess{}, fmt.Errorf("failed to read parent: %w", err)
	}

	raw := process.RawProcess{
		PID:  process.ProcessID(p.Pid),
		PPID: process.ProcessID(ppid),
	}

	if exe, err := p.ExeWithContext(ctx); err == nil && exe != "" {
		raw.Name = filepath.Base(strings.TrimSuffix(exe, " (deleted)"))
	} else if name, err := p.NameWithContext(ctx); err == nil {
		raw.Name = name
	}
	raw.HasName = raw.Name != ""

	if args, err := p.CmdlineSliceWithContext(ctx); err == nil {
		raw.Command = args
		raw.HasCommand = true
	}

	if user, err := p.UsernameWithContext(ctx); err == nil {
		raw.User = user
		raw.HasUser = true
	}

	if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		raw.ResidentPages = mem.RSS
	}

	if times, err := p.TimesWithContext(ctx); err == nil && times != nil {
		raw.UTime = secondsToTicks(times.User)
		raw.STime = secondsToTicks(times.System)
	}

	if created, err := p.CreateTimeWithContext(ctx); err == nil {
		raw.StartTicks = startTicks(created, sys)
	}

	if status, err := p.StatusWithContext(ctx); err == nil {
		raw.StateCode = stateCode(status)
	}

	if files, err := p.OpenFilesWithContext(ctx); err == nil {
		raw.OpenFiles = openPaths(files)
	}

	return raw, nil
}

func bootTime(secs uint64) time.Time {
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(int64(secs), 0)
}

func secondsToTicks(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds * ticksPerSecond)
}

// startTicks converts a creation time in epoch milliseconds to ticks after boot
func startTicks(createdMillis int64, sys process.SystemInfo) uint64 {
	if sys.BootTime.IsZero() {
		return 0
	}
	offset := createdMillis - sys.BootTime.UnixMilli()
	if offset <= 0 {
		return 0
	}
	return uint64(offset) * ticksPerSecond / 1000
}

// stateCode maps gopsutil status names back to /proc state letters
func stateCode(status []string) byte {
	if len(status) == 0 {
		return 0
	}
	switch status[0] {
	case "running":
		return 'R'
	case "sleep":
		return 'S'
	case "blocked", "wait", "lock":
		return 'D'
	case "zombie":
		return 'Z'
	case "stop":
		return 'T'
	case "idle":
		return 'I'
	}
	return 0
}

func openPaths(files []psutil.OpenFilesStat) []string {
	var paths []string
	for _, f := range files {
		if filepath.IsAbs(f.Path) {
			paths = append(paths, filepath.Clean(f.Path))
		}
	}
	return paths
}
