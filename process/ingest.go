package process

import (
	"strings"
	"time"
)

// RawProcess carries the values read for one process before conversion.
// The Has* flags are false when the corresponding read failed.
type RawProcess struct {
	PID        ProcessID
	PPID       ProcessID
	Name       string
	HasName    bool
	Command    []string
	HasCommand bool
	User       string
	HasUser    bool

	ResidentPages uint64
	SharedPages   uint64

	UTime      uint64 // clock ticks spent in user mode
	STime      uint64 // clock ticks spent in kernel mode
	StartTicks uint64 // clock ticks after boot when the process started

	StateCode byte
	OpenFiles []string
}

// SystemInfo holds machine-wide values needed to interpret a RawProcess
type SystemInfo struct {
	PageSize       uint64
	TicksPerSecond uint64
	UptimeSeconds  float64
	BootTime       time.Time // zero when not known
}

// Ingest converts a raw process into a Record
func Ingest(raw RawProcess, sys SystemInfo) Record {
	rec := Record{
		ID:          raw.PID,
		ParentID:    raw.PPID,
		Name:        Unknown,
		Command:     Unknown,
		User:        Unknown,
		CPUPercent:  CPUPercent(raw.UTime+raw.STime, raw.StartTicks, sys),
		MemoryBytes: MemoryBytes(raw.ResidentPages, raw.SharedPages, sys.PageSize),
		State:       StateFromCode(raw.StateCode),
		StartTime:   StartTime(raw.StartTicks, sys),
		FilesUsing:  raw.OpenFiles,
	}
	if raw.HasName && raw.Name != "" {
		rec.Name = raw.Name
	}
	if raw.HasCommand {
		rec.Command = strings.Join(raw.Command, " ")
	}
	if raw.HasUser && raw.User != "" {
		rec.User = raw.User
	}
	return rec
}

// CPUPercent is the process CPU time divided by its lifetime, scaled by ten.
// It is zero when the tick rate or the lifetime is not positive.
func CPUPercent(ticks, startTicks uint64, sys SystemInfo) float64 {
	if sys.TicksPerSecond == 0 {
		return 0
	}
	tps := float64(sys.TicksPerSecond)
	lifetime := sys.UptimeSeconds - float64(startTicks)/tps
	if lifetime <= 0 {
		return 0
	}
	return (float64(ticks) / tps) / lifetime * 10
}

// MemoryBytes returns resident minus shared pages in bytes, saturating at zero
func MemoryBytes(resident, shared, pageSize uint64) uint64 {
	if shared >= resident {
		return 0
	}
	return (resident - shared) * pageSize
}

// StartTime returns the wall clock start time or nil when the boot time is unknown
func StartTime(startTicks uint64, sys SystemInfo) *time.Time {
	if sys.BootTime.IsZero() || sys.TicksPerSecond == 0 {
		return nil
	}
	offset := time.Duration(float64(startTicks) / float64(sys.TicksPerSecond) * float64(time.Second))
	t := sys.BootTime.Add(offset).Local()
	return &t
}
