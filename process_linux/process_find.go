//go:build linux

package process_linux

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"procmon/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// DefaultRoot is where the process table is mounted
const DefaultRoot = "/proc"

// Lister implements process.Lister by reading a procfs mount
type Lister struct {
	root     string
	users    *userCache
	pageSize uint64
	ticks    uint64
	log      *logger.Logger
}

// Option configures a Lister
type Option func(*Lister)

// WithRoot reads the process table from path instead of /proc
func WithRoot(path string) Option {
	return func(l *Lister) {
		l.root = path
	}
}

// WithPasswd resolves user names from the given passwd file
func WithPasswd(path string) Option {
	return func(l *Lister) {
		l.users = newUserCache(path)
	}
}

// WithPageSize overrides the system page size
func WithPageSize(size uint64) Option {
	return func(l *Lister) {
		l.pageSize = size
	}
}

// WithTicksPerSecond overrides the kernel clock tick rate
func WithTicksPerSecond(ticks uint64) Option {
	return func(l *Lister) {
		l.ticks = ticks
	}
}

// NewLister creates a Lister reading /proc and /etc/passwd unless configured otherwise
func NewLister(options ...Option) *Lister {
	l := &Lister{
		root:  DefaultRoot,
		users: newUserCache(DefaultPasswd),
		log:   logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "procfs")),
	}

	for _, opt := range options {
		opt(l)
	}

	if l.pageSize == 0 {
		l.pageSize = pageSize()
	}
	if l.ticks == 0 {
		l.ticks = clockTicks()
	}

	return l
}

// ListProcesses reads every process under the root. Processes that vanish or
// cannot be read are skipped; failing to list the root itself is an error.
func (l *Lister) ListProcesses(ctx context.Context) ([]process.Record, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.root, err)
	}

	sys := l.systemInfo()
	l.users.refresh(l.log)

	records := make([]process.Record, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !entry.IsDir() {
			continue
		}

		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid <= 0 {
			// Not a PID directory
			continue
		}

		raw, err := l.readProcess(process.ProcessID(pid))
		if err != nil {
			// Process may have terminated while we were reading
			l.log.Debugln("Skipping process", pid, err)
			continue
		}

		records = append(records, process.Ingest(raw, sys))
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", l.root, process.ErrNoProcesses)
	}

	return records, nil
}

// readProcess gathers one process. Only the stat file is required; every
// other file falls back to an empty value.
func (l *Lister) readProcess(pid process.ProcessID) (process.RawProcess, error) {
	procPath := filepath.Join(l.root, strconv.Itoa(int(pid)))

	statBytes, err := os.ReadFile(filepath.Join(procPath, "stat"))
	if err != nil {
		return process.RawProcess{}, fmt.Errorf("failed to read process stat: %w", err)
	}

	raw, err := parseStat(statBytes)
	if err != nil {
		return process.RawProcess{}, err
	}
	raw.PID = pid

	// Prefer the executable name, kernel threads have none and keep comm
	if exe, err := os.Readlink(filepath.Join(procPath, "exe")); err == nil && exe != "" {
		raw.Name = filepath.Base(strings.TrimSuffix(exe, " (deleted)"))
	}
	raw.HasName = raw.Name != ""

	if cmdlineBytes, err := os.ReadFile(filepath.Join(procPath, "cmdline")); err == nil {
		raw.Command = splitCmdline(cmdlineBytes)
		raw.HasCommand = true
	}

	if statmBytes, err := os.ReadFile(filepath.Join(procPath, "statm")); err == nil {
		raw.ResidentPages, raw.SharedPages = parseStatm(statmBytes)
	}

	if statusBytes, err := os.ReadFile(filepath.Join(procPath, "status")); err == nil {
		if uid, ok := parseStatusUID(statusBytes); ok {
			raw.User, raw.HasUser = l.users.lookup(uid)
		}
	}

	raw.OpenFiles = openFiles(filepath.Join(procPath, "fd"))

	return raw, nil
}

// parseStat parses /proc/<pid>/stat. The command name is enclosed in
// parentheses and may itself contain spaces or parentheses, so the fields
// are split after the last ')'.
func parseStat(data []byte) (process.RawProcess, error) {
	var raw process.RawProcess

	open := bytes.IndexByte(data, '(')
	end := bytes.LastIndexByte(data, ')')
	if open < 0 || end < open {
		return raw, fmt.Errorf("invalid stat file format")
	}
	raw.Name = string(data[open+1 : end])

	// rest[0] is field 3 (state) of proc(5)
	rest := strings.Fields(string(data[end+1:]))
	if len(rest) < 20 {
		return raw, fmt.Errorf("insufficient fields in stat file: %d", len(rest))
	}

	if len(rest[0]) > 0 {
		raw.StateCode = rest[0][0]
	}

	ppid, err := strconv.Atoi(rest[1])
	if err != nil {
		return raw, fmt.Errorf("invalid ppid %q: %w", rest[1], err)
	}
	raw.PPID = process.ProcessID(ppid)

	raw.UTime, _ = strconv.ParseUint(rest[11], 10, 64)
	raw.STime, _ = strconv.ParseUint(rest[12], 10, 64)
	raw.StartTicks, _ = strconv.ParseUint(rest[19], 10, 64)

	return raw, nil
}

// parseStatm returns the resident and shared page counts
func parseStatm(data []byte) (resident, shared uint64) {
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return 0, 0
	}
	resident, _ = strconv.ParseUint(fields[1], 10, 64)
	shared, _ = strconv.ParseUint(fields[2], 10, 64)
	return resident, shared
}

// parseStatusUID extracts the real uid from /proc/<pid>/status
func parseStatusUID(data []byte) (int, bool) {
	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(key) != "Uid" {
			continue
		}
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return 0, false
		}
		uid, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, false
		}
		return uid, true
	}
	return 0, false
}

// splitCmdline splits the NUL separated command line
func splitCmdline(data []byte) []string {
	data = bytes.TrimRight(data, "\x00")
	if len(data) == 0 {
		return nil
	}

	var args []string
	for _, arg := range bytes.Split(data, []byte{0}) {
		args = append(args, string(arg))
	}
	return args
}

// openFiles resolves the fd directory to file paths, skipping sockets,
// pipes and anonymous inodes
func openFiles(fdPath string) []string {
	entries, err := os.ReadDir(fdPath)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		target, err := os.Readlink(filepath.Join(fdPath, entry.Name()))
		if err != nil || !filepath.IsAbs(target) {
			continue
		}
		files = append(files, filepath.Clean(target))
	}
	return files
}
