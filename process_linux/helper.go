//go:build linux

package process_linux

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"procmon/process"

	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

// defaultClockTicks is USER_HZ on every mainstream architecture
const defaultClockTicks = 100

func pageSize() uint64 {
	return uint64(unix.Getpagesize())
}

func clockTicks() uint64 {
	ticks, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || ticks <= 0 {
		return defaultClockTicks
	}
	return uint64(ticks)
}

// systemInfo reads uptime and boot time from the root. Missing values stay
// zero, which turns CPU usage and start times into their fallbacks.
func (l *Lister) systemInfo() process.SystemInfo {
	sys := process.SystemInfo{
		PageSize:       l.pageSize,
		TicksPerSecond: l.ticks,
	}

	if data, err := os.ReadFile(filepath.Join(l.root, "uptime")); err == nil {
		sys.UptimeSeconds = parseUptime(data)
	} else {
		l.log.Debugln("Failed to read uptime:", err)
	}

	if data, err := os.ReadFile(filepath.Join(l.root, "stat")); err == nil {
		sys.BootTime = parseBootTime(data)
	} else {
		l.log.Debugln("Failed to read boot time:", err)
	}

	return sys
}

// parseUptime reads the first value of /proc/uptime
func parseUptime(data []byte) float64 {
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	uptime, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return uptime
}

// parseBootTime reads the btime line of /proc/stat
func parseBootTime(data []byte) time.Time {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 || fields[0] != "btime" {
			continue
		}
		secs, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return time.Time{}
		}
		return time.Unix(secs, 0)
	}
	return time.Time{}
}
