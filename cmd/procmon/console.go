package main

import (
	"fmt"
	"strconv"
	"strings"

	"procmon/monitor"
	"procmon/process"
)

const consoleHelp = `commands: <enter> refresh, / <query> search, sort <column> [asc|desc], kill <row>, y confirm, n cancel`

// console turns lines typed into top into monitor calls
type console struct {
	m *monitor.Monitor
}

// handle runs one input line and returns a status message for the header
func (c *console) handle(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		c.m.Refresh()
		return ""
	}

	if query, ok := strings.CutPrefix(line, "/"); ok {
		c.m.SetSearch(query)
		return ""
	}

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "sort":
		return c.sort(fields[1:])
	case "kill":
		return c.requestTerminate(fields[1:])
	case "y", "yes":
		target, err := c.m.ConfirmTerminate()
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("sent SIGTERM to %s (%d)", target.Name, target.ID)
	case "n", "no":
		c.m.CancelTerminate()
		return "cancelled"
	case "help", "?":
		return consoleHelp
	}
	return fmt.Sprintf("unknown command %q, %s", fields[0], consoleHelp)
}

func (c *console) sort(args []string) string {
	if len(args) == 0 || len(args) > 2 {
		return "usage: sort <column> [asc|desc]"
	}

	col, err := process.ParseColumn(args[0])
	if err != nil {
		return err.Error()
	}

	order := process.Ascending
	if len(args) == 2 {
		if order, err = process.ParseSortOrder(args[1]); err != nil {
			return err.Error()
		}
	}

	c.m.SetSort(col, order)
	return ""
}

// requestTerminate takes the 1-based row number shown in the table
func (c *console) requestTerminate(args []string) string {
	if len(args) != 1 {
		return "usage: kill <row>"
	}

	row, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("invalid row %q", args[0])
	}

	if _, err := c.m.RequestTerminate(row - 1); err != nil {
		return err.Error()
	}
	return ""
}

// header describes the pending termination, if any, followed by status
func (c *console) header(status string) string {
	var parts []string
	if target, ok := c.m.PendingTerminate(); ok {
		parts = append(parts, fmt.Sprintf("terminate %s (%d)? y/n", target.Name, target.ID))
	}
	if status != "" {
		parts = append(parts, status)
	}
	return strings.Join(parts, "  ")
}
