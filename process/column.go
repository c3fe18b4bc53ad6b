package process

import (
	"fmt"
	"strings"
)

// Column selects the field a process list is ordered by
type Column int

const (
	ColumnName Column = iota
	ColumnID
	ColumnCPU
	ColumnMemory
	ColumnParentID
	ColumnState
	ColumnStartTime
	ColumnUser
	ColumnCommand
)

// Columns lists every column in display order
var Columns = []Column{
	ColumnName,
	ColumnID,
	ColumnCPU,
	ColumnMemory,
	ColumnParentID,
	ColumnState,
	ColumnStartTime,
	ColumnUser,
	ColumnCommand,
}

var columnHeaders = [...]string{
	ColumnName:      "Name",
	ColumnID:        "ID",
	ColumnCPU:       "CPU",
	ColumnMemory:    "Memory",
	ColumnParentID:  "ParentID",
	ColumnState:     "State",
	ColumnStartTime: "StartTime",
	ColumnUser:      "User",
	ColumnCommand:   "Command",
}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnHeaders) {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnHeaders[c]
}

// ParseColumn resolves a column name case-insensitively. pid and ppid are accepted as aliases.
func ParseColumn(s string) (Column, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "pid":
		return ColumnID, nil
	case "ppid":
		return ColumnParentID, nil
	}
	for _, c := range Columns {
		if strings.ToLower(c.String()) == key {
			return c, nil
		}
	}
	return ColumnName, fmt.Errorf("unknown column %q", s)
}

// SortOrder is the direction of a sort
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseSortOrder accepts asc, ascending, desc and descending
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort order %q", s)
}
