package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"procmon/humanize"
	"procmon/process"
	"procmon/search"
)

// IndentWidth is the number of spaces a name is shifted per tree level
const IndentWidth = 4

// RowOptions controls how process rows are rendered
type RowOptions struct {
	Color      bool
	MaxCommand int  // 0 means unlimited
	Numbered   bool // prefix each row with its 1-based position
}

// ProcessColumns returns the column layout for process rows in display order
func ProcessColumns(opts RowOptions) []ColumnSpec {
	cols := make([]ColumnSpec, 0, len(process.Columns)+1)
	if opts.Numbered {
		cols = append(cols, ColumnSpec{Header: "#", Align: AlignRight})
	}
	for _, c := range process.Columns {
		spec := ColumnSpec{Header: c.String()}
		switch c {
		case process.ColumnID, process.ColumnParentID, process.ColumnCPU, process.ColumnMemory:
			spec.Align = AlignRight
		case process.ColumnState:
			if opts.Color {
				spec.FormatFunc = colorState
			}
		case process.ColumnCommand:
			spec.MaxWidth = opts.MaxCommand
		}
		cols = append(cols, spec)
	}
	return cols
}

// Cells renders one row's fields in process.Columns order
func Cells(row process.DisplayRow) []string {
	p := row.Process
	cells := make([]string, 0, len(process.Columns))
	for _, c := range process.Columns {
		switch c {
		case process.ColumnName:
			cells = append(cells, strings.Repeat(" ", row.Depth*IndentWidth)+p.Name)
		case process.ColumnID:
			cells = append(cells, strconv.Itoa(int(p.ID)))
		case process.ColumnCPU:
			cells = append(cells, fmt.Sprintf("%.1f%%", p.CPUPercent))
		case process.ColumnMemory:
			cells = append(cells, humanize.Bytes(p.MemoryBytes))
		case process.ColumnParentID:
			cells = append(cells, strconv.Itoa(int(p.ParentID)))
		case process.ColumnState:
			cells = append(cells, p.State.String())
		case process.ColumnStartTime:
			cells = append(cells, search.FieldText(&p, "starttime"))
		case process.ColumnUser:
			cells = append(cells, p.User)
		case process.ColumnCommand:
			cells = append(cells, p.Command)
		}
	}
	return cells
}

// RenderRows writes rows as an aligned table
func RenderRows(w io.Writer, rows []process.DisplayRow, opts RowOptions) error {
	t := NewTable(ProcessColumns(opts)...)
	for i, row := range rows {
		cells := Cells(row)
		if opts.Numbered {
			cells = append([]string{strconv.Itoa(i + 1)}, cells...)
		}
		t.AddRow(cells...)
	}
	return t.Render(w)
}

func colorState(s string) string {
	switch s {
	case process.StateRunning.String():
		return ColorGreen(s)
	case process.StateZombie.String(), process.StateDead.String():
		return ColorRed(s)
	case process.StateStopped.String(), process.StateTracing.String():
		return ColorYellow(s)
	case process.StateIdle.String(), process.StateUnknown.String():
		return ColorGray(s)
	}
	return s
}
