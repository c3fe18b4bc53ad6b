// Package table renders aligned text tables and the flattened process list.
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// FormatFunc is a callback to format/colorize cell values
type FormatFunc func(value string) string

// Align selects the side a cell is padded on
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// ColumnSpec defines a column's properties
type ColumnSpec struct {
	Header     string
	BlankValue string     // Value to show for empty cells (default: "-")
	FormatFunc FormatFunc // Optional formatter/colorizer, applied after width is computed
	MinWidth   int        // Minimum column width
	MaxWidth   int        // Cells longer than this are cut, 0 means unlimited
	Align      Align
}

// Table represents a formatted table
type Table struct {
	columns []ColumnSpec
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with the given column specifications
func NewTable(cols ...ColumnSpec) *Table {
	t := &Table{
		columns: cols,
		widths:  make([]int, len(cols)),
	}

	for i, col := range cols {
		t.widths[i] = max(col.MinWidth, visibleLength(col.Header))
		if t.columns[i].BlankValue == "" {
			t.columns[i].BlankValue = "-"
		}
	}

	return t
}

// AddRow adds a row of data to the table. Missing cells get the column's blank value.
func (t *Table) AddRow(data ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		val := ""
		if i < len(data) {
			val = data[i]
		}
		if val == "" {
			val = t.columns[i].BlankValue
		}
		if limit := t.columns[i].MaxWidth; limit > 0 {
			val = truncate(val, limit)
		}

		row[i] = val
		if l := visibleLength(val); l > t.widths[i] {
			t.widths[i] = l
		}
	}

	t.rows = append(t.rows, row)
}

// Render writes the header, a separator line and every row to w
func (t *Table) Render(w io.Writer) error {
	headers := make([]string, len(t.columns))
	sep := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = t.pad(col.Header, i, col.Align)
		sep[i] = strings.Repeat("-", t.widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(headers, " "), " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(sep, " ")); err != nil {
		return err
	}

	for _, row := range t.rows {
		formatted := make([]string, len(row))
		for i, val := range row {
			padded := t.pad(val, i, t.columns[i].Align)
			if f := t.columns[i].FormatFunc; f != nil {
				// colorize only the text, keep the padding outside escape codes
				trimmed := strings.TrimSpace(padded)
				padded = strings.Replace(padded, trimmed, f(trimmed), 1)
			}
			formatted[i] = padded
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(formatted, " "), " ")); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) pad(s string, col int, align Align) string {
	n := t.widths[col] - visibleLength(s)
	if n <= 0 {
		return s
	}
	if align == AlignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// visibleLength counts runes, skipping ANSI escape sequences
func visibleLength(s string) int {
	length := 0
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			length++
		}
	}
	return length
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// ColorRed and the helpers below are FormatFuncs for common highlights
func ColorRed(s string) string {
	return coloransi.Foreground(coloransi.Red, s)
}

func ColorGreen(s string) string {
	return coloransi.Foreground(coloransi.Green, s)
}

func ColorYellow(s string) string {
	return coloransi.Foreground(coloransi.Yellow, s)
}

func ColorGray(s string) string {
	return coloransi.Foreground(coloransi.BrightBlack, s)
}
