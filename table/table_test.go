package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procmon/process"
)

func TestTableRender(t *testing.T) {
	tbl := NewTable(
		ColumnSpec{Header: "Name"},
		ColumnSpec{Header: "N", Align: AlignRight},
	)
	tbl.AddRow("alpha", "7")
	tbl.AddRow("b", "")
	tbl.AddRow("c", "123")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	want := "" +
		"Name    N\n" +
		"----- ---\n" +
		"alpha   7\n" +
		"b       -\n" +
		"c     123\n"
	assert.Equal(t, want, buf.String())
}

func TestTableMaxWidth(t *testing.T) {
	tbl := NewTable(ColumnSpec{Header: "Cmd", MaxWidth: 5})
	tbl.AddRow("/usr/bin/python3")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "/usr…", lines[2])
}

func TestTableFormatFuncKeepsAlignment(t *testing.T) {
	bold := func(s string) string { return "\033[1m" + s + "\033[0m" }
	tbl := NewTable(ColumnSpec{Header: "State", FormatFunc: bold}, ColumnSpec{Header: "X"})
	tbl.AddRow("Zombie", "1")
	tbl.AddRow("Idle", "2")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "\033[1mZombie\033[0m 1", lines[2])
	assert.Equal(t, "\033[1mIdle\033[0m   2", lines[3])
	assert.Equal(t, visibleLength(lines[2]), visibleLength(lines[3]))
}

func TestColorHelpersAreInvisible(t *testing.T) {
	for _, color := range []FormatFunc{ColorRed, ColorGreen, ColorYellow, ColorGray} {
		out := color("Zombie")
		assert.Contains(t, out, "Zombie")
		assert.NotEqual(t, "Zombie", out)
		assert.Equal(t, 6, visibleLength(out))
	}
}

func TestCellsIndentAndFormat(t *testing.T) {
	row := process.DisplayRow{
		Depth: 2,
		Process: process.Record{
			ID:          12,
			ParentID:    3,
			Name:        "bash",
			Command:     "bash -l",
			User:        "alice",
			CPUPercent:  3.14159,
			MemoryBytes: 2048,
			State:       process.StateRunning,
		},
	}

	cells := Cells(row)

	assert.Equal(t, []string{"        bash", "12", "3.1%", "2.00 KB", "3", "Running", "N/A", "alice", "bash -l"}, cells)
}

func TestRenderRows(t *testing.T) {
	rows := []process.DisplayRow{
		{Process: process.Record{ID: 1, Name: "init", User: "root", Command: "/sbin/init"}},
		{Process: process.Record{ID: 2, ParentID: 1, Name: "sshd", User: "root", Command: "sshd"}, Depth: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderRows(&buf, rows, RowOptions{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Name"))
	assert.True(t, strings.HasPrefix(lines[2], "init"))
	assert.True(t, strings.HasPrefix(lines[3], "    sshd"))
	assert.False(t, strings.HasPrefix(lines[3], "     sshd"))
	assert.NotContains(t, buf.String(), "\033[")
}

func TestRenderRowsNumbered(t *testing.T) {
	rows := []process.DisplayRow{
		{Process: process.Record{ID: 1, Name: "init"}},
		{Process: process.Record{ID: 2, ParentID: 1, Name: "sshd"}, Depth: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderRows(&buf, rows, RowOptions{Numbered: true}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "# Name"))
	assert.True(t, strings.HasPrefix(lines[2], "1 init"))
	assert.True(t, strings.HasPrefix(lines[3], "2     sshd"))
}
