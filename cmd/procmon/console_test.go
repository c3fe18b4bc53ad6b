package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procmon/config"
	"procmon/monitor"
	"procmon/process"
)

type stubSource struct {
	records []process.Record
}

func (s stubSource) ListProcesses(ctx context.Context) ([]process.Record, error) {
	out := make([]process.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

type stubTerminator struct {
	mu         sync.Mutex
	terminated []process.ProcessID
	sent       chan process.ProcessID
}

func (s *stubTerminator) Terminate(pid process.ProcessID) error {
	s.mu.Lock()
	s.terminated = append(s.terminated, pid)
	s.mu.Unlock()
	if s.sent != nil {
		s.sent <- pid
	}
	return nil
}

func (s *stubTerminator) Kill(pid process.ProcessID) error {
	return errors.New("unexpected kill")
}

func stubRecords() []process.Record {
	return []process.Record{
		{ID: 1, ParentID: process.RootParent, Name: "init", Command: "/sbin/init", User: "root"},
		{ID: 20, ParentID: 1, Name: "sshd", Command: "/usr/sbin/sshd", User: "root"},
		{ID: 30, ParentID: 20, Name: "bash", Command: "-bash", User: "alice"},
		{ID: 40, ParentID: 1, Name: "cron", Command: "/usr/sbin/cron", User: "root"},
	}
}

func newTestConsole(t *testing.T, term process.Terminator) *console {
	t.Helper()
	m := monitor.New(stubSource{records: stubRecords()}, monitor.WithTerminator(term))
	require.NoError(t, m.Cycle(context.Background()))
	return &console{m: m}
}

func shownIDs(t *testing.T, c *console) []process.ProcessID {
	t.Helper()
	require.NoError(t, c.m.Cycle(context.Background()))
	var ids []process.ProcessID
	for _, row := range c.m.Snapshot().Rows {
		ids = append(ids, row.Process.ID)
	}
	return ids
}

func TestConsoleSearch(t *testing.T) {
	c := newTestConsole(t, nil)

	assert.Empty(t, c.handle("/ @user alice"))
	assert.Equal(t, "@user alice", c.m.View().Query)
	assert.Equal(t, []process.ProcessID{1, 20, 30}, shownIDs(t, c))

	assert.Empty(t, c.handle("/"))
	assert.Equal(t, "", c.m.View().Query)
	assert.Len(t, shownIDs(t, c), 4)
}

func TestConsoleSort(t *testing.T) {
	c := newTestConsole(t, nil)

	assert.Empty(t, c.handle("sort pid desc"))
	assert.Equal(t, process.ColumnID, c.m.View().Column)
	assert.Equal(t, process.Descending, c.m.View().Order)
	assert.Equal(t, []process.ProcessID{1, 40, 20, 30}, shownIDs(t, c))

	assert.Empty(t, c.handle("SORT name"))
	assert.Equal(t, process.Ascending, c.m.View().Order)

	assert.Contains(t, c.handle("sort size"), "size")
	assert.Contains(t, c.handle("sort name sideways"), "sideways")
	assert.Contains(t, c.handle("sort"), "usage")
	assert.Equal(t, process.ColumnName, c.m.View().Column)
}

func TestConsoleTerminateFlow(t *testing.T) {
	term := &stubTerminator{}
	c := newTestConsole(t, term)

	// rows by name: init, cron, sshd, bash
	assert.Empty(t, c.handle("kill 3"))
	assert.Equal(t, "terminate sshd (20)? y/n", c.header(""))

	assert.Equal(t, "cancelled", c.handle("n"))
	assert.Empty(t, c.header(""))
	assert.Empty(t, term.terminated)

	assert.Empty(t, c.handle("kill 4"))
	assert.Equal(t, "sent SIGTERM to bash (30)", c.handle("y"))
	assert.Equal(t, []process.ProcessID{30}, term.terminated)
	assert.Empty(t, c.header(""))

	assert.Contains(t, c.handle("y"), monitor.ErrNothingPending.Error())
}

func TestConsoleRejectsBadRows(t *testing.T) {
	c := newTestConsole(t, &stubTerminator{})

	assert.Contains(t, c.handle("kill 0"), monitor.ErrNoSuchRow.Error())
	assert.Contains(t, c.handle("kill 5"), monitor.ErrNoSuchRow.Error())
	assert.Contains(t, c.handle("kill two"), "invalid row")
	assert.Contains(t, c.handle("kill"), "usage")

	_, pending := c.m.PendingTerminate()
	assert.False(t, pending)
}

func TestConsoleUnknownCommand(t *testing.T) {
	c := newTestConsole(t, nil)

	assert.Contains(t, c.handle("frobnicate"), `unknown command "frobnicate"`)
	assert.Equal(t, consoleHelp, c.handle("help"))
	assert.Equal(t, "kill 2 failed", c.header("kill 2 failed"))
}

func TestTopCommandDrivesMonitor(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	term := &stubTerminator{sent: make(chan process.ProcessID, 1)}
	openSource = func(cfg *config.Config) (process.Lister, process.Terminator, error) {
		return stubSource{records: stubRecords()}, term, nil
	}
	t.Cleanup(func() { openSource = newSource })

	var out lockedBuffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("kill 3\ny\n"))
	cmd.SetArgs([]string{"top", "--color=false", "--interval", "1h"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(ctx)
	}()

	// rows by name: init, cron, sshd, bash
	select {
	case pid := <-term.sent:
		assert.Equal(t, process.ProcessID(20), pid)
	case <-time.After(5 * time.Second):
		t.Fatal("termination was not confirmed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("top did not stop")
	}

	assert.Contains(t, out.String(), "sshd")
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
