// Package monitor periodically lists processes, runs them through the tree
// pipeline and publishes the resulting rows as immutable snapshots.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"procmon/process"
	"procmon/proctree"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// DefaultInterval is the time between automatic refreshes
const DefaultInterval = 3 * time.Second

var (
	// ErrEnumerate wraps a failure of the process source
	ErrEnumerate = errors.New("failed to enumerate processes")

	// ErrNoSuchRow is returned when a row index is outside the current snapshot
	ErrNoSuchRow = errors.New("no such row")

	// ErrNothingPending is returned when confirming without a request
	ErrNothingPending = errors.New("no termination pending")

	// ErrNoTerminator is returned when the monitor cannot deliver signals
	ErrNoTerminator = errors.New("no terminator configured")
)

// View selects how a snapshot is sorted and filtered
type View struct {
	Column process.Column
	Order  process.SortOrder
	Query  string
}

func (v View) options() proctree.Options {
	return proctree.Options{Column: v.Column, Order: v.Order, Query: v.Query}
}

// Snapshot is one published refresh. It is never modified after publication.
type Snapshot struct {
	Rows    []process.DisplayRow
	View    View
	TakenAt time.Time
	Total   int // processes listed before filtering
}

// Target identifies a process selected for termination
type Target struct {
	Name string
	ID   process.ProcessID
}

// Monitor owns the refresh loop
type Monitor struct {
	lister     process.Lister
	terminator process.Terminator
	interval   time.Duration
	log        *logger.Logger

	refresh  chan struct{}
	snapshot atomic.Pointer[Snapshot]

	mu      sync.Mutex
	view    View
	pending *Target
	subs    []chan *Snapshot
}

// Option configures a Monitor
type Option func(*Monitor)

// WithInterval sets the automatic refresh interval
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithView sets the initial view
func WithView(v View) Option {
	return func(m *Monitor) {
		v.Query = strings.TrimSpace(v.Query)
		m.view = v
	}
}

// WithTerminator enables ConfirmTerminate
func WithTerminator(t process.Terminator) Option {
	return func(m *Monitor) {
		m.terminator = t
	}
}

// New creates a Monitor reading from lister
func New(lister process.Lister, opts ...Option) *Monitor {
	m := &Monitor{
		lister:   lister,
		interval: DefaultInterval,
		log:      logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "monitor")),
		refresh:  make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Run refreshes immediately and then on every tick or Refresh call until ctx is done.
// Failed cycles are logged and retried on the next trigger.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Infoln("Monitor started, refreshing every", m.interval)
	defer m.log.Infoln("Monitor stopped")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		_ = m.Cycle(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-m.refresh:
		}
	}
}

// Refresh requests a cycle without waiting for the next tick. Requests made
// while one is already queued are merged.
func (m *Monitor) Refresh() {
	select {
	case m.refresh <- struct{}{}:
	default:
	}
}

// Cycle lists processes once and publishes a new snapshot. On failure the
// previous snapshot stays published.
func (m *Monitor) Cycle(ctx context.Context) error {
	records, err := m.lister.ListProcesses(ctx)
	if err != nil {
		m.log.Warn("Refresh failed, keeping previous snapshot: ", err)
		return fmt.Errorf("%w: %w", ErrEnumerate, err)
	}

	view := m.View()
	snap := &Snapshot{
		Rows:    proctree.Run(records, view.options()),
		View:    view,
		TakenAt: time.Now(),
		Total:   len(records),
	}
	m.publish(snap)

	return nil
}

func (m *Monitor) publish(snap *Snapshot) {
	m.snapshot.Store(snap)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
			// reader is behind, it will pick up the next one
		}
	}
}

// Snapshot returns the last published snapshot, or nil before the first cycle
func (m *Monitor) Snapshot() *Snapshot {
	return m.snapshot.Load()
}

// Subscribe returns a channel receiving every published snapshot that the
// reader keeps up with
func (m *Monitor) Subscribe() <-chan *Snapshot {
	ch := make(chan *Snapshot, 1)

	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	return ch
}

// View returns the current view
func (m *Monitor) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// SetView replaces the view and requests a refresh
func (m *Monitor) SetView(v View) {
	v.Query = strings.TrimSpace(v.Query)

	m.mu.Lock()
	m.view = v
	m.mu.Unlock()

	m.Refresh()
}

// SetSort changes the sort column and order
func (m *Monitor) SetSort(col process.Column, order process.SortOrder) {
	m.mu.Lock()
	m.view.Column = col
	m.view.Order = order
	m.mu.Unlock()

	m.Refresh()
}

// SetSearch changes the search query
func (m *Monitor) SetSearch(query string) {
	m.mu.Lock()
	m.view.Query = strings.TrimSpace(query)
	m.mu.Unlock()

	m.Refresh()
}

// RequestTerminate selects the process shown at index of the current snapshot
func (m *Monitor) RequestTerminate(index int) (Target, error) {
	snap := m.Snapshot()
	if snap == nil || index < 0 || index >= len(snap.Rows) {
		return Target{}, fmt.Errorf("%w: %d", ErrNoSuchRow, index)
	}

	row := snap.Rows[index].Process
	target := Target{Name: row.Name, ID: row.ID}

	m.mu.Lock()
	m.pending = &target
	m.mu.Unlock()

	return target, nil
}

// PendingTerminate reports the process awaiting confirmation
func (m *Monitor) PendingTerminate() (Target, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return Target{}, false
	}
	return *m.pending, true
}

// CancelTerminate drops the pending request
func (m *Monitor) CancelTerminate() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
}

// ConfirmTerminate sends SIGTERM to the pending process. The request is
// cleared only when the signal was delivered.
func (m *Monitor) ConfirmTerminate() (Target, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return Target{}, ErrNothingPending
	}
	if m.terminator == nil {
		return Target{}, ErrNoTerminator
	}

	target := *m.pending
	if err := m.terminator.Terminate(target.ID); err != nil {
		return target, fmt.Errorf("failed to terminate %s (%d): %w", target.Name, target.ID, err)
	}

	m.log.Infoln("Sent SIGTERM to", target.Name, target.ID)
	m.pending = nil
	m.Refresh()

	return target, nil
}
