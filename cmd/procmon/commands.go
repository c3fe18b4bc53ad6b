package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"procmon/config"
	"procmon/monitor"
	"procmon/process"
	"procmon/proctree"
	"procmon/table"

	"github.com/spf13/cobra"
)

const (
	maxCommandWidth = 80
	clearScreen     = "\033[H\033[2J"
)

// openSource is replaced in tests
var openSource = newSource

// waiter is implemented by terminators that can observe process exit
type waiter interface {
	WaitExit(ctx context.Context, pid process.ProcessID) bool
}

func viewOf(cfg *config.Config) monitor.View {
	return monitor.View{Column: cfg.Sort, Order: cfg.Order, Query: cfg.Search}
}

func rowOptions(cfg *config.Config) table.RowOptions {
	return table.RowOptions{Color: cfg.Color, MaxCommand: maxCommandWidth}
}

func newPsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ps",
		Short: "Print one snapshot of the process tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lister, _, err := openSource(a.cfg)
			if err != nil {
				return err
			}

			m := monitor.New(lister, monitor.WithView(viewOf(a.cfg)))
			if err := m.Cycle(cmd.Context()); err != nil {
				return err
			}

			return table.RenderRows(cmd.OutOrStdout(), m.Snapshot().Rows, rowOptions(a.cfg))
		},
	}
}

func newTopCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Continuously display the process tree",
		Long: `Redraws the process tree on every refresh interval. Type a command and
press Enter:

  <enter>                  refresh now
  / <query>                search, e.g. "/ @user root, @name ssh"; "/" clears
  sort <column> [asc|desc] change the sort
  kill <row>               select the process on that row for SIGTERM
  y / n                    confirm or cancel the selection

Ctrl-C quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lister, terminator, err := openSource(a.cfg)
			if err != nil {
				return err
			}

			m := monitor.New(lister,
				monitor.WithInterval(a.cfg.Interval),
				monitor.WithView(viewOf(a.cfg)),
				monitor.WithTerminator(terminator),
			)
			snapshots := m.Subscribe()
			con := &console{m: m}

			done := make(chan error, 1)
			go func() {
				done <- m.Run(ctx)
			}()

			opts := rowOptions(a.cfg)
			opts.Numbered = true

			out := cmd.OutOrStdout()
			var (
				last     *monitor.Snapshot
				status   string
				statuses chan string
			)
			for {
				select {
				case <-done:
					return nil
				case snap := <-snapshots:
					last = snap
					if statuses == nil {
						// rows exist from here on, so commands can refer to them
						statuses = make(chan string)
						go readCommands(ctx, cmd.InOrStdin(), con, statuses)
					}
				case status = <-statuses:
					if last == nil {
						continue
					}
				}

				if err := draw(out, last, con.header(status), opts); err != nil {
					return err
				}
			}
		},
	}
}

func readCommands(ctx context.Context, r io.Reader, con *console, statuses chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case statuses <- con.handle(scanner.Text()):
		case <-ctx.Done():
			return
		}
	}
}

func draw(w io.Writer, snap *monitor.Snapshot, status string, opts table.RowOptions) error {
	fmt.Fprint(w, clearScreen)
	fmt.Fprintf(w, "procmon  %s  %d of %d processes  sort %s %s",
		snap.TakenAt.Format(time.TimeOnly), len(snap.Rows), snap.Total,
		snap.View.Column, snap.View.Order)
	if snap.View.Query != "" {
		fmt.Fprintf(w, "  search %q", snap.View.Query)
	}
	fmt.Fprint(w, "\n")
	if status != "" {
		fmt.Fprintln(w, status)
	}
	fmt.Fprint(w, "\n")

	return table.RenderRows(w, snap.Rows, opts)
}

func newKillCommand(a *app) *cobra.Command {
	var (
		force bool
		tree  bool
		wait  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "kill <pid>",
		Short: "Send SIGTERM to a process, or SIGKILL with --force",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", process.ErrInvalidPID, args[0])
			}
			pid := process.ProcessID(n)

			lister, terminator, err := openSource(a.cfg)
			if err != nil {
				return err
			}

			send, name := terminator.Terminate, "SIGTERM"
			if force {
				send, name = terminator.Kill, "SIGKILL"
			}

			if tree {
				records, err := lister.ListProcesses(cmd.Context())
				if err != nil {
					return err
				}
				for _, child := range proctree.Descendants(proctree.Build(records), pid) {
					if err := send(child); err != nil {
						log.Warn("Failed to signal child process: ", err)
						continue
					}
					log.Infoln("Sent", name, "to", child)
				}
			}

			if err := send(pid); err != nil {
				return err
			}
			log.Infoln("Sent", name, "to", pid)

			if wait <= 0 {
				return nil
			}

			w, ok := terminator.(waiter)
			if !ok {
				return errors.New("--wait is not supported by the " + a.cfg.Source + " source")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()
			if !w.WaitExit(ctx, pid) {
				return fmt.Errorf("process %d still running after %s", pid, wait)
			}
			log.Infoln("Process", pid, "exited")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "send SIGKILL instead of SIGTERM")
	cmd.Flags().BoolVar(&tree, "tree", false, "signal every descendant first, children before parents")
	cmd.Flags().DurationVar(&wait, "wait", 0, "wait up to this long for the process to exit")

	return cmd
}
