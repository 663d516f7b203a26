package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/times/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Run      string // default: latest run
	Kind     string // optional: "action" or "navigation"
	Session  string // optional: navigations of one session
}

// TraceResult holds the trace output for one run.
type TraceResult struct {
	Run     store.Run     `json:"run"`
	Entries []store.Entry `json:"entries"`
	Stats   TraceStats    `json:"stats"`
}

// TraceStats summarises a run.
type TraceStats struct {
	Actions     int `json:"actions"`
	Navigations int `json:"navigations"`
	Sessions    int `json:"sessions"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journal of a server run",
		Long: `Show what a server run recorded: every dispatched action and every
page navigation, in the order they were journaled.

Examples:
  times trace --db ./times.db
  times trace --db ./times.db --run 0190a3e2-... --kind action
  times trace --db ./times.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the journal database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Run, "run", "", "run id (default: latest run)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show action or navigation entries")
	cmd.Flags().StringVar(&opts.Session, "session", "", "only show navigations of this session")

	return cmd
}

// openJournalDB opens an existing journal. store.Open would create a new
// empty database for a mistyped path.
func openJournalDB(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "journal not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// resolveRun returns the requested run, or the latest one.
func resolveRun(ctx context.Context, st *store.Store, runID string) (store.Run, error) {
	if runID != "" {
		run, err := st.ReadRun(ctx, runID)
		if err != nil {
			return store.Run{}, WrapExitError(ExitCommandError, "unknown run", err)
		}
		return run, nil
	}
	run, err := st.LatestRun(ctx)
	if errors.Is(err, store.ErrNoRuns) {
		return store.Run{}, NewExitError(ExitCommandError, "journal has no runs")
	}
	if err != nil {
		return store.Run{}, WrapExitError(ExitCommandError, "failed to read runs", err)
	}
	return run, nil
}

func runTrace(ctx context.Context, opts *TraceOptions, cmd *cobra.Command) error {
	if opts.Kind != "" && opts.Kind != store.KindAction && opts.Kind != store.KindNavigation {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid kind %q: must be %s or %s", opts.Kind, store.KindAction, store.KindNavigation))
	}

	st, err := openJournalDB(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := resolveRun(ctx, st, opts.Run)
	if err != nil {
		return err
	}
	entries, err := st.ReadEntries(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read entries", err)
	}

	result := TraceResult{
		Run:     run,
		Entries: filterEntries(entries, opts.Kind, opts.Session),
		Stats:   traceStats(entries),
	}
	return formatter(opts.RootOptions, cmd.OutOrStdout()).Success(result, func(w io.Writer) {
		writeTraceText(w, result)
	})
}

func filterEntries(entries []store.Entry, kind, session string) []store.Entry {
	out := make([]store.Entry, 0, len(entries))
	for _, e := range entries {
		if kind != "" && e.Kind != kind {
			continue
		}
		if session != "" && (e.Navigation == nil || e.Navigation.Session != session) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func traceStats(entries []store.Entry) TraceStats {
	var stats TraceStats
	var sessions []string
	for _, e := range entries {
		switch {
		case e.Action != nil:
			stats.Actions++
		case e.Navigation != nil:
			stats.Navigations++
			if !slices.Contains(sessions, e.Navigation.Session) {
				sessions = append(sessions, e.Navigation.Session)
			}
		}
	}
	stats.Sessions = len(sessions)
	return stats
}

func writeTraceText(w io.Writer, result TraceResult) {
	fmt.Fprintf(w, "Run: %s (app %s, %d seed posts)\n", result.Run.ID, result.Run.AppVersion, len(result.Run.Seed.Posts))
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	if len(result.Entries) == 0 {
		fmt.Fprintln(w, "No entries.")
	}
	for _, e := range result.Entries {
		switch {
		case e.Action != nil:
			fmt.Fprintf(w, "[%d] action     seq=%d %s %q\n", e.Entry, e.Action.Seq, e.Action.Type, e.Action.Payload)
		case e.Navigation != nil:
			fmt.Fprintf(w, "[%d] navigation %s → %s (%s)\n", e.Entry, e.Navigation.Session, e.Navigation.Path, e.Navigation.Route)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Actions: %d  Navigations: %d  Sessions: %d\n",
		result.Stats.Actions, result.Stats.Navigations, result.Stats.Sessions)
}
