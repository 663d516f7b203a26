package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/times/internal/ir"
)

// ErrNoRuns is returned by LatestRun when the journal is empty.
var ErrNoRuns = errors.New("journal has no runs")

// Entry kinds.
const (
	KindAction     = "action"
	KindNavigation = "navigation"
)

// Run is one server start recorded in the journal.
type Run struct {
	ID             string   `json:"id"`
	Seed           ir.State `json:"seed"`
	SeedHash       string   `json:"seed_hash"`
	AppVersion     string   `json:"app_version"`
	JournalVersion string   `json:"journal_version"`
}

// Entry is one journal row. Exactly one of Action or Navigation is set,
// matching Kind.
type Entry struct {
	Entry      int64          `json:"entry"`
	Kind       string         `json:"kind"`
	Action     *ir.Action     `json:"action,omitempty"`
	Navigation *ir.Navigation `json:"navigation,omitempty"`
}

// ReadRuns returns all runs in the order they were started.
func (s *Store) ReadRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed, seed_hash, app_version, journal_version
		FROM runs
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("read runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run with the given id.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, seed_hash, app_version, journal_version
		FROM runs
		WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: not found", runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	return run, nil
}

// LatestRun returns the most recently started run, or ErrNoRuns.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, seed_hash, app_version, journal_version
		FROM runs
		ORDER BY rowid DESC
		LIMIT 1
	`)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// ReadEntries returns every entry of a run in journal order.
func (s *Store) ReadEntries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry, kind, COALESCE(action_id, ''), seq, type, payload, session, path, route
		FROM entries
		WHERE run_id = ?
		ORDER BY entry ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                      Entry
			actionID, typ, payload string
			session, path, route   string
			seq                    int64
		)
		if err := rows.Scan(&e.Entry, &e.Kind, &actionID, &seq, &typ, &payload, &session, &path, &route); err != nil {
			return nil, fmt.Errorf("read entries: %w", err)
		}

		switch e.Kind {
		case KindAction:
			e.Action = &ir.Action{ID: actionID, Type: ir.ActionType(typ), Payload: payload, Seq: seq}
		case KindNavigation:
			e.Navigation = &ir.Navigation{Session: session, Seq: seq, Path: path, Route: route}
		default:
			return nil, fmt.Errorf("read entries: unknown kind %q at entry %d", e.Kind, e.Entry)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return entries, nil
}

// ReadActions returns only the action entries of a run, in journal order.
func (s *Store) ReadActions(ctx context.Context, runID string) ([]ir.Action, error) {
	entries, err := s.ReadEntries(ctx, runID)
	if err != nil {
		return nil, err
	}

	var actions []ir.Action
	for _, e := range entries {
		if e.Action != nil {
			actions = append(actions, *e.Action)
		}
	}
	return actions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		seedJSON string
	)
	if err := row.Scan(&run.ID, &seedJSON, &run.SeedHash, &run.AppVersion, &run.JournalVersion); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal([]byte(seedJSON), &run.Seed); err != nil {
		return Run{}, fmt.Errorf("decode seed of run %s: %w", run.ID, err)
	}
	return run, nil
}
