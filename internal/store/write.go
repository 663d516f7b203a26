package store

import (
	"context"
	"fmt"

	"github.com/roach88/times/internal/ir"
)

// BeginRun records a new run and its seed state.
// Uses ON CONFLICT(id) DO NOTHING so reopening the same run id is harmless.
//
// The seed is stored as canonical JSON so Replay can rebuild the exact
// starting point even when it came from a network load.
func (s *Store) BeginRun(ctx context.Context, runID string, seed ir.State) error {
	seedJSON, err := ir.MarshalCanonical(seed)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	seedHash, err := ir.StateHash(seed)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, seed_hash, app_version, journal_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		runID,
		string(seedJSON),
		seedHash,
		ir.AppVersion,
		ir.JournalVersion,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteAction appends a dispatched action to the run.
// Duplicate action ids are silently ignored.
func (s *Store) WriteAction(ctx context.Context, runID string, a ir.Action) error {
	if a.ID == "" {
		return fmt.Errorf("write action: action has no id (was it dispatched?)")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (run_id, kind, action_id, seq, type, payload)
		VALUES (?, 'action', ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		runID,
		a.ID,
		a.Seq,
		string(a.Type),
		a.Payload,
	)
	if err != nil {
		return fmt.Errorf("write action %s: %w", a.ID, err)
	}
	return nil
}

// WriteNavigation appends a session navigation to the run.
func (s *Store) WriteNavigation(ctx context.Context, runID string, n ir.Navigation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (run_id, kind, seq, session, path, route)
		VALUES (?, 'navigation', ?, ?, ?, ?)
	`,
		runID,
		n.Seq,
		n.Session,
		n.Path,
		n.Route,
	)
	if err != nil {
		return fmt.Errorf("write navigation %s: %w", n.Path, err)
	}
	return nil
}
