package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/times/internal/ir"
)

// ReplayResult is the outcome of folding a run's actions over its seed.
type ReplayResult struct {
	Run       Run      `json:"run"`
	State     ir.State `json:"state"`
	StateHash string   `json:"state_hash"`
	Actions   int      `json:"actions"`
	LastSeq   int64    `json:"last_seq"`
}

// Replay rebuilds the final state of a run by applying its journaled actions,
// in seq order, to the recorded seed.
//
// Replay is deterministic: the same journal always yields the same
// StateHash. A gap in the seq sequence is reported as an error because it
// means an action was lost and the rebuilt state cannot be trusted.
func (s *Store) Replay(ctx context.Context, runID string, reduce func(ir.State, ir.Action) ir.State) (ReplayResult, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	actions, err := s.ReadActions(ctx, runID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	// Entries are appended after dispatch returns, so concurrent sessions may
	// journal out of seq order. Seq is authoritative.
	sort.SliceStable(actions, func(i, k int) bool {
		return actions[i].Seq < actions[k].Seq
	})

	current := run.Seed.Clone()
	var lastSeq int64
	for _, a := range actions {
		if a.Seq != lastSeq+1 {
			return ReplayResult{}, fmt.Errorf("replay: seq gap in run %s: expected %d, got %d", runID, lastSeq+1, a.Seq)
		}
		current = reduce(current, a)
		lastSeq = a.Seq
	}

	hash, err := ir.StateHash(current)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	return ReplayResult{
		Run:       run,
		State:     current,
		StateHash: hash,
		Actions:   len(actions),
		LastSeq:   lastSeq,
	}, nil
}
