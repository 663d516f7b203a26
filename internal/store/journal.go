package store

import (
	"context"
	"time"

	"github.com/roach88/times/internal/ir"
)

// DefaultWriteTimeout bounds each journal write issued by a Journal.
const DefaultWriteTimeout = 2 * time.Second

// Journal binds a Store to one run so it can be plugged into the state store
// as a recorder and into sessions as a navigation recorder.
type Journal struct {
	store   *Store
	runID   string
	timeout time.Duration
}

// NewJournal starts a run with the given seed and returns a Journal bound to it.
func NewJournal(ctx context.Context, s *Store, runID string, seed ir.State) (*Journal, error) {
	if err := s.BeginRun(ctx, runID, seed); err != nil {
		return nil, err
	}
	return &Journal{store: s, runID: runID, timeout: DefaultWriteTimeout}, nil
}

// RunID returns the run this journal appends to.
func (j *Journal) RunID() string {
	return j.runID
}

// Record appends a dispatched action.
func (j *Journal) Record(a ir.Action) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	return j.store.WriteAction(ctx, j.runID, a)
}

// RecordNavigation appends a session navigation.
func (j *Journal) RecordNavigation(n ir.Navigation) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	return j.store.WriteNavigation(ctx, j.runID, n)
}
