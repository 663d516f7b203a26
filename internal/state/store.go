package state

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/times/internal/ir"
)

// Recorder observes every dispatched action after it has been reduced.
// Recorder errors are logged; they never roll back or block a state change.
type Recorder interface {
	Record(action ir.Action) error
}

// RecorderFunc adapts a function into a Recorder.
type RecorderFunc func(ir.Action) error

// Record calls f(action).
func (f RecorderFunc) Record(action ir.Action) error {
	return f(action)
}

// Listener is invoked with the new state after every dispatch.
type Listener func(ir.State)

// Store is the single source of truth for application state.
type Store struct {
	mu        sync.RWMutex
	state     ir.State
	seq       int64
	reduce    Reducer
	ids       IDGenerator
	recorders []Recorder
	logger    *slog.Logger

	// pending holds reduced actions not yet delivered. Only the dispatch
	// that set delivering drains it, so deliveries never interleave.
	pending    []delivery
	delivering bool

	subMu     sync.Mutex
	listeners []*subscription
}

type delivery struct {
	action ir.Action
	state  ir.State
}

type subscription struct {
	fn     Listener
	active bool
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder adds a recorder. Recorders run in the order they were added.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		s.recorders = append(s.recorders, r)
	}
}

// WithIDGenerator overrides the action id generator (default UUIDv7Generator).
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// WithLogger sets the logger used for recorder failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a Store seeded with initial.
//
// The seed is validated (non-empty, unique post ids) and copied, so later
// changes to the caller's slice cannot leak into the store.
func New(initial ir.State, opts ...Option) (*Store, error) {
	if errs := ir.ValidateState(initial); len(errs) > 0 {
		return nil, fmt.Errorf("invalid seed state: %w", errs[0])
	}

	s := &Store{
		state:  initial.Clone(),
		reduce: Reduce,
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetState returns the current state.
//
// The returned value shares its post slice with the store and must be
// treated as read-only. Dispatch never mutates a published slice, so the
// value stays valid after later dispatches.
func (s *Store) GetState() ir.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Seq returns the seq of the most recent dispatch (0 before the first).
func (s *Store) Seq() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Dispatch stamps the action with the next seq and an id, reduces it into
// the held state, and then notifies recorders and subscribers.
//
// Recorders and subscribers see dispatches strictly in seq order. If another
// dispatch is already delivering (a concurrent caller, or a listener that
// dispatches), the action is queued and that dispatch delivers it before
// returning.
//
// Returns the stamped action.
func (s *Store) Dispatch(action ir.Action) ir.Action {
	s.mu.Lock()
	s.seq++
	action.Seq = s.seq
	if action.ID == "" {
		action.ID = s.ids.Generate()
	}
	next := s.reduce(s.state, action)
	s.state = next
	s.pending = append(s.pending, delivery{action: action, state: next})
	if s.delivering {
		s.mu.Unlock()
		return action
	}
	s.delivering = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			s.mu.Unlock()
			return action
		}
		d := s.pending[0]
		s.pending = s.pending[1:]
		recorders := s.recorders
		s.mu.Unlock()

		s.deliver(recorders, d)
	}
}

func (s *Store) deliver(recorders []Recorder, d delivery) {
	if !d.action.Type.Known() {
		s.logger.Debug("unhandled action type", "type", d.action.Type, "seq", d.action.Seq)
	}

	for _, r := range recorders {
		if err := r.Record(d.action); err != nil {
			s.logger.Error("recorder failed",
				"action", d.action.Type,
				"seq", d.action.Seq,
				"error", err,
			)
		}
	}

	s.notify(d.state)
}

// Subscribe registers a listener invoked after every dispatch, in
// subscription order. The returned function unsubscribes; calling it more
// than once is a no-op.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	sub := &subscription{fn: fn, active: true}

	s.subMu.Lock()
	s.listeners = append(s.listeners, sub)
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			sub.active = false
			for i, l := range s.listeners {
				if l == sub {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) notify(next ir.State) {
	s.subMu.Lock()
	subs := make([]*subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.subMu.Unlock()

	for _, sub := range subs {
		s.subMu.Lock()
		active := sub.active
		s.subMu.Unlock()
		if active {
			sub.fn(next)
		}
	}
}
