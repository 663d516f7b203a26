package testutil

import (
	"sync"
	"time"

	"github.com/roach88/times/internal/engine"
)

// ManualScheduler is an engine.Scheduler driven by a fake clock.
//
// Timers only fire inside Advance, in deadline order (ties in creation
// order), so a scenario with timers replays identically every run.
//
// Thread-safety: all methods are safe for concurrent use. Timer callbacks
// run on the goroutine that calls Advance, without the lock held.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
	nextID int
}

type manualTimer struct {
	s       *ManualScheduler
	id      int
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// NewManualScheduler creates a scheduler whose clock starts at 0.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements engine.Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) engine.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t := &manualTimer{s: s, id: s.nextID, at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Stop implements engine.Timer.
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d and fires every timer that falls
// due, including timers scheduled by callbacks during the advance.
// Returns the number of callbacks run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	fired := 0
	for {
		t := s.nextDueLocked(target)
		if t == nil {
			break
		}
		t.fired = true
		s.now = t.at
		s.mu.Unlock()
		t.fn()
		fired++
		s.mu.Lock()
	}
	s.now = target
	s.pruneLocked()
	s.mu.Unlock()
	return fired
}

func (s *ManualScheduler) nextDueLocked(target time.Duration) *manualTimer {
	var next *manualTimer
	for _, t := range s.timers {
		if t.stopped || t.fired || t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.id < next.id) {
			next = t
		}
	}
	return next
}

func (s *ManualScheduler) pruneLocked() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = live
}

// Now returns the elapsed fake time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns how many timers are still waiting to fire.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
