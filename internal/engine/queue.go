package engine

import "sync"

// EventType distinguishes between event kinds.
type EventType int

const (
	// EventNavigate asks the session to show the current history location.
	EventNavigate EventType = iota + 1
	// EventTrigger delivers a UI event to the mounted page.
	EventTrigger
	// EventCallback runs a function on behalf of a mounted scope.
	EventCallback
)

func (t EventType) String() string {
	switch t {
	case EventNavigate:
		return "navigate"
	case EventTrigger:
		return "trigger"
	case EventCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// Event is one unit of work for the session loop.
type Event struct {
	Type EventType

	// Path is the location for EventNavigate.
	Path string

	// Name is the UI event for EventTrigger.
	Name string

	// Scope and Fn are set for EventCallback. A nil Fn only wakes the loop.
	Scope string
	Fn    func()
}

// eventQueue is a thread-safe FIFO queue for events.
//
// The queue is unbounded so a handler can enqueue follow-up navigations
// without blocking. It uses a channel for signaling so the loop can wait
// on it together with a context.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{} // buffered, size 1
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, e)
	q.wakeLocked()
	return true
}

// Wake signals waiters without adding an event.
func (q *eventQueue) Wake() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.wakeLocked()
	}
}

func (q *eventQueue) wakeLocked() {
	// Non-blocking: the buffer of 1 coalesces signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// TryDequeue removes the front event without blocking.
// Returns (Event{}, false) if the queue is empty.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]
	// Release the callback so the slot does not pin the closure.
	q.events[0] = Event{}
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return e, true
}

// Wait returns a channel that signals when events may be available.
// The channel is closed when the queue is closed.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close drops pending events and wakes all waiters. Idempotent.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.events = nil
	close(q.signal)
}

// Closed reports whether Close has been called.
func (q *eventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
