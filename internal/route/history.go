package route

import "sync"

// Navigator is the history-mutation handle given to components.
type Navigator interface {
	// Push navigates to path, adding a history entry.
	Push(path string)
	// Replace navigates to path, replacing the current entry.
	Replace(path string)
	// Location returns the current path.
	Location() string
}

// History is an in-memory browser history.
//
// Listeners run synchronously inside Push/Replace/Back, after the location
// has changed. Thread-safety: all methods are safe for concurrent use, but
// listeners must not call back into the same History.
type History struct {
	mu        sync.Mutex
	entries   []string
	listeners []*historyListener
}

type historyListener struct {
	fn func(location string)
}

// NewHistory creates a history positioned at initial.
func NewHistory(initial string) *History {
	return &History{entries: []string{Normalize(initial)}}
}

// Push appends path and notifies listeners.
func (h *History) Push(path string) {
	h.mu.Lock()
	loc := Normalize(path)
	h.entries = append(h.entries, loc)
	h.mu.Unlock()
	h.notify(loc)
}

// Replace swaps the current entry for path and notifies listeners.
func (h *History) Replace(path string) {
	h.mu.Lock()
	loc := Normalize(path)
	h.entries[len(h.entries)-1] = loc
	h.mu.Unlock()
	h.notify(loc)
}

// Back pops the current entry. Returns false at the first entry.
func (h *History) Back() bool {
	h.mu.Lock()
	if len(h.entries) <= 1 {
		h.mu.Unlock()
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	loc := h.entries[len(h.entries)-1]
	h.mu.Unlock()
	h.notify(loc)
	return true
}

// Location returns the current path.
func (h *History) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Listen registers fn for location changes and returns an unlisten func.
func (h *History) Listen(fn func(location string)) (unlisten func()) {
	l := &historyListener{fn: fn}
	h.mu.Lock()
	h.listeners = append(h.listeners, l)
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, cur := range h.listeners {
			if cur == l {
				h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

func (h *History) notify(loc string) {
	h.mu.Lock()
	ls := make([]*historyListener, len(h.listeners))
	copy(ls, h.listeners)
	h.mu.Unlock()

	for _, l := range ls {
		l.fn(loc)
	}
}
