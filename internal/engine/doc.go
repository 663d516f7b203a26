// Package engine runs one browsing session: a route table, a history and
// the components mounted for the current location.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Every change to mounted views happens while the session processes an
// event. Navigations, UI triggers, async continuations, timer callbacks
// and store notifications are all enqueued and handled one at a time by
// Drain or Settle. Only one goroutine processes the queue at a time.
//
// Event Processing Flow:
//  1. History changes and external calls enqueue events (any goroutine).
//  2. Drain/Settle dequeue events in FIFO order.
//  3. Navigation events unmount the previous page and mount the new one.
//  4. Callback events run only if the scope that scheduled them is still
//     mounted. Anything else is dropped.
//
// Mount Scopes:
// Each mount gets a scope token. Unmounting a scope stops its timers,
// cancels the context handed to its async work and calls the view's
// Unmount. A continuation or timer that fires afterwards finds its token
// gone and becomes a no-op.
//
// Errors are logged and processing continues. Drain and Settle also
// return them so callers can react (for example, an unhandled trigger).
package engine
