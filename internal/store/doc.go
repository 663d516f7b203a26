// Package store provides the SQLite-backed action journal for times.
//
// The journal is an append-only audit log. Each server start opens a run,
// which records the seed state; every dispatched action and every session
// navigation is then appended to that run. The journal is never used to
// restore state at startup. It exists so that operators can trace what a
// run did and replay the actions over the recorded seed to reproduce its
// final state.
//
// # Critical Patterns
//
// Logical ordering:
//   - Entries are ordered by the autoincrement entry column, NEVER by time
//   - Action seq values come from the state store's logical clock
//
// Idempotency:
//   - action_id is UNIQUE; rewriting the same action is a silent no-op
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: entries must reference an existing run
package store
