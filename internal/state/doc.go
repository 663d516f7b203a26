// Package state implements the application state container.
//
// A Store holds one value, the ir.State, seeded once at construction. The
// only way to change it is Dispatch, which runs the pure Reduce function and
// replaces the held value with the result. Recorders and subscribers are
// notified after every dispatch.
//
// Components never reach the store through a package-level variable: the
// store is passed explicitly to whoever needs it, which keeps ownership
// traceable and lets every test build its own isolated instance.
//
// Thread-safety: all Store methods are safe for concurrent use. Dispatches
// are serialised, so a reader never observes a half-applied action.
package state
