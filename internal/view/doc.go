// Package view defines the component model and the pages of times.
//
// A Component is a long-lived value registered once (in the route table or
// the shell). Every time the engine mounts it, Mount receives Props and
// returns a fresh View holding that mount's state. Views render to HTML
// and may optionally handle UI events, clean up on unmount, or ask the
// document to refresh to another location.
//
// Views never touch the event loop directly. Asynchronous work, timers and
// store notifications go through Props.Effects, which guarantees that the
// continuation only runs while the view is still mounted.
package view
