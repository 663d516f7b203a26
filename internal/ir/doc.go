// Package ir provides the domain types shared by every layer of times.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Post ids are strings, unique within a State, never empty
//   - State values are treated as immutable once published by the store
//   - Actions carry a logical seq, never a wall-clock timestamp
//   - All JSON tags use snake_case
package ir
