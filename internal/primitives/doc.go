// Package primitives provides the foundational, zero-dependency data structures
// for the three-tape machine engine.
//
// This package uses ONLY the Go standard library. Definition files are decoded
// into these types by internal/production; the engine in internal/core consumes
// them.
//
// Core invariants:
// - Triple and Moves are fixed at three entries, one per tape
// - A MachineConfig that passes Validate has at most one rule per (state, read) key
// - The blank symbol doubles as the "leave cell unchanged" write symbol
package primitives
