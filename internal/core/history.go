// Package core provides the runtime tier of the three-tape machine engine.
// HistoryLog records one snapshot per executed step.
// Stdlib-only implementation.
package core

import (
	"iter"

	"github.com/comalice/turingx/internal/primitives"
)

// HistoryEntry is the machine state and full tape contents right after one
// step. Tapes are copies taken at that instant.
type HistoryEntry struct {
	Step    int                                    `json:"step" yaml:"step"`
	State   primitives.State                       `json:"state" yaml:"state"`
	Read    primitives.Triple                      `json:"read" yaml:"read"`
	Matched bool                                   `json:"matched" yaml:"matched"`
	Tapes   [primitives.Tapes][]primitives.Symbol `json:"tapes" yaml:"tapes"`
	Heads   [primitives.Tapes]int                  `json:"heads" yaml:"heads"`
}

func (e HistoryEntry) clone() HistoryEntry {
	for i := range e.Tapes {
		e.Tapes[i] = append([]primitives.Symbol(nil), e.Tapes[i]...)
	}
	return e
}

// HistoryLog is an append-only sequence of HistoryEntry. Only the engine
// appends; the log is cleared when a new run starts.
type HistoryLog struct {
	entries []HistoryEntry
}

// NewHistoryLog creates an empty log.
func NewHistoryLog() *HistoryLog {
	return &HistoryLog{}
}

func (h *HistoryLog) append(e HistoryEntry) {
	h.entries = append(h.entries, e)
}

func (h *HistoryLog) reset() {
	h.entries = nil
}

// Len returns the number of recorded steps.
func (h *HistoryLog) Len() int {
	return len(h.entries)
}

// At returns a copy of the i-th entry (0-based).
func (h *HistoryLog) At(i int) HistoryEntry {
	return h.entries[i].clone()
}

// Last returns the most recent entry, if any.
func (h *HistoryLog) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1].clone(), true
}

// Entries returns a copy of the whole log in order.
func (h *HistoryLog) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.clone()
	}
	return out
}

// All iterates entries in order without copying the log up front.
func (h *HistoryLog) All() iter.Seq2[int, HistoryEntry] {
	return func(yield func(int, HistoryEntry) bool) {
		for i, e := range h.entries {
			if !yield(i, e.clone()) {
				return
			}
		}
	}
}

// Replay returns the configuration recorded after the given 1-based step.
// Step 0 or a step past the end reports false.
func (h *HistoryLog) Replay(step int) (HistoryEntry, bool) {
	if step < 1 || step > len(h.entries) {
		return HistoryEntry{}, false
	}
	return h.entries[step-1].clone(), true
}
