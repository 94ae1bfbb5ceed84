// Package primitives defines the foundational data structures for the machine engine.
// TransitionConfig is the declarative form of one rule:
// (state, read symbols) -> (next state, write symbols, head moves).
//
// Read, Write and Move are slices so definition files can spell them as plain
// lists; Validate enforces one entry per tape.
package primitives

import (
	"errors"
	"fmt"
	"sort"
)

// TransitionConfig defines a single rule of the transition table.
type TransitionConfig struct {
	State State       `json:"state" yaml:"state"`
	Read  []Symbol    `json:"read" yaml:"read"`
	Next  State       `json:"next" yaml:"next"`
	Write []Symbol    `json:"write" yaml:"write"`
	Move  []Direction `json:"move" yaml:"move"`
}

// NewTransitionConfig builds a TransitionConfig from fixed-size tuples.
func NewTransitionConfig(state State, read Triple, next State, write Triple, move Moves) TransitionConfig {
	return TransitionConfig{
		State: state,
		Read:  append([]Symbol(nil), read[:]...),
		Next:  next,
		Write: append([]Symbol(nil), write[:]...),
		Move:  append([]Direction(nil), move[:]...),
	}
}

// Validate checks required fields and per-tape arity.
func (t *TransitionConfig) Validate() error {
	if t.State == "" {
		return errors.New("state is required")
	}
	if t.Next == "" {
		return errors.New("next state is required")
	}
	if len(t.Read) != Tapes {
		return fmt.Errorf("read needs %d symbols, got %d", Tapes, len(t.Read))
	}
	if len(t.Write) != Tapes {
		return fmt.Errorf("write needs %d symbols, got %d", Tapes, len(t.Write))
	}
	if len(t.Move) != Tapes {
		return fmt.Errorf("move needs %d directions, got %d", Tapes, len(t.Move))
	}
	for i, sym := range t.Read {
		if sym == "" {
			return fmt.Errorf("empty read symbol for tape %d", i)
		}
	}
	for i, sym := range t.Write {
		if sym == "" {
			return fmt.Errorf("empty write symbol for tape %d", i)
		}
	}
	for i, d := range t.Move {
		if !d.Valid() {
			return fmt.Errorf("invalid direction %q for tape %d", d, i)
		}
	}
	return nil
}

// Key returns the lookup key. Call Validate first; short slices leave
// trailing entries empty.
func (t *TransitionConfig) Key() Key {
	return Key{State: t.State, Read: t.ReadTriple()}
}

// ReadTriple returns Read as a fixed-size tuple.
func (t *TransitionConfig) ReadTriple() Triple {
	var out Triple
	copy(out[:], t.Read)
	return out
}

// WriteTriple returns Write as a fixed-size tuple.
func (t *TransitionConfig) WriteTriple() Triple {
	var out Triple
	copy(out[:], t.Write)
	return out
}

// Moves returns Move as a fixed-size tuple.
func (t *TransitionConfig) Moves() Moves {
	var out Moves
	copy(out[:], t.Move)
	return out
}

func (t *TransitionConfig) String() string {
	return fmt.Sprintf("%s -> (%s,%s,%s)", t.Key(), t.Next, t.WriteTriple(), t.Moves())
}

// SortTransitions sorts the slice in place by state, then read symbols, so
// exports are stable regardless of map iteration order.
func SortTransitions(transitions []TransitionConfig) {
	sort.SliceStable(transitions, func(i, j int) bool {
		a, b := transitions[i], transitions[j]
		if a.State != b.State {
			return a.State < b.State
		}
		return a.ReadTriple().String() < b.ReadTriple().String()
	})
}
