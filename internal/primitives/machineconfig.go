// Package primitives defines the foundational data structures for the machine engine.
//
// MachineConfig is the declarative definition of a three-tape machine: its
// state set, the distinguished initial/accept/reject states, the blank symbol
// and the transition rules. Validation covers structure only; it does not
// require the distinguished states to be declared, since an undeclared state
// simply has no rules.

package primitives

import (
	"errors"
	"fmt"
)

// MachineConfig defines a complete machine.
type MachineConfig struct {
	Version     string             `json:"version,omitempty" yaml:"version,omitempty"`
	ID          string             `json:"id" yaml:"id"`
	States      []State            `json:"states,omitempty" yaml:"states,omitempty"`
	Initial     State              `json:"initial" yaml:"initial"`
	Accept      State              `json:"accept" yaml:"accept"`
	Reject      State              `json:"reject" yaml:"reject"`
	Blank       Symbol             `json:"blank,omitempty" yaml:"blank,omitempty"`
	Transitions []TransitionConfig `json:"transitions" yaml:"transitions"`
}

// Validate validates the machine configuration:
// - Non-empty ID, Initial, Accept and Reject
// - Accept and Reject differ
// - Every transition validates
// - No two transitions share a (state, read) key
func (m *MachineConfig) Validate() error {
	if m.ID == "" {
		return errors.New("machine ID is required")
	}
	if m.Initial == "" {
		return errors.New("initial state is required")
	}
	if m.Accept == "" {
		return errors.New("accept state is required")
	}
	if m.Reject == "" {
		return errors.New("reject state is required")
	}
	if m.Accept == m.Reject {
		return fmt.Errorf("accept and reject must differ, both are %q", m.Accept)
	}

	seen := make(map[Key]int, len(m.Transitions))
	for i := range m.Transitions {
		trans := &m.Transitions[i]
		if err := trans.Validate(); err != nil {
			return fmt.Errorf("transition %d validation failed: %w", i, err)
		}
		key := trans.Key()
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("transition %d duplicates key %s of transition %d", i, key, prev)
		}
		seen[key] = i
	}
	return nil
}

// BlankSymbol returns the configured blank, or DefaultBlank.
func (m *MachineConfig) BlankSymbol() Symbol {
	if m.Blank == "" {
		return DefaultBlank
	}
	return m.Blank
}

// UndeclaredStates lists states referenced by the distinguished fields or by
// rules but missing from States, in first-reference order. An empty States
// list declares nothing, so the result is nil.
func (m *MachineConfig) UndeclaredStates() []State {
	if len(m.States) == 0 {
		return nil
	}
	declared := make(map[State]bool, len(m.States))
	for _, s := range m.States {
		declared[s] = true
	}

	var missing []State
	note := func(s State) {
		if s != "" && !declared[s] {
			declared[s] = true
			missing = append(missing, s)
		}
	}
	note(m.Initial)
	note(m.Accept)
	note(m.Reject)
	for _, trans := range m.Transitions {
		note(trans.State)
		note(trans.Next)
	}
	return missing
}
