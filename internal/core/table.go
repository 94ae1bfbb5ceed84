package core

import (
	"sort"

	"github.com/comalice/turingx/internal/primitives"
)

// TransitionValue is the right-hand side of a rule.
type TransitionValue struct {
	Next  primitives.State  `json:"next" yaml:"next"`
	Write primitives.Triple `json:"write" yaml:"write"`
	Move  primitives.Moves  `json:"move" yaml:"move"`
}

// Rule pairs a key with its value, for listing a table.
type Rule struct {
	primitives.Key
	TransitionValue
}

// TransitionTable maps (state, read triple) to at most one TransitionValue.
type TransitionTable struct {
	rules map[primitives.Key]TransitionValue
}

// NewTransitionTable creates an empty table.
func NewTransitionTable() *TransitionTable {
	return &TransitionTable{rules: make(map[primitives.Key]TransitionValue)}
}

// TableFromConfig loads every rule of cfg. Later rules overwrite earlier ones
// with the same key; MachineConfig.Validate rejects that case up front.
func TableFromConfig(cfg primitives.MachineConfig) *TransitionTable {
	t := NewTransitionTable()
	for i := range cfg.Transitions {
		tc := &cfg.Transitions[i]
		t.Add(tc.State, tc.ReadTriple(), tc.Next, tc.WriteTriple(), tc.Moves())
	}
	return t
}

// Add inserts or overwrites the rule for (state, read).
func (t *TransitionTable) Add(state primitives.State, read primitives.Triple, next primitives.State, write primitives.Triple, move primitives.Moves) {
	t.rules[primitives.Key{State: state, Read: read}] = TransitionValue{
		Next:  next,
		Write: write,
		Move:  move,
	}
}

// Lookup returns the rule for (state, read). A miss is reported through ok,
// not as an error.
func (t *TransitionTable) Lookup(state primitives.State, read primitives.Triple) (TransitionValue, bool) {
	v, ok := t.rules[primitives.Key{State: state, Read: read}]
	return v, ok
}

// Len returns the number of rules.
func (t *TransitionTable) Len() int {
	return len(t.rules)
}

// Rules lists the table sorted by state, then read symbols.
func (t *TransitionTable) Rules() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for k, v := range t.rules {
		out = append(out, Rule{Key: k, TransitionValue: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Read.String() < out[j].Read.String()
	})
	return out
}

// Clone returns an independent copy.
func (t *TransitionTable) Clone() *TransitionTable {
	c := &TransitionTable{rules: make(map[primitives.Key]TransitionValue, len(t.rules))}
	for k, v := range t.rules {
		c.rules[k] = v
	}
	return c
}

// Transitions converts the table back to its declarative form.
func (t *TransitionTable) Transitions() []primitives.TransitionConfig {
	rules := t.Rules()
	out := make([]primitives.TransitionConfig, len(rules))
	for i, r := range rules {
		out[i] = primitives.NewTransitionConfig(r.State, r.Read, r.Next, r.Write, r.Move)
	}
	return out
}
