// Package primitives includes builder helpers for MachineConfig.
package primitives

// MachineBuilder builds a MachineConfig fluently.
type MachineBuilder struct {
	config *MachineConfig
}

// NewMachineBuilder creates a new MachineBuilder. The three distinguished
// states are declared immediately.
func NewMachineBuilder(id string, initial, accept, reject State) *MachineBuilder {
	return &MachineBuilder{
		config: &MachineConfig{
			ID:      id,
			Initial: initial,
			Accept:  accept,
			Reject:  reject,
			States:  dedupStates(nil, initial, accept, reject),
		},
	}
}

// States declares additional states.
func (b *MachineBuilder) States(states ...State) *MachineBuilder {
	b.config.States = dedupStates(b.config.States, states...)
	return b
}

// Blank sets the blank symbol.
func (b *MachineBuilder) Blank(sym Symbol) *MachineBuilder {
	b.config.Blank = sym
	return b
}

// Version pins the config version instead of the computed hash.
func (b *MachineBuilder) Version(v string) *MachineBuilder {
	b.config.Version = v
	return b
}

// On starts a rule for (state, read). The rule defaults to staying in state,
// writing nothing and not moving; chain To, Write and Move to fill it in.
func (b *MachineBuilder) On(state State, read Triple) *RuleBuilder {
	blank := b.config.BlankSymbol()
	b.config.Transitions = append(b.config.Transitions,
		NewTransitionConfig(state, read, state, Fill(blank), Moves{Stay, Stay, Stay}))
	b.config.States = dedupStates(b.config.States, state)
	return &RuleBuilder{mb: b, index: len(b.config.Transitions) - 1}
}

// Rule adds a complete rule in one call.
func (b *MachineBuilder) Rule(state State, read Triple, next State, write Triple, move Moves) *MachineBuilder {
	b.On(state, read).To(next).Write(write).Move(move)
	return b
}

// Build finalizes and validates the config.
func (b *MachineBuilder) Build() (MachineConfig, error) {
	if err := b.config.Validate(); err != nil {
		return MachineConfig{}, err
	}
	out := *b.config
	out.States = append([]State(nil), b.config.States...)
	out.Transitions = make([]TransitionConfig, len(b.config.Transitions))
	for i, t := range b.config.Transitions {
		out.Transitions[i] = NewTransitionConfig(t.State, t.ReadTriple(), t.Next, t.WriteTriple(), t.Moves())
	}
	return out, nil
}

// RuleBuilder fills in one rule.
type RuleBuilder struct {
	mb    *MachineBuilder
	index int
}

func (rb *RuleBuilder) rule() *TransitionConfig {
	return &rb.mb.config.Transitions[rb.index]
}

// To sets the next state.
func (rb *RuleBuilder) To(next State) *RuleBuilder {
	rb.rule().Next = next
	rb.mb.config.States = dedupStates(rb.mb.config.States, next)
	return rb
}

// Write sets the write symbols. The blank symbol leaves a cell unchanged.
func (rb *RuleBuilder) Write(write Triple) *RuleBuilder {
	rb.rule().Write = append(rb.rule().Write[:0], write[:]...)
	return rb
}

// Move sets the head moves.
func (rb *RuleBuilder) Move(move Moves) *RuleBuilder {
	rb.rule().Move = append(rb.rule().Move[:0], move[:]...)
	return rb
}

// Done returns to the machine builder.
func (rb *RuleBuilder) Done() *MachineBuilder {
	return rb.mb
}

func dedupStates(have []State, add ...State) []State {
	for _, s := range add {
		if s == "" {
			continue
		}
		found := false
		for _, h := range have {
			if h == s {
				found = true
				break
			}
		}
		if !found {
			have = append(have, s)
		}
	}
	return have
}
