package turingx

import (
	"fmt"
	"strings"

	"github.com/comalice/turingx/internal/primitives"
)

// Builder builds a MachineConfig fluently. It adds string rule parsing on
// top of the typed rule methods:
//
//	cfg, err := turingx.NewBuilder("abc", "q0", "qa", "qr").
//		Rules(
//			"q0 a b c -> q1 X Y Z R R R",
//			"q1 <> <> <> -> qa <> <> <> L L L",
//		).
//		Build()
//
// The first error is kept and returned by Build.
type Builder struct {
	mb  *primitives.MachineBuilder
	err error
}

// NewBuilder starts a machine with its three distinguished states.
func NewBuilder(id string, initial, accept, reject State) *Builder {
	return &Builder{mb: primitives.NewMachineBuilder(id, initial, accept, reject)}
}

// States declares additional states.
func (b *Builder) States(states ...State) *Builder {
	b.mb.States(states...)
	return b
}

// Blank sets the blank symbol. Set it before adding rules that use it.
func (b *Builder) Blank(sym Symbol) *Builder {
	b.mb.Blank(sym)
	return b
}

// Version pins the config version.
func (b *Builder) Version(v string) *Builder {
	b.mb.Version(v)
	return b
}

// Rule adds one typed rule.
func (b *Builder) Rule(state State, read Triple, next State, write Triple, move Moves) *Builder {
	b.mb.Rule(state, read, next, write, move)
	return b
}

// Rules adds rules written as "state r1 r2 r3 -> next w1 w2 w3 m1 m2 m3".
func (b *Builder) Rules(lines ...string) *Builder {
	for _, line := range lines {
		if b.err != nil {
			return b
		}
		tc, err := ParseRule(line)
		if err != nil {
			b.err = err
			return b
		}
		b.mb.Rule(tc.State, tc.ReadTriple(), tc.Next, tc.WriteTriple(), tc.Moves())
	}
	return b
}

// Build validates and returns the config.
func (b *Builder) Build() (MachineConfig, error) {
	if b.err != nil {
		return MachineConfig{}, b.err
	}
	return b.mb.Build()
}

// Engine builds the config and starts an engine on input.
func (b *Builder) Engine(input string, opts ...Option) (*Engine, error) {
	cfg, err := b.Build()
	if err != nil {
		return nil, err
	}
	return NewMachine(cfg, input, opts...)
}

// ParseRule parses "state r1 r2 r3 -> next w1 w2 w3 m1 m2 m3". Fields are
// separated by whitespace; directions accept the forms of ParseDirection.
func ParseRule(line string) (TransitionConfig, error) {
	lhs, rhs, ok := strings.Cut(line, "->")
	if !ok {
		return TransitionConfig{}, fmt.Errorf("rule %q: missing ->", line)
	}
	left, right := strings.Fields(lhs), strings.Fields(rhs)
	if len(left) != 1+Tapes {
		return TransitionConfig{}, fmt.Errorf("rule %q: want state and %d read symbols, got %d fields", line, Tapes, len(left))
	}
	if len(right) != 1+2*Tapes {
		return TransitionConfig{}, fmt.Errorf("rule %q: want next state, %d write symbols and %d moves, got %d fields", line, Tapes, Tapes, len(right))
	}

	var (
		read, write Triple
		move        Moves
	)
	for i := 0; i < Tapes; i++ {
		read[i] = Symbol(left[1+i])
		write[i] = Symbol(right[1+i])
		d, err := primitives.ParseDirection(right[1+Tapes+i])
		if err != nil {
			return TransitionConfig{}, fmt.Errorf("rule %q: %w", line, err)
		}
		move[i] = d
	}
	return primitives.NewTransitionConfig(State(left[0]), read, State(right[0]), write, move), nil
}
