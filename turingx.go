// Package turingx is a deterministic three-tape Turing machine engine.
//
// A machine is a MachineConfig: states, the initial, accept and reject
// states, a blank symbol and transition rules keyed by (state, the three
// symbols under the heads). NewMachine validates the config, splits an input
// string across the tapes and returns an Engine ready to Step or Execute.
//
//	e, err := turingx.NewMachine(turingx.ReferenceConfig(), "aabbcc")
//	if err != nil {
//		return err
//	}
//	accepted := e.Execute()
//
// The blank symbol has two roles: it fills cells that were never written,
// and in a rule's write triple it means "leave this cell as it is".
package turingx

import (
	"fmt"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

type (
	Symbol           = primitives.Symbol
	State            = primitives.State
	Direction        = primitives.Direction
	Triple           = primitives.Triple
	Moves            = primitives.Moves
	Key              = primitives.Key
	MachineConfig    = primitives.MachineConfig
	TransitionConfig = primitives.TransitionConfig

	Engine       = core.Engine
	Option       = core.Option
	Observer     = core.Observer
	Status       = core.Status
	HistoryEntry = core.HistoryEntry
	HistoryLog   = core.HistoryLog
	Rule         = core.Rule
	RunSnapshot  = core.RunSnapshot
	StepEvent    = core.StepEvent
	Persister    = core.Persister
	Publisher    = core.Publisher
	Visualizer   = core.Visualizer
	Registry     = core.Registry
)

const (
	Tapes        = primitives.Tapes
	DefaultBlank = primitives.DefaultBlank

	Left  = primitives.Left
	Right = primitives.Right
	Stay  = primitives.Stay

	Running  = core.Running
	Accepted = core.Accepted
	Rejected = core.Rejected
)

var (
	ErrStepLimit = core.ErrStepLimit

	WithObserver   = core.WithObserver
	WithLogger     = core.WithLogger
	WithPublisher  = core.WithPublisher
	WithVisualizer = core.WithVisualizer
	WithRunID      = core.WithRunID
)

// NewMachine validates cfg and returns an engine whose tapes hold input
// split by SplitInput.
func NewMachine(cfg MachineConfig, input string, opts ...Option) (*Engine, error) {
	return NewMachineTapes(cfg, SplitInput(input), opts...)
}

// NewMachineTapes validates cfg and returns an engine over the given tapes.
func NewMachineTapes(cfg MachineConfig, tapes [Tapes][]Symbol, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("machine %q: %w", cfg.ID, err)
	}
	return core.NewEngine(cfg, tapes, opts...), nil
}

// ReferenceConfig returns the machine that accepts a^n b^n c^n, n >= 1, with
// each letter block on its own tape. Every matched cell is marked X, Y or Z.
func ReferenceConfig() MachineConfig {
	right := Moves{Right, Right, Right}
	blank := primitives.Fill(DefaultBlank)
	cfg, err := NewBuilder("abc", "q0", "qa", "qr").
		States("q1").
		Rule("q0", Triple{"a", "b", "c"}, "q1", Triple{"X", "Y", "Z"}, right).
		Rule("q1", Triple{"a", "b", "c"}, "q1", Triple{"X", "Y", "Z"}, right).
		Rule("q1", blank, "qa", blank, Moves{Left, Left, Left}).
		Build()
	if err != nil {
		panic(err)
	}
	return cfg
}
