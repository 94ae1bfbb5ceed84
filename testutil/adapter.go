// Package testutil runs machines through every execution granularity so the
// same scenarios can be checked against each.
package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/comalice/turingx"
	"github.com/comalice/turingx/realtime"
)

// DefaultMaxSteps bounds every run started by a Runner.
const DefaultMaxSteps = 10000

// Result is the comparable outcome of a run.
type Result struct {
	Accepted bool
	State    turingx.State
	Steps    int
	Tapes    string // tapes joined with "|"
	History  int
}

// Runner provides a common interface for the direct and paced drivers.
// This allows running the same test suite on both.
type Runner interface {
	Name() string
	Run(ctx context.Context, cfg turingx.MachineConfig, input string) (Result, error)
}

// Runners returns one of each runner.
func Runners() []Runner {
	return []Runner{
		&DirectRunner{MaxSteps: DefaultMaxSteps},
		&SteppedRunner{MaxSteps: DefaultMaxSteps},
		&PacedRunner{TickRate: time.Millisecond, MaxSteps: DefaultMaxSteps},
	}
}

// DirectRunner runs the engine with ExecuteContext.
type DirectRunner struct {
	MaxSteps int
}

func (r *DirectRunner) Name() string { return "direct" }

func (r *DirectRunner) Run(ctx context.Context, cfg turingx.MachineConfig, input string) (Result, error) {
	e, err := turingx.NewMachine(cfg, input)
	if err != nil {
		return Result{}, err
	}
	if _, err := e.ExecuteContext(ctx, r.MaxSteps); err != nil {
		return Result{}, err
	}
	return ResultOf(e), nil
}

// SteppedRunner calls Step in a loop, checking Halted first.
type SteppedRunner struct {
	MaxSteps int
}

func (r *SteppedRunner) Name() string { return "stepped" }

func (r *SteppedRunner) Run(ctx context.Context, cfg turingx.MachineConfig, input string) (Result, error) {
	e, err := turingx.NewMachine(cfg, input)
	if err != nil {
		return Result{}, err
	}
	for n := 0; !e.Halted(); n++ {
		if n >= r.MaxSteps {
			return Result{}, turingx.ErrStepLimit
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		e.Step()
	}
	return ResultOf(e), nil
}

// PacedRunner drives the engine through a realtime.Pacer.
type PacedRunner struct {
	TickRate time.Duration
	MaxSteps int
}

func (r *PacedRunner) Name() string { return "paced" }

func (r *PacedRunner) Run(ctx context.Context, cfg turingx.MachineConfig, input string) (Result, error) {
	e, err := turingx.NewMachine(cfg, input)
	if err != nil {
		return Result{}, err
	}
	p := realtime.NewPacer(e, realtime.Config{TickRate: r.TickRate, MaxSteps: r.MaxSteps, StepsPerTick: 4})
	if _, err := p.Run(ctx); err != nil {
		return Result{}, err
	}
	return ResultOf(e), nil
}

// ResultOf summarizes a finished engine.
func ResultOf(e *turingx.Engine) Result {
	tapes := e.Tapes()
	parts := make([]string, len(tapes))
	for i, t := range tapes {
		parts[i] = turingx.JoinTape(t)
	}
	return Result{
		Accepted: e.Status() == turingx.Accepted,
		State:    e.State(),
		Steps:    e.Steps(),
		Tapes:    strings.Join(parts, "|"),
		History:  e.History().Len(),
	}
}
