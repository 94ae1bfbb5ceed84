// Package core provides the runtime tier of the three-tape machine engine.
// This includes the Engine, tape storage, the transition table and the history log.
// Dependencies: internal/primitives
// Stdlib-only implementation.
// Not safe for concurrent use: one Engine has exactly one driver at a time.

package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/comalice/turingx/internal/primitives"
)

// ErrStepLimit is returned by ExecuteContext when the caller's bound is hit
// before the machine halts.
var ErrStepLimit = errors.New("step limit reached")

// Status is the coarse outcome of a run so far.
type Status int

const (
	Running Status = iota
	Accepted
	Rejected
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "running"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "running":
		*s = Running
	case "accepted":
		*s = Accepted
	case "rejected":
		*s = Rejected
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

// Observer is called once per step with the entry just recorded.
type Observer func(entry HistoryEntry)

// Pluggable component interfaces.

type Persister interface {
	Save(ctx context.Context, snapshot RunSnapshot) error
	Load(ctx context.Context, runID string) (RunSnapshot, error)
}

// StepEvent is one step as seen by publishers.
type StepEvent struct {
	MachineID string       `json:"machineID" yaml:"machineID"`
	RunID     string       `json:"runID,omitempty" yaml:"runID,omitempty"`
	Status    Status       `json:"status" yaml:"status"`
	Entry     HistoryEntry `json:"entry" yaml:"entry"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event StepEvent) error
	Close() error
}

type Visualizer interface {
	ExportDOT(config primitives.MachineConfig, current primitives.State) string
}

// RunSnapshot is the serializable record of a run.
type RunSnapshot struct {
	RunID     string                                 `json:"runID" yaml:"runID"`
	MachineID string                                 `json:"machineID" yaml:"machineID"`
	Version   string                                 `json:"version" yaml:"version"`
	Config    primitives.MachineConfig               `json:"config" yaml:"config"`
	Input     [primitives.Tapes][]primitives.Symbol `json:"input" yaml:"input"`
	State     primitives.State                       `json:"state" yaml:"state"`
	Status    Status                                 `json:"status" yaml:"status"`
	Steps     int                                    `json:"steps" yaml:"steps"`
	History   []HistoryEntry                         `json:"history" yaml:"history"`
	Timestamp time.Time                              `json:"timestamp" yaml:"timestamp"`
}

// Option applies configuration to Engine via functional options pattern.
type Option func(*Engine)

// Engine runs a three-tape machine. It owns the tapes, the current state, a
// private copy of the transition table and the history log.
type Engine struct {
	id      string
	runID   string
	states  []primitives.State
	initial primitives.State
	accept  primitives.State
	reject  primitives.State
	blank   primitives.Symbol

	table   *TransitionTable
	input   [primitives.Tapes][]primitives.Symbol
	tapes   *TapeSet
	state   primitives.State
	history *HistoryLog
	steps   int

	observers  []Observer
	publisher  Publisher
	visualizer Visualizer
	logger     *slog.Logger
}

// NewEngine creates an engine at the initial state of cfg with the given tape
// contents. cfg is not validated here; states outside the declared set are
// legal and simply have no rules.
func NewEngine(cfg primitives.MachineConfig, tapes [primitives.Tapes][]primitives.Symbol, opts ...Option) *Engine {
	e := &Engine{
		id:      cfg.ID,
		states:  append([]primitives.State(nil), cfg.States...),
		initial: cfg.Initial,
		accept:  cfg.Accept,
		reject:  cfg.Reject,
		blank:   cfg.BlankSymbol(),
		table:   TableFromConfig(cfg),
		history: NewHistoryLog(),
		logger:  slog.New(slog.DiscardHandler),
	}

	// Apply functional options
	for _, opt := range opts {
		opt(e)
	}

	e.Reset(tapes)
	return e
}

// Reset starts a new run: fresh tapes, heads at 0, initial state, empty
// history. Rules added with AddTransition are kept.
func (e *Engine) Reset(tapes [primitives.Tapes][]primitives.Symbol) {
	for i := range tapes {
		e.input[i] = append([]primitives.Symbol(nil), tapes[i]...)
	}
	e.tapes = NewTapeSet(e.blank, tapes)
	e.state = e.initial
	e.steps = 0
	e.history.reset()
}

// Step performs one transition. It reads under every head, looks up the
// rule, and either applies it or moves to the reject state. Either way one
// history entry is appended and returned.
//
// Step does not check for a halted machine: stepping from the accept state
// looks up rules for it like any other state. Callers pacing a run check
// Halted first.
func (e *Engine) Step() HistoryEntry {
	var read primitives.Triple
	for i := range read {
		read[i] = e.tapes.ReadAt(i)
	}

	from := e.state
	rule, ok := e.table.Lookup(from, read)
	if ok {
		for i := range read {
			e.tapes.WriteAt(i, rule.Write[i])
			e.tapes.MoveHead(i, rule.Move[i])
			// Keep heads on the tape between steps.
			e.tapes.extend(i)
		}
		e.state = rule.Next
	} else {
		e.state = e.reject
	}
	e.steps++

	entry := HistoryEntry{
		Step:    e.steps,
		State:   e.state,
		Read:    read,
		Matched: ok,
		Tapes:   e.tapes.Snapshot(),
		Heads:   e.tapes.Heads(),
	}
	e.history.append(entry)

	e.notify(entry)
	return entry.clone()
}

func (e *Engine) notify(entry HistoryEntry) {
	for _, obs := range e.observers {
		obs(entry.clone())
	}
	if e.publisher != nil {
		evt := StepEvent{
			MachineID: e.id,
			RunID:     e.runID,
			Status:    e.Status(),
			Entry:     entry.clone(),
			Timestamp: time.Now(),
		}
		if err := e.publisher.Publish(context.Background(), evt); err != nil {
			e.logger.Warn("publish step", "machine", e.id, "step", entry.Step, "error", err)
		}
	}
}

// Execute steps until the accept or reject state is reached and reports
// whether the machine accepted. There is no step bound; a table that cycles
// without halting never returns. Use ExecuteContext to bound a run.
func (e *Engine) Execute() bool {
	for !e.Halted() {
		e.Step()
	}
	return e.state == e.accept
}

// ExecuteContext is Execute with a caller-imposed bound. maxSteps <= 0 means
// unbounded. It returns ErrStepLimit once maxSteps steps of this call have
// run without halting, or the context's error if ctx ends first.
func (e *Engine) ExecuteContext(ctx context.Context, maxSteps int) (bool, error) {
	for n := 0; !e.Halted(); n++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if maxSteps > 0 && n >= maxSteps {
			return false, fmt.Errorf("machine %q after %d steps: %w", e.id, n, ErrStepLimit)
		}
		e.Step()
	}
	return e.state == e.accept, nil
}

// AddTransition adds or overwrites a rule in this engine's table.
func (e *Engine) AddTransition(state primitives.State, read primitives.Triple, next primitives.State, write primitives.Triple, move primitives.Moves) {
	e.table.Add(state, read, next, write, move)
}

// Halted reports whether the current state is the accept or reject state.
func (e *Engine) Halted() bool {
	return e.state == e.accept || e.state == e.reject
}

// Status maps the current state to Running, Accepted or Rejected.
func (e *Engine) Status() Status {
	switch e.state {
	case e.accept:
		return Accepted
	case e.reject:
		return Rejected
	default:
		return Running
	}
}

// ID returns the machine ID.
func (e *Engine) ID() string { return e.id }

// RunID returns the run ID set with WithRunID, if any.
func (e *Engine) RunID() string { return e.runID }

// State returns the current state.
func (e *Engine) State() primitives.State { return e.state }

// Blank returns the blank symbol.
func (e *Engine) Blank() primitives.Symbol { return e.blank }

// Steps returns the number of steps taken since the last Reset.
func (e *Engine) Steps() int { return e.steps }

// Tapes returns copies of the current tape contents.
func (e *Engine) Tapes() [primitives.Tapes][]primitives.Symbol { return e.tapes.Snapshot() }

// Heads returns the current head positions.
func (e *Engine) Heads() [primitives.Tapes]int { return e.tapes.Heads() }

// Input returns copies of the tape contents the run started from.
func (e *Engine) Input() [primitives.Tapes][]primitives.Symbol {
	var out [primitives.Tapes][]primitives.Symbol
	for i := range e.input {
		out[i] = append([]primitives.Symbol(nil), e.input[i]...)
	}
	return out
}

// History returns the run's history log. The log is read-only to callers.
func (e *Engine) History() *HistoryLog { return e.history }

// Rules lists the current transition table.
func (e *Engine) Rules() []Rule { return e.table.Rules() }

// Config returns the machine definition including rules added after
// construction.
func (e *Engine) Config() primitives.MachineConfig {
	return primitives.MachineConfig{
		ID:          e.id,
		States:      append([]primitives.State(nil), e.states...),
		Initial:     e.initial,
		Accept:      e.accept,
		Reject:      e.reject,
		Blank:       e.blank,
		Transitions: e.table.Transitions(),
	}
}

// Snapshot captures the run for persistence.
func (e *Engine) Snapshot() RunSnapshot {
	cfg := e.Config()
	return RunSnapshot{
		RunID:     e.runID,
		MachineID: e.id,
		Version:   primitives.ComputeVersion(&cfg),
		Config:    cfg,
		Input:     e.Input(),
		State:     e.state,
		Status:    e.Status(),
		Steps:     e.steps,
		History:   e.history.Entries(),
		Timestamp: time.Now(),
	}
}

// Restore rebuilds the run recorded in snapshot: rules, input, history, and
// the tapes, heads and state of its last entry.
func (e *Engine) Restore(snapshot RunSnapshot) error {
	if e.id != snapshot.MachineID {
		return fmt.Errorf("machine ID mismatch: have %q, snapshot %q", e.id, snapshot.MachineID)
	}
	if len(snapshot.History) != snapshot.Steps {
		return fmt.Errorf("snapshot %q has %d history entries for %d steps", snapshot.RunID, len(snapshot.History), snapshot.Steps)
	}

	cfg := snapshot.Config
	e.states = append([]primitives.State(nil), cfg.States...)
	e.initial, e.accept, e.reject = cfg.Initial, cfg.Accept, cfg.Reject
	e.blank = cfg.BlankSymbol()
	e.table = TableFromConfig(cfg)
	e.runID = snapshot.RunID

	e.Reset(snapshot.Input)
	if last := len(snapshot.History); last > 0 {
		end := snapshot.History[last-1]
		e.tapes = newTapeSetAt(e.blank, end.Tapes, end.Heads)
		e.state = end.State
		for _, entry := range snapshot.History {
			e.history.append(entry.clone())
		}
	}
	e.steps = snapshot.Steps
	return nil
}

// Visualize returns the Graphviz DOT source of the transition table.
func (e *Engine) Visualize() string {
	if e.visualizer == nil {
		return "ERROR: No visualizer configured. Use WithVisualizer(&production.DefaultVisualizer{})"
	}
	return e.visualizer.ExportDOT(e.Config(), e.state)
}
