package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/comalice/turingx/internal/core"
)

// ErrAlreadyStarted is returned by Start on a pacer that is already running.
var ErrAlreadyStarted = errors.New("pacer already started")

// Pacer drives an engine one tick at a time so a run can be watched.
// While a Pacer is running it is the engine's only driver.
type Pacer struct {
	engine       *core.Engine
	tickRate     time.Duration
	maxSteps     int
	stepsPerTick int

	mu      sync.Mutex
	tickNum uint64
	steps   int
	running bool

	tickCancel context.CancelFunc
	stopped    chan struct{}
	accepted   bool
	err        error
}

// Config configures the pacer.
type Config struct {
	TickRate     time.Duration // Delay between ticks (default 16.67ms)
	MaxSteps     int           // Steps per Start before ErrStepLimit; 0 means unbounded
	StepsPerTick int           // Steps per tick (default 1)
}

// NewPacer creates a pacer for engine.
func NewPacer(engine *core.Engine, cfg Config) *Pacer {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	if cfg.StepsPerTick <= 0 {
		cfg.StepsPerTick = 1
	}
	return &Pacer{
		engine:       engine,
		tickRate:     cfg.TickRate,
		maxSteps:     cfg.MaxSteps,
		stepsPerTick: cfg.StepsPerTick,
	}
}

// Run paces the engine until it halts, the step bound is hit, or ctx ends.
// It reports whether the machine accepted.
func (p *Pacer) Run(ctx context.Context) (bool, error) {
	if err := p.Start(ctx); err != nil {
		return false, err
	}
	return p.Wait()
}

// Start begins pacing in the background. The step bound counts from here.
func (p *Pacer) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return ErrAlreadyStarted
	}
	p.running = true
	p.accepted, p.err = false, nil
	p.steps = 0

	var tickCtx context.Context
	tickCtx, p.tickCancel = context.WithCancel(ctx)
	p.stopped = make(chan struct{})
	go p.tickLoop(tickCtx, p.stopped)
	return nil
}

// Stop cancels pacing and waits for the tick loop to exit. The engine keeps
// the state reached so far.
func (p *Pacer) Stop() error {
	p.mu.Lock()
	cancel, stopped := p.tickCancel, p.stopped
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-stopped
	return nil
}

// Wait blocks until the tick loop exits and returns its outcome.
func (p *Pacer) Wait() (bool, error) {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()
	if stopped == nil {
		return false, errors.New("pacer not started")
	}
	<-stopped

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accepted, p.err
}

// tickLoop is the main tick execution loop.
func (p *Pacer) tickLoop(ctx context.Context, stopped chan struct{}) {
	ticker := time.NewTicker(p.tickRate)
	defer func() {
		ticker.Stop()
		p.mu.Lock()
		p.running = false
		p.tickCancel = nil
		p.mu.Unlock()
		close(stopped)
	}()

	for {
		if done, err := p.processTick(); done {
			p.finish(err)
			return
		}
		select {
		case <-ctx.Done():
			p.finish(ctx.Err())
			return
		case <-ticker.C:
		}
	}
}

func (p *Pacer) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	p.accepted = err == nil && p.engine.Status() == core.Accepted
}

// TickNumber returns the number of ticks processed.
func (p *Pacer) TickNumber() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tickNum
}

// Steps returns the number of steps taken since the last Start.
func (p *Pacer) Steps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.steps
}

func (p *Pacer) limitErr() error {
	return fmt.Errorf("machine %q after %d steps: %w", p.engine.ID(), p.maxSteps, core.ErrStepLimit)
}
