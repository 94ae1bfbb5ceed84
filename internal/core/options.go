// Package core provides the runtime tier of the machine engine.
// Options for configuring Engine instances.
package core

import "log/slog"

// WithObserver registers a callback invoked once per step, after the history
// entry is recorded. Observers run synchronously in registration order.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithLogger sets the logger for delivery failures. Per-step logging is an
// Observer's job.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPublisher configures the Engine with a Publisher that receives every step.
// Publish errors are logged, never returned from Step.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithVisualizer configures the Engine with a custom Visualizer.
func WithVisualizer(v Visualizer) Option {
	return func(e *Engine) {
		e.visualizer = v
	}
}

// WithRunID tags snapshots and published steps with a run identifier.
func WithRunID(id string) Option {
	return func(e *Engine) {
		e.runID = id
	}
}
