// Package extensibility provides pluggable step observers and input sources
// for the engine.
package extensibility

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/comalice/turingx/internal/core"
)

// Chain fans one step out to several observers in order. Nil observers are
// skipped.
func Chain(observers ...core.Observer) core.Observer {
	var live []core.Observer
	for _, o := range observers {
		if o != nil {
			live = append(live, o)
		}
	}
	return func(entry core.HistoryEntry) {
		for _, o := range live {
			o(entry)
		}
	}
}

// LoggingObserver logs every step at level with its state, read triple and heads.
func LoggingObserver(logger *slog.Logger, level slog.Level, machineID string) core.Observer {
	return func(entry core.HistoryEntry) {
		logger.Log(context.Background(), level, "machine step",
			"machine", machineID,
			"step", entry.Step,
			"state", entry.State,
			"read", entry.Read.String(),
			"matched", entry.Matched,
			"heads", fmt.Sprint(entry.Heads),
		)
	}
}

// TraceObserver writes one line per step: the step number, the state and the
// tape contents.
func TraceObserver(w io.Writer) core.Observer {
	return func(entry core.HistoryEntry) {
		fmt.Fprintf(w, "%d %s %v %v %v\n", entry.Step, entry.State, entry.Tapes[0], entry.Tapes[1], entry.Tapes[2])
	}
}

// Recorder keeps every observed entry. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []core.HistoryEntry
}

// Observe records entry. Pass r.Observe to core.WithObserver.
func (r *Recorder) Observe(entry core.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Entries returns the recorded entries in order.
func (r *Recorder) Entries() []core.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.HistoryEntry(nil), r.entries...)
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
