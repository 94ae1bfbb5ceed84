// Package core defines the Registry interface for keeping finished runs.
package core

import (
	"context"
	"errors"
)

// Registry stores run snapshots keyed by run ID and indexed by machine.
type Registry interface {
	// Register saves a run. The snapshot's RunID must be set.
	Register(ctx context.Context, snapshot RunSnapshot) error

	// Get returns the run with the given ID.
	Get(ctx context.Context, runID string) (RunSnapshot, error)

	// Latest returns the most recently registered run of machineID.
	Latest(ctx context.Context, machineID string) (RunSnapshot, error)

	// ListRuns returns run IDs of machineID, newest first.
	ListRuns(ctx context.Context, machineID string) ([]string, error)

	// ListMachines returns all machine IDs with at least one run.
	ListMachines(ctx context.Context) ([]string, error)
}

var (
	ErrNotFound   = errors.New("run or machine not found")
	ErrExists     = errors.New("run already exists")
	ErrMissingRun = errors.New("snapshot has no run ID")
)
