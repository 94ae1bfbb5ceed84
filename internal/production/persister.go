// Package production provides production integrations: machine loading,
// persistence, run registry, step publishing and visualization.
// Implements core interfaces on top of the file system, SQLite and WebSocket.

package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/turingx/internal/core"
)

// JSONPersister is a file-based persister writing one <runID>.json per run.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot core.RunSnapshot) error {
	if snapshot.RunID == "" {
		return core.ErrMissingRun
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	fn := filepath.Join(p.dir, snapshot.RunID+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *JSONPersister) Load(ctx context.Context, runID string) (core.RunSnapshot, error) {
	data, err := readRun(p.dir, runID, ".json")
	if err != nil {
		return core.RunSnapshot{}, err
	}
	var snapshot core.RunSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return core.RunSnapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return checkLoaded(snapshot, runID)
}

// YAMLPersister is a file-based persister writing one <runID>.yaml per run.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot core.RunSnapshot) error {
	if snapshot.RunID == "" {
		return core.ErrMissingRun
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	fn := filepath.Join(p.dir, snapshot.RunID+".yaml")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *YAMLPersister) Load(ctx context.Context, runID string) (core.RunSnapshot, error) {
	data, err := readRun(p.dir, runID, ".yaml")
	if err != nil {
		return core.RunSnapshot{}, err
	}
	var snapshot core.RunSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return core.RunSnapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return checkLoaded(snapshot, runID)
}

func readRun(dir, runID, ext string) ([]byte, error) {
	if runID == "" {
		return nil, core.ErrMissingRun
	}
	fn := filepath.Join(dir, runID+ext)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("run %q: %w", runID, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}

func checkLoaded(snapshot core.RunSnapshot, runID string) (core.RunSnapshot, error) {
	snapshot.RunID = runID
	if err := snapshot.Config.Validate(); err != nil {
		return core.RunSnapshot{}, fmt.Errorf("config validation after load: %w", err)
	}
	return snapshot, nil
}
