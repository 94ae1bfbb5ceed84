// Tests for JSONPersister and YAMLPersister round-trips and engine restore.
package production

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/comalice/turingx/internal/core"
)

type persister interface {
	Save(ctx context.Context, snapshot core.RunSnapshot) error
	Load(ctx context.Context, runID string) (core.RunSnapshot, error)
}

func newPersisters(t *testing.T) map[string]persister {
	t.Helper()
	jp, err := NewJSONPersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONPersister failed: %v", err)
	}
	yp, err := NewYAMLPersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewYAMLPersister failed: %v", err)
	}
	return map[string]persister{"json": jp, "yaml": yp}
}

func compareSnapshots(t *testing.T, got, want core.RunSnapshot) {
	t.Helper()
	if got.RunID != want.RunID || got.MachineID != want.MachineID || got.Version != want.Version {
		t.Errorf("ids = (%q,%q,%q), want (%q,%q,%q)", got.RunID, got.MachineID, got.Version, want.RunID, want.MachineID, want.Version)
	}
	if got.State != want.State || got.Status != want.Status || got.Steps != want.Steps {
		t.Errorf("state = (%q,%v,%d), want (%q,%v,%d)", got.State, got.Status, got.Steps, want.State, want.Status, want.Steps)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
	if len(got.Config.Transitions) != len(want.Config.Transitions) {
		t.Errorf("len(Config.Transitions) = %d, want %d", len(got.Config.Transitions), len(want.Config.Transitions))
	}
	for i := range want.Input {
		if joinTape(got.Input[i]) != joinTape(want.Input[i]) {
			t.Errorf("Input[%d] = %v, want %v", i, got.Input[i], want.Input[i])
		}
	}
	if len(got.History) != len(want.History) {
		t.Fatalf("len(History) = %d, want %d", len(got.History), len(want.History))
	}
	for i, w := range want.History {
		g := got.History[i]
		if g.Step != w.Step || g.State != w.State || g.Read != w.Read || g.Matched != w.Matched || g.Heads != w.Heads {
			t.Errorf("History[%d] = %+v, want %+v", i, g, w)
		}
		for k := range w.Tapes {
			if joinTape(g.Tapes[k]) != joinTape(w.Tapes[k]) {
				t.Errorf("History[%d].Tapes[%d] = %v, want %v", i, k, g.Tapes[k], w.Tapes[k])
			}
		}
	}
}

func TestPersisters_RoundTrip(t *testing.T) {
	for name, p := range newPersisters(t) {
		t.Run(name, func(t *testing.T) {
			snapshot := finishedRun("run-1", "aa", "bb", "cc")
			if err := p.Save(context.Background(), snapshot); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			loaded, err := p.Load(context.Background(), "run-1")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			compareSnapshots(t, loaded, snapshot)
		})
	}
}

func TestPersisters_LoadNonExistent(t *testing.T) {
	for name, p := range newPersisters(t) {
		t.Run(name, func(t *testing.T) {
			_, err := p.Load(context.Background(), "nonexistent")
			if !errors.Is(err, os.ErrNotExist) {
				t.Errorf("Load() error = %v, want wrapped os.ErrNotExist", err)
			}
		})
	}
}

func TestPersisters_MissingRunID(t *testing.T) {
	for name, p := range newPersisters(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Save(context.Background(), finishedRun("", "a", "b", "c")); !errors.Is(err, core.ErrMissingRun) {
				t.Errorf("Save() error = %v, want ErrMissingRun", err)
			}
			if _, err := p.Load(context.Background(), ""); !errors.Is(err, core.ErrMissingRun) {
				t.Errorf("Load() error = %v, want ErrMissingRun", err)
			}
		})
	}
}

func TestYAMLPersister_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	p, err := NewYAMLPersister(dir)
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("runID: bad\nmachineID: abc\nconfig:\n  id: abc\n  initial: q0\n  accept: qa\n  reject: qa\n")
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Load(context.Background(), "bad"); err == nil {
		t.Error("Load() error = nil, want validation error")
	}
}

func TestJSONPersister_Integration_RestoreEngine(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	e := core.NewEngine(abcConfig(), tapes("aa", "bb", "cc"), core.WithRunID("half"))
	e.Step()
	if err := p.Save(context.Background(), e.Snapshot()); err != nil {
		t.Fatal(err)
	}

	loaded, err := p.Load(context.Background(), "half")
	if err != nil {
		t.Fatal(err)
	}
	restored := core.NewEngine(loaded.Config, loaded.Input)
	if err := restored.Restore(loaded); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.State() != "q1" || restored.Steps() != 1 {
		t.Fatalf("restored at (%q,%d), want (q1,1)", restored.State(), restored.Steps())
	}
	if !restored.Execute() {
		t.Errorf("Execute() after restore = false, state %q", restored.State())
	}
	if restored.Steps() != 3 || restored.History().Len() != 3 {
		t.Errorf("Steps() = %d, History().Len() = %d, want 3/3", restored.Steps(), restored.History().Len())
	}
}
