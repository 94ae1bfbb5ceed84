package primitives

import (
	"strings"
	"testing"
)

func abcConfig() *MachineConfig {
	return &MachineConfig{
		ID:      "abc",
		States:  []State{"q0", "q1", "qa", "qr"},
		Initial: "q0",
		Accept:  "qa",
		Reject:  "qr",
		Transitions: []TransitionConfig{
			NewTransitionConfig("q0", Triple{"a", "b", "c"}, "q1", Triple{"X", "Y", "Z"}, Moves{Right, Right, Right}),
			NewTransitionConfig("q1", Triple{"a", "b", "c"}, "q1", Triple{"X", "Y", "Z"}, Moves{Right, Right, Right}),
			NewTransitionConfig("q1", Fill(DefaultBlank), "qa", Fill(DefaultBlank), Moves{Left, Left, Left}),
		},
	}
}

func TestMachineConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*MachineConfig)
		wantErr     bool
		errContains string
	}{
		{
			name:    "reference machine",
			mutate:  func(*MachineConfig) {},
			wantErr: false,
		},
		{
			name:    "no transitions",
			mutate:  func(m *MachineConfig) { m.Transitions = nil },
			wantErr: false,
		},
		{
			name:        "missing machine ID",
			mutate:      func(m *MachineConfig) { m.ID = "" },
			wantErr:     true,
			errContains: "machine ID is required",
		},
		{
			name:        "missing initial",
			mutate:      func(m *MachineConfig) { m.Initial = "" },
			wantErr:     true,
			errContains: "initial state is required",
		},
		{
			name:        "missing accept",
			mutate:      func(m *MachineConfig) { m.Accept = "" },
			wantErr:     true,
			errContains: "accept state is required",
		},
		{
			name:        "missing reject",
			mutate:      func(m *MachineConfig) { m.Reject = "" },
			wantErr:     true,
			errContains: "reject state is required",
		},
		{
			name:        "accept equals reject",
			mutate:      func(m *MachineConfig) { m.Reject = m.Accept },
			wantErr:     true,
			errContains: "must differ",
		},
		{
			name:        "transition validation fails",
			mutate:      func(m *MachineConfig) { m.Transitions[1].Move = m.Transitions[1].Move[:1] },
			wantErr:     true,
			errContains: "transition 1 validation failed",
		},
		{
			name: "duplicate key",
			mutate: func(m *MachineConfig) {
				m.Transitions = append(m.Transitions,
					NewTransitionConfig("q0", Triple{"a", "b", "c"}, "qr", Fill(DefaultBlank), Moves{Stay, Stay, Stay}))
			},
			wantErr:     true,
			errContains: "transition 3 duplicates key (q0,(a,b,c)) of transition 0",
		},
		{
			name:    "undeclared states are not an error",
			mutate:  func(m *MachineConfig) { m.States = []State{"q0"} },
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := abcConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.errContains)
			}
		})
	}
}

func TestMachineConfigBlankSymbol(t *testing.T) {
	cfg := abcConfig()
	if got := cfg.BlankSymbol(); got != DefaultBlank {
		t.Errorf("BlankSymbol() = %q, want %q", got, DefaultBlank)
	}
	cfg.Blank = "_"
	if got := cfg.BlankSymbol(); got != "_" {
		t.Errorf("BlankSymbol() = %q, want %q", got, "_")
	}
}

func TestMachineConfigUndeclaredStates(t *testing.T) {
	cfg := abcConfig()
	if got := cfg.UndeclaredStates(); len(got) != 0 {
		t.Errorf("UndeclaredStates() = %v, want none", got)
	}

	cfg.States = []State{"q0", "qa"}
	got := cfg.UndeclaredStates()
	want := []State{"qr", "q1"}
	if len(got) != len(want) {
		t.Fatalf("UndeclaredStates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UndeclaredStates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	cfg.States = nil
	if got := cfg.UndeclaredStates(); got != nil {
		t.Errorf("UndeclaredStates() with no declarations = %v, want nil", got)
	}
}

func TestComputeVersion(t *testing.T) {
	a := abcConfig()
	b := abcConfig()
	b.Transitions[0], b.Transitions[2] = b.Transitions[2], b.Transitions[0]

	va, vb := ComputeVersion(a), ComputeVersion(b)
	if va != vb {
		t.Errorf("rule order changed version: %s vs %s", va, vb)
	}
	if len(va) != 16 {
		t.Errorf("version %q, want 16 hex chars", va)
	}

	b.Transitions[0].Next = "qr"
	if ComputeVersion(b) == va {
		t.Error("different rules produced the same version")
	}

	explicit := abcConfig()
	explicit.Blank = DefaultBlank
	if got := ComputeVersion(explicit); got != va {
		t.Errorf("explicit default blank changed version: %s vs %s", got, va)
	}
	explicit.Blank = "_"
	if ComputeVersion(explicit) == va {
		t.Error("different blank produced the same version")
	}

	a.Version = "v1"
	if got := ComputeVersion(a); got != "v1" {
		t.Errorf("ComputeVersion() = %q, want pinned v1", got)
	}
}

func TestMachineBuilder(t *testing.T) {
	cfg, err := NewMachineBuilder("abc", "q0", "qa", "qr").
		States("q1").
		On("q0", Triple{"a", "b", "c"}).To("q1").Write(Triple{"X", "Y", "Z"}).Move(Moves{Right, Right, Right}).Done().
		Rule("q1", Triple{"a", "b", "c"}, "q1", Triple{"X", "Y", "Z"}, Moves{Right, Right, Right}).
		Rule("q1", Fill(DefaultBlank), "qa", Fill(DefaultBlank), Moves{Left, Left, Left}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	want := abcConfig()
	if ComputeVersion(&cfg) != ComputeVersion(want) {
		t.Errorf("built config differs from reference:\n got %+v\nwant %+v", cfg, *want)
	}
	if len(cfg.States) != 4 {
		t.Errorf("States = %v, want 4 entries", cfg.States)
	}
}

func TestMachineBuilderDefaults(t *testing.T) {
	cfg, err := NewMachineBuilder("m", "s", "yes", "no").Blank("_").On("s", Triple{"1", "1", "1"}).Done().Build()
	if err != nil {
		t.Fatal(err)
	}
	tc := cfg.Transitions[0]
	if tc.Next != "s" {
		t.Errorf("Next = %q, want s", tc.Next)
	}
	if got := tc.WriteTriple(); got != Fill("_") {
		t.Errorf("WriteTriple() = %v, want all blank", got)
	}
	if got := tc.Moves(); got != (Moves{Stay, Stay, Stay}) {
		t.Errorf("Moves() = %v, want all stay", got)
	}
}

func TestMachineBuilderRejectsDuplicate(t *testing.T) {
	_, err := NewMachineBuilder("m", "s", "yes", "no").
		Rule("s", Triple{"1", "1", "1"}, "yes", Fill(DefaultBlank), Moves{Stay, Stay, Stay}).
		Rule("s", Triple{"1", "1", "1"}, "no", Fill(DefaultBlank), Moves{Stay, Stay, Stay}).
		Build()
	if err == nil {
		t.Fatal("Build() accepted duplicate rule keys")
	}
}
