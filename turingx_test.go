package turingx_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/comalice/turingx"
	"github.com/comalice/turingx/testutil"
)

func TestSplitInput(t *testing.T) {
	tests := []struct {
		in   string
		want [3]string
	}{
		{"aabbcc", [3]string{"aa", "bb", "cc"}},
		{"aabbcz", [3]string{"aa", "bb", "cz"}},
		{"", [3]string{"", "", ""}},
		{"ab", [3]string{"", "", "ab"}},
		{"abcde", [3]string{"a", "b", "cde"}},
		{"ääbbcc", [3]string{"ää", "bb", "cc"}},
	}
	for _, tt := range tests {
		got := turingx.SplitInput(tt.in)
		for i := range got {
			if s := turingx.JoinTape(got[i]); s != tt.want[i] {
				t.Errorf("SplitInput(%q)[%d] = %q, want %q", tt.in, i, s, tt.want[i])
			}
		}
	}
}

func TestNewMachine_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		accepted  bool
		final     turingx.State
		steps     int
		firstRead turingx.Triple
	}{
		{"accept", "aabbcc", true, "qa", 3, turingx.Triple{"a", "b", "c"}},
		{"reject on z", "aabbcz", false, "qr", 2, turingx.Triple{"a", "b", "c"}},
		{"empty input", "", false, "qr", 1, turingx.Triple{turingx.DefaultBlank, turingx.DefaultBlank, turingx.DefaultBlank}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := turingx.NewMachine(turingx.ReferenceConfig(), tt.input)
			if err != nil {
				t.Fatalf("NewMachine() error = %v", err)
			}
			if got := e.Execute(); got != tt.accepted {
				t.Errorf("Execute() = %v, want %v", got, tt.accepted)
			}
			if e.State() != tt.final || e.Steps() != tt.steps {
				t.Errorf("final (%q,%d), want (%q,%d)", e.State(), e.Steps(), tt.final, tt.steps)
			}
			if first := e.History().At(0); first.Read != tt.firstRead {
				t.Errorf("first read = %v, want %v", first.Read, tt.firstRead)
			}
		})
	}
}

func TestScenarioC_TapesExtendToOneBlank(t *testing.T) {
	e, err := turingx.NewMachine(turingx.ReferenceConfig(), "")
	if err != nil {
		t.Fatal(err)
	}
	e.Step()
	for i, tape := range e.Tapes() {
		if len(tape) != 1 || tape[0] != turingx.DefaultBlank {
			t.Errorf("tape %d = %v, want [<>]", i, tape)
		}
	}
	if e.Status() != turingx.Rejected {
		t.Errorf("Status() = %v, want rejected", e.Status())
	}
}

func TestNewMachine_InvalidConfig(t *testing.T) {
	cfg := turingx.ReferenceConfig()
	cfg.Reject = cfg.Accept
	if _, err := turingx.NewMachine(cfg, "abc"); err == nil || !strings.Contains(err.Error(), `machine "abc"`) {
		t.Errorf("NewMachine() error = %v, want wrapped validation error", err)
	}
}

func TestExecuteContext_StepLimit(t *testing.T) {
	e, err := turingx.NewBuilder("loop", "q0", "qa", "qr").
		Rules("q0 <> <> <> -> q0 <> <> <> S S S").
		Engine("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.ExecuteContext(context.Background(), 50); !errors.Is(err, turingx.ErrStepLimit) {
		t.Errorf("ExecuteContext() error = %v, want ErrStepLimit", err)
	}
}

func TestRunners_AgreeOnScenarios(t *testing.T) {
	for _, input := range []string{"abc", "aabbcc", "aaabbbccc", "aabbcz", "", "abcabc", "aabbc"} {
		var results []testutil.Result
		for _, r := range testutil.Runners() {
			res, err := r.Run(context.Background(), turingx.ReferenceConfig(), input)
			if err != nil {
				t.Fatalf("%s(%q) error = %v", r.Name(), input, err)
			}
			results = append(results, res)
		}
		for i := 1; i < len(results); i++ {
			if results[i] != results[0] {
				t.Errorf("input %q: %s = %+v, %s = %+v", input,
					testutil.Runners()[0].Name(), results[0], testutil.Runners()[i].Name(), results[i])
			}
		}
	}
}
