package production

import (
	"strings"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

var (
	right = primitives.Moves{primitives.Right, primitives.Right, primitives.Right}
	left  = primitives.Moves{primitives.Left, primitives.Left, primitives.Left}
	blank = primitives.Fill(primitives.DefaultBlank)
)

func abcConfig() primitives.MachineConfig {
	return primitives.MachineConfig{
		ID:      "abc",
		States:  []primitives.State{"q0", "q1", "qa", "qr"},
		Initial: "q0",
		Accept:  "qa",
		Reject:  "qr",
		Transitions: []primitives.TransitionConfig{
			primitives.NewTransitionConfig("q0", primitives.Triple{"a", "b", "c"}, "q1", primitives.Triple{"X", "Y", "Z"}, right),
			primitives.NewTransitionConfig("q1", primitives.Triple{"a", "b", "c"}, "q1", primitives.Triple{"X", "Y", "Z"}, right),
			primitives.NewTransitionConfig("q1", blank, "qa", blank, left),
		},
	}
}

func syms(s string) []primitives.Symbol {
	var out []primitives.Symbol
	for _, r := range s {
		out = append(out, primitives.Symbol(string(r)))
	}
	return out
}

func tapes(a, b, c string) [primitives.Tapes][]primitives.Symbol {
	return [primitives.Tapes][]primitives.Symbol{syms(a), syms(b), syms(c)}
}

// finishedRun executes the reference machine on input and returns its snapshot.
func finishedRun(runID, a, b, c string) core.RunSnapshot {
	e := core.NewEngine(abcConfig(), tapes(a, b, c), core.WithRunID(runID))
	e.Execute()
	return e.Snapshot()
}

func joinTape(cells []primitives.Symbol) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}
