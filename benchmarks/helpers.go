// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

var (
	right = primitives.Moves{primitives.Right, primitives.Right, primitives.Right}
	left  = primitives.Moves{primitives.Left, primitives.Left, primitives.Left}
	stay  = primitives.Moves{primitives.Stay, primitives.Stay, primitives.Stay}
	blank = primitives.Fill(primitives.DefaultBlank)
)

// ReferenceConfig is the a^n b^n c^n machine.
func ReferenceConfig() primitives.MachineConfig {
	cfg, err := primitives.NewMachineBuilder("abc", "q0", "qa", "qr").
		Rule("q0", primitives.Triple{"a", "b", "c"}, "q1", primitives.Triple{"X", "Y", "Z"}, right).
		Rule("q1", primitives.Triple{"a", "b", "c"}, "q1", primitives.Triple{"X", "Y", "Z"}, right).
		Rule("q1", blank, "qa", blank, left).
		Build()
	if err != nil {
		panic(err)
	}
	return cfg
}

// GenABCInput returns n copies of each letter, one block per tape.
func GenABCInput(n int) [primitives.Tapes][]primitives.Symbol {
	var tapes [primitives.Tapes][]primitives.Symbol
	for i, s := range []primitives.Symbol{"a", "b", "c"} {
		tapes[i] = make([]primitives.Symbol, n)
		for j := range tapes[i] {
			tapes[i][j] = s
		}
	}
	return tapes
}

// GenWideConfig creates one state with numRules rules, each keyed on a
// different first-tape symbol, so lookups hit a large table.
func GenWideConfig(numRules int) primitives.MachineConfig {
	if numRules < 1 {
		numRules = 1
	}
	mb := primitives.NewMachineBuilder(fmt.Sprintf("wide_%d", numRules), "scan", "qa", "qr")
	for i := 0; i < numRules; i++ {
		sym := primitives.Symbol(fmt.Sprintf("s%d", i))
		mb.Rule("scan", primitives.Triple{sym, primitives.DefaultBlank, primitives.DefaultBlank}, "scan", blank, right)
	}
	mb.Rule("scan", blank, "qa", blank, stay)
	cfg, err := mb.Build()
	if err != nil {
		panic(err)
	}
	return cfg
}

// GenWideInput returns a first tape cycling through numRules symbols.
func GenWideInput(numRules, length int) [primitives.Tapes][]primitives.Symbol {
	var tapes [primitives.Tapes][]primitives.Symbol
	tapes[0] = make([]primitives.Symbol, length)
	for i := range tapes[0] {
		tapes[0][i] = primitives.Symbol(fmt.Sprintf("s%d", i%numRules))
	}
	return tapes
}

// GenSnapshotYAML generates YAML bytes for a finished reference run of size n.
func GenSnapshotYAML(n int) []byte {
	e := core.NewEngine(ReferenceConfig(), GenABCInput(n), core.WithRunID(strings.Repeat("r", 8)))
	e.Execute()
	data, err := yaml.Marshal(e.Snapshot())
	if err != nil {
		panic(err)
	}
	return data
}
