package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

// DefaultVisualizer renders machines as Graphviz DOT and tapes as text.
type DefaultVisualizer struct{}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// ExportDOT generates Graphviz DOT source for the transition graph. Accept and
// reject are drawn as double circles and the current state is filled.
func (v *DefaultVisualizer) ExportDOT(config primitives.MachineConfig, current primitives.State) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", dotQuote(config.ID))
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle, fontsize=10];\n")
	buf.WriteString("  edge [fontsize=9];\n")
	buf.WriteString("  \"__start\" [shape=point];\n")

	for _, s := range collectStates(config) {
		var attrs []string
		switch s {
		case config.Accept:
			attrs = append(attrs, "shape=doublecircle", "color=darkgreen")
		case config.Reject:
			attrs = append(attrs, "shape=doublecircle", "color=red")
		}
		if s == current {
			attrs = append(attrs, "style=filled", "fillcolor=lightgreen")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %s;\n", dotQuote(string(s)))
			continue
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(string(s)), strings.Join(attrs, ", "))
	}

	if config.Initial != "" {
		fmt.Fprintf(&buf, "  \"__start\" -> %s;\n", dotQuote(string(config.Initial)))
	}
	for _, edge := range collectEdges(config) {
		fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", dotQuote(edge.From), dotQuote(edge.To), dotQuote(edge.Label))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the machine config to JSON.
func (v *DefaultVisualizer) ExportJSON(config primitives.MachineConfig) ([]byte, error) {
	return json.MarshalIndent(config, "", "  ")
}

// Edge represents one rule drawn between two states.
type Edge struct {
	From  string
	To    string
	Label string
}

// collectStates returns every state named anywhere in config, sorted.
func collectStates(config primitives.MachineConfig) []primitives.State {
	seen := make(map[primitives.State]bool)
	var out []primitives.State
	add := func(s primitives.State) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range config.States {
		add(s)
	}
	add(config.Initial)
	add(config.Accept)
	add(config.Reject)
	for _, t := range config.Transitions {
		add(t.State)
		add(t.Next)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// collectEdges returns one edge per rule, labeled read/write;moves.
func collectEdges(config primitives.MachineConfig) []Edge {
	rules := append([]primitives.TransitionConfig(nil), config.Transitions...)
	primitives.SortTransitions(rules)

	edges := make([]Edge, 0, len(rules))
	for _, t := range rules {
		edges = append(edges, Edge{
			From:  string(t.State),
			To:    string(t.Next),
			Label: fmt.Sprintf("%s/%s;%s", joinSymbols(t.Read), joinSymbols(t.Write), joinMoves(t.Move)),
		})
	}
	return edges
}

func joinSymbols(syms []primitives.Symbol) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

func joinMoves(moves []primitives.Direction) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}

// RenderTapes draws the tapes one per line with a caret under each head:
//
//	state q1
//	1: X a <>
//	     ^
func RenderTapes(tapes [primitives.Tapes][]primitives.Symbol, heads [primitives.Tapes]int, state primitives.State) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "state %s\n", state)
	for i, cells := range tapes {
		prefix := fmt.Sprintf("%d: ", i+1)
		buf.WriteString(prefix)
		offset := len(prefix)
		for j, c := range cells {
			if j > 0 {
				buf.WriteByte(' ')
			}
			if j < heads[i] {
				offset += utf8.RuneCountInString(string(c)) + 1
			}
			buf.WriteString(string(c))
		}
		buf.WriteByte('\n')
		if heads[i] >= 0 && heads[i] < len(cells) {
			buf.WriteString(strings.Repeat(" ", offset))
			buf.WriteString("^\n")
		}
	}
	return buf.String()
}

// RenderHistory renders each entry as a numbered block.
func RenderHistory(entries []core.HistoryEntry) string {
	var buf bytes.Buffer
	for _, e := range entries {
		match := "matched"
		if !e.Matched {
			match = "no rule"
		}
		fmt.Fprintf(&buf, "step %d read %s (%s)\n", e.Step, e.Read, match)
		buf.WriteString(RenderTapes(e.Tapes, e.Heads, e.State))
	}
	return buf.String()
}
