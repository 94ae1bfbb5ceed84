package core

import "github.com/comalice/turingx/internal/primitives"

// tape is one growable cell sequence with its head.
type tape struct {
	cells []primitives.Symbol
	head  int
}

// TapeSet holds the three tapes. Each tape is unbounded in both directions:
// cells are added one at a time when a head reaches past either end.
// Not safe for concurrent use.
type TapeSet struct {
	tapes []*tape
	blank primitives.Symbol
}

// NewTapeSet copies contents into fresh tapes with every head at 0.
func NewTapeSet(blank primitives.Symbol, contents [primitives.Tapes][]primitives.Symbol) *TapeSet {
	return newTapeSetAt(blank, contents, [primitives.Tapes]int{})
}

func newTapeSetAt(blank primitives.Symbol, contents [primitives.Tapes][]primitives.Symbol, heads [primitives.Tapes]int) *TapeSet {
	ts := &TapeSet{
		tapes: make([]*tape, primitives.Tapes),
		blank: blank,
	}
	for i := range ts.tapes {
		ts.tapes[i] = &tape{
			cells: append([]primitives.Symbol(nil), contents[i]...),
			head:  heads[i],
		}
	}
	return ts
}

// extend grows tape i by one blank cell if its head is off either end.
// A negative head prepends and resets the head to 0.
func (ts *TapeSet) extend(i int) {
	t := ts.tapes[i]
	switch {
	case t.head < 0:
		t.cells = append([]primitives.Symbol{ts.blank}, t.cells...)
		t.head = 0
	case t.head >= len(t.cells):
		t.cells = append(t.cells, ts.blank)
	}
}

// ReadAt returns the symbol under head i, first adding at most one blank cell
// if the head is off the tape.
func (ts *TapeSet) ReadAt(i int) primitives.Symbol {
	ts.extend(i)
	t := ts.tapes[i]
	return t.cells[t.head]
}

// WriteAt overwrites the cell under head i. Writing the blank symbol leaves
// the cell unchanged: in a rule, blank means "no write".
func (ts *TapeSet) WriteAt(i int, sym primitives.Symbol) {
	if sym == ts.blank {
		return
	}
	ts.extend(i)
	t := ts.tapes[i]
	t.cells[t.head] = sym
}

// MoveHead shifts head i by the direction's offset. The head may leave the
// tape; the next read brings it back.
func (ts *TapeSet) MoveHead(i int, d primitives.Direction) {
	ts.tapes[i].head += d.Delta()
}

// Blank returns the filler symbol.
func (ts *TapeSet) Blank() primitives.Symbol {
	return ts.blank
}

// Head returns the head position of tape i.
func (ts *TapeSet) Head(i int) int {
	return ts.tapes[i].head
}

// Heads returns all head positions.
func (ts *TapeSet) Heads() [primitives.Tapes]int {
	var out [primitives.Tapes]int
	for i, t := range ts.tapes {
		out[i] = t.head
	}
	return out
}

// Len returns the number of materialized cells on tape i.
func (ts *TapeSet) Len(i int) int {
	return len(ts.tapes[i].cells)
}

// Snapshot returns independent copies of all tapes.
func (ts *TapeSet) Snapshot() [primitives.Tapes][]primitives.Symbol {
	var out [primitives.Tapes][]primitives.Symbol
	for i, t := range ts.tapes {
		out[i] = append(make([]primitives.Symbol, 0, len(t.cells)), t.cells...)
	}
	return out
}
