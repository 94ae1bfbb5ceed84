package primitives

import (
	"fmt"
	"strings"
)

// Tapes is the fixed number of tapes every machine drives.
const Tapes = 3

// DefaultBlank fills unwritten cells when a definition names no blank symbol.
const DefaultBlank Symbol = "<>"

// Symbol is one cell of tape content.
type Symbol string

// State identifies a machine state. States are opaque; only the configured
// initial, accept and reject states carry meaning.
type State string

// Direction is a head movement applied after a write.
type Direction string

const (
	Left  Direction = "L"
	Right Direction = "R"
	Stay  Direction = "S"
)

// Delta returns the head offset for the direction. Unknown directions do not move.
func (d Direction) Delta() int {
	switch d {
	case Left:
		return -1
	case Right:
		return 1
	default:
		return 0
	}
}

// Valid reports whether d is one of Left, Right or Stay.
func (d Direction) Valid() bool {
	return d == Left || d == Right || d == Stay
}

// ParseDirection accepts L/R/S in either case, plus the long names.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LEFT":
		return Left, nil
	case "R", "RIGHT":
		return Right, nil
	case "S", "STAY", "N":
		return Stay, nil
	}
	return "", fmt.Errorf("invalid direction %q", s)
}

// Triple holds one symbol per tape.
type Triple [Tapes]Symbol

func (t Triple) String() string {
	return fmt.Sprintf("(%s,%s,%s)", t[0], t[1], t[2])
}

// Moves holds one direction per tape.
type Moves [Tapes]Direction

func (m Moves) String() string {
	return fmt.Sprintf("(%s,%s,%s)", m[0], m[1], m[2])
}

// Fill returns a Triple with every entry set to sym.
func Fill(sym Symbol) Triple {
	return Triple{sym, sym, sym}
}

// Key is the lookup key of a transition: the current state plus the symbols
// under the three heads.
type Key struct {
	State State
	Read  Triple
}

func (k Key) String() string {
	return fmt.Sprintf("(%s,%s)", k.State, k.Read)
}
