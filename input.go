package turingx

// SplitInput distributes s over the three tapes: the first two get len/3
// runes each and the third gets the rest. Each rune is one symbol.
func SplitInput(s string) [Tapes][]Symbol {
	runes := []rune(s)
	n := len(runes) / 3

	var tapes [Tapes][]Symbol
	bounds := [Tapes + 1]int{0, n, 2 * n, len(runes)}
	for i := range tapes {
		for _, r := range runes[bounds[i]:bounds[i+1]] {
			tapes[i] = append(tapes[i], Symbol(string(r)))
		}
	}
	return tapes
}

// JoinTape renders a tape as a string, one symbol after another.
func JoinTape(cells []Symbol) string {
	var n int
	for _, c := range cells {
		n += len(c)
	}
	buf := make([]byte, 0, n)
	for _, c := range cells {
		buf = append(buf, string(c)...)
	}
	return string(buf)
}
