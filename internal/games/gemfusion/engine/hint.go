package engine

// Swap is a pair of orthogonally adjacent cells.
type Swap struct {
	A Cell `json:"a"`
	B Cell `json:"b"`
}

// swappable returns true if the gem at c may take part in a swap.
func swappable(g *Grid, c Cell) bool {
	gem := g.At(c)
	return gem != nil && !gem.Blocked()
}

// validSwap reports whether swapping a and b would activate a special or
// create a match. The grid is restored before returning.
func validSwap(g *Grid, a, b Cell) bool {
	if !swappable(g, a) || !swappable(g, b) {
		return false
	}
	if g.At(a).Special != SpecialNone || g.At(b).Special != SpecialNone {
		return true
	}
	g.Swap(a, b)
	ok := matchesThrough(g, a) || matchesThrough(g, b)
	g.Swap(a, b)
	return ok
}

// AllHints returns every valid swap in row-major order of the first cell.
// Each pair is listed once, with B to the right of or below A.
func AllHints(g *Grid) []Swap {
	var hints []Swap
	for _, a := range g.Cells() {
		for _, b := range [2]Cell{a.Add(0, 1), a.Add(1, 0)} {
			if validSwap(g, a, b) {
				hints = append(hints, Swap{A: a, B: b})
			}
		}
	}
	return hints
}

// FindHint returns the first valid swap in row-major order.
func FindHint(g *Grid) (Swap, bool) {
	for _, a := range g.Cells() {
		for _, b := range [2]Cell{a.Add(0, 1), a.Add(1, 0)} {
			if validSwap(g, a, b) {
				return Swap{A: a, B: b}, true
			}
		}
	}
	return Swap{}, false
}
