package engine

// BlockerHit records one layer removed from a blocker.
type BlockerHit struct {
	Cell       Cell
	Type       BlockerType
	LayersLeft int
	Cleared    bool
}

// ClearAdjacentBlockers removes one layer from every blocker on the four
// orthogonal neighbors of a cleared cell. A blocker reaching zero layers is
// detached; the gem beneath keeps its color and stays on the grid.
func ClearAdjacentBlockers(g *Grid, cleared Cell) []BlockerHit {
	var hits []BlockerHit
	for _, n := range cleared.Neighbors() {
		gem := g.At(n)
		if gem == nil || gem.Blocker == nil {
			continue
		}

		gem.Blocker.Layers--
		hit := BlockerHit{
			Cell:       n,
			Type:       gem.Blocker.Type,
			LayersLeft: gem.Blocker.Layers,
		}
		if gem.Blocker.Layers <= 0 {
			hit.LayersLeft = 0
			hit.Cleared = true
			gem.Blocker = nil
		}
		hits = append(hits, hit)
	}
	return hits
}

// CountBlockers returns the number of blocked gems on the grid.
func CountBlockers(g *Grid) int {
	count := 0
	for _, c := range g.Cells() {
		if gem := g.At(c); gem != nil && gem.Blocked() {
			count++
		}
	}
	return count
}
