package engine

// Activate returns the cells cleared by the special gem at `at` after it was
// swapped with the gem at partner. A rainbow targets the partner's color; a
// colorless partner (another rainbow) makes it target every gem.
func Activate(g *Grid, at, partner Cell) []Cell {
	gem := g.At(at)
	if gem == nil || gem.Special == SpecialNone {
		return nil
	}
	target := NoColor
	if p := g.At(partner); p != nil {
		target = p.Color
	}
	return ActivationArea(g, at, gem.Special, target)
}

// activateSwap fires every special among the two swapped cells. The areas
// are computed on the post-swap board, merged, and destroyed once.
func (r *Resolver) activateSwap(s *Session, a, b Cell) int {
	var cells []Cell
	seen := make(map[Cell]bool)

	for _, pair := range [2][2]Cell{{a, b}, {b, a}} {
		at, partner := pair[0], pair[1]
		gem := s.Grid.At(at)
		if gem == nil || gem.Special == SpecialNone {
			continue
		}
		area := Activate(s.Grid, at, partner)
		r.emit(SpecialActivatedEvent{Cell: at, Special: gem.Special, Cleared: len(area)})
		for _, c := range area {
			if !seen[c] {
				seen[c] = true
				cells = append(cells, c)
			}
		}
	}
	if len(cells) == 0 {
		return 0
	}

	r.emitAll(s.addScore(len(cells) * s.rules.ActivationPointsPerGem))
	r.destroyCells(s, cells, CauseActivation)
	return len(cells)
}
