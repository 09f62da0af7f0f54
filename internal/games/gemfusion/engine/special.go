package engine

// Promotion returns the cell and special kind a match group promotes, if any.
// Groups of 4 promote the middle cell to a line special along the group's
// axis; groups of 5 or more promote it to a rainbow. The middle is the
// floor(len/2)-th cell in scan order.
func Promotion(m MatchGroup) (Cell, Special, bool) {
	n := m.Len()
	switch {
	case n >= 5:
		return m.Cells[n/2], SpecialRainbow, true
	case n == 4:
		kind := SpecialLineH
		if m.Axis == AxisCol {
			kind = SpecialLineV
		}
		return m.Cells[n/2], kind, true
	default:
		return Cell{}, SpecialNone, false
	}
}

// promotion is one planned special-gem creation within a cascade step.
type promotion struct {
	cell Cell
	kind Special
}

// planPromotions applies Promotion to every group in order. When two groups
// promote the same cell, a rainbow beats a line special and otherwise the
// first group in scan order keeps the cell.
func planPromotions(groups []MatchGroup) []promotion {
	var plan []promotion
	byCell := make(map[Cell]int)

	for _, grp := range groups {
		cell, kind, ok := Promotion(grp)
		if !ok {
			continue
		}
		if i, exists := byCell[cell]; exists {
			if kind == SpecialRainbow && plan[i].kind != SpecialRainbow {
				plan[i].kind = kind
			}
			continue
		}
		byCell[cell] = len(plan)
		plan = append(plan, promotion{cell: cell, kind: kind})
	}
	return plan
}

// ActivationArea returns the cells a special gem at the given cell clears,
// starting with the special itself. Holes, empty cells and blocked gems are
// skipped. targetColor only applies to rainbows; NoColor means every gem.
func ActivationArea(g *Grid, at Cell, kind Special, targetColor int) []Cell {
	cells := []Cell{at}
	include := func(c Cell) {
		if c == at {
			return
		}
		gem := g.At(c)
		if gem == nil || gem.Blocked() {
			return
		}
		cells = append(cells, c)
	}

	switch kind {
	case SpecialLineH:
		for col := 0; col < g.Width; col++ {
			include(At(at.Row, col))
		}
	case SpecialLineV:
		for row := 0; row < g.Height; row++ {
			include(At(row, at.Col))
		}
	case SpecialBurst:
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				c := at.Add(dr, dc)
				if g.InBounds(c) {
					include(c)
				}
			}
		}
	case SpecialRainbow:
		for _, c := range g.Cells() {
			gem := g.At(c)
			if gem == nil {
				continue
			}
			if targetColor == NoColor || gem.Color == targetColor {
				include(c)
			}
		}
	}

	return cells
}
