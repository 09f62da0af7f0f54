package engine

import (
	"fmt"
	"hash/fnv"
)

// Grid is the rectangular board. Cells are stored in row-major order:
// index = row*Width + col. A hole is permanently inert and never holds a gem.
type Grid struct {
	Width  int
	Height int
	holes  []bool
	gems   []*Gem
}

// NewGrid creates an empty grid with the given dimensions and hole mask.
// Holes outside the grid are ignored.
func NewGrid(width, height int, holes []Cell) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		holes:  make([]bool, width*height),
		gems:   make([]*Gem, width*height),
	}
	for _, h := range holes {
		if g.InBounds(h) {
			g.holes[g.index(h)] = true
		}
	}
	return g
}

// index converts a cell to a flat array index.
func (g *Grid) index(c Cell) int {
	return c.Row*g.Width + c.Col
}

// InBounds returns true if the cell is within the grid boundaries.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Height && c.Col >= 0 && c.Col < g.Width
}

// IsHole returns true if the cell is a hole. Out-of-bounds cells are not holes.
func (g *Grid) IsHole(c Cell) bool {
	return g.InBounds(c) && g.holes[g.index(c)]
}

// Playable returns true if the cell is in bounds and not a hole.
func (g *Grid) Playable(c Cell) bool {
	return g.InBounds(c) && !g.holes[g.index(c)]
}

// At returns the gem at the cell, or nil for holes, empty and out-of-bounds cells.
func (g *Grid) At(c Cell) *Gem {
	if !g.InBounds(c) {
		return nil
	}
	return g.gems[g.index(c)]
}

// IsEmpty returns true if the cell is playable but holds no gem.
func (g *Grid) IsEmpty(c Cell) bool {
	return g.Playable(c) && g.gems[g.index(c)] == nil
}

// Set places a gem at the cell. Placing a gem on a hole or outside the grid
// is a programming error.
func (g *Grid) Set(c Cell, gem *Gem) {
	if !g.Playable(c) {
		panic(fmt.Sprintf("engine: cannot place gem at unplayable cell %v", c))
	}
	g.gems[g.index(c)] = gem
}

// Remove clears the cell and returns the gem that was there.
func (g *Grid) Remove(c Cell) *Gem {
	if !g.InBounds(c) {
		return nil
	}
	i := g.index(c)
	gem := g.gems[i]
	g.gems[i] = nil
	return gem
}

// Swap exchanges the contents of two cells.
func (g *Grid) Swap(a, b Cell) {
	ia, ib := g.index(a), g.index(b)
	g.gems[ia], g.gems[ib] = g.gems[ib], g.gems[ia]
}

// Cells returns all playable cells in row-major order.
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, 0, len(g.gems))
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			cell := At(r, c)
			if !g.holes[g.index(cell)] {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// EmptyCells returns all playable cells without a gem, row-major.
func (g *Grid) EmptyCells() []Cell {
	var cells []Cell
	for _, c := range g.Cells() {
		if g.gems[g.index(c)] == nil {
			cells = append(cells, c)
		}
	}
	return cells
}

// Full returns true if every playable cell holds a gem.
func (g *Grid) Full() bool {
	for i, gem := range g.gems {
		if gem == nil && !g.holes[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the grid, including gems and blockers.
func (g *Grid) Clone() *Grid {
	clone := &Grid{
		Width:  g.Width,
		Height: g.Height,
		holes:  make([]bool, len(g.holes)),
		gems:   make([]*Gem, len(g.gems)),
	}
	copy(clone.holes, g.holes)
	for i, gem := range g.gems {
		if gem != nil {
			clone.gems[i] = gem.clone()
		}
	}
	return clone
}

// Colors returns the color of every cell as [row][col]. Holes and empty
// cells are reported as NoColor.
func (g *Grid) Colors() [][]int {
	out := make([][]int, g.Height)
	for r := range out {
		out[r] = make([]int, g.Width)
		for c := range out[r] {
			out[r][c] = NoColor
			if gem := g.At(At(r, c)); gem != nil {
				out[r][c] = gem.Color
			}
		}
	}
	return out
}

// Hash returns an FNV-64a digest of the board contents (colors, specials,
// blockers and holes). Gem IDs are not part of the digest.
func (g *Grid) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%dx%d;", g.Width, g.Height)
	for i, gem := range g.gems {
		switch {
		case g.holes[i]:
			fmt.Fprint(h, "#,")
		case gem == nil:
			fmt.Fprint(h, "_,")
		case gem.Blocker != nil:
			fmt.Fprintf(h, "%d:%d:%d/%d,", gem.Color, gem.Special, gem.Blocker.Type, gem.Blocker.Layers)
		default:
			fmt.Fprintf(h, "%d:%d,", gem.Color, gem.Special)
		}
	}
	return h.Sum64()
}
