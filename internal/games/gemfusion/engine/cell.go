// Package engine provides the match-3 resolution engine for Gem Fusion Quest.
// This package is UI-agnostic and deterministic for a given RNG seed.
package engine

import "fmt"

// Cell is a grid coordinate. Row 0 is the top row; gravity pulls toward
// higher row indices.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// At is a convenience constructor for Cell.
func At(row, col int) Cell {
	return Cell{Row: row, Col: col}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(r%d,c%d)", c.Row, c.Col)
}

// Add returns the cell offset by (dr, dc).
func (c Cell) Add(dr, dc int) Cell {
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Adjacent returns true if other is one of the 4 orthogonal neighbors.
func (c Cell) Adjacent(other Cell) bool {
	dr := c.Row - other.Row
	dc := c.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

// Neighbors returns the 4 orthogonal neighbors in up, right, down, left order.
// Out-of-bounds cells are included; callers filter with Grid.InBounds.
func (c Cell) Neighbors() [4]Cell {
	return [4]Cell{
		c.Add(-1, 0),
		c.Add(0, 1),
		c.Add(1, 0),
		c.Add(0, -1),
	}
}

// less orders cells row-major.
func (c Cell) less(other Cell) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Col < other.Col
}
