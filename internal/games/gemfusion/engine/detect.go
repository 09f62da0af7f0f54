package engine

import (
	"sort"
	"strconv"
	"strings"
)

// MinMatch is the shortest run that counts as a match.
const MinMatch = 3

// Axis is the scan direction a match group was found along.
type Axis uint8

const (
	AxisRow Axis = iota // horizontal, ordered left to right
	AxisCol             // vertical, ordered top to bottom
)

// String returns the string representation of an axis.
func (a Axis) String() string {
	if a == AxisRow {
		return "row"
	}
	return "col"
}

// MatchGroup is a maximal run of same-colored matchable gems along one axis.
// Cells are ordered in scan direction.
type MatchGroup struct {
	Axis  Axis
	Color int
	Cells []Cell
}

// Len returns the number of cells in the group.
func (m MatchGroup) Len() int {
	return len(m.Cells)
}

// Key returns a canonical key built from the sorted coordinate set.
func (m MatchGroup) Key() string {
	sorted := make([]Cell, len(m.Cells))
	copy(sorted, m.Cells)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })

	var b strings.Builder
	for i, c := range sorted {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Itoa(c.Row))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(c.Col))
	}
	return b.String()
}

// FindMatches scans every row and then every column for runs of at least
// MinMatch matchable gems sharing a color. Overlapping horizontal and
// vertical runs are reported as separate groups. The grid is not modified.
func FindMatches(g *Grid) []MatchGroup {
	var groups []MatchGroup
	seen := make(map[string]bool)

	add := func(group MatchGroup) {
		key := group.Key()
		if seen[key] {
			return
		}
		seen[key] = true
		groups = append(groups, group)
	}

	for r := 0; r < g.Height; r++ {
		scanLine(g, At(r, 0), 0, 1, AxisRow, add)
	}
	for c := 0; c < g.Width; c++ {
		scanLine(g, At(0, c), 1, 0, AxisCol, add)
	}

	return groups
}

// scanLine walks one row or column starting at start and emits every run
// of length >= MinMatch.
func scanLine(g *Grid, start Cell, dr, dc int, axis Axis, emit func(MatchGroup)) {
	var run []Cell
	runColor := NoColor

	flush := func() {
		if len(run) >= MinMatch {
			cells := make([]Cell, len(run))
			copy(cells, run)
			emit(MatchGroup{Axis: axis, Color: runColor, Cells: cells})
		}
		run = run[:0]
		runColor = NoColor
	}

	for c := start; g.InBounds(c); c = c.Add(dr, dc) {
		gem := g.At(c)
		if gem == nil || !gem.Matchable() {
			flush()
			continue
		}
		if gem.Color != runColor {
			flush()
			runColor = gem.Color
		}
		run = append(run, c)
	}
	flush()
}

// HasMatch reports whether any match group exists on the grid.
func HasMatch(g *Grid) bool {
	return len(FindMatches(g)) > 0
}
