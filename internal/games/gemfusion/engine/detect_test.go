package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridFromRows(rows [][]int) *Grid {
	var holes []Cell
	for r, row := range rows {
		for c, color := range row {
			if color == hole {
				holes = append(holes, At(r, c))
			}
		}
	}
	g := NewGrid(len(rows[0]), len(rows), holes)
	id := 0
	for r, row := range rows {
		for c, color := range row {
			if color == hole {
				continue
			}
			id++
			g.Set(At(r, c), &Gem{ID: id, Color: color})
		}
	}
	return g
}

func TestFindMatchesNone(t *testing.T) {
	g := gridFromRows(diagonalRows(7, 8))
	assert.Empty(t, FindMatches(g))
	assert.False(t, HasMatch(g))
}

func TestFindMatchesRowAndColumn(t *testing.T) {
	g := gridFromRows([][]int{
		{1, 1, 1, 2},
		{2, 3, 0, 2},
		{0, 3, 1, 2},
		{1, 3, 0, 1},
	})

	groups := FindMatches(g)
	require.Len(t, groups, 3)

	assert.Equal(t, AxisRow, groups[0].Axis)
	assert.Equal(t, 1, groups[0].Color)
	assert.Equal(t, []Cell{At(0, 0), At(0, 1), At(0, 2)}, groups[0].Cells)

	assert.Equal(t, AxisCol, groups[1].Axis)
	assert.Equal(t, []Cell{At(1, 1), At(2, 1), At(3, 1)}, groups[1].Cells)

	assert.Equal(t, AxisCol, groups[2].Axis)
	assert.Equal(t, []Cell{At(0, 3), At(1, 3), At(2, 3)}, groups[2].Cells)
}

func TestFindMatchesCrossIsTwoGroups(t *testing.T) {
	g := gridFromRows([][]int{
		{0, 1, 2, 0},
		{1, 1, 1, 2},
		{2, 1, 0, 3},
		{0, 2, 3, 0},
	})

	groups := FindMatches(g)
	require.Len(t, groups, 2)
	assert.Equal(t, AxisRow, groups[0].Axis)
	assert.Equal(t, AxisCol, groups[1].Axis)
	assert.Contains(t, groups[0].Cells, At(1, 1))
	assert.Contains(t, groups[1].Cells, At(1, 1))
}

func TestFindMatchesMaximalRun(t *testing.T) {
	g := gridFromRows([][]int{
		{2, 2, 2, 2, 2, 1},
		{0, 1, 0, 1, 0, 0},
		{1, 0, 1, 0, 1, 2},
	})

	groups := FindMatches(g)
	require.Len(t, groups, 1)
	assert.Equal(t, 5, groups[0].Len())
}

func TestFindMatchesBrokenByHoleBlockerAndRainbow(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Grid)
	}{
		{"blocker", func(g *Grid) { g.At(At(0, 2)).Blocker = &Blocker{Type: BlockerLock, Layers: 1} }},
		{"rainbow", func(g *Grid) {
			gem := g.At(At(0, 2))
			gem.Special = SpecialRainbow
			gem.Color = NoColor
		}},
		{"empty", func(g *Grid) { g.Remove(At(0, 2)) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := gridFromRows([][]int{
				{1, 1, 1, 1, 1},
				{0, 2, 0, 2, 0},
				{2, 0, 2, 0, 2},
			})
			tc.setup(g)
			assert.Empty(t, FindMatches(g))
		})
	}

	t.Run("hole", func(t *testing.T) {
		g := gridFromRows([][]int{
			{1, 1, hole, 1, 1},
			{0, 2, 0, 2, 0},
			{2, 0, 2, 0, 2},
		})
		assert.Empty(t, FindMatches(g))
	})
}

func TestFindMatchesLineSpecialIsMatchable(t *testing.T) {
	g := gridFromRows([][]int{
		{3, 3, 3},
		{0, 1, 2},
		{1, 2, 0},
	})
	g.At(At(0, 1)).Special = SpecialLineV

	require.Len(t, FindMatches(g), 1)
}

func TestFindMatchesMinimumRunOnRandomBoards(t *testing.T) {
	rng := NewRandom(7)
	for trial := 0; trial < 200; trial++ {
		g := NewGrid(8, 8, []Cell{At(rng.Intn(8), rng.Intn(8))})
		for _, c := range g.Cells() {
			g.Set(c, &Gem{Color: rng.Intn(4)})
		}

		keys := make(map[string]bool)
		for _, grp := range FindMatches(g) {
			require.GreaterOrEqual(t, grp.Len(), MinMatch)
			require.False(t, keys[grp.Key()], "duplicate group %s", grp.Key())
			keys[grp.Key()] = true

			for _, c := range grp.Cells {
				require.Equal(t, grp.Color, g.At(c).Color)
			}
			// Maximal: the cells just past each end do not extend the run.
			dr, dc := 0, 1
			if grp.Axis == AxisCol {
				dr, dc = 1, 0
			}
			for _, end := range []Cell{grp.Cells[0].Add(-dr, -dc), grp.Cells[grp.Len()-1].Add(dr, dc)} {
				if gem := g.At(end); gem != nil {
					require.NotEqual(t, grp.Color, gem.Color)
				}
			}
		}
	}
}

func TestMatchGroupKeyIsOrderIndependent(t *testing.T) {
	a := MatchGroup{Cells: []Cell{At(0, 2), At(0, 0), At(0, 1)}}
	b := MatchGroup{Cells: []Cell{At(0, 0), At(0, 1), At(0, 2)}}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "0,0;0,1;0,2", b.Key())
}
