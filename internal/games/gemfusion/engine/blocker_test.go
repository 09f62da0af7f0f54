package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearAdjacentBlockersLayers(t *testing.T) {
	for layers := 1; layers <= 4; layers++ {
		g := gridFromRows(diagonalRows(3, 3))
		center := g.At(At(1, 1))
		center.Blocker = &Blocker{Type: BlockerCrystal, Layers: layers}
		color := center.Color

		neighbors := At(1, 1).Neighbors()
		for event := 1; event <= layers; event++ {
			// Alternate between the four distinct neighbors.
			hits := ClearAdjacentBlockers(g, neighbors[(event-1)%4])
			require.Len(t, hits, 1)

			if event < layers {
				assert.True(t, center.Blocked(), "unblocked early at event %d of %d", event, layers)
				assert.Equal(t, layers-event, hits[0].LayersLeft)
				assert.False(t, hits[0].Cleared)
			} else {
				assert.False(t, center.Blocked())
				assert.True(t, hits[0].Cleared)
				assert.Equal(t, 0, hits[0].LayersLeft)
			}
		}
		assert.Equal(t, color, center.Color)
		assert.Same(t, center, g.At(At(1, 1)))
	}
}

func TestClearAdjacentBlockersIgnoresDiagonals(t *testing.T) {
	g := gridFromRows(diagonalRows(3, 3))
	g.At(At(0, 0)).Blocker = &Blocker{Type: BlockerBomb, Layers: 1}

	assert.Empty(t, ClearAdjacentBlockers(g, At(1, 1)))
	assert.Equal(t, 1, CountBlockers(g))

	hits := ClearAdjacentBlockers(g, At(0, 1))
	require.Len(t, hits, 1)
	assert.Equal(t, BlockerBomb, hits[0].Type)
	assert.Equal(t, 0, CountBlockers(g))
}

func TestClearAdjacentBlockersAtEdge(t *testing.T) {
	g := gridFromRows(diagonalRows(3, 3))
	assert.Empty(t, ClearAdjacentBlockers(g, At(0, 0)))
}
