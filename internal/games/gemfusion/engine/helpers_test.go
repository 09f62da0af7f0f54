package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptedRandom returns queued values from Intn, then defers to
// fallback, or 0 when there is none.
type scriptedRandom struct {
	values   []int
	index    int
	fallback Random
}

var _ Random = (*scriptedRandom)(nil)

func newScriptedRandom(values ...int) *scriptedRandom {
	return &scriptedRandom{values: values}
}

func (r *scriptedRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if r.index >= len(r.values) {
		if r.fallback != nil {
			return r.fallback.Intn(n)
		}
		return 0
	}
	v := r.values[r.index]
	r.index++
	return v % n
}

// fixedClock never advances, so only the cascade bound can trigger.
func fixedClock() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

const hole = -2

// diagonalRows returns a board colored (r + 2c) mod 4, which has no match.
func diagonalRows(width, height int) [][]int {
	rows := make([][]int, height)
	for r := range rows {
		rows[r] = make([]int, width)
		for c := range rows[r] {
			rows[r][c] = (r + 2*c) % 4
		}
	}
	return rows
}

// sessionFromRows builds a session with an explicit board. Cells set to
// hole must also be listed in level.Holes.
func sessionFromRows(t *testing.T, level LevelConfig, rows [][]int, rng Random) *Session {
	t.Helper()
	require.NoError(t, level.Validate())
	require.Len(t, rows, level.Height)

	s := &Session{
		Level:     level,
		Grid:      NewGrid(level.Width, level.Height, level.Holes),
		MovesLeft: level.Moves,
		tracker:   NewTracker(level.Objectives),
		rng:       rng,
		rules:     DefaultRules(),
	}
	for r, row := range rows {
		require.Len(t, row, level.Width)
		for c, color := range row {
			if color == hole {
				continue
			}
			s.Grid.Set(At(r, c), s.newGem(color))
		}
	}
	return s
}

// scenarioLevel is a 7x8 board with 4 gem types and no holes or blockers.
func scenarioLevel(moves int, objectives ...Objective) LevelConfig {
	return LevelConfig{
		ID:             "scenario",
		Name:           "Scenario",
		Width:          7,
		Height:         8,
		Moves:          moves,
		GemTypes:       4,
		Objectives:     objectives,
		StarThresholds: []int{100, 200, 300},
	}
}

// testLevel is a plain 8x8 level used for randomized runs.
func testLevel() LevelConfig {
	return LevelConfig{
		ID:       "random",
		Width:    8,
		Height:   8,
		Moves:    20,
		GemTypes: 5,
		Holes:    []Cell{At(0, 0), At(0, 7), At(4, 3)},
		Blockers: []BlockerPlacement{
			{Type: BlockerIce, Layers: 2, Cells: []Cell{At(6, 1), At(6, 6)}},
			{Type: BlockerCrystal, Layers: 1, Count: 3},
		},
		Specials: []SpecialPlacement{
			{Cell: At(3, 3), Special: SpecialBurst, Color: NoColor},
		},
		Objectives: []Objective{
			{Kind: ObjectiveScore, Target: 5000},
			{Kind: ObjectiveCollect, Color: 1, Target: 20},
			{Kind: ObjectiveClearBlockers, AnyBlocker: true, Target: 5},
		},
		StarThresholds: []int{1000, 3000, 6000},
	}
}

// recordingSaver captures saved results.
type recordingSaver struct {
	results []LevelResult
}

func (r *recordingSaver) SaveProgress(res LevelResult) error {
	r.results = append(r.results, res)
	return nil
}

func eventsOfKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}
