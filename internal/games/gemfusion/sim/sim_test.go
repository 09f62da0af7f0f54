package sim

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

func simLevel() engine.LevelConfig {
	return engine.LevelConfig{
		ID:       "simtest",
		Width:    7,
		Height:   7,
		Moves:    8,
		GemTypes: 5,
		Blockers: []engine.BlockerPlacement{
			{Type: engine.BlockerIce, Layers: 1, Count: 2},
		},
		Objectives: []engine.Objective{
			{Kind: engine.ObjectiveScore, Target: 1500},
		},
		StarThresholds: []int{1000, 2000, 4000},
	}
}

func TestRunProducesConsistentReport(t *testing.T) {
	r, err := Run(context.Background(), Config{
		Level:   simLevel(),
		Rules:   engine.DefaultRules(),
		Trials:  25,
		Workers: 3,
		Seed:    42,
	})
	require.NoError(t, err)

	assert.Equal(t, "simtest", r.LevelID)
	assert.Equal(t, 25, r.Trials)
	assert.Greater(t, r.Moves, 0)
	assert.LessOrEqual(t, r.Moves, 25*simLevel().Moves)
	assert.LessOrEqual(t, r.WithinBound, r.Moves)
	assert.Greater(t, r.DepthMean, 0.5)
	assert.GreaterOrEqual(t, r.DepthMax, 1)

	stars := 0
	for _, n := range r.Stars {
		stars += n
	}
	assert.Equal(t, 25, stars)

	assert.LessOrEqual(t, r.WithinCI.Lo, r.WithinRate)
	assert.GreaterOrEqual(t, r.WithinCI.Hi, r.WithinRate)
	assert.GreaterOrEqual(t, r.WithinRate, 0.99)
}

func TestRunIndependentOfWorkers(t *testing.T) {
	base := Config{Level: simLevel(), Rules: engine.DefaultRules(), Trials: 12, Seed: 7, Strategy: RandomHint{}}

	one := base
	one.Workers = 1
	many := base
	many.Workers = 4

	r1, err := Run(context.Background(), one)
	require.NoError(t, err)
	r4, err := Run(context.Background(), many)
	require.NoError(t, err)

	r1.Elapsed, r4.Elapsed = 0, 0
	assert.Equal(t, r1, r4)
}

func TestRunRejectsBadConfig(t *testing.T) {
	_, err := Run(context.Background(), Config{Level: simLevel(), Trials: 0})
	require.Error(t, err)

	bad := simLevel()
	bad.Moves = 0
	_, err = Run(context.Background(), Config{Level: bad, Trials: 1})
	var verr engine.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "BAD_MOVES", verr.Code)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{Level: simLevel(), Trials: 50, Workers: 2})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	trials := []Trial{
		{Depths: []int{1, 2, 3}, Aborted: 0, Score: 1000, Stars: 1, Outcome: engine.OutcomeLost},
		{Depths: []int{1, 1}, Aborted: 1, Score: 3000, Stars: 2, Outcome: engine.OutcomeWon, Shuffles: 2},
		{Depths: nil, Score: 0, Stars: 0, Outcome: engine.OutcomeNone, Stuck: true},
	}
	r := Summarize("lvl", trials)

	assert.Equal(t, 5, r.Moves)
	assert.Equal(t, 4, r.WithinBound)
	assert.InDelta(t, 0.8, r.WithinRate, 1e-9)
	assert.InDelta(t, 1.6, r.DepthMean, 1e-9)
	assert.Equal(t, 3, r.DepthMax)
	assert.Equal(t, 1, r.Wins)
	assert.Equal(t, 1, r.Stuck)
	assert.Equal(t, 2, r.Shuffles)
	assert.Equal(t, [4]int{1, 1, 1, 0}, r.Stars)
	assert.InDelta(t, 4000.0/3, r.ScoreMean, 1e-9)
}

func TestSummarizeSingleSample(t *testing.T) {
	r := Summarize("lvl", []Trial{{Depths: []int{2}, Score: 500}})
	assert.Equal(t, 2.0, r.DepthMean)
	assert.Zero(t, r.DepthStd)
	assert.Equal(t, 500.0, r.ScoreMean)
	assert.Zero(t, r.ScoreStd)
}

func TestProportionCI(t *testing.T) {
	p, ci := ProportionCI(0, 0, Confidence)
	assert.Zero(t, p)
	assert.Equal(t, CI{Lo: 0, Hi: 1}, ci)

	p, ci = ProportionCI(0, 20, Confidence)
	assert.Zero(t, p)
	assert.Zero(t, ci.Lo)
	assert.InDelta(t, 0.1684, ci.Hi, 1e-3)

	p, ci = ProportionCI(20, 20, Confidence)
	assert.Equal(t, 1.0, p)
	assert.Equal(t, 1.0, ci.Hi)
	assert.InDelta(t, 0.8316, ci.Lo, 1e-3)

	p, ci = ProportionCI(50, 100, Confidence)
	assert.Equal(t, 0.5, p)
	assert.InDelta(t, 0.3983, ci.Lo, 1e-3)
	assert.InDelta(t, 0.6017, ci.Hi, 1e-3)
}

func TestStrategies(t *testing.T) {
	s, err := engine.NewSession(simLevel(), engine.NewRandom(1), engine.DefaultRules())
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))

	first, ok := FirstHint{}.Choose(s.Grid, rng)
	require.True(t, ok)
	want, _ := engine.FindHint(s.Grid)
	assert.Equal(t, want, first)

	random, ok := RandomHint{}.Choose(s.Grid, rng)
	require.True(t, ok)
	assert.Contains(t, engine.AllHints(s.Grid), random)

	for _, name := range []string{"", "first", "random"} {
		_, err := ParseStrategy(name)
		assert.NoError(t, err, name)
	}
	_, err = ParseStrategy("greedy")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	r := Summarize("lvl01", []Trial{
		{Depths: []int{1, 2}, Score: 12500, Stars: 3, Outcome: engine.OutcomeWon},
	})

	var buf bytes.Buffer
	require.NoError(t, r.Format(&buf))
	out := buf.String()

	assert.Contains(t, out, "Simulation lvl01")
	assert.Contains(t, out, "Within safety bound")
	assert.Contains(t, out, "100.00 %")
	assert.Contains(t, out, "12,500")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	width := len([]rune(string(lines[0])))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(string(l))), "ragged table line %q", l)
	}
}

func TestSeedForDistinct(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		s := seedFor(99, i)
		assert.False(t, seen[s], "duplicate seed at %d", i)
		assert.GreaterOrEqual(t, s, int64(0))
		seen[s] = true
	}
}
