package sim

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

// Strategy picks the bot's next swap.
type Strategy interface {
	Name() string
	Choose(g *engine.Grid, rng *rand.Rand) (engine.Swap, bool)
}

// FirstHint always plays the first valid swap in row-major order.
type FirstHint struct{}

func (FirstHint) Name() string { return "first" }

func (FirstHint) Choose(g *engine.Grid, _ *rand.Rand) (engine.Swap, bool) {
	return engine.FindHint(g)
}

// RandomHint plays a uniformly chosen valid swap.
type RandomHint struct{}

func (RandomHint) Name() string { return "random" }

func (RandomHint) Choose(g *engine.Grid, rng *rand.Rand) (engine.Swap, bool) {
	hints := engine.AllHints(g)
	if len(hints) == 0 {
		return engine.Swap{}, false
	}
	return hints[rng.Intn(len(hints))], true
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "first":
		return FirstHint{}, nil
	case "random":
		return RandomHint{}, nil
	default:
		return nil, fmt.Errorf("sim: unknown strategy %q (want first or random)", name)
	}
}
