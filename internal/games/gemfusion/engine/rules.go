package engine

import "time"

// Rules holds the tunable constants of the engine.
type Rules struct {
	// PointsPerGem is the base score of one gem in a match group.
	PointsPerGem int `json:"points_per_gem"`
	// ComboStep is added to the multiplier for each cascade beyond the first.
	ComboStep float64 `json:"combo_step"`
	// ActivationPointsPerGem is the score of one gem cleared by a special.
	ActivationPointsPerGem int `json:"activation_points_per_gem"`

	// MaxCascades bounds the number of destroy steps in one move.
	MaxCascades int `json:"max_cascades"`
	// MaxResolveTime bounds the wall-clock time of one move's resolution.
	// Zero disables the time bound.
	MaxResolveTime time.Duration `json:"max_resolve_time"`
	// MaxShuffleAttempts bounds board regeneration and reshuffling.
	MaxShuffleAttempts int `json:"max_shuffle_attempts"`
}

// DefaultRules returns the standard scoring and safety settings.
func DefaultRules() Rules {
	return Rules{
		PointsPerGem:           50,
		ComboStep:              0.5,
		ActivationPointsPerGem: 50,
		MaxCascades:            50,
		MaxResolveTime:         2 * time.Second,
		MaxShuffleAttempts:     100,
	}
}

// Multiplier returns the combo multiplier for a cascade depth (1-based).
func (r Rules) Multiplier(depth int) float64 {
	if depth < 1 {
		depth = 1
	}
	return 1 + float64(depth-1)*r.ComboStep
}

// GroupPoints returns the score awarded for a group at a cascade depth,
// rounded down.
func (r Rules) GroupPoints(length, depth int) int {
	return int(float64(length*r.PointsPerGem) * r.Multiplier(depth))
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.PointsPerGem <= 0 {
		r.PointsPerGem = d.PointsPerGem
	}
	if r.ComboStep < 0 {
		r.ComboStep = d.ComboStep
	}
	if r.ActivationPointsPerGem < 0 {
		r.ActivationPointsPerGem = d.ActivationPointsPerGem
	}
	if r.MaxCascades <= 0 {
		r.MaxCascades = d.MaxCascades
	}
	if r.MaxShuffleAttempts <= 0 {
		r.MaxShuffleAttempts = d.MaxShuffleAttempts
	}
	return r
}
