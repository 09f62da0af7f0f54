// Package config provides YAML-based engine tuning and difficulty
// presets for Gem Fusion Quest.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

// GemFusionConfig contains all tunable parameters of the game.
type GemFusionConfig struct {
	Scoring      ScoringConfig      `yaml:"scoring"`
	Safety       SafetyConfig       `yaml:"safety"`
	Presentation PresentationConfig `yaml:"presentation"`
	Difficulty   DifficultyConfig   `yaml:"difficulty"`
}

// ScoringConfig defines how matches and activations are scored.
type ScoringConfig struct {
	PointsPerGem           int     `yaml:"points_per_gem"`
	ComboStep              float64 `yaml:"combo_step"` // Multiplier increase per cascade depth
	ActivationPointsPerGem int     `yaml:"activation_points_per_gem"`
}

// SafetyConfig bounds the work a single move may do.
type SafetyConfig struct {
	MaxCascades        int           `yaml:"max_cascades"`
	MaxResolveTime     time.Duration `yaml:"max_resolve_time"`
	MaxShuffleAttempts int           `yaml:"max_shuffle_attempts"`
}

// PresentationConfig controls how the terminal front end paces events.
type PresentationConfig struct {
	FlashTicks int `yaml:"flash_ticks"` // Ticks each resolution step stays on screen
}

// DifficultyConfig defines how presets change a level's move budget.
type DifficultyConfig struct {
	Preset           DifficultyPreset `yaml:"preset"`
	EasyBonusMoves   int              `yaml:"easy_bonus_moves"`
	HardPenaltyMoves int              `yaml:"hard_penalty_moves"`
	MinMoves         int              `yaml:"min_moves"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// IsFixedPreset returns true if the preset keeps level move budgets untouched.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// Rules converts the scoring and safety sections into engine rules.
// Zero values fall back to the engine defaults.
func (c GemFusionConfig) Rules() engine.Rules {
	return engine.Rules{
		PointsPerGem:           c.Scoring.PointsPerGem,
		ComboStep:              c.Scoring.ComboStep,
		ActivationPointsPerGem: c.Scoring.ActivationPointsPerGem,
		MaxCascades:            c.Safety.MaxCascades,
		MaxResolveTime:         c.Safety.MaxResolveTime,
		MaxShuffleAttempts:     c.Safety.MaxShuffleAttempts,
	}
}

// Validate reports values that cannot produce a playable game.
func (c GemFusionConfig) Validate() error {
	switch {
	case c.Scoring.PointsPerGem < 0:
		return fmt.Errorf("scoring.points_per_gem must not be negative")
	case c.Scoring.ComboStep < 0:
		return fmt.Errorf("scoring.combo_step must not be negative")
	case c.Scoring.ActivationPointsPerGem < 0:
		return fmt.Errorf("scoring.activation_points_per_gem must not be negative")
	case c.Safety.MaxCascades < 0:
		return fmt.Errorf("safety.max_cascades must not be negative")
	case c.Safety.MaxResolveTime < 0:
		return fmt.Errorf("safety.max_resolve_time must not be negative")
	case c.Presentation.FlashTicks < 0:
		return fmt.Errorf("presentation.flash_ticks must not be negative")
	}
	if _, err := ParsePreset(string(c.Difficulty.Preset)); err != nil {
		return fmt.Errorf("difficulty.preset: %w", err)
	}
	return nil
}
