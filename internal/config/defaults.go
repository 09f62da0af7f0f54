package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/gemfusion.yaml
var defaultGemFusionYAML []byte

// DefaultGemFusionConfig returns the hardcoded configuration used when
// no file and no embedded default can be read.
func DefaultGemFusionConfig() GemFusionConfig {
	return GemFusionConfig{
		Scoring: ScoringConfig{
			PointsPerGem:           50,
			ComboStep:              0.5,
			ActivationPointsPerGem: 50,
		},
		Safety: SafetyConfig{
			MaxCascades:        50,
			MaxResolveTime:     2 * time.Second,
			MaxShuffleAttempts: 100,
		},
		Presentation: PresentationConfig{
			FlashTicks: 12,
		},
		Difficulty: DifficultyConfig{
			Preset:           DifficultyNormal,
			EasyBonusMoves:   5,
			HardPenaltyMoves: 3,
			MinMoves:         1,
		},
	}
}
