package config

// DifficultyManager adjusts level move budgets for a preset.
type DifficultyManager struct {
	cfg    DifficultyConfig
	preset DifficultyPreset
}

// NewDifficultyManager creates a manager using the configured preset.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	preset := cfg.Preset
	if preset == "" {
		preset = DifficultyNormal
	}
	return &DifficultyManager{cfg: cfg, preset: preset}
}

// SetPreset overrides the configured preset.
func (d *DifficultyManager) SetPreset(preset DifficultyPreset) {
	d.preset = preset
}

// Preset returns the active preset.
func (d *DifficultyManager) Preset() DifficultyPreset {
	return d.preset
}

// Moves returns the move budget for a level whose file grants base moves.
// Easy adds moves, hard removes them but never below the configured minimum.
// Normal and fixed keep the level's own budget.
func (d *DifficultyManager) Moves(base int) int {
	minMoves := d.cfg.MinMoves
	if minMoves < 1 {
		minMoves = 1
	}

	switch d.preset {
	case DifficultyEasy:
		return base + d.cfg.EasyBonusMoves
	case DifficultyHard:
		return max(base-d.cfg.HardPenaltyMoves, minMoves)
	default:
		return base
	}
}
