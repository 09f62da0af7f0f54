package engine

import (
	"fmt"
	"sort"
)

// Level size limits.
const (
	MinSize     = 3
	MaxSize     = 16
	MinGemTypes = 3
	MaxGemTypes = 6
	StarCount   = 3
)

// ValidationError contains details about a level configuration defect.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// BlockerPlacement places blockers of one type. Cells lists explicit
// positions; Count additionally places that many on random free cells.
type BlockerPlacement struct {
	Type   BlockerType
	Layers int
	Cells  []Cell
	Count  int
}

// SpecialPlacement puts a special gem on the initial board. Color NoColor
// picks a random color; rainbows are always colorless.
type SpecialPlacement struct {
	Cell    Cell
	Special Special
	Color   int
}

// LevelConfig is the read-only description of a level.
type LevelConfig struct {
	ID             string
	Name           string
	Width          int
	Height         int
	Moves          int
	GemTypes       int
	Holes          []Cell
	Blockers       []BlockerPlacement
	Specials       []SpecialPlacement
	Objectives     []Objective
	StarThresholds []int
}

// TotalBlockers returns the number of blockers the level places.
func (l LevelConfig) TotalBlockers() int {
	n := 0
	for _, b := range l.Blockers {
		n += len(b.Cells) + b.Count
	}
	return n
}

// blockersOfType returns the number of placed blockers of a type.
func (l LevelConfig) blockersOfType(t BlockerType) int {
	n := 0
	for _, b := range l.Blockers {
		if b.Type == t {
			n += len(b.Cells) + b.Count
		}
	}
	return n
}

// StarsEarned counts the thresholds the score reaches.
func (l LevelConfig) StarsEarned(score int) int {
	stars := 0
	for _, t := range l.StarThresholds {
		if t <= score {
			stars++
		}
	}
	return stars
}

// Validate checks the configuration and returns a ValidationError for the
// first defect found.
func (l LevelConfig) Validate() error {
	checks := []func() error{
		l.validateDimensions,
		l.validateMoves,
		l.validateHoles,
		l.validateBlockers,
		l.validateSpecials,
		l.validateObjectives,
		l.validateThresholds,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (l LevelConfig) validateDimensions() error {
	if l.Width < MinSize || l.Width > MaxSize || l.Height < MinSize || l.Height > MaxSize {
		return ValidationError{
			Code:    "BAD_DIMENSIONS",
			Message: fmt.Sprintf("grid %dx%d outside %d..%d", l.Width, l.Height, MinSize, MaxSize),
		}
	}
	if l.GemTypes < MinGemTypes || l.GemTypes > MaxGemTypes {
		return ValidationError{
			Code:    "BAD_GEM_TYPES",
			Message: fmt.Sprintf("gem types %d outside %d..%d", l.GemTypes, MinGemTypes, MaxGemTypes),
		}
	}
	return nil
}

func (l LevelConfig) validateMoves() error {
	if l.Moves < 1 {
		return ValidationError{Code: "BAD_MOVES", Message: fmt.Sprintf("moves must be positive, got %d", l.Moves)}
	}
	return nil
}

func (l LevelConfig) validateHoles() error {
	g := NewGrid(l.Width, l.Height, nil)
	seen := make(map[Cell]bool)
	perCol := make([]int, l.Width)
	for _, h := range l.Holes {
		if !g.InBounds(h) {
			return ValidationError{Code: "BAD_HOLE", Message: fmt.Sprintf("hole %v out of bounds", h)}
		}
		if seen[h] {
			return ValidationError{Code: "BAD_HOLE", Message: fmt.Sprintf("duplicate hole %v", h)}
		}
		seen[h] = true
		perCol[h.Col]++
	}
	for col, n := range perCol {
		if n == l.Height {
			return ValidationError{
				Code:    "DEAD_COLUMN",
				Message: fmt.Sprintf("column %d has no playable cell", col),
			}
		}
	}
	return nil
}

func (l LevelConfig) validateBlockers() error {
	g := NewGrid(l.Width, l.Height, l.Holes)
	used := make(map[Cell]bool)
	for i, b := range l.Blockers {
		if b.Layers < 1 {
			return ValidationError{Code: "BAD_BLOCKER", Message: fmt.Sprintf("blocker %d: layers must be >= 1", i)}
		}
		if b.Count < 0 {
			return ValidationError{Code: "BAD_BLOCKER", Message: fmt.Sprintf("blocker %d: negative count", i)}
		}
		for _, c := range b.Cells {
			if !g.Playable(c) {
				return ValidationError{Code: "BAD_BLOCKER", Message: fmt.Sprintf("blocker %d: cell %v is not playable", i, c)}
			}
			if used[c] {
				return ValidationError{Code: "BAD_BLOCKER", Message: fmt.Sprintf("blocker %d: cell %v already blocked", i, c)}
			}
			used[c] = true
		}
	}
	// Leave room for at least one swap.
	if free := len(g.Cells()) - l.TotalBlockers(); free < 2 {
		return ValidationError{
			Code:    "BAD_BLOCKER",
			Message: fmt.Sprintf("%d blockers leave %d free cells", l.TotalBlockers(), free),
		}
	}
	return nil
}

func (l LevelConfig) validateSpecials() error {
	g := NewGrid(l.Width, l.Height, l.Holes)
	seen := make(map[Cell]bool)
	for _, sp := range l.Specials {
		if !g.Playable(sp.Cell) {
			return ValidationError{Code: "BAD_SPECIAL", Message: fmt.Sprintf("special at %v is not playable", sp.Cell)}
		}
		if seen[sp.Cell] {
			return ValidationError{Code: "BAD_SPECIAL", Message: fmt.Sprintf("duplicate special at %v", sp.Cell)}
		}
		seen[sp.Cell] = true
		if sp.Special == SpecialNone {
			return ValidationError{Code: "BAD_SPECIAL", Message: fmt.Sprintf("special at %v has no kind", sp.Cell)}
		}
		if sp.Color != NoColor && (sp.Color < 0 || sp.Color >= l.GemTypes) {
			return ValidationError{Code: "BAD_SPECIAL", Message: fmt.Sprintf("special at %v has color %d", sp.Cell, sp.Color)}
		}
	}
	return nil
}

func (l LevelConfig) validateObjectives() error {
	if len(l.Objectives) == 0 {
		return ValidationError{Code: "BAD_OBJECTIVE", Message: "level has no objectives"}
	}
	for i, o := range l.Objectives {
		if o.Target <= 0 {
			return ValidationError{
				Code:    "BAD_OBJECTIVE",
				Message: fmt.Sprintf("objective %d (%s): target must be positive, got %d", i, o.Kind, o.Target),
			}
		}
		switch o.Kind {
		case ObjectiveCollect:
			if o.Color < 0 || o.Color >= l.GemTypes {
				return ValidationError{
					Code:    "BAD_OBJECTIVE",
					Message: fmt.Sprintf("objective %d: collect color %d outside 0..%d", i, o.Color, l.GemTypes-1),
				}
			}
		case ObjectiveClearBlockers:
			available := l.TotalBlockers()
			if !o.AnyBlocker {
				available = l.blockersOfType(o.BlockerType)
			}
			if o.Target > available {
				return ValidationError{
					Code:    "BAD_OBJECTIVE",
					Message: fmt.Sprintf("objective %d: clear %d blockers but only %d placed", i, o.Target, available),
				}
			}
		}
	}
	return nil
}

func (l LevelConfig) validateThresholds() error {
	if len(l.StarThresholds) != StarCount {
		return ValidationError{
			Code:    "BAD_THRESHOLDS",
			Message: fmt.Sprintf("expected %d star thresholds, got %d", StarCount, len(l.StarThresholds)),
		}
	}
	if l.StarThresholds[0] <= 0 {
		return ValidationError{Code: "BAD_THRESHOLDS", Message: "star thresholds must be positive"}
	}
	if !sort.SliceIsSorted(l.StarThresholds, func(i, j int) bool { return l.StarThresholds[i] < l.StarThresholds[j] }) {
		return ValidationError{Code: "BAD_THRESHOLDS", Message: "star thresholds must be ascending"}
	}
	for i := 1; i < len(l.StarThresholds); i++ {
		if l.StarThresholds[i] == l.StarThresholds[i-1] {
			return ValidationError{Code: "BAD_THRESHOLDS", Message: "star thresholds must be strictly ascending"}
		}
	}
	return nil
}
