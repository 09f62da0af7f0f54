package engine

import "strings"

// Special is the bonus effect carried by a gem.
type Special uint8

const (
	SpecialNone Special = iota
	SpecialLineH
	SpecialLineV
	SpecialBurst
	SpecialRainbow
)

// String returns the level-file name of the special kind.
func (s Special) String() string {
	switch s {
	case SpecialNone:
		return "none"
	case SpecialLineH:
		return "line_h"
	case SpecialLineV:
		return "line_v"
	case SpecialBurst:
		return "burst"
	case SpecialRainbow:
		return "rainbow"
	default:
		return "unknown"
	}
}

// ParseSpecial converts a level-file name to a Special.
func ParseSpecial(s string) (Special, bool) {
	switch strings.ToLower(s) {
	case "line_h", "lineh", "h":
		return SpecialLineH, true
	case "line_v", "linev", "v":
		return SpecialLineV, true
	case "burst", "b":
		return SpecialBurst, true
	case "rainbow", "r":
		return SpecialRainbow, true
	default:
		return SpecialNone, false
	}
}

// BlockerType identifies the kind of obstacle attached to a cell.
// All types share the same layer mechanics; the type matters for objectives
// and presentation.
type BlockerType uint8

const (
	BlockerCrystal BlockerType = iota
	BlockerIce
	BlockerLock
	BlockerGloom
	BlockerBomb
)

// String returns the level-file name of the blocker type.
func (t BlockerType) String() string {
	switch t {
	case BlockerCrystal:
		return "crystal"
	case BlockerIce:
		return "ice"
	case BlockerLock:
		return "lock"
	case BlockerGloom:
		return "gloom"
	case BlockerBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// ParseBlockerType converts a level-file name to a BlockerType.
func ParseBlockerType(s string) (BlockerType, bool) {
	switch strings.ToLower(s) {
	case "crystal":
		return BlockerCrystal, true
	case "ice":
		return BlockerIce, true
	case "lock":
		return BlockerLock, true
	case "gloom":
		return BlockerGloom, true
	case "bomb":
		return BlockerBomb, true
	default:
		return BlockerCrystal, false
	}
}

// Blocker is a layered obstacle. Layers is always >= 1 while attached.
type Blocker struct {
	Type   BlockerType
	Layers int
}

// NoColor marks a gem without a color (rainbow gems).
const NoColor = -1

// Gem is a single piece on the board. The grid is its only owner and its
// position is the grid slot holding it.
type Gem struct {
	ID      int
	Color   int // [0, gemTypes), or NoColor for rainbow
	Special Special
	Blocker *Blocker
}

// Blocked returns true while a blocker is attached.
func (g *Gem) Blocked() bool {
	return g.Blocker != nil
}

// Matchable returns true if the gem can take part in a match group.
func (g *Gem) Matchable() bool {
	return g.Blocker == nil && g.Special != SpecialRainbow && g.Color != NoColor
}

// clone returns a deep copy of the gem.
func (g *Gem) clone() *Gem {
	c := *g
	if g.Blocker != nil {
		b := *g.Blocker
		c.Blocker = &b
	}
	return &c
}
