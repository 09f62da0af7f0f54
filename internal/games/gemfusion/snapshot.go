package gemfusion

import "github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"

// Snapshot captures the game state for determinism checks.
type Snapshot struct {
	Level     string
	Score     int
	MovesLeft int
	Outcome   engine.Outcome
	Hash      uint64 // session digest, zero before a level starts
	ViewHash  uint64 // digest of the board as displayed
	Cursor    engine.Cell
	Selecting bool
	Frames    int // resolution steps still to be shown
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{}
	}
	return Snapshot{
		Level:     g.session.Level.ID,
		Score:     g.session.Score,
		MovesLeft: g.session.MovesLeft,
		Outcome:   g.session.Outcome,
		Hash:      g.session.Hash(),
		ViewHash:  g.view.Hash(),
		Cursor:    g.cursor,
		Selecting: g.selecting,
		Frames:    len(g.playback),
	}
}
