package replay

import (
	"fmt"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

// Mismatch describes the first point where a re-run diverged from the log.
type Mismatch struct {
	Move     int    // 0 means the starting board
	Expected uint64 // hash in the log
	Actual   uint64 // hash of the re-run
}

func (m Mismatch) Error() string {
	if m.Move == 0 {
		return fmt.Sprintf("replay: starting board differs (log %016x, rerun %016x)", m.Expected, m.Actual)
	}
	return fmt.Sprintf("replay: move %d differs (log %016x, rerun %016x)", m.Move, m.Expected, m.Actual)
}

// Verify replays every logged swap against a fresh session of level and
// checks the board hashes. The level's move budget is replaced by the
// logged one. It returns the final session, or a Mismatch error.
func Verify(h Header, entries []Entry, level engine.LevelConfig) (*engine.Session, error) {
	if level.ID != h.LevelID {
		return nil, fmt.Errorf("replay: log is for level %q, got %q", h.LevelID, level.ID)
	}
	level.Moves = h.Moves

	s, err := engine.NewSession(level, engine.NewRandom(h.Seed), h.Rules)
	if err != nil {
		return nil, fmt.Errorf("replay: rebuild session: %w", err)
	}
	if got := s.Hash(); got != h.Hash {
		return nil, Mismatch{Move: 0, Expected: h.Hash, Actual: got}
	}

	ctl := engine.NewController(s)
	for _, e := range entries {
		// Rejected requests never touch the board, replaying them is harmless.
		_, _ = ctl.RequestSwap(e.A, e.B)
		if got := s.Hash(); got != e.Hash {
			return s, Mismatch{Move: e.Move, Expected: e.Hash, Actual: got}
		}
	}
	return s, nil
}
