package engine

import (
	"fmt"
	"hash/fnv"
)

// LevelResult is reported to the progress store when a level is won.
type LevelResult struct {
	LevelID     string
	FinalScore  int
	StarsEarned int
}

// ProgressSaver persists level results. The engine never reads it back.
type ProgressSaver interface {
	SaveProgress(LevelResult) error
}

// Session is the state of one level play. It is owned by a single
// Controller and must not be shared between goroutines.
type Session struct {
	Level        LevelConfig
	Grid         *Grid
	Score        int
	MovesLeft    int
	CascadeDepth int
	Outcome      Outcome

	tracker *Tracker
	rng     Random
	rules   Rules
	nextID  int
}

// NewSession validates the level and builds its starting board. The board
// never contains a match and always has at least one valid swap.
func NewSession(level LevelConfig, rng Random, rules Rules) (*Session, error) {
	if err := level.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		Level:     level,
		Grid:      NewGrid(level.Width, level.Height, level.Holes),
		MovesLeft: level.Moves,
		tracker:   NewTracker(level.Objectives),
		rng:       rng,
		rules:     rules.withDefaults(),
	}

	fixed, err := s.placeFixed()
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < s.rules.MaxShuffleAttempts; attempt++ {
		s.colorize(fixed)
		if !HasMatch(s.Grid) {
			if _, ok := FindHint(s.Grid); ok {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("engine: level %q: no playable board after %d attempts", level.ID, s.rules.MaxShuffleAttempts)
}

// placeFixed creates the gems whose identity the level dictates: blocked
// gems and pre-placed specials. It returns the cells whose color must not
// be rerolled.
func (s *Session) placeFixed() (map[Cell]bool, error) {
	fixed := make(map[Cell]bool)

	for _, sp := range s.Level.Specials {
		gem := s.newGem(sp.Color)
		gem.Special = sp.Special
		if sp.Special == SpecialRainbow {
			gem.Color = NoColor
		}
		s.Grid.Set(sp.Cell, gem)
		if gem.Color != NoColor || sp.Special == SpecialRainbow {
			fixed[sp.Cell] = true
		}
	}

	for _, bp := range s.Level.Blockers {
		for _, c := range bp.Cells {
			s.block(c, bp)
		}
	}
	for _, bp := range s.Level.Blockers {
		if bp.Count == 0 {
			continue
		}
		var free []Cell
		for _, c := range s.Grid.Cells() {
			if gem := s.Grid.At(c); gem == nil {
				free = append(free, c)
			}
		}
		if bp.Count > len(free) {
			return nil, fmt.Errorf("engine: level %q: %d %s blockers do not fit in %d free cells",
				s.Level.ID, bp.Count, bp.Type, len(free))
		}
		// Partial Fisher-Yates picks Count distinct cells.
		for i := 0; i < bp.Count; i++ {
			j := i + s.rng.Intn(len(free)-i)
			free[i], free[j] = free[j], free[i]
			s.block(free[i], bp)
		}
	}
	return fixed, nil
}

// block attaches a blocker to a new gem at c, or to the special already there.
func (s *Session) block(c Cell, bp BlockerPlacement) {
	gem := s.Grid.At(c)
	if gem == nil {
		gem = s.newGem(NoColor)
		s.Grid.Set(c, gem)
	}
	gem.Blocker = &Blocker{Type: bp.Type, Layers: bp.Layers}
}

// colorize fills every empty cell with a new gem and recolors every
// non-fixed gem so that, where possible, no run of MinMatch forms.
func (s *Session) colorize(fixed map[Cell]bool) {
	for _, c := range s.Grid.Cells() {
		if fixed[c] {
			continue
		}
		gem := s.Grid.At(c)
		if gem == nil {
			gem = s.newGem(NoColor)
			s.Grid.Set(c, gem)
		}
		gem.Color = NoColor
	}
	for _, c := range s.Grid.Cells() {
		if fixed[c] {
			continue
		}
		s.Grid.At(c).Color = s.safeColor(c)
	}
}

// safeColor picks a random color that does not complete a run through c.
// If every color would, any color is returned and the caller retries.
func (s *Session) safeColor(c Cell) int {
	gem := s.Grid.At(c)
	allowed := make([]int, 0, s.Level.GemTypes)
	for color := 0; color < s.Level.GemTypes; color++ {
		gem.Color = color
		if !matchesThrough(s.Grid, c) {
			allowed = append(allowed, color)
		}
	}
	gem.Color = NoColor
	if len(allowed) == 0 {
		return s.rng.Intn(s.Level.GemTypes)
	}
	return allowed[s.rng.Intn(len(allowed))]
}

// matchesThrough reports whether a run of MinMatch or more passes through c.
func matchesThrough(g *Grid, c Cell) bool {
	gem := g.At(c)
	if gem == nil || !gem.Matchable() {
		return false
	}
	same := func(dr, dc int) int {
		n := 0
		for p := c.Add(dr, dc); ; p = p.Add(dr, dc) {
			other := g.At(p)
			if other == nil || !other.Matchable() || other.Color != gem.Color {
				return n
			}
			n++
		}
	}
	return 1+same(0, -1)+same(0, 1) >= MinMatch || 1+same(-1, 0)+same(1, 0) >= MinMatch
}

// shuffle recolors every unblocked plain gem until the board has no match
// and a valid swap. On failure the original colors are restored.
func (s *Session) shuffle() (int, bool) {
	var cells []Cell
	var saved []int
	for _, c := range s.Grid.Cells() {
		gem := s.Grid.At(c)
		if gem.Blocked() || gem.Special != SpecialNone {
			continue
		}
		cells = append(cells, c)
		saved = append(saved, gem.Color)
	}

	fixed := make(map[Cell]bool)
	for _, c := range s.Grid.Cells() {
		fixed[c] = true
	}
	for _, c := range cells {
		delete(fixed, c)
	}

	for attempt := 1; attempt <= s.rules.MaxShuffleAttempts; attempt++ {
		s.colorize(fixed)
		if HasMatch(s.Grid) {
			continue
		}
		if _, ok := FindHint(s.Grid); ok {
			return attempt, true
		}
	}

	for i, c := range cells {
		s.Grid.At(c).Color = saved[i]
	}
	return s.rules.MaxShuffleAttempts, false
}

// newGem allocates a gem with a fresh identity.
func (s *Session) newGem(color int) *Gem {
	s.nextID++
	return &Gem{ID: s.nextID, Color: color}
}

// addScore adds points and returns the resulting objective updates.
func (s *Session) addScore(points int) []Event {
	if points <= 0 {
		return nil
	}
	s.Score += points
	return s.tracker.OnScore(s.Score)
}

// Rules returns the rules the session was created with.
func (s *Session) Rules() Rules {
	return s.rules
}

// Objectives returns the current objective progress.
func (s *Session) Objectives() []Objective {
	return s.tracker.Objectives()
}

// Over returns true once the session has an outcome.
func (s *Session) Over() bool {
	return s.Outcome != OutcomeNone
}

// Stars returns the stars the current score earns.
func (s *Session) Stars() int {
	return s.Level.StarsEarned(s.Score)
}

// Result returns the level result for the progress store.
func (s *Session) Result() LevelResult {
	return LevelResult{
		LevelID:     s.Level.ID,
		FinalScore:  s.Score,
		StarsEarned: s.Stars(),
	}
}

// Hash returns a digest of the full session state for determinism checks.
func (s *Session) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%x;%d;%d;%d;", s.Grid.Hash(), s.Score, s.MovesLeft, s.Outcome)
	for _, o := range s.tracker.objectives {
		fmt.Fprintf(h, "%d/%d,", o.Current, o.Target)
	}
	return h.Sum64()
}
