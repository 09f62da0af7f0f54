package engine

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Phase is the state of the per-move state machine.
type Phase uint32

const (
	PhaseIdle Phase = iota
	PhaseSwapping
	PhaseEvaluating
	PhaseResolving
	PhaseReverting
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSwapping:
		return "swapping"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseResolving:
		return "resolving"
	case PhaseReverting:
		return "reverting"
	default:
		return "unknown"
	}
}

// MoveResult is returned by every accepted swap request.
type MoveResult struct {
	// Valid is false when the swap was reverted.
	Valid     bool
	Events    []Event
	Outcome   Outcome
	MovesLeft int
	Score     int
	Stats     ResolveStats
	Shuffled  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEventSink delivers every event to sink as it is produced.
func WithEventSink(sink EventSink) Option {
	return func(c *Controller) {
		c.sink = sink
	}
}

// WithProgressSaver reports won sessions to saver.
func WithProgressSaver(saver ProgressSaver) Option {
	return func(c *Controller) {
		c.saver = saver
	}
}

// WithClock replaces the clock used for the resolution time bound.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller drives one session, one move at a time.
type Controller struct {
	mu      sync.Mutex
	phase   atomic.Uint32
	session *Session
	logger  *log.Logger
	sink    EventSink
	saver   ProgressSaver
	now     func() time.Time
	events  []Event
}

// NewController creates a controller for the session.
func NewController(s *Session, opts ...Option) *Controller {
	c := &Controller{
		session: s,
		logger:  log.New(io.Discard),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the controlled session. Callers must not mutate it
// while a move is in progress.
func (c *Controller) Session() *Session {
	return c.session
}

// Phase returns the current move phase.
func (c *Controller) Phase() Phase {
	return Phase(c.phase.Load())
}

func (c *Controller) setPhase(p Phase) {
	c.phase.Store(uint32(p))
}

func (c *Controller) emit(e Event) {
	c.events = append(c.events, e)
	if c.sink != nil {
		c.sink.OnEvent(e)
	}
}

// Hint returns a valid swap on the current board.
func (c *Controller) Hint() (Swap, bool) {
	if !c.mu.TryLock() {
		return Swap{}, false
	}
	defer c.mu.Unlock()
	return FindHint(c.session.Grid)
}

// RequestSwap performs one player move. Rejected requests return an error
// and leave the session untouched. A swap that neither matches nor
// activates a special is reverted and returns Valid=false without
// consuming a move.
func (c *Controller) RequestSwap(a, b Cell) (MoveResult, error) {
	if !c.mu.TryLock() {
		return MoveResult{}, ErrBusy
	}
	defer c.mu.Unlock()
	defer c.setPhase(PhaseIdle)

	s := c.session
	if s.Over() {
		return MoveResult{}, ErrSessionOver
	}
	if err := c.validate(a, b); err != nil {
		return MoveResult{}, err
	}

	c.events = nil
	c.setPhase(PhaseSwapping)
	s.Grid.Swap(a, b)
	c.emit(SwapEvent{A: a, B: b})

	c.setPhase(PhaseEvaluating)
	special := s.Grid.At(a).Special != SpecialNone || s.Grid.At(b).Special != SpecialNone
	// Only runs through the swapped cells count. An aborted cascade can leave
	// other runs on the board at rest.
	if !special && !matchesThrough(s.Grid, a) && !matchesThrough(s.Grid, b) {
		c.setPhase(PhaseReverting)
		s.Grid.Swap(a, b)
		c.emit(SwapRevertedEvent{A: a, B: b})
		return c.result(false, ResolveStats{}, false), nil
	}

	c.setPhase(PhaseResolving)
	scoreBefore := s.Score
	s.MovesLeft--
	s.CascadeDepth = 0

	r := &Resolver{Emit: c.emit, Now: c.now}
	destroyed := 0
	if special {
		destroyed = r.activateSwap(s, a, b)
		r.Settle(s)
	}
	stats := r.Resolve(s)
	stats.Destroyed += destroyed
	stats.Points = s.Score - scoreBefore

	if stats.Aborted {
		c.logger.Warn("cascade aborted, review level balance",
			"level", s.Level.ID,
			"depth", s.CascadeDepth,
			"elapsed", stats.Elapsed,
			"reason", stats.AbortReason)
	}

	c.evaluate()

	shuffled := false
	if !s.Over() {
		if _, ok := FindHint(s.Grid); !ok {
			attempts, ok := s.shuffle()
			if ok {
				shuffled = true
				c.emit(BoardShuffledEvent{Attempts: attempts})
				c.logger.Debug("board shuffled", "level", s.Level.ID, "attempts", attempts)
			} else {
				s.Outcome = OutcomeLost
				c.logger.Warn("no valid move and shuffle failed, ending session", "level", s.Level.ID, "attempts", attempts)
			}
		}
	}

	c.emit(MoveOutcomeEvent{MovesLeft: s.MovesLeft, Score: s.Score, Outcome: s.Outcome})
	c.logger.Debug("move resolved",
		"level", s.Level.ID,
		"cascades", stats.Cascades,
		"destroyed", stats.Destroyed,
		"score", s.Score,
		"moves_left", s.MovesLeft,
		"outcome", s.Outcome)

	if s.Outcome == OutcomeWon && c.saver != nil {
		res := s.Result()
		if err := c.saver.SaveProgress(res); err != nil {
			c.logger.Error("failed to save progress", "level", res.LevelID, "err", err)
		}
	}

	return c.result(true, stats, shuffled), nil
}

// evaluate sets the outcome. A win takes precedence over running out of moves.
func (c *Controller) evaluate() {
	s := c.session
	switch {
	case s.tracker.AllCompleted():
		s.Outcome = OutcomeWon
	case s.MovesLeft <= 0:
		s.Outcome = OutcomeLost
	}
}

// validate rejects swaps that can never be legal.
func (c *Controller) validate(a, b Cell) error {
	g := c.session.Grid
	for _, cell := range [2]Cell{a, b} {
		if !g.InBounds(cell) {
			return fmt.Errorf("%w: %v", ErrOutOfBounds, cell)
		}
	}
	if !a.Adjacent(b) {
		return fmt.Errorf("%w: %v and %v", ErrNotAdjacent, a, b)
	}
	for _, cell := range [2]Cell{a, b} {
		switch gem := g.At(cell); {
		case g.IsHole(cell):
			return fmt.Errorf("%w: %v", ErrHole, cell)
		case gem == nil:
			return fmt.Errorf("%w: %v", ErrEmptyCell, cell)
		case gem.Blocked():
			return fmt.Errorf("%w: %v", ErrBlocked, cell)
		}
	}
	return nil
}

func (c *Controller) result(valid bool, stats ResolveStats, shuffled bool) MoveResult {
	s := c.session
	return MoveResult{
		Valid:     valid,
		Events:    c.events,
		Outcome:   s.Outcome,
		MovesLeft: s.MovesLeft,
		Score:     s.Score,
		Stats:     stats,
		Shuffled:  shuffled,
	}
}
