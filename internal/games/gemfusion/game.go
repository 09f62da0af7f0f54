// Package gemfusion provides the Gem Fusion Quest match-3 game.
// The rules live in the engine package; this package turns platform input
// into swap requests and paces the engine's event log for display.
package gemfusion

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gemfusion/internal/config"
	"github.com/vovakirdan/gemfusion/internal/core"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/levels"
	"github.com/vovakirdan/gemfusion/internal/registry"
	"github.com/vovakirdan/gemfusion/internal/replay"
)

// ID is the registry identifier of the game.
const ID = "gemfusion"

// DefaultFlashTicks is how long each resolution step stays on screen.
const DefaultFlashTicks = 12

const hintTicks = 90

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRules sets the scoring and safety rules.
func WithRules(r engine.Rules) Option {
	return func(g *Game) { g.rules = r }
}

// WithLoader sets the level source. The default is the built-in catalog.
func WithLoader(l *levels.Loader) Option {
	return func(g *Game) { g.loader = l }
}

// WithProgressSaver reports won levels to saver.
func WithProgressSaver(saver engine.ProgressSaver) Option {
	return func(g *Game) { g.saver = saver }
}

// WithRecorder writes a replay log of every session to path. Later
// sessions of the same run get a numeric suffix.
func WithRecorder(path string) Option {
	return func(g *Game) { g.recordPath = path }
}

// WithDifficulty adjusts every level's move budget.
func WithDifficulty(d *config.DifficultyManager) Option {
	return func(g *Game) { g.difficulty = d }
}

// WithFlashTicks sets how many ticks each resolution step is shown.
// Zero shows the settled board immediately.
func WithFlashTicks(n int) Option {
	return func(g *Game) {
		if n >= 0 {
			g.flashTicks = n
		}
	}
}

// Game implements registry.Game and registry.LevelPicker.
type Game struct {
	logger     *log.Logger
	rules      engine.Rules
	loader     *levels.Loader
	saver      engine.ProgressSaver
	difficulty *config.DifficultyManager
	flashTicks int

	recordPath  string
	recordCount int
	recorder    *replay.Writer

	catalog    []levels.Level
	loadErr    error
	levelIndex int

	rng     *rand.Rand
	screenW int
	screenH int

	ctl     *engine.Controller
	session *engine.Session

	// view is what the player sees. It trails the session grid while
	// the event log of the last move is played back.
	view     *engine.Grid
	playback []frame
	ticks    int
	flash    map[engine.Cell]bool

	cursor    engine.Cell
	selected  engine.Cell
	selecting bool
	hint      engine.Swap
	hintLeft  int

	status string
	paused bool
}

var (
	_ registry.Game        = (*Game)(nil)
	_ registry.LevelPicker = (*Game)(nil)
)

// New creates a game and loads its level catalog.
func New(opts ...Option) *Game {
	g := &Game{
		logger:     log.New(io.Discard),
		rules:      engine.DefaultRules(),
		flashTicks: DefaultFlashTicks,
		rng:        rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.loader == nil {
		g.loader = levels.Builtin()
	}

	g.catalog, g.loadErr = g.loader.LoadAll()
	if g.loadErr == nil && len(g.catalog) == 0 {
		g.loadErr = fmt.Errorf("no levels in %s", g.loader.Root)
	}
	if g.loadErr != nil {
		g.logger.Error("failed to load levels", "root", g.loader.Root, "err", g.loadErr)
	}
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Gem Fusion Quest"
}

// Levels returns the catalog in ID order.
func (g *Game) Levels() []registry.LevelInfo {
	out := make([]registry.LevelInfo, 0, len(g.catalog))
	for _, l := range g.catalog {
		out = append(out, registry.LevelInfo{ID: l.ID, Name: l.Name})
	}
	return out
}

// SelectLevel makes id the level started by the next Reset.
func (g *Game) SelectLevel(id string) error {
	for i, l := range g.catalog {
		if l.ID == id {
			g.levelIndex = i
			return nil
		}
	}
	return fmt.Errorf("gemfusion: unknown level %q", id)
}

// Reset starts the selected level. The seed drives every board of the run.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.paused = false

	if cfg.LevelID != "" {
		if err := g.SelectLevel(cfg.LevelID); err != nil {
			g.logger.Warn("level not found, starting first level", "level", cfg.LevelID)
			g.levelIndex = 0
		}
	}
	g.startLevel()
}

// Resize updates the layout without restarting the level.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
}

// startLevel builds a fresh session of the current catalog entry.
func (g *Game) startLevel() {
	g.session = nil
	g.ctl = nil
	g.playback = nil
	g.flash = nil
	g.selecting = false
	g.hintLeft = 0

	if g.loadErr != nil {
		return
	}

	lvl := g.catalog[g.levelIndex]
	cfg := lvl.LevelConfig
	if g.difficulty != nil {
		cfg.Moves = g.difficulty.Moves(cfg.Moves)
	}

	seed := g.rng.Int63()
	s, err := engine.NewSession(cfg, engine.NewRandom(seed), g.rules)
	if err != nil {
		g.logger.Error("failed to start level", "level", cfg.ID, "err", err)
		g.status = "Cannot start level: " + err.Error()
		return
	}

	opts := []engine.Option{engine.WithLogger(g.logger)}
	if g.saver != nil {
		opts = append(opts, engine.WithProgressSaver(g.saver))
	}
	g.session = s
	g.ctl = engine.NewController(s, opts...)
	g.view = s.Grid.Clone()
	g.cursor = firstPlayable(s.Grid)
	g.status = fmt.Sprintf("Level %s: %s", cfg.ID, cfg.Name)

	g.openRecorder(seed)
	g.logger.Info("level started", "level", cfg.ID, "moves", cfg.Moves, "seed", seed)
}

func firstPlayable(grid *engine.Grid) engine.Cell {
	center := engine.At(grid.Height/2, grid.Width/2)
	if grid.Playable(center) {
		return center
	}
	if cells := grid.Cells(); len(cells) > 0 {
		return cells[0]
	}
	return center
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		if in.Has(core.ActionRestart) || in.Has(core.ActionConfirm) {
			g.startLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if len(g.playback) > 0 {
		g.advancePlayback()
		return core.StepResult{State: g.State()}
	}

	if g.hintLeft > 0 {
		g.hintLeft--
	}

	if g.session.Over() {
		switch {
		case in.Has(core.ActionConfirm) && g.session.Outcome == engine.OutcomeWon:
			g.nextLevel()
		case in.Has(core.ActionConfirm), in.Has(core.ActionRestart):
			g.startLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.startLevel()
		return core.StepResult{State: g.State()}
	}

	g.moveCursor(in)

	switch {
	case in.Has(core.ActionCancel):
		g.selecting = false
	case in.Has(core.ActionHint):
		g.showHint()
	case in.Has(core.ActionConfirm):
		g.confirm()
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) moveCursor(in core.InputFrame) {
	grid := g.session.Grid
	c := g.cursor
	switch {
	case in.Has(core.ActionUp):
		c.Row--
	case in.Has(core.ActionDown):
		c.Row++
	case in.Has(core.ActionLeft):
		c.Col--
	case in.Has(core.ActionRight):
		c.Col++
	}
	c.Row = core.Clamp(c.Row, 0, grid.Height-1)
	c.Col = core.Clamp(c.Col, 0, grid.Width-1)
	g.cursor = c
}

func (g *Game) showHint() {
	swap, ok := g.ctl.Hint()
	if !ok {
		g.status = "No valid move"
		return
	}
	g.hint = swap
	g.hintLeft = hintTicks
	g.status = fmt.Sprintf("Try %v with %v", swap.A, swap.B)
}

// confirm selects the cursor gem or swaps it with the selected one.
func (g *Game) confirm() {
	switch {
	case !g.selecting:
		g.selected = g.cursor
		g.selecting = true
	case g.selected == g.cursor:
		g.selecting = false
	case g.selected.Adjacent(g.cursor):
		g.swap(g.selected, g.cursor)
	default:
		g.selected = g.cursor
	}
}

func (g *Game) swap(a, b engine.Cell) {
	res, err := g.ctl.RequestSwap(a, b)
	g.record(a, b, res, err)
	if err != nil {
		g.status = rejection(err)
		return
	}

	g.selecting = false
	g.hintLeft = 0
	g.play(res)
}

// rejection turns a controller error into a status line.
func rejection(err error) string {
	switch {
	case errors.Is(err, engine.ErrBlocked):
		return "That gem is locked by a blocker"
	case errors.Is(err, engine.ErrHole), errors.Is(err, engine.ErrEmptyCell):
		return "Nothing to swap there"
	case errors.Is(err, engine.ErrNotAdjacent):
		return "Gems must be neighbors"
	case errors.Is(err, engine.ErrBusy):
		return "Still resolving"
	case errors.Is(err, engine.ErrSessionOver):
		return "Level is over"
	default:
		return err.Error()
	}
}

func (g *Game) nextLevel() {
	if g.levelIndex+1 < len(g.catalog) {
		g.levelIndex++
	}
	g.startLevel()
}

// State returns the platform view of the session. A session counts as over
// only after its last move has been played back.
func (g *Game) State() core.GameState {
	st := core.GameState{Paused: g.paused, Status: g.status}
	if g.session == nil {
		st.GameOver = g.loadErr != nil
		return st
	}
	st.Score = g.session.Score
	st.Stars = g.session.Stars()
	st.Level = g.session.Level.ID
	if g.session.Over() && len(g.playback) == 0 {
		st.GameOver = true
		st.Won = g.session.Outcome == engine.OutcomeWon
	}
	return st
}

// Close flushes the replay log.
func (g *Game) Close() error {
	return g.closeRecorder()
}
