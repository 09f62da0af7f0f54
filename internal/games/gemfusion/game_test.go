package gemfusion

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/gemfusion/internal/config"
	"github.com/vovakirdan/gemfusion/internal/core"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/levels"
	"github.com/vovakirdan/gemfusion/internal/replay"
)

func newTestGame(t *testing.T, opts ...Option) *Game {
	t.Helper()
	g := New(opts...)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 42})
	if g.session == nil {
		t.Fatalf("level did not start: %s", g.status)
	}
	return g
}

func press(g *Game, actions ...core.Action) core.StepResult {
	return g.Step(core.FrameOf(actions...))
}

// settle steps until the last move has been shown.
func settle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; len(g.playback) > 0; i++ {
		if i > 10000 {
			t.Fatal("playback never finished")
		}
		press(g)
	}
}

func moveCursorTo(g *Game, c engine.Cell) {
	for g.cursor.Row < c.Row {
		press(g, core.ActionDown)
	}
	for g.cursor.Row > c.Row {
		press(g, core.ActionUp)
	}
	for g.cursor.Col < c.Col {
		press(g, core.ActionRight)
	}
	for g.cursor.Col > c.Col {
		press(g, core.ActionLeft)
	}
}

// playHint performs the current hint through player input.
func playHint(t *testing.T, g *Game) {
	t.Helper()
	swap, ok := g.ctl.Hint()
	if !ok {
		t.Fatal("no hint available")
	}
	moveCursorTo(g, swap.A)
	press(g, core.ActionConfirm)
	moveCursorTo(g, swap.B)
	press(g, core.ActionConfirm)
}

func TestDeterminism(t *testing.T) {
	g1 := newTestGame(t)
	g2 := newTestGame(t)

	for i := 0; i < 3; i++ {
		playHint(t, g1)
		playHint(t, g2)
		settle(t, g1)
		settle(t, g2)
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if s1 != s2 {
		t.Errorf("Snapshots differ:\n%+v\n%+v", s1, s2)
	}
}

func TestDifferentSeedsDifferentBoards(t *testing.T) {
	g1 := New()
	g1.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	g2 := New()
	g2.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 2})

	if g1.Snapshot().Hash == g2.Snapshot().Hash {
		t.Error("Different seeds should produce different boards")
	}
}

func TestLevels(t *testing.T) {
	g := New()
	infos := g.Levels()
	if len(infos) != 6 {
		t.Fatalf("Expected 6 builtin levels, got %d", len(infos))
	}
	if infos[0].ID != "lvl01" || infos[0].Name == "" {
		t.Errorf("Unexpected first level: %+v", infos[0])
	}

	if err := g.SelectLevel("nope"); err == nil {
		t.Error("SelectLevel should fail for an unknown ID")
	}
	if err := g.SelectLevel("lvl03"); err != nil {
		t.Fatalf("SelectLevel() failed: %v", err)
	}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	if got := g.State().Level; got != "lvl03" {
		t.Errorf("Selected level not started, got %q", got)
	}
}

func TestResetLevelID(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1, LevelID: "lvl02"})
	if got := g.State().Level; got != "lvl02" {
		t.Errorf("Level = %q, expected lvl02", got)
	}

	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1, LevelID: "missing"})
	if got := g.State().Level; got != "lvl01" {
		t.Errorf("Unknown level should fall back to lvl01, got %q", got)
	}
}

func TestCursorStaysOnBoard(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < 20; i++ {
		press(g, core.ActionUp)
		press(g, core.ActionLeft)
	}
	if g.cursor != engine.At(0, 0) {
		t.Errorf("Cursor = %v, expected top-left", g.cursor)
	}

	grid := g.session.Grid
	for i := 0; i < 20; i++ {
		press(g, core.ActionDown)
		press(g, core.ActionRight)
	}
	if want := engine.At(grid.Height-1, grid.Width-1); g.cursor != want {
		t.Errorf("Cursor = %v, expected %v", g.cursor, want)
	}
}

func TestSelectionToggles(t *testing.T) {
	g := newTestGame(t)

	press(g, core.ActionConfirm)
	if !g.selecting || g.selected != g.cursor {
		t.Fatal("Confirm should select the cursor gem")
	}
	press(g, core.ActionConfirm)
	if g.selecting {
		t.Error("Confirm on the selected gem should deselect it")
	}

	press(g, core.ActionConfirm)
	press(g, core.ActionCancel)
	if g.selecting {
		t.Error("Cancel should drop the selection")
	}
}

func TestNonAdjacentConfirmReselects(t *testing.T) {
	g := newTestGame(t)
	moveCursorTo(g, engine.At(0, 0))
	press(g, core.ActionConfirm)
	moveCursorTo(g, engine.At(2, 2))
	press(g, core.ActionConfirm)

	if !g.selecting || g.selected != engine.At(2, 2) {
		t.Errorf("Expected selection to move to (2,2), got %v", g.selected)
	}
	if g.session.MovesLeft != g.session.Level.Moves {
		t.Error("No move should be spent")
	}
}

func TestSwapSpendsMoveAndPlaysBack(t *testing.T) {
	g := newTestGame(t)
	moves := g.session.MovesLeft

	playHint(t, g)
	if g.session.MovesLeft != moves-1 {
		t.Fatalf("MovesLeft = %d, expected %d", g.session.MovesLeft, moves-1)
	}
	if len(g.playback) < 2 {
		t.Fatalf("Expected several frames, got %d", len(g.playback))
	}
	if g.session.Score == 0 {
		t.Error("A matching swap should score")
	}

	// Input is ignored while the move is shown.
	cursor := g.cursor
	press(g, core.ActionLeft)
	if g.cursor != cursor {
		t.Error("Cursor moved during playback")
	}

	for len(g.playback) > 1 {
		press(g)
	}
	if g.view.Hash() != g.session.Grid.Hash() {
		t.Error("Last frame should show the settled board")
	}
	settle(t, g)
	if g.flash != nil {
		t.Error("Flash should be cleared after playback")
	}
}

func TestZeroFlashTicksSkipsPlayback(t *testing.T) {
	g := newTestGame(t, WithFlashTicks(0))
	playHint(t, g)

	if len(g.playback) != 0 {
		t.Errorf("Expected no playback, got %d frames", len(g.playback))
	}
	if g.view.Hash() != g.session.Grid.Hash() {
		t.Error("View should match the session immediately")
	}
}

func TestHintHighlights(t *testing.T) {
	g := newTestGame(t)
	press(g, core.ActionHint)

	if g.hintLeft != hintTicks {
		t.Errorf("hintLeft = %d, expected %d", g.hintLeft, hintTicks)
	}
	if !g.hint.A.Adjacent(g.hint.B) {
		t.Errorf("Hint cells %v and %v are not adjacent", g.hint.A, g.hint.B)
	}
	press(g)
	if g.hintLeft != hintTicks-1 {
		t.Error("Hint should fade over time")
	}
}

func TestPauseFreezesGame(t *testing.T) {
	g := newTestGame(t)
	press(g, core.ActionPause)
	if !g.State().Paused {
		t.Fatal("Game should be paused")
	}

	cursor := g.cursor
	press(g, core.ActionUp)
	if g.cursor != cursor {
		t.Error("Cursor moved while paused")
	}

	press(g, core.ActionPause)
	if g.State().Paused {
		t.Error("Game should resume")
	}
}

func TestRestartBuildsNewBoard(t *testing.T) {
	g := newTestGame(t)
	playHint(t, g)
	settle(t, g)

	press(g, core.ActionRestart)
	if g.session.MovesLeft != g.session.Level.Moves || g.session.Score != 0 {
		t.Errorf("Restart should start fresh, got %+v", g.Snapshot())
	}
}

func TestRejection(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{engine.ErrBlocked, "locked"},
		{engine.ErrHole, "Nothing"},
		{engine.ErrNotAdjacent, "neighbors"},
		{engine.ErrBusy, "resolving"},
		{errors.New("boom"), "boom"},
	}
	for _, tc := range tests {
		if got := rejection(tc.err); !strings.Contains(got, tc.expected) {
			t.Errorf("rejection(%v) = %q, expected it to contain %q", tc.err, got, tc.expected)
		}
	}
}

func TestDifficultyAdjustsMoves(t *testing.T) {
	cfg := config.DefaultGemFusionConfig().Difficulty
	cfg.Preset = config.DifficultyEasy

	// The catalog keeps each level's own budget; the session gets the adjusted one.
	easy := newTestGame(t, WithDifficulty(config.NewDifficultyManager(cfg)))
	if want := easy.catalog[easy.levelIndex].Moves + cfg.EasyBonusMoves; easy.session.MovesLeft != want {
		t.Errorf("Easy MovesLeft = %d, expected %d", easy.session.MovesLeft, want)
	}

	cfg.Preset = config.DifficultyHard
	hard := newTestGame(t, WithDifficulty(config.NewDifficultyManager(cfg)))
	if want := hard.catalog[hard.levelIndex].Moves - cfg.HardPenaltyMoves; hard.session.MovesLeft != want {
		t.Errorf("Hard MovesLeft = %d, expected %d", hard.session.MovesLeft, want)
	}
}

func TestSplitFrames(t *testing.T) {
	events := []engine.Event{
		engine.SwapEvent{},
		engine.CascadeEvent{Depth: 1},
		engine.GemDestroyedEvent{},
		engine.GemDestroyedEvent{},
		engine.GemsDroppedEvent{},
		engine.GemsSpawnedEvent{},
		engine.CascadeEvent{Depth: 2},
		engine.GemDestroyedEvent{},
		engine.GemsSpawnedEvent{},
		engine.MoveOutcomeEvent{},
	}

	frames := splitFrames(events)
	sizes := make([]int, len(frames))
	for i, f := range frames {
		sizes[i] = len(f.events)
	}
	want := []int{1, 3, 2, 3, 1}
	if len(sizes) != len(want) {
		t.Fatalf("frame sizes = %v, expected %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("frame sizes = %v, expected %v", sizes, want)
		}
	}
}

func TestRecordingPath(t *testing.T) {
	base := filepath.Join("logs", "run"+replay.Extension)
	if got := recordingPath(base, 1); got != base {
		t.Errorf("first session path = %q", got)
	}
	if got, want := recordingPath(base, 3), filepath.Join("logs", "run-3"+replay.Extension); got != want {
		t.Errorf("recordingPath() = %q, expected %q", got, want)
	}
	if got := recordingPath("game.zst", 2); got != "game-2.zst" {
		t.Errorf("recordingPath() = %q, expected game-2.zst", got)
	}
}

func TestRecordedSessionVerifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session"+replay.Extension)
	g := newTestGame(t, WithRecorder(path), WithFlashTicks(0))

	for i := 0; i < 3; i++ {
		playHint(t, g)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	h, entries, err := replay.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if h.LevelID != "lvl01" || len(entries) != 3 {
		t.Fatalf("Unexpected log: level %q, %d entries", h.LevelID, len(entries))
	}

	lvl, err := levels.Builtin().LoadByID("lvl01")
	if err != nil {
		t.Fatalf("LoadByID() failed: %v", err)
	}
	if _, err := replay.Verify(h, entries, lvl.LevelConfig); err != nil {
		t.Errorf("Verify() failed: %v", err)
	}
}

func TestStateWaitsForPlayback(t *testing.T) {
	g := newTestGame(t)
	g.session.MovesLeft = 1

	playHint(t, g)
	if !g.session.Over() {
		t.Fatal("Session should be over after the last move")
	}
	if g.State().GameOver {
		t.Error("GameOver should wait until the move has been shown")
	}
	settle(t, g)

	st := g.State()
	if !st.GameOver {
		t.Error("GameOver should be set after playback")
	}
	if st.Won != (g.session.Outcome == engine.OutcomeWon) {
		t.Errorf("Won = %v with outcome %v", st.Won, g.session.Outcome)
	}
}

func TestRenderShowsBoard(t *testing.T) {
	g := newTestGame(t)
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Gem Fusion Quest") {
		t.Errorf("HUD missing title: %q", screen.Row(0))
	}
	if !strings.Contains(screen.String(), "Objectives") {
		t.Error("Objectives panel missing")
	}

	board := g.layout()
	if screen.Get(board.X, board.Y) != '┌' {
		t.Error("Board border missing")
	}
	// Cursor brackets surround the cursor gem.
	x := board.X + 1 + g.cursor.Col*cellW
	y := board.Y + 1 + g.cursor.Row
	if screen.Get(x, y) != '[' || screen.Get(x+2, y) != ']' {
		t.Errorf("Cursor not drawn at (%d, %d)", x, y)
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newTestGame(t)
	g.Resize(30, 10)
	screen := core.NewScreen(30, 10)
	g.Render(screen)

	if !strings.Contains(screen.String(), "too small") {
		t.Error("Expected the too-small overlay")
	}
}

func TestObjectiveLabel(t *testing.T) {
	tests := []struct {
		obj      engine.Objective
		expected string
	}{
		{engine.Objective{Kind: engine.ObjectiveScore, Target: 100, Current: 40}, "Score 40/100"},
		{engine.Objective{Kind: engine.ObjectiveCollect, Target: 10, Color: 2}, "Collect blue 0/10"},
		{engine.Objective{Kind: engine.ObjectiveClearBlockers, Target: 3, AnyBlocker: true}, "Clear blockers 0/3"},
		{engine.Objective{Kind: engine.ObjectiveClearBlockers, Target: 2, BlockerType: engine.BlockerIce}, "Clear ice 0/2"},
	}
	for _, tc := range tests {
		if got := objectiveLabel(tc.obj); got != tc.expected {
			t.Errorf("objectiveLabel() = %q, expected %q", got, tc.expected)
		}
	}
}
