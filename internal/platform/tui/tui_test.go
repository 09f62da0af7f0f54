package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gemfusion/internal/core"
	"github.com/vovakirdan/gemfusion/internal/registry"
	"github.com/vovakirdan/gemfusion/internal/storage"
)

// stubGame ends after a fixed number of ticks.
type stubGame struct {
	ticks   int
	endAt   int
	resets  int
	resized bool
	levels  []registry.LevelInfo
	level   string
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.ticks = 0
	if cfg.LevelID != "" {
		g.level = cfg.LevelID
	}
}

func (g *stubGame) Step(core.InputFrame) core.StepResult {
	g.ticks++
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "stub") }

func (g *stubGame) State() core.GameState {
	over := g.ticks >= g.endAt
	return core.GameState{Score: 120, GameOver: over, Won: over, Stars: 1, Level: g.level}
}

func (g *stubGame) Resize(int, int) { g.resized = true }

func (g *stubGame) Levels() []registry.LevelInfo { return g.levels }

func (g *stubGame) SelectLevel(id string) error {
	g.level = id
	return nil
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key      string
		expected core.Action
		quit     bool
	}{
		{"w", core.ActionUp, false},
		{"up", core.ActionUp, false},
		{"d", core.ActionRight, false},
		{" ", core.ActionConfirm, false},
		{"enter", core.ActionConfirm, false},
		{"x", core.ActionCancel, false},
		{"h", core.ActionHint, false},
		{"?", core.ActionHint, false},
		{"esc", core.ActionBack, false},
		{"p", core.ActionPause, false},
		{"r", core.ActionRestart, false},
		{"q", core.ActionQuit, true},
		{"z", core.ActionNone, false},
	}

	for _, tc := range tests {
		action, quit := km.MapKey(keyMsg(tc.key))
		if action != tc.expected || quit != tc.quit {
			t.Errorf("MapKey(%q) = (%v, %v), expected (%v, %v)", tc.key, action, quit, tc.expected, tc.quit)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key      string
		expected MenuAction
	}{
		{"k", MenuActionUp},
		{"j", MenuActionDown},
		{"enter", MenuActionSelect},
		{"b", MenuActionBack},
		{"tab", MenuActionScoreboard},
		{"q", MenuActionQuit},
		{"h", MenuActionNone},
	}

	for _, tc := range tests {
		if got := km.MapKeyToMenuAction(keyMsg(tc.key)); got != tc.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.key, got, tc.expected)
		}
	}
}

func TestRenderScreenPlain(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab")
	s.DrawText(0, 1, "世x")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "ab  " {
		t.Errorf("line 0 = %q, expected %q", lines[0], "ab  ")
	}
	// The wide rune covers two cells, so the row keeps its display width.
	if lines[1] != "世x " {
		t.Errorf("line 1 = %q, expected %q", lines[1], "世x ")
	}
}

func TestRenderScreenColored(t *testing.T) {
	s := core.NewScreen(6, 1)
	s.DrawTextColored(1, 0, "●●", core.ColorRed)

	if out := RenderScreen(s); !strings.Contains(out, "●●") {
		t.Errorf("colored run missing from %q", out)
	}
}

func TestModelSavesResultOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	game := &stubGame{endAt: 2}
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	cfg.LevelID = "lvl01"

	var m tea.Model = NewModel(game, store, nil, cfg)
	m.Init()
	for i := 0; i < 5; i++ {
		m, _ = m.Update(TickMsg{})
	}

	scores, err := store.TopScores("lvl01", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected one saved score, got %d", len(scores))
	}
	if !scores[0].Won || scores[0].Stars != 1 || scores[0].Score != 120 {
		t.Errorf("unexpected score entry: %+v", scores[0])
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	game := &stubGame{endAt: 100}
	m := NewModel(game, nil, nil, core.DefaultConfig())
	m.Init()

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if !game.resized {
		t.Error("game should be resized in place")
	}
	if game.resets != 1 {
		t.Errorf("resize should not restart the game, resets = %d", game.resets)
	}
}

func TestModelBack(t *testing.T) {
	game := &stubGame{endAt: 100}

	m := NewModel(game, nil, nil, core.DefaultConfig())
	next, cmd := m.Update(keyMsg("esc"))
	if !next.(Model).WantsBack() || cmd == nil {
		t.Error("Esc should leave a standalone game")
	}

	m.embedded = true
	next, cmd = m.Update(keyMsg("esc"))
	if !next.(Model).WantsBack() {
		t.Error("Esc should request the level picker")
	}
	if cmd != nil {
		t.Error("an embedded game must not quit the program")
	}
}

func TestLevelMenuSelect(t *testing.T) {
	game := &stubGame{levels: []registry.LevelInfo{
		{ID: "lvl01", Name: "First"},
		{ID: "lvl02", Name: "Second"},
	}}

	var m tea.Model = NewLevelMenuModel("Stub", game, nil, 80, 24)
	if !strings.Contains(m.View(), "Second") {
		t.Error("menu should list level names")
	}
	m, _ = m.Update(keyMsg("s"))
	m, _ = m.Update(keyMsg("s")) // clamps at the last level
	m, cmd := m.Update(keyMsg("enter"))

	lm := m.(LevelMenuModel)
	if lm.Selected() != "lvl02" {
		t.Errorf("Selected() = %q, expected lvl02", lm.Selected())
	}
	if cmd == nil {
		t.Error("selecting a level should end the menu")
	}
}

func TestLevelMenuScoreboard(t *testing.T) {
	game := &stubGame{levels: []registry.LevelInfo{{ID: "lvl01", Name: "First"}}}

	m, _ := NewLevelMenuModel("Stub", game, nil, 80, 24).Update(keyMsg("tab"))
	if !m.(LevelMenuModel).WantsScoreboard() {
		t.Error("tab should open the scoreboard")
	}
}

func TestSessionModelFlow(t *testing.T) {
	game := &stubGame{endAt: 100, levels: []registry.LevelInfo{{ID: "lvl01", Name: "First"}}}
	cfg := core.DefaultConfig()
	cfg.Seed = 1

	var m tea.Model = NewSessionModel(game, nil, nil, cfg)
	m, _ = m.Update(keyMsg("enter"))
	if m.(SessionModel).screen != screenGame {
		t.Fatal("selecting a level should start the game")
	}
	if game.level != "lvl01" {
		t.Errorf("game level = %q, expected lvl01", game.level)
	}

	m, _ = m.Update(keyMsg("esc"))
	if m.(SessionModel).screen != screenLevels {
		t.Error("Esc in the game should return to the level picker")
	}
}
