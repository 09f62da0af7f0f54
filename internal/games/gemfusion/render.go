package gemfusion

import (
	"strings"

	"github.com/vovakirdan/gemfusion/internal/core"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/levels/formats"
)

const (
	cellW     = 3
	boardX    = 2
	boardY    = 4
	panelW    = 30
	panelGap  = 3
	footerH   = 3
	starGlyph = '★'
	noStar    = '☆'
)

// gemColors maps engine colors to screen colors, indexed like formats.ColorNames.
var gemColors = []core.Color{
	core.ColorRed,
	core.ColorGreen,
	core.ColorBlue,
	core.ColorYellow,
	core.ColorMagenta,
	core.ColorOrange,
}

func gemColor(c int) core.Color {
	switch {
	case c == engine.NoColor:
		return core.ColorWhite
	case c >= 0 && c < len(gemColors):
		return gemColors[c]
	default:
		return core.ColorCyan
	}
}

func colorName(c int) string {
	if c >= 0 && c < len(formats.ColorNames) {
		return formats.ColorNames[c]
	}
	return "color " + itoa(c)
}

func gemGlyph(s engine.Special) rune {
	switch s {
	case engine.SpecialLineH:
		return '↔'
	case engine.SpecialLineV:
		return '↕'
	case engine.SpecialBurst:
		return '✱'
	case engine.SpecialRainbow:
		return '✦'
	default:
		return '●'
	}
}

func blockerGlyph(t engine.BlockerType) rune {
	switch t {
	case engine.BlockerIce:
		return '❄'
	case engine.BlockerLock:
		return '▣'
	case engine.BlockerGloom:
		return '▒'
	case engine.BlockerBomb:
		return '✸'
	default:
		return '◇'
	}
}

// layout returns the board rectangle including its border.
func (g *Game) layout() core.Rect {
	grid := g.view
	return core.NewRect(boardX, boardY, grid.Width*cellW+2, grid.Height+2)
}

func (g *Game) tooSmall() bool {
	if g.view == nil {
		return false
	}
	board := g.layout()
	return g.screenW < board.Right()+panelGap+panelW || g.screenH < board.Bottom()+footerH
}

// Render draws the current frame.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.loadErr != nil {
		g.renderOverlay(dst, "No levels found", "Check the levels directory")
		return
	}
	if g.session == nil {
		g.renderOverlay(dst, "Level failed to start", "Press R to retry")
		return
	}
	if g.tooSmall() {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderHUD(dst)
	g.renderBoard(dst)
	g.renderObjectives(dst)
	g.renderFooter(dst)

	st := g.State()
	switch {
	case st.GameOver && st.Won:
		g.renderOverlay(dst, "Level complete! "+stars(st.Stars), "Enter: next level | R: replay")
	case st.GameOver:
		g.renderOverlay(dst, lostMessage(g.session.MovesLeft), "Enter or R: try again")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func stars(n int) string {
	var b strings.Builder
	for i := 0; i < engine.StarCount; i++ {
		if i < n {
			b.WriteRune(starGlyph)
		} else {
			b.WriteRune(noStar)
		}
	}
	return b.String()
}

func (g *Game) renderHUD(dst *core.Screen) {
	lvl := g.session.Level
	title := " Gem Fusion Quest | Level " + itoa(g.levelIndex+1) + "/" + itoa(len(g.catalog)) +
		" " + lvl.ID + ": " + lvl.Name
	dst.DrawTextColored(0, 0, title, core.ColorCyan)

	x := dst.DrawTextColored(0, 2, " Score: "+itoa(g.session.Score), core.ColorWhite)
	x += dst.DrawTextColored(x, 2, " | Moves: ", core.ColorGray)
	movesColor := core.ColorWhite
	if g.session.MovesLeft <= 3 {
		movesColor = core.ColorBrightRed
	}
	x += dst.DrawTextColored(x, 2, itoa(g.session.MovesLeft), movesColor)
	x += dst.DrawTextColored(x, 2, " | ", core.ColorGray)
	dst.DrawTextColored(x, 2, stars(g.session.Stars()), core.ColorBrightYellow)

	for x := 0; x < dst.Width(); x++ {
		dst.SetColored(x, 1, '─', core.ColorGray)
		dst.SetColored(x, 3, '─', core.ColorGray)
	}
}

func (g *Game) renderBoard(dst *core.Screen) {
	board := g.layout()
	dst.DrawBox(board, core.ColorGray)

	hinted := map[engine.Cell]bool{}
	if g.hintLeft > 0 && len(g.playback) == 0 {
		hinted[g.hint.A], hinted[g.hint.B] = true, true
	}

	for row := 0; row < g.view.Height; row++ {
		for col := 0; col < g.view.Width; col++ {
			c := engine.At(row, col)
			x := board.X + 1 + col*cellW
			y := board.Y + 1 + row
			g.renderCell(dst, x, y, c, hinted[c])
		}
	}
}

func (g *Game) renderCell(dst *core.Screen, x, y int, c engine.Cell, hinted bool) {
	if g.view.IsHole(c) {
		return
	}

	gem := g.view.At(c)
	glyph, color := '·', core.ColorGray
	right := ' '
	rightColor := core.ColorGray
	if gem != nil {
		glyph, color = gemGlyph(gem.Special), gemColor(gem.Color)
		if gem.Blocker != nil {
			glyph = blockerGlyph(gem.Blocker.Type)
			if gem.Blocker.Layers > 1 {
				right = rune('0' + core.Min(gem.Blocker.Layers, 9))
			}
		}
	}
	if g.flash[c] {
		color = color.Bright()
	}

	left := ' '
	switch {
	case g.selecting && c == g.selected:
		left, right, rightColor = '<', '>', core.ColorBrightYellow
	case c == g.cursor && len(g.playback) == 0:
		left, right, rightColor = '[', ']', core.ColorBrightWhite
	case hinted:
		left, right, rightColor = '(', ')', core.ColorCyan
	}

	dst.SetColored(x, y, left, rightColor)
	dst.SetColored(x+1, y, glyph, color)
	dst.SetColored(x+2, y, right, rightColor)
}

func (g *Game) renderObjectives(dst *core.Screen) {
	board := g.layout()
	x := board.Right() + panelGap
	y := board.Y

	dst.DrawTextColored(x, y, "Objectives", core.ColorCyan)
	y += 2
	for _, o := range g.session.Objectives() {
		mark, color := "· ", core.ColorWhite
		if o.Completed() {
			mark, color = "✓ ", core.ColorBrightGreen
		}
		n := dst.DrawTextColored(x, y, mark, color)
		dst.DrawTextColored(x+n, y, objectiveLabel(o), color)
		y++
	}

	y++
	dst.DrawTextColored(x, y, "Stars at", core.ColorCyan)
	y++
	for i, t := range g.session.Level.StarThresholds {
		dst.DrawTextColored(x, y, strings.Repeat(string(starGlyph), i+1)+" "+itoa(t), core.ColorYellow)
		y++
	}
}

func objectiveLabel(o engine.Objective) string {
	switch o.Kind {
	case engine.ObjectiveCollect:
		return "Collect " + colorName(o.Color) + " " + itoa(o.Current) + "/" + itoa(o.Target)
	case engine.ObjectiveClearBlockers:
		what := "blockers"
		if !o.AnyBlocker {
			what = o.BlockerType.String()
		}
		return "Clear " + what + " " + itoa(o.Current) + "/" + itoa(o.Target)
	default:
		return "Score " + itoa(o.Current) + "/" + itoa(o.Target)
	}
}

func (g *Game) renderFooter(dst *core.Screen) {
	h := dst.Height()
	dst.DrawTextColored(1, h-2, g.status, core.ColorYellow)
	dst.DrawTextColored(0, h-1,
		" Arrows: Move | Space: Select/Swap | X: Cancel | H: Hint | R: Restart | P: Pause",
		core.ColorGray)
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w := core.Max(len([]rune(line1)), len([]rune(line2))) + 4
	box := dst.Bounds().Centered(w, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCenteredColored(box.Y+1, line1, core.ColorBrightWhite)
	dst.DrawTextCenteredColored(box.Y+3, line2, core.ColorGray)
}
