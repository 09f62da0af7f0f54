package gemfusion

import "github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"

// frame is one visible step of a resolved move.
type frame struct {
	events []engine.Event
}

// splitFrames groups a move's event log into the steps shown to the player:
// the swap, each destroy step, each gravity-and-refill and a shuffle.
func splitFrames(events []engine.Event) []frame {
	var frames []frame
	var cur []engine.Event

	flush := func() {
		if len(cur) > 0 {
			frames = append(frames, frame{events: cur})
			cur = nil
		}
	}

	for _, ev := range events {
		switch ev.(type) {
		case engine.CascadeEvent, engine.GemsDroppedEvent:
			flush()
		}
		cur = append(cur, ev)
		switch ev.(type) {
		case engine.SwapEvent, engine.SwapRevertedEvent, engine.GemsSpawnedEvent, engine.BoardShuffledEvent:
			flush()
		}
	}
	flush()
	return frames
}

// play starts showing the result of a move.
func (g *Game) play(res engine.MoveResult) {
	if g.flashTicks == 0 {
		g.sync()
		return
	}
	g.playback = splitFrames(res.Events)
	g.ticks = 0
	g.showFrame()
}

// advancePlayback moves to the next frame once the current one has been
// on screen long enough.
func (g *Game) advancePlayback() {
	g.ticks++
	if g.ticks < g.flashTicks {
		return
	}
	g.ticks = 0
	g.playback = g.playback[1:]
	if len(g.playback) == 0 {
		g.sync()
		return
	}
	g.showFrame()
}

// showFrame applies the head frame to the view and marks the cells it touched.
func (g *Game) showFrame() {
	g.flash = make(map[engine.Cell]bool)
	for _, ev := range g.playback[0].events {
		g.apply(ev)
	}
}

// sync makes the view match the session again.
func (g *Game) sync() {
	g.playback = nil
	g.flash = nil
	g.view = g.session.Grid.Clone()
}

func (g *Game) apply(ev engine.Event) {
	v := g.view
	switch e := ev.(type) {
	case engine.SwapEvent:
		v.Swap(e.A, e.B)
		g.flash[e.A], g.flash[e.B] = true, true
	case engine.SwapRevertedEvent:
		v.Swap(e.A, e.B)
		g.flash[e.A], g.flash[e.B] = true, true
		g.status = "No match, swap reverted"
	case engine.GemDestroyedEvent:
		v.Remove(e.Cell)
		g.flash[e.Cell] = true
	case engine.SpecialCreatedEvent:
		if gem := v.At(e.Cell); gem != nil {
			gem.Special = e.Special
			if e.Special == engine.SpecialRainbow {
				gem.Color = engine.NoColor
			}
		}
		g.flash[e.Cell] = true
	case engine.SpecialActivatedEvent:
		g.flash[e.Cell] = true
		g.status = e.Special.String() + " fired"
	case engine.BlockerDamagedEvent:
		if gem := v.At(e.Cell); gem != nil && gem.Blocker != nil {
			gem.Blocker.Layers = e.LayersLeft
		}
		g.flash[e.Cell] = true
	case engine.BlockerClearedEvent:
		if gem := v.At(e.Cell); gem != nil {
			gem.Blocker = nil
		}
	case engine.GemsDroppedEvent:
		// Drops are listed bottom-up per column, so targets are free.
		for _, d := range e.Drops {
			v.Set(d.To, v.Remove(d.From))
			g.flash[d.To] = true
		}
	case engine.GemsSpawnedEvent:
		for _, sp := range e.Spawns {
			v.Set(sp.Cell, &engine.Gem{Color: sp.Color})
			g.flash[sp.Cell] = true
		}
	case engine.CascadeEvent:
		if e.Depth > 1 {
			g.status = "Cascade x" + itoa(e.Depth)
		}
	case engine.CascadeAbortedEvent:
		g.status = "Cascade stopped: " + e.Reason
	case engine.BoardShuffledEvent:
		g.view = g.session.Grid.Clone()
		for _, c := range g.view.Cells() {
			g.flash[c] = true
		}
		g.status = "No moves left, board shuffled"
	case engine.MoveOutcomeEvent:
		switch e.Outcome {
		case engine.OutcomeWon:
			g.status = "Level complete!"
		case engine.OutcomeLost:
			g.status = lostMessage(e.MovesLeft)
		}
	}
}

// itoa converts int to string without importing strconv.
// lostMessage tells running out of moves apart from a board that has no
// valid move left.
func lostMessage(movesLeft int) string {
	if movesLeft > 0 {
		return "No valid moves left"
	}
	return "Out of moves"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
