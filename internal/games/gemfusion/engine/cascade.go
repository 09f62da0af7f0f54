package engine

import (
	"fmt"
	"time"
)

// ResolveStats summarizes one call to Resolve.
type ResolveStats struct {
	Cascades    int
	Destroyed   int
	Points      int
	Aborted     bool
	AbortReason string
	Elapsed     time.Duration
}

// Resolver runs the destroy, drop, refill and match loop. Emit receives
// every event in order; Now is the clock used for the time bound.
type Resolver struct {
	Emit func(Event)
	Now  func() time.Time
}

func (r *Resolver) emit(e Event) {
	if r.Emit != nil {
		r.Emit(e)
	}
}

func (r *Resolver) emitAll(events []Event) {
	for _, e := range events {
		r.emit(e)
	}
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Resolve clears matches until the board is stable or the safety bound is
// reached. The bound is checked only between steps, when the board is
// full, so an aborted resolution leaves the grid consistent.
func (r *Resolver) Resolve(s *Session) ResolveStats {
	var stats ResolveStats
	start := r.now()
	scoreBefore := s.Score
	rules := s.rules

	for {
		groups := FindMatches(s.Grid)
		if len(groups) == 0 {
			break
		}

		elapsed := r.now().Sub(start)
		switch {
		case stats.Cascades >= rules.MaxCascades:
			stats.Aborted = true
			stats.AbortReason = fmt.Sprintf("cascade limit %d reached", rules.MaxCascades)
		case rules.MaxResolveTime > 0 && elapsed > rules.MaxResolveTime:
			stats.Aborted = true
			stats.AbortReason = fmt.Sprintf("time limit %s exceeded", rules.MaxResolveTime)
		}
		if stats.Aborted {
			r.emit(CascadeAbortedEvent{Depth: s.CascadeDepth, Reason: stats.AbortReason})
			break
		}

		stats.Destroyed += r.destroyStep(s, groups)
		stats.Cascades++
		r.Settle(s)
	}

	stats.Points = s.Score - scoreBefore
	stats.Elapsed = r.now().Sub(start)
	return stats
}

// destroyStep scores every group, promotes specials and destroys the rest.
func (r *Resolver) destroyStep(s *Session, groups []MatchGroup) int {
	s.CascadeDepth++
	depth := s.CascadeDepth

	points := 0
	for _, grp := range groups {
		points += s.rules.GroupPoints(grp.Len(), depth)
	}
	r.emit(CascadeEvent{
		Depth:      depth,
		Multiplier: s.rules.Multiplier(depth),
		Groups:     len(groups),
		Points:     points,
	})
	r.emitAll(s.addScore(points))

	promoted := make(map[Cell]bool)
	for _, p := range planPromotions(groups) {
		gem := s.Grid.At(p.cell)
		// A special already on the cell keeps its kind and survives instead.
		if gem.Special != SpecialNone {
			promoted[p.cell] = true
			continue
		}
		gem.Special = p.kind
		if p.kind == SpecialRainbow {
			gem.Color = NoColor
		}
		promoted[p.cell] = true
		r.emit(SpecialCreatedEvent{Cell: p.cell, Special: p.kind})
	}

	var cells []Cell
	seen := make(map[Cell]bool)
	for _, grp := range groups {
		for _, c := range grp.Cells {
			if promoted[c] || seen[c] {
				continue
			}
			seen[c] = true
			cells = append(cells, c)
		}
	}
	r.destroyCells(s, cells, CauseMatch)
	return len(cells)
}

// destroyCells removes gems, damages adjacent blockers and records collect
// progress. Every cell must hold a gem.
func (r *Resolver) destroyCells(s *Session, cells []Cell, cause DestroyCause) {
	var colors []int
	counts := make(map[int]int)

	for _, c := range cells {
		gem := s.Grid.Remove(c)
		if gem == nil {
			panic(fmt.Sprintf("engine: destroy of empty cell %v", c))
		}
		r.emit(GemDestroyedEvent{
			Cell:       c,
			Color:      gem.Color,
			Special:    gem.Special,
			WasSpecial: gem.Special != SpecialNone,
			Cause:      cause,
		})
		if gem.Color != NoColor {
			if counts[gem.Color] == 0 {
				colors = append(colors, gem.Color)
			}
			counts[gem.Color]++
		}

		for _, hit := range ClearAdjacentBlockers(s.Grid, c) {
			r.emit(BlockerDamagedEvent{Cell: hit.Cell, Type: hit.Type, LayersLeft: hit.LayersLeft})
			if hit.Cleared {
				r.emit(BlockerClearedEvent{Cell: hit.Cell, Type: hit.Type})
				r.emitAll(s.tracker.OnBlockerCleared(hit.Type))
			}
		}
	}

	for _, color := range colors {
		r.emitAll(s.tracker.OnCollect(color, counts[color]))
	}
}

// Settle applies gravity and then refills every empty cell.
func (r *Resolver) Settle(s *Session) {
	if drops := ApplyGravity(s.Grid); len(drops) > 0 {
		r.emit(GemsDroppedEvent{Drops: drops})
	}
	if spawns := r.refill(s); len(spawns) > 0 {
		r.emit(GemsSpawnedEvent{Spawns: spawns})
	}
}

// ApplyGravity compacts each column downward. Holes and blocked gems are fixed
// barriers: gems never pass them and stack directly above them. Relative
// order within a column is preserved.
func ApplyGravity(g *Grid) []Drop {
	var drops []Drop
	for col := 0; col < g.Width; col++ {
		// write is the lowest free cell of the current segment.
		write := g.Height - 1
		for row := g.Height - 1; row >= 0; row-- {
			c := At(row, col)
			gem := g.At(c)
			if g.IsHole(c) || (gem != nil && gem.Blocked()) {
				write = row - 1
				continue
			}
			if gem == nil {
				continue
			}
			if row != write {
				to := At(write, col)
				g.Set(to, g.Remove(c))
				drops = append(drops, Drop{From: c, To: to})
			}
			write--
		}
	}
	return drops
}

// refill creates a random gem in every empty playable cell, row-major.
func (r *Resolver) refill(s *Session) []Spawn {
	var spawns []Spawn
	for _, c := range s.Grid.EmptyCells() {
		color := s.rng.Intn(s.Level.GemTypes)
		s.Grid.Set(c, s.newGem(color))
		spawns = append(spawns, Spawn{Cell: c, Color: color})
	}
	return spawns
}
