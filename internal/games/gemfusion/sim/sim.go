// Package sim plays levels headlessly with a bot and aggregates how the
// engine behaves: cascade depth, safety-bound terminations, win rate.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cheggaaa/pb/v3"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

// Config describes one simulation run.
type Config struct {
	Level    engine.LevelConfig
	Rules    engine.Rules
	Trials   int
	Workers  int
	Seed     int64
	Strategy Strategy
	// ShowProgress draws a progress bar on Progress (stderr when nil).
	ShowProgress bool
	Progress     io.Writer
	Logger       *log.Logger
}

// Trial is the result of one played session.
type Trial struct {
	Seed     int64
	Depths   []int // cascade depth of every accepted move
	Aborted  int   // moves stopped by the safety bound
	Shuffles int
	Score    int
	Stars    int
	Outcome  engine.Outcome
	Stuck    bool // no valid move and the shuffle failed
}

// Run plays cfg.Trials sessions on cfg.Workers goroutines. Trial i always
// uses the same derived seed, so the report does not depend on Workers.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Trials < 1 {
		return nil, errors.New("sim: trials must be > 0")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Workers > cfg.Trials {
		cfg.Workers = cfg.Trials
	}
	if cfg.Strategy == nil {
		cfg.Strategy = FirstHint{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if err := cfg.Level.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	bar := pb.StartNew(cfg.Trials)
	switch {
	case !cfg.ShowProgress:
		bar.SetWriter(io.Discard)
	case cfg.Progress != nil:
		bar.SetWriter(cfg.Progress)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	trials := make([]Trial, cfg.Trials)
	jobs := make(chan int)
	errCh := make(chan error, cfg.Workers)

	wg := new(sync.WaitGroup)
	wg.Add(cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				t, err := playTrial(ctx, cfg, seedFor(cfg.Seed, i))
				if err != nil {
					errCh <- err
					cancel()
					return
				}
				trials[i] = t
				bar.Increment()
			}
		}()
	}

feed:
	for i := 0; i < cfg.Trials; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	cfg.Logger.Debug("simulation finished", "level", cfg.Level.ID, "trials", cfg.Trials, "elapsed", used)
	r := Summarize(cfg.Level.ID, trials)
	r.Elapsed = used
	return r, nil
}

// playTrial plays one session until it ends or the bot gets stuck.
func playTrial(ctx context.Context, cfg Config, seed int64) (Trial, error) {
	s, err := engine.NewSession(cfg.Level, engine.NewRandom(seed), cfg.Rules)
	if err != nil {
		return Trial{}, fmt.Errorf("sim: seed %d: %w", seed, err)
	}
	ctl := engine.NewController(s, engine.WithLogger(cfg.Logger))
	rng := rand.New(rand.NewSource(seed))

	t := Trial{Seed: seed}
	for !s.Over() {
		if err := ctx.Err(); err != nil {
			return Trial{}, err
		}
		swap, ok := cfg.Strategy.Choose(s.Grid, rng)
		if !ok {
			t.Stuck = true
			break
		}
		res, err := ctl.RequestSwap(swap.A, swap.B)
		if err != nil {
			return Trial{}, fmt.Errorf("sim: seed %d: %w", seed, err)
		}
		if !res.Valid {
			return Trial{}, fmt.Errorf("sim: seed %d: strategy chose invalid swap %v-%v", seed, swap.A, swap.B)
		}
		t.Depths = append(t.Depths, res.Stats.Cascades)
		if res.Stats.Aborted {
			t.Aborted++
		}
		if res.Shuffled {
			t.Shuffles++
		}
	}

	t.Score = s.Score
	t.Stars = s.Stars()
	t.Outcome = s.Outcome
	return t, nil
}

// seedFor derives the seed of trial i (splitmix64 finalizer).
func seedFor(base int64, i int) int64 {
	x := uint64(base) + uint64(i+1)*0x9E3779B97F4A7C15
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x >> 1)
}
