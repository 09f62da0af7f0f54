package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemfusion/internal/config"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/sim"
)

var (
	flagTrials     int
	flagWorkers    int
	flagStrategy   string
	flagNoProgress bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <level>",
	Short: "Autoplay a level and report statistics",
	Long: `Plays a level many times with a simple bot and reports how often cascades
settle within the safety bound, the cascade depth distribution, the win
rate and the score spread.

Each trial uses a seed derived from --seed and its index, so the report
is the same for any number of workers.

Strategies:
  first  - always play the first valid swap found
  random - play a random valid swap

Examples:
  gemfusion simulate lvl01
  gemfusion simulate lvl05 --trials 5000 --strategy random
  gemfusion simulate lvl03 --seed 7 --difficulty hard`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTrials, "trials", 1000, "Number of sessions to play")
	simulateCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "Parallel workers")
	simulateCmd.Flags().StringVar(&flagStrategy, "strategy", "first", "Bot strategy: first or random")
	simulateCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "Hide the progress bar")
}

func runSimulate(_ *cobra.Command, args []string) {
	logger := newLogger(os.Stderr)
	cfg := loadConfig(logger)

	lvl := loadLevel(args[0])
	lvl.Moves = config.NewDifficultyManager(cfg.Difficulty).Moves(lvl.Moves)

	strategy, err := sim.ParseStrategy(flagStrategy)
	if err != nil {
		fatalf("%v", err)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("simulating", "level", lvl.ID, "trials", flagTrials, "workers", flagWorkers,
		"strategy", strategy.Name(), "seed", seed, "moves", lvl.Moves)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := sim.Run(ctx, sim.Config{
		Level:        lvl.LevelConfig,
		Rules:        cfg.Rules(),
		Trials:       flagTrials,
		Workers:      flagWorkers,
		Seed:         seed,
		Strategy:     strategy,
		ShowProgress: !flagNoProgress,
		Progress:     os.Stderr,
		Logger:       logger,
	})
	if errors.Is(err, context.Canceled) {
		logger.Warn("simulation interrupted")
		os.Exit(130)
	}
	if err != nil {
		fatalf("%v", err)
	}

	if err := report.Format(os.Stdout); err != nil {
		fatalf("%v", err)
	}
}
