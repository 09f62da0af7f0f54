package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemfusion/internal/core"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion"
	"github.com/vovakirdan/gemfusion/internal/platform/tui"
	"github.com/vovakirdan/gemfusion/internal/registry"
)

var (
	flagRecord string
	flagLevel  string
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the level campaign",
	Long: `Start Gem Fusion Quest. Without a level the level picker is shown;
Esc in a level returns to it.

Controls:
  Arrows/WASD  - Move cursor
  Space/Enter  - Select a gem, then a neighbor to swap
  X            - Drop the selection
  H/?          - Show a hint
  R            - Restart level
  P            - Pause
  Esc          - Back to level picker
  Q/Ctrl+C     - Quit

Difficulty options change each level's move budget:
  easy   - extra moves
  normal - the level's own budget
  hard   - fewer moves
  fixed  - the level's own budget, ignoring config adjustments

Examples:
  gemfusion play
  gemfusion play lvl02
  gemfusion play --difficulty easy
  gemfusion play --seed 42 --record session.jsonl.zst`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write a replay log of every session to this file")
	playCmd.Flags().StringVar(&flagLevel, "level", "", "Level ID to start (same as the positional argument)")
}

func runPlay(_ *cobra.Command, args []string) {
	logger, done := fileLogger()
	defer done()

	if flagNoColor {
		tui.SetTheme(tui.MonochromeTheme())
	}

	levelID := flagLevel
	if len(args) == 1 {
		levelID = args[0]
	}
	if levelID != "" {
		loadLevel(levelID)
	}

	cfg := loadConfig(logger)
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	var extra []gemfusion.Option
	if flagRecord != "" {
		extra = append(extra, gemfusion.WithRecorder(expandHome(flagRecord)))
	}
	registerGame(cfg, logger, store, extra...)

	game, err := registry.Create(gemfusion.ID)
	if err != nil {
		fatalf("%v", err)
	}
	defer func() {
		if c, ok := game.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Error("failed to close game", "err", err)
			}
		}
	}()
	picker := game.(registry.LevelPicker)

	width, height := terminalSize()
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}
	logger.Info("starting", "seed", rc.Seed, "difficulty", cfg.Difficulty.Preset)

	for {
		if levelID == "" {
			res, err := tui.RunLevelMenu(game.Title(), picker, store, rc)
			if err != nil {
				fatalf("%v", err)
			}
			if res.WantsScoreboard {
				back, err := tui.RunScoreboard(store, picker.Levels(), rc.ScreenW, rc.ScreenH)
				if err != nil {
					fatalf("%v", err)
				}
				if back {
					continue
				}
				return
			}
			if res.Quit {
				return
			}
			levelID = res.LevelID
		}

		rc.LevelID = levelID
		back, err := tui.Run(game, store, logger, rc)
		if err != nil {
			fatalf("%v", err)
		}
		if !back {
			return
		}
		levelID = ""
		// A new seed keeps replays of the same level from repeating boards.
		rc.Seed++
	}
}
