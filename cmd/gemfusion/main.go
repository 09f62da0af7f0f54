// gemfusion is a match-3 puzzle game for the terminal.
//
// Usage:
//
//	gemfusion play [level]          - Play, starting at the level picker
//	gemfusion levels                - List levels and your progress
//	gemfusion levels validate [dir] - Check level files
//	gemfusion scores [level]        - Show high scores
//	gemfusion simulate <level>      - Autoplay a level and report statistics
//	gemfusion replay <file>         - Print or verify a recorded session
//	gemfusion serve                 - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.gemfusion/scores.db)
//	--config <path>       - Engine tuning YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--levels-dir <dir>    - Load levels from a directory instead of the built-ins
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagLogLevel   string
	flagLogFile    string
	flagNoColor    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gemfusion",
	Short: "Gem Fusion Quest - match-3 puzzles in your terminal",
	Long: `Gem Fusion Quest is a match-3 puzzle game. Swap neighboring gems to
line up three or more of a color, chain cascades, fuse special gems and
clear each level's objectives before you run out of moves.

Available commands:
  play      - Play the level campaign
  levels    - List levels and progress, or validate level files
  scores    - View high scores
  simulate  - Autoplay a level and report cascade statistics
  replay    - Inspect or verify a recorded session
  serve     - Start SSH server for remote play

Examples:
  gemfusion play
  gemfusion play lvl03 --record run.jsonl.zst
  gemfusion levels validate ./my-levels
  gemfusion simulate lvl05 --trials 5000
  gemfusion serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.gemfusion/scores.db", "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLevelsDir, "levels-dir", "", "Directory of level files (default: built-in levels)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "~/.gemfusion/gemfusion.log", "Log file for interactive play")
	pf.BoolVar(&flagNoColor, "no-color", false, "Use a monochrome theme for menus")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
}
