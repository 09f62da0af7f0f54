package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/levels"
	"github.com/vovakirdan/gemfusion/internal/storage"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List levels and your progress",
	Long: `Shows every level with its board size, move budget and objectives,
together with the best result recorded in the scores database.

Examples:
  gemfusion levels
  gemfusion levels --levels-dir ./my-levels`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check level files for errors",
	Long: `Parses and validates every level file under dir (default: --levels-dir,
or the built-in levels) and reports each broken file. Exits with status 1
when any file is invalid.

Examples:
  gemfusion levels validate
  gemfusion levels validate ./my-levels`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidate,
}

func init() {
	levelsCmd.AddCommand(validateCmd)
}

func runLevels(_ *cobra.Command, _ []string) {
	all, err := newLoader().LoadAll()
	if err != nil {
		fatalf("%v", err)
	}
	if len(all) == 0 {
		fmt.Println("No levels available.")
		return
	}

	progress := map[string]storage.LevelProgress{}
	if store, err := storage.Open(flagDBPath); err == nil {
		if p, err := store.AllProgress(); err == nil {
			progress = p
		}
		store.Close()
	}

	printLevels(os.Stdout, all, progress)

	fmt.Println()
	fmt.Println("Run 'gemfusion play <id>' to play a level.")
}

func printLevels(w io.Writer, all []levels.Level, progress map[string]storage.LevelProgress) {
	maxIDLen, maxNameLen := 2, 4 // "ID", "Name" headers
	for _, l := range all {
		maxIDLen = max(maxIDLen, len(l.ID))
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	row := func(id, name, size, moves, best, goals string) {
		// Star glyphs are multi-byte, so pad by display width.
		fmt.Fprintf(w, "  %-*s  %-*s  %-5s  %-5s  %s  %s\n",
			maxIDLen, id, maxNameLen, name, size, moves, runewidth.FillRight(best, 14), goals)
	}
	row("ID", "Name", "Size", "Moves", "Best", "Objectives")
	row("--", "----", "----", "-----", "----", "----------")

	for _, l := range all {
		best := "-"
		if p, ok := progress[l.ID]; ok {
			best = printer.Sprintf("%d %s", p.BestScore, stars(p.BestStars))
		}
		row(l.ID, l.Name,
			fmt.Sprintf("%dx%d", l.Width, l.Height),
			fmt.Sprint(l.Moves),
			best,
			objectives(l.Objectives))
	}
}

func stars(n int) string {
	n = min(max(n, 0), engine.StarCount)
	return strings.Repeat("★", n) + strings.Repeat("☆", engine.StarCount-n)
}

func objectives(objs []engine.Objective) string {
	parts := make([]string, 0, len(objs))
	for _, o := range objs {
		parts = append(parts, o.String())
	}
	return strings.Join(parts, "; ")
}

func runValidate(_ *cobra.Command, args []string) {
	loader := newLoader()
	if len(args) == 1 {
		loader = levels.NewLoader(expandHome(args[0]))
	}

	valid, problems, err := loader.ValidateAll()
	if err != nil {
		fatalf("%v", err)
	}

	for _, l := range valid {
		fmt.Printf("  ok    %s (%s)\n", l.ID, l.FilePath)
	}
	for _, p := range problems {
		fmt.Printf("  FAIL  %v\n", p)
	}

	fmt.Println()
	fmt.Printf("%d valid, %d invalid\n", len(valid), len(problems))
	if len(problems) > 0 {
		os.Exit(1)
	}
}
