package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemfusion/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show high scores",
	Long: `Display the top 10 scores for a level, or across all levels when no
level is given.

Examples:
  gemfusion scores
  gemfusion scores lvl02
  gemfusion scores lvl02 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete the level's scores instead of listing them")
}

func runScores(_ *cobra.Command, args []string) {
	levelID := ""
	title := "All levels"
	if len(args) == 1 {
		lvl := loadLevel(args[0])
		levelID = lvl.ID
		title = fmt.Sprintf("%s - %s", lvl.ID, lvl.Name)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening scores database: %v", err)
	}
	defer store.Close()

	if flagClearScores {
		if levelID == "" {
			fatalf("--clear needs a level")
		}
		if err := store.ClearScores(levelID); err != nil {
			fatalf("clearing scores: %v", err)
		}
		fmt.Printf("Cleared scores for %s\n", levelID)
		return
	}

	scores, err := store.TopScores(levelID, 10)
	if err != nil {
		fatalf("retrieving scores: %v", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'gemfusion play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-10s  %-5s  %-6s  %s\n", "Rank", "Level", "Score", "Stars", "Result", "Date")
	fmt.Printf("  %-4s  %-8s  %-10s  %-5s  %-6s  %s\n", "----", "-----", "-----", "-----", "------", "----")

	for i, entry := range scores {
		result := "lost"
		if entry.Won {
			result = "won"
		}
		fmt.Printf("  %-4d  %-8s  %-10s  %s  %-6s  %s\n",
			i+1, entry.LevelID,
			printer.Sprintf("%d", entry.Score),
			runewidth.FillRight(stars(entry.Stars), 5),
			result,
			entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if levelID == "" {
		return
	}
	fmt.Println()
	if stats, err := store.GetLevelStats(levelID); err == nil {
		printer.Printf("Played: %d  Wins: %d  Best: %d  Average: %.0f\n",
			stats.Played, stats.Wins, stats.HighScore, stats.AvgScore)
	}
}
