package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemfusion/internal/replay"
)

var (
	flagVerify bool
	flagEvents bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Inspect or verify a recorded session",
	Long: `Prints the header and moves of a log written by 'gemfusion play --record'.

With --verify the session is rebuilt from the level file, the seed and the
rules stored in the header, every move is replayed and the board hashes are
compared with the log. A mismatch means the level file or the engine has
changed since the recording.

Examples:
  gemfusion replay session.jsonl.zst
  gemfusion replay session.jsonl.zst --events
  gemfusion replay session.jsonl.zst --verify`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagVerify, "verify", false, "Re-run the session and compare board hashes")
	replayCmd.Flags().BoolVar(&flagEvents, "events", false, "Print the events of every move")
}

func runReplay(_ *cobra.Command, args []string) {
	h, entries, err := replay.ReadFile(expandHome(args[0]))
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("Level:    %s\n", h.LevelID)
	fmt.Printf("Seed:     %d\n", h.Seed)
	fmt.Printf("Moves:    %d\n", h.Moves)
	fmt.Printf("Recorded: %s\n", h.Recorded.Format("2006-01-02 15:04"))
	fmt.Println()

	fmt.Printf("  %-4s  %-13s  %-10s  %-5s  %-8s  %s\n", "Move", "Swap", "Score", "Left", "Cascades", "Result")
	fmt.Printf("  %-4s  %-13s  %-10s  %-5s  %-8s  %s\n", "----", "----", "-----", "----", "--------", "------")
	for _, e := range entries {
		result := e.Outcome.String()
		switch {
		case e.Error != "":
			result = "rejected: " + e.Error
		case !e.Valid:
			result = "no match"
		case e.Aborted:
			result += " (cascade bound hit)"
		}
		fmt.Printf("  %-4d  %-13s  %-10s  %-5d  %-8d  %s\n",
			e.Move, e.A.String()+"-"+e.B.String(),
			printer.Sprintf("%d", e.Score), e.MovesLeft, e.Cascades, result)
		if flagEvents {
			for _, ev := range e.Events {
				fmt.Printf("        %-16s %s\n", ev.Kind, ev.Data)
			}
		}
	}

	if !flagVerify {
		return
	}

	fmt.Println()
	lvl := loadLevel(h.LevelID)
	s, err := replay.Verify(h, entries, lvl.LevelConfig)
	var mismatch replay.Mismatch
	switch {
	case errors.As(err, &mismatch):
		fmt.Printf("Verification FAILED: %v\n", mismatch)
		os.Exit(1)
	case err != nil:
		fatalf("%v", err)
	}
	printer.Printf("Verified %d moves: score %d, outcome %s\n", len(entries), s.Score, s.Outcome)
}
