package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"twinclash/internal/storage"
	"twinclash/internal/tui"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores <level>",
	Short: "Show the best results for a level",
	Long: `Show the top recorded attempts for a level, best first.

Examples:
  twinclash scores 1
  twinclash scores 12 --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of results to show")
}

func runScores(_ *cobra.Command, args []string) error {
	levelID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid level %q", args[0])
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	best, err := store.Best(levelID)
	if err != nil {
		return err
	}
	if best.Attempts == 0 {
		fmt.Printf("No attempts recorded for level %d.\n", levelID)
		return nil
	}

	entries, err := store.TopOutcomes(levelID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Level %d: best %d stars, %d of %d attempts won\n\n", levelID, best.Stars, best.Wins, best.Attempts)
	fmt.Fprintln(os.Stdout, tui.RenderScores(entries))
	return nil
}
