package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"twinclash/internal/level"
	"twinclash/internal/scoring"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level catalog",
	Long: `List every level with its board size, time limit, obstacles and
your best result so far.

Examples:
  twinclash levels
  twinclash levels --world 2`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().IntVar(&flagWorld, "world", 0, "Only list the given world")
}

func runLevels(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(os.Stderr, "twinclash")
	if err != nil {
		return err
	}
	defer closeLog()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	levels := cat.Levels
	if flagWorld > 0 {
		levels = cat.World(flagWorld)
	}

	outcomes, closeStore, err := openOutcomes(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	entries, err := outcomes.LoadAll()
	if err != nil {
		return err
	}
	return printLevels(os.Stdout, levels, entries)
}

func printLevels(w io.Writer, levels []level.Descriptor, entries []scoring.OutcomeEntry) error {
	byLevel := make(map[int][]scoring.OutcomeEntry)
	for _, e := range entries {
		byLevel[e.LevelID] = append(byLevel[e.LevelID], e)
	}

	if _, err := fmt.Fprintf(w, "%-4s %-6s %-5s %-6s %-28s %s\n", "ID", "LEVEL", "PAIRS", "TIME", "OBSTACLES", "BEST"); err != nil {
		return err
	}
	for _, d := range levels {
		best := scoring.Summarize(d.ID, byLevel[d.ID])
		bestText := "-"
		if best.Attempts > 0 {
			bestText = fmt.Sprintf("%s (%d/%d won)", strings.Repeat("*", best.Stars), best.Wins, best.Attempts)
		}
		if _, err := fmt.Fprintf(w, "%-4d %-6s %-5d %-6s %-28s %s\n",
			d.ID, d.Name(), d.Pairs, d.TimeLimit(), obstacleSummary(d.Obstacles), bestText); err != nil {
			return err
		}
	}
	return nil
}

func obstacleSummary(o level.Obstacles) string {
	var parts []string
	add := func(name string, n int) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", name, n))
		}
	}
	add("ice", o.Ice)
	add("stone", o.Stone)
	add("iron", o.Iron)
	add("fire", o.Fire)
	add("bomb", o.Bomb)
	add("virus", o.Virus)
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
