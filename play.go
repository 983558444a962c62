package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"twinclash/internal/board"
	"twinclash/internal/game"
	"twinclash/internal/level"
	"twinclash/internal/tui"
)

var (
	flagDaily bool
	flagSeed  string
	flagWorld int
	flagTick  time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the campaign",
	Long: `Play the campaign starting at the given level id (default 1).
Winning a level moves on to the next one.

Controls:
  Arrows/hjkl  - Move the cursor
  Space/Enter  - Flip the card under the cursor
  F            - Freeze the clock (once per level)
  V            - Reveal some pairs (once per level)
  R            - Restart the level
  Q/Esc        - Quit

Examples:
  twinclash play
  twinclash play 21
  twinclash play --world 11
  twinclash play --daily`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagDaily, "daily", false, "Use today's shared seed")
	playCmd.Flags().StringVar(&flagSeed, "seed", "", "Seed for reproducible boards")
	playCmd.Flags().IntVar(&flagWorld, "world", 0, "Play only the given world")
	playCmd.Flags().DurationVar(&flagTick, "tick", 100*time.Millisecond, "Clock tick interval")
}

func selectLevels(cat *level.Catalog, args []string) ([]level.Descriptor, error) {
	if flagWorld > 0 {
		levels := cat.World(flagWorld)
		if len(levels) == 0 {
			return nil, fmt.Errorf("unknown world %d", flagWorld)
		}
		return levels, nil
	}

	start := 1
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid level %q", args[0])
		}
		start = id
	}
	levels := cat.From(start)
	if len(levels) == 0 {
		return nil, fmt.Errorf("unknown level %d", start)
	}
	return levels, nil
}

func runPlay(_ *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(io.Discard, "twinclash")
	if err != nil {
		return err
	}
	defer closeLog()

	rules, err := loadRules()
	if err != nil {
		return err
	}
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	levels, err := selectLevels(cat, args)
	if err != nil {
		return err
	}

	outcomes, closeStore, err := openOutcomes(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	seed := flagSeed
	if flagDaily {
		seed = level.DailySeed(time.Now())
	}

	campaign, err := game.NewCampaign(levels, game.Options{Rules: &rules, Logger: logger}, outcomes, seed)
	if err != nil {
		return err
	}

	// Warn when the widest board will not fit.
	if w, _, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		widest := 0
		for _, d := range levels {
			widest = max(widest, d.Pairs*2)
		}
		if need := 7 * board.Side(widest); w < need {
			fmt.Fprintf(os.Stderr, "Terminal is %d columns wide; some boards need %d.\n", w, need)
		}
	}

	p := tea.NewProgram(tui.NewModel(campaign, flagTick, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if campaign.IsFinished() {
		fmt.Printf("Campaign complete! Total stars: %d\n", campaign.TotalStars)
	}
	if best := campaign.Scoring; best != nil && best.GotNewBest() {
		fmt.Printf("New best on level %s!\n", best.Title)
	}
	return nil
}
