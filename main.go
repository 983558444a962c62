// twinclash is a pair-matching puzzle played in the terminal, over SSH or
// through a JSON/websocket API.
//
// Usage:
//
//	twinclash play [level]    - Play the campaign from a level
//	twinclash levels          - List the level catalog
//	twinclash scores <level>  - Show the best results for a level
//	twinclash serve           - Start the HTTP (and optional SSH) server
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"twinclash/internal/config"
	"twinclash/internal/level"
	"twinclash/internal/scoring"
	"twinclash/internal/storage"
)

var (
	// Global flags
	flagLogLevel string
	flagLogFile  string
	flagDBPath   string
	flagRules    string
	flagLevels   []string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "twinclash",
	Short: "Twinclash - match pairs, break obstacles, beat the clock",
	Long: `Twinclash is a pair-matching puzzle. Flip two cards; matching pairs
clear and damage the obstacles next to them. Some levels add spreading
hazards: viruses infect neighbours and bombs set them on fire.

Examples:
  twinclash play
  twinclash play 12 --daily
  twinclash levels --world 3
  twinclash scores 12
  twinclash serve --http :8080 --ssh :23234`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", config.LoadServer().DBPath, "Path to outcomes database")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Path to custom rules YAML")
	rootCmd.PersistentFlags().StringSliceVar(&flagLevels, "levels", nil, "Level catalog files or directories (default: built-in)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger writes to --log-file when set, otherwise to fallback.
func newLogger(fallback io.Writer, prefix string) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}

	w, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

func loadRules() (config.Rules, error) {
	return config.LoadRules(flagRules)
}

func loadCatalog() (*level.Catalog, error) {
	if len(flagLevels) > 0 {
		return level.LoadCatalog(flagLevels)
	}
	return level.Default()
}

// openOutcomes opens the SQLite store. When that fails the JSON-lines file
// under ~/.config/twinclash is used instead.
func openOutcomes(logger *log.Logger) (scoring.OutcomeStorage, func(), error) {
	store, err := storage.Open(flagDBPath)
	if err == nil {
		return store, func() { store.Close() }, nil
	}
	logger.Warn("could not open outcomes database, using JSON file", "error", err)

	file, fileErr := scoring.NewJSONFileStorage()
	if fileErr != nil {
		return nil, nil, fmt.Errorf("failed to create outcome storage: %w", fileErr)
	}
	return file, func() {}, nil
}
