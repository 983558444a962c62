package scoring

import (
	"sort"
)

// ScoreHistory holds the recorded outcomes for one level, including the
// current attempt once it has finished.
type ScoreHistory struct {
	Entries      []OutcomeEntry
	BestEntry    *OutcomeEntry
	CurrentEntry *OutcomeEntry
	Attempts     int
}

// OutcomeEntry is one persisted attempt.
type OutcomeEntry struct {
	LevelID int    `json:"levelId"`
	Title   string `json:"title"`
	Seed    string `json:"seed,omitempty"`
	Outcome
	Timestamp string `json:"timestamp"`
}

// LevelBest is the per-level progress summary: best stars, and best time and
// moves over winning attempts.
type LevelBest struct {
	LevelID  int   `json:"levelId"`
	Stars    int   `json:"stars"`
	TimeMs   int64 `json:"timeMs,omitempty"`
	Moves    int   `json:"moves,omitempty"`
	Attempts int   `json:"attempts"`
	Wins     int   `json:"wins"`
}

// GetBestEntry returns the best entry from the loaded history.
func (sh ScoreHistory) GetBestEntry() *OutcomeEntry {
	return sh.BestEntry
}

// GetNScoreEntries returns the top N entries, best first.
func (sh ScoreHistory) GetNScoreEntries(n int) []OutcomeEntry {
	entriesCopy := make([]OutcomeEntry, len(sh.Entries))
	copy(entriesCopy, sh.Entries)

	sort.SliceStable(entriesCopy, func(i, j int) bool {
		return Better(entriesCopy[i].Outcome, entriesCopy[j].Outcome)
	})

	if len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}

// GotNewBest reports whether the current attempt beats or equals every
// earlier one.
func (sh ScoreHistory) GotNewBest() bool {
	if sh.CurrentEntry == nil {
		return false
	}
	if sh.BestEntry == nil {
		return true
	}
	return !Better(sh.BestEntry.Outcome, sh.CurrentEntry.Outcome)
}

// Summarize folds entries for one level into a LevelBest.
func Summarize(levelID int, entries []OutcomeEntry) LevelBest {
	best := LevelBest{LevelID: levelID}
	for _, e := range entries {
		if e.LevelID != levelID {
			continue
		}
		best.Attempts++
		if !e.Won() {
			continue
		}
		best.Wins++
		best.Stars = max(best.Stars, e.Stars)
		if best.TimeMs == 0 || e.TimeUsedMs < best.TimeMs {
			best.TimeMs = e.TimeUsedMs
		}
		if best.Moves == 0 || e.MovesUsed < best.Moves {
			best.Moves = e.MovesUsed
		}
	}
	return best
}
