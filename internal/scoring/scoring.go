package scoring

import (
	"fmt"
	"sort"
	"time"
)

// Scoring tracks the outcome history of one level and persists new attempts.
type Scoring struct {
	LevelID int
	Title   string
	// private
	storage OutcomeStorage
	history ScoreHistory
}

// InitScoring loads the outcome history for a level using the provided storage.
func InitScoring(levelID int, title string, storage OutcomeStorage) (*Scoring, error) {
	s := &Scoring{
		LevelID: levelID,
		Title:   title,
		storage: storage,
	}

	allEntries, err := s.storage.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("could not load outcome history: %w", err)
	}

	filteredEntries := []OutcomeEntry{}
	for _, entry := range allEntries {
		if entry.LevelID == levelID {
			filteredEntries = append(filteredEntries, entry)
		}
	}

	sort.SliceStable(filteredEntries, func(i, j int) bool {
		return Better(filteredEntries[i].Outcome, filteredEntries[j].Outcome)
	})

	s.history.Entries = filteredEntries
	s.history.Attempts = len(filteredEntries)
	if len(filteredEntries) > 0 {
		s.history.BestEntry = &filteredEntries[0]
	}

	return s, nil
}

// Record sets the finished attempt as the current entry.
func (s *Scoring) Record(o Outcome, seed string) {
	s.history.CurrentEntry = &OutcomeEntry{
		LevelID:   s.LevelID,
		Title:     s.Title,
		Seed:      seed,
		Outcome:   o,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// SaveEntries persists the current attempt, if there is one.
func (s *Scoring) SaveEntries() error {
	if s.history.CurrentEntry == nil {
		return nil
	}
	if err := s.storage.Append(*s.history.CurrentEntry); err != nil {
		return fmt.Errorf("could not save outcome: %w", err)
	}
	return nil
}

func (s *Scoring) GetBest() *OutcomeEntry {
	return s.history.GetBestEntry()
}

func (s *Scoring) GetAttempts() int {
	return s.history.Attempts
}

func (s *Scoring) GotNewBest() bool {
	return s.history.GotNewBest()
}

func (s *Scoring) GetNScoreEntries(n int) []OutcomeEntry {
	return s.history.GetNScoreEntries(n)
}

// Summary is the per-level best including the current attempt.
func (s *Scoring) Summary() LevelBest {
	entries := s.history.Entries
	if s.history.CurrentEntry != nil {
		entries = append(entries[:len(entries):len(entries)], *s.history.CurrentEntry)
	}
	return Summarize(s.LevelID, entries)
}
