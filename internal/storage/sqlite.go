// Package storage persists attempt outcomes in SQLite using the pure-Go
// modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"twinclash/internal/scoring"
)

// Store manages the SQLite database connection for outcome persistence.
type Store struct {
	db *sql.DB
}

var _ scoring.OutcomeStorage = (*Store)(nil)

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			seed TEXT NOT NULL DEFAULT '',
			result TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			mistakes INTEGER NOT NULL DEFAULT 0,
			time_ms INTEGER NOT NULL DEFAULT 0,
			stars INTEGER NOT NULL DEFAULT 0,
			failure_reason TEXT NOT NULL DEFAULT '',
			recorded_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_outcomes_level ON outcomes(level_id);
		CREATE INDEX IF NOT EXISTS idx_outcomes_best ON outcomes(level_id, stars DESC, moves ASC, time_ms ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append records one outcome.
func (s *Store) Append(e scoring.OutcomeEntry) error {
	_, err := s.SaveOutcome(e)
	return err
}

// SaveOutcome records one outcome and returns its row id.
func (s *Store) SaveOutcome(e scoring.OutcomeEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO outcomes
		 (level_id, title, seed, result, moves, mistakes, time_ms, stars, failure_reason, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.LevelID, e.Title, e.Seed, e.Result, e.MovesUsed, e.Mistakes, e.TimeUsedMs, e.Stars, e.FailureReason, e.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save outcome: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const selectOutcomes = `SELECT level_id, title, seed, result, moves, mistakes, time_ms, stars, failure_reason, recorded_at FROM outcomes`

// LoadAll returns every outcome in insertion order.
func (s *Store) LoadAll() ([]scoring.OutcomeEntry, error) {
	rows, err := s.db.Query(selectOutcomes + ` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query outcomes: %w", err)
	}
	return scanOutcomes(rows)
}

// TopOutcomes returns the best N outcomes for a level.
func (s *Store) TopOutcomes(levelID, limit int) ([]scoring.OutcomeEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		selectOutcomes+`
		 WHERE level_id = ?
		 ORDER BY stars DESC, (result = 'win') DESC, moves ASC, time_ms ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query outcomes: %w", err)
	}
	return scanOutcomes(rows)
}

// Best summarizes a level: best stars, plus best moves and time over wins.
func (s *Store) Best(levelID int) (scoring.LevelBest, error) {
	best := scoring.LevelBest{LevelID: levelID}
	var stars, timeMs, moves sql.NullInt64

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(result = 'win'), 0),
		        MAX(CASE WHEN result = 'win' THEN stars END),
		        MIN(CASE WHEN result = 'win' THEN time_ms END),
		        MIN(CASE WHEN result = 'win' THEN moves END)
		 FROM outcomes WHERE level_id = ?`,
		levelID,
	).Scan(&best.Attempts, &best.Wins, &stars, &timeMs, &moves)
	if err != nil {
		return best, fmt.Errorf("storage: cannot query best: %w", err)
	}

	if stars.Valid {
		best.Stars = int(stars.Int64)
	}
	if timeMs.Valid {
		best.TimeMs = timeMs.Int64
	}
	if moves.Valid {
		best.Moves = int(moves.Int64)
	}
	return best, nil
}

func scanOutcomes(rows *sql.Rows) ([]scoring.OutcomeEntry, error) {
	defer rows.Close()

	var entries []scoring.OutcomeEntry
	for rows.Next() {
		var e scoring.OutcomeEntry
		if err := rows.Scan(
			&e.LevelID,
			&e.Title,
			&e.Seed,
			&e.Result,
			&e.MovesUsed,
			&e.Mistakes,
			&e.TimeUsedMs,
			&e.Stars,
			&e.FailureReason,
			&e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}
