// Package progress persists level completions in a local SQLite database,
// including the equations the player solved each level with.
package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// schema runs on every open; IF NOT EXISTS keeps it idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS completions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    level        TEXT NOT NULL,
    score        INTEGER NOT NULL,
    seconds      REAL NOT NULL,
    completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS equations (
    completion_id INTEGER NOT NULL REFERENCES completions(id),
    position      INTEGER NOT NULL,
    formula       TEXT NOT NULL,
    condition     TEXT NOT NULL DEFAULT ''
);
`

// Equation is a stored formula/condition pair.
type Equation struct {
	Formula   string
	Condition string
}

// Completion is one finished level with its solution.
type Completion struct {
	ID          int64
	Level       string
	Score       int
	Seconds     float64
	CompletedAt time.Time
	Equations   []Equation
}

// Store wraps the completions database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and applies the schema.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("progress: open database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection avoids
	// SQLITE_BUSY between our own connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("progress: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("progress: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("progress: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Add records a completion and its equations atomically.
func (s *Store) Add(ctx context.Context, level string, score int, seconds float64, equations []Equation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("progress: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO completions (level, score, seconds) VALUES (?, ?, ?)",
		level, score, seconds)
	if err != nil {
		return fmt.Errorf("progress: insert completion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("progress: completion id: %w", err)
	}

	for i, eq := range equations {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO equations (completion_id, position, formula, condition) VALUES (?, ?, ?, ?)",
			id, i, eq.Formula, eq.Condition); err != nil {
			return fmt.Errorf("progress: insert equation: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("progress: commit: %w", err)
	}
	return nil
}

// All returns every completion, newest first, equations in entry order.
func (s *Store) All(ctx context.Context) ([]Completion, error) {
	return s.query(ctx,
		"SELECT id, level, score, seconds, completed_at FROM completions ORDER BY completed_at DESC, id DESC")
}

// ByLevel returns completions for one level, best score first.
func (s *Store) ByLevel(ctx context.Context, level string) ([]Completion, error) {
	return s.query(ctx,
		"SELECT id, level, score, seconds, completed_at FROM completions WHERE level = ? ORDER BY score DESC, seconds ASC",
		level)
}

// BestScore returns the highest score for a level, or 0 when unplayed.
func (s *Store) BestScore(ctx context.Context, level string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM completions WHERE level = ?", level).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("progress: best score: %w", err)
	}
	return int(score.Int64), nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Completion, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("progress: query completions: %w", err)
	}
	defer rows.Close()

	var comps []Completion
	for rows.Next() {
		var c Completion
		if err := rows.Scan(&c.ID, &c.Level, &c.Score, &c.Seconds, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("progress: scan completion: %w", err)
		}
		comps = append(comps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("progress: iterate completions: %w", err)
	}

	for i := range comps {
		eqs, err := s.equationsFor(ctx, comps[i].ID)
		if err != nil {
			return nil, err
		}
		comps[i].Equations = eqs
	}
	return comps, nil
}

func (s *Store) equationsFor(ctx context.Context, completionID int64) ([]Equation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT formula, condition FROM equations WHERE completion_id = ? ORDER BY position",
		completionID)
	if err != nil {
		return nil, fmt.Errorf("progress: query equations: %w", err)
	}
	defer rows.Close()

	var eqs []Equation
	for rows.Next() {
		var eq Equation
		if err := rows.Scan(&eq.Formula, &eq.Condition); err != nil {
			return nil, fmt.Errorf("progress: scan equation: %w", err)
		}
		eqs = append(eqs, eq)
	}
	return eqs, rows.Err()
}
