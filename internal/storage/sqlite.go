package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS scores (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	url       TEXT NOT NULL,
	rank      REAL NOT NULL,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_url ON scores(url);`

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// SQLiteStore keeps scores in a local SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path, creating parent
// directories as needed. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = "/tmp/leo.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Engine() string { return EngineSQLite }

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) RecordScore(ctx context.Context, url string, rank float64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (url, rank, timestamp) VALUES (?, ?, ?)`,
		url, rank, formatTimestamp(at))
	if err != nil {
		return fmt.Errorf("sqlite: record score: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, rank, timestamp FROM scores ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent scores: %w", err)
	}
	defer rows.Close()

	entries := make([]ScoreEntry, 0, limit)
	for rows.Next() {
		var (
			e  ScoreEntry
			ts string
		)
		if err := rows.Scan(&e.URL, &e.Rank, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		if e.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Summary(ctx context.Context) (Summary, error) {
	sum := Summary{Engine: EngineSQLite}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rank), 0) FROM scores`).Scan(&sum.Count, &sum.AverageRank)
	if err != nil {
		return Summary{}, fmt.Errorf("sqlite: summary: %w", err)
	}
	sum.AverageRank = roundAverage(sum.AverageRank)
	return sum, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
