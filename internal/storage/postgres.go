package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS scores (
	id          BIGSERIAL PRIMARY KEY,
	url         TEXT NOT NULL,
	rank        DOUBLE PRECISION NOT NULL,
	"timestamp" TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_url ON scores(url);`

// PostgresStore keeps scores in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects with dsn, pings and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid database URL: %w", err)
	}
	poolCfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Engine() string { return EnginePostgres }

func (s *PostgresStore) RecordScore(ctx context.Context, url string, rank float64, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (url, rank, "timestamp") VALUES ($1, $2, $3)`,
		url, rank, formatTimestamp(at))
	if err != nil {
		return fmt.Errorf("postgres: record score: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT url, rank, "timestamp" FROM scores ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: recent scores: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ScoreEntry, error) {
		var (
			e  ScoreEntry
			ts string
		)
		if err := row.Scan(&e.URL, &e.Rank, &ts); err != nil {
			return ScoreEntry{}, err
		}
		at, err := parseTimestamp(ts)
		e.Timestamp = at
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Summary(ctx context.Context) (Summary, error) {
	sum := Summary{Engine: EnginePostgres}
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rank), 0)::DOUBLE PRECISION FROM scores`).Scan(&sum.Count, &sum.AverageRank)
	if err != nil {
		return Summary{}, fmt.Errorf("postgres: summary: %w", err)
	}
	sum.AverageRank = roundAverage(sum.AverageRank)
	return sum, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
