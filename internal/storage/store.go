package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"

	// DefaultRecentLimit applies when a caller passes a non-positive limit.
	DefaultRecentLimit = 10
)

var ErrUnknownEngine = errors.New("unknown storage engine")

// ScoreEntry is one persisted audit result.
type ScoreEntry struct {
	URL       string    `json:"url"`
	Rank      float64   `json:"rank"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary aggregates all stored scores.
type Summary struct {
	Engine      string  `json:"engine"`
	Count       int64   `json:"count"`
	AverageRank float64 `json:"average_rank"`
}

// Recorder is the write side the pipeline depends on.
type Recorder interface {
	RecordScore(ctx context.Context, url string, rank float64, at time.Time) error
}

// Store persists and reports audit scores.
type Store interface {
	Recorder
	// RecentScores returns up to limit entries, newest first.
	RecentScores(ctx context.Context, limit int) ([]ScoreEntry, error)
	Summary(ctx context.Context) (Summary, error)
	Engine() string
	Close() error
}

// Config selects and configures a store.
type Config struct {
	Engine      string
	SQLitePath  string
	DatabaseURL string
	PGHost      string
	PGPort      int
	PGUser      string
	PGPassword  string
	PGDatabase  string
}

// PostgresDSN returns DatabaseURL, or a URL assembled from the PG fields.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	port := c.PGPort
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PGUser, c.PGPassword),
		Host:   net.JoinHostPort(c.PGHost, strconv.Itoa(port)),
		Path:   "/" + c.PGDatabase,
	}
	return u.String()
}

// Open connects to the configured engine and ensures the schema exists.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "", EngineSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case EnginePostgres, "postgresql":
		return OpenPostgres(ctx, cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Engine)
	}
}

var (
	defaultMu    sync.Mutex
	defaultStore Store
)

// Default returns the process-wide store, opening it on first use.
// A failed open is not cached.
func Default(ctx context.Context, cfg Config) (Store, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore != nil {
		return defaultStore, nil
	}
	s, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defaultStore = s
	return s, nil
}

// ResetDefault closes and forgets the process-wide store.
func ResetDefault() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore == nil {
		return nil
	}
	err := defaultStore.Close()
	defaultStore = nil
	return err
}

func roundAverage(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
