package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "leo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// exerciseStore runs the shared contract against any engine.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	empty, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Engine: store.Engine()}, empty)

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.RecordScore(ctx, "https://a.example", 40, base))
	require.NoError(t, store.RecordScore(ctx, "https://b.example", 50.5, base.Add(time.Minute)))
	require.NoError(t, store.RecordScore(ctx, "https://c.example", 61.25, base.Add(2*time.Minute)))

	recent, err := store.RecentScores(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ScoreEntry{URL: "https://c.example", Rank: 61.25, Timestamp: base.Add(2 * time.Minute)}, recent[0])
	assert.Equal(t, "https://b.example", recent[1].URL)

	all, err := store.RecentScores(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sum, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.Count)
	assert.Equal(t, 50.58, sum.AverageRank)
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, openTempSQLite(t))
}

func TestSQLiteStoreInMemory(t *testing.T) {
	store, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStoreLocalTimestampsStoredAsUTC(t *testing.T) {
	store := openTempSQLite(t)
	ctx := context.Background()

	local := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	require.NoError(t, store.RecordScore(ctx, "https://tz.example", 1, local))

	recent, err := store.RecentScores(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, time.UTC, recent[0].Timestamp.Location())
	assert.True(t, local.Equal(recent[0].Timestamp))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("LEO_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LEO_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.pool.Exec(ctx, `TRUNCATE scores RESTART IDENTITY`)
	require.NoError(t, err)

	exerciseStore(t, store)
}

func TestOpenSelectsEngine(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Config{SQLitePath: filepath.Join(t.TempDir(), "leo.db")})
	require.NoError(t, err)
	assert.Equal(t, EngineSQLite, store.Engine())
	require.NoError(t, store.Close())

	_, err = Open(ctx, Config{Engine: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{PGHost: "db", PGUser: "leo", PGPassword: "p@ss word", PGDatabase: "leodb"}
	assert.Equal(t, "postgres://leo:p%40ss%20word@db:5432/leodb", cfg.PostgresDSN())

	cfg.DatabaseURL = "postgres://override/db"
	assert.Equal(t, "postgres://override/db", cfg.PostgresDSN())
}

func TestDefaultSingleton(t *testing.T) {
	require.NoError(t, ResetDefault())
	t.Cleanup(func() { _ = ResetDefault() })
	ctx := context.Background()

	cfg := Config{SQLitePath: filepath.Join(t.TempDir(), "default.db")}
	first, err := Default(ctx, cfg)
	require.NoError(t, err)
	second, err := Default(ctx, Config{SQLitePath: filepath.Join(t.TempDir(), "ignored.db")})
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, ResetDefault())
	third, err := Default(ctx, Config{SQLitePath: filepath.Join(t.TempDir(), "fresh.db")})
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestDefaultDoesNotCacheFailure(t *testing.T) {
	require.NoError(t, ResetDefault())
	t.Cleanup(func() { _ = ResetDefault() })

	_, err := Default(context.Background(), Config{Engine: "bogus"})
	require.Error(t, err)

	store, err := Default(context.Background(), Config{SQLitePath: filepath.Join(t.TempDir(), "ok.db")})
	require.NoError(t, err)
	assert.Equal(t, EngineSQLite, store.Engine())
}
