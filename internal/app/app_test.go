package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/config"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/LeoCore/internal/pipeline"
	"github.com/GriffinCanCode/LeoCore/internal/providers/ai"
	"github.com/GriffinCanCode/LeoCore/internal/providers/fetch"
	"github.com/GriffinCanCode/LeoCore/internal/storage"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, url string) (fetch.Page, error) {
	return fetch.Page{
		URL:        url,
		StatusCode: 200,
		Body:       `<html><head><meta property="og:title" content="t"></head><body><h1>Title</h1><p>Body text</p></body></html>`,
	}, nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "leo.db")
	cfg.Scoring.WeightsPath = filepath.Join(t.TempDir(), "missing.yml")
	cfg.AI.APIKey = ""
	return cfg
}

func TestNewPersistsAudits(t *testing.T) {
	ctx := context.Background()
	a := New(ctx, testConfig(t), logging.Nop(), WithFetcher(stubFetcher{}))
	t.Cleanup(func() { _ = a.Close() })

	require.NotNil(t, a.Store)
	assert.Equal(t, storage.EngineSQLite, a.Store.Engine())

	rec, err := a.Pipeline.RunAudit(ctx, "https://example.com")
	require.NoError(t, err)
	rank, ok := rec.Rank()
	require.True(t, ok)

	entries, err := a.Store.RecentScores(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://example.com", entries[0].URL)
	assert.Equal(t, rank, entries[0].Rank)
}

func TestNewWithoutStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Engine = "cassandra"

	a := New(context.Background(), cfg, nil, WithFetcher(stubFetcher{}))
	t.Cleanup(func() { _ = a.Close() })

	assert.Nil(t, a.Store)
	rec, err := a.Pipeline.RunAudit(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Len(t, rec.Suggestions(), 3)
}

func TestCloseLeavesInjectedStoreOpen(t *testing.T) {
	ctx := context.Background()
	store, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "shared.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	a := New(ctx, testConfig(t), nil, WithStore(store), WithFetcher(stubFetcher{}))
	require.NoError(t, a.Close())

	_, err = store.Summary(ctx)
	assert.NoError(t, err)
}

func TestNewUsesProcessWideStore(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, storage.ResetDefault())
	cfg := testConfig(t)

	a := New(ctx, cfg, nil, WithFetcher(stubFetcher{}))
	require.NotNil(t, a.Store)

	shared, err := storage.Default(ctx, storage.Config{SQLitePath: filepath.Join(t.TempDir(), "other.db")})
	require.NoError(t, err)
	assert.Same(t, a.Store, shared)

	require.NoError(t, a.Close())
	assert.Nil(t, a.Store)

	fresh, err := storage.Default(ctx, storage.Config{SQLitePath: filepath.Join(t.TempDir(), "fresh.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.ResetDefault() })
	assert.NotSame(t, shared, fresh)
}

func TestNewWithAIClientAndMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"1. Add a meta description\n2. Add more headings\n3. Mark up the page with schema.org"}}]}`))
	}))
	defer srv.Close()

	client := ai.NewClient(ai.Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	metrics := monitoring.NewMetrics()

	ctx := context.Background()
	a := New(ctx, testConfig(t), nil, WithFetcher(stubFetcher{}), WithAIClient(client), WithMetrics(metrics))
	t.Cleanup(func() { _ = a.Close() })
	assert.Same(t, metrics, a.Metrics)

	rec, err := a.Pipeline.RunAudit(ctx, "https://example.com", pipeline.WithPersist(false))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Add a meta description",
		"Add more headings",
		"Mark up the page with schema.org",
	}, rec.Suggestions())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AuditsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Fallbacks.WithLabelValues("generator", "unavailable")))
}
