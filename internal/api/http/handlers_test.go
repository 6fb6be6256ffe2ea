package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/domain/scoring"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/LeoCore/internal/pipeline"
	"github.com/GriffinCanCode/LeoCore/internal/providers/fetch"
	"github.com/GriffinCanCode/LeoCore/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const page = `<html><head><meta name="description" content="x"></head>
<body><h1>Hi</h1><p>Hello there</p></body></html>`

type staticFetcher struct{}

func (staticFetcher) Fetch(_ context.Context, url string) (fetch.Page, error) {
	return fetch.Page{URL: url, StatusCode: http.StatusOK, ContentType: "text/html", Body: page}, nil
}

type countingRecorder struct{ calls int }

func (r *countingRecorder) RecordScore(context.Context, string, float64, time.Time) error {
	r.calls++
	return nil
}

func newAuditor(recorder *countingRecorder) *pipeline.Pipeline {
	return pipeline.New(pipeline.Deps{Fetcher: staticFetcher{}, Recorder: recorder},
		pipeline.WithWeights(scoring.DefaultWeights()))
}

type fakeScores struct {
	entries []storage.ScoreEntry
	summary storage.Summary
	err     error
	limit   int
}

func (f *fakeScores) RecentScores(_ context.Context, limit int) ([]storage.ScoreEntry, error) {
	f.limit = limit
	return f.entries, f.err
}

func (f *fakeScores) Summary(context.Context) (storage.Summary, error) {
	return f.summary, f.err
}

func newRouter(auditor Auditor, scores ScoreReader) *gin.Engine {
	router := gin.New()
	h := NewHandlers(auditor, scores, nil)
	h.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	Register(router, h, monitoring.NewMetrics())
	return router
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := get(t, newRouter(newAuditor(&countingRecorder{}), nil), "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"status": "ok", "version": Version}, body)
}

func TestAudit(t *testing.T) {
	recorder := &countingRecorder{}
	router := newRouter(newAuditor(recorder), nil)

	w := get(t, router, "/audit?url=https://example.com")
	require.Equal(t, http.StatusOK, w.Code)

	var report audit.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "https://example.com", report.URL)
	assert.NotEmpty(t, report.ID)
	require.NotNil(t, report.LeoRank)
	assert.Greater(t, *report.LeoRank, 0.0)
	assert.Len(t, report.Metrics, 3)
	assert.Equal(t, 1.0, report.Metrics[audit.MetricSemantic])
	assert.Equal(t, pipeline.DefaultSuggestions(), report.Suggestions)
	assert.True(t, report.HTMLPresent)
	assert.Positive(t, report.TextLength)
	assert.Equal(t, "2024-05-01T12:00:00Z", report.GeneratedAt)
	assert.Equal(t, 1, recorder.calls)
}

func TestAuditPersistFlag(t *testing.T) {
	recorder := &countingRecorder{}
	router := newRouter(newAuditor(recorder), nil)

	w := get(t, router, "/audit?url=https://example.com&persist=false")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, recorder.calls)

	w = get(t, router, "/audit?url=https://example.com&persist=maybe")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, recorder.calls)
}

func TestAuditRejectsBadURL(t *testing.T) {
	recorder := &countingRecorder{}
	router := newRouter(newAuditor(recorder), nil)

	for _, target := range []string{"/audit", "/audit?url=", "/audit?url=example.com", "/audit?url=ftp://example.com"} {
		w := get(t, router, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), "error", target)
	}
	assert.Zero(t, recorder.calls)
}

func TestMetrics(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	scores := &fakeScores{
		entries: []storage.ScoreEntry{{URL: "https://example.com", Rank: 42.5, Timestamp: ts}},
		summary: storage.Summary{Engine: storage.EngineSQLite, Count: 1, AverageRank: 42.5},
	}
	router := newRouter(newAuditor(&countingRecorder{}), scores)

	w := get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, storage.DefaultRecentLimit, scores.limit)

	var body struct {
		Results []storage.ScoreEntry `json:"results"`
		Summary storage.Summary      `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "https://example.com", body.Results[0].URL)
	assert.True(t, ts.Equal(body.Results[0].Timestamp))
	assert.Equal(t, scores.summary, body.Summary)

	w = get(t, router, "/metrics?limit=3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, scores.limit)
}

func TestMetricsErrors(t *testing.T) {
	tests := []struct {
		name   string
		scores ScoreReader
		target string
		want   int
	}{
		{name: "no store", scores: nil, target: "/metrics", want: http.StatusServiceUnavailable},
		{name: "bad limit", scores: &fakeScores{}, target: "/metrics?limit=abc", want: http.StatusBadRequest},
		{name: "zero limit", scores: &fakeScores{}, target: "/metrics?limit=0", want: http.StatusBadRequest},
		{name: "store error", scores: &fakeScores{err: errors.New("locked")}, target: "/metrics", want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, newRouter(newAuditor(&countingRecorder{}), tt.scores), tt.target)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestMetricsEmptyResults(t *testing.T) {
	w := get(t, newRouter(newAuditor(&countingRecorder{}), &fakeScores{}), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"results":[]`)
}

func TestPrometheusEndpoint(t *testing.T) {
	w := get(t, newRouter(newAuditor(&countingRecorder{}), nil), "/metrics/prometheus")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "leo_uptime_seconds")
}
