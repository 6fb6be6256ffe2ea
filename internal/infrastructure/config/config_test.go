package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Fetch config
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "LEO-Core/0.2", cfg.Fetch.UserAgent)
	assert.Equal(t, 100_000, cfg.Fetch.MaxTextLength)

	// AI config
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, "text-embedding-3-small", cfg.AI.EmbeddingModel)

	// Scoring config
	assert.Equal(t, 500, cfg.Scoring.ChunkSize)
	assert.Equal(t, 64, cfg.Scoring.EmbeddingDimensions)

	// Store config
	assert.Equal(t, "sqlite", cfg.Store.Engine)
	assert.Equal(t, "/tmp/leo.db", cfg.Store.SQLitePath)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadMatchesDefault(t *testing.T) {
	for _, key := range []string{"PORT", "HOST", "LOG_LEVEL", "LEO_DB_ENGINE", "LEO_FETCH_TIMEOUT", "OPENAI_API_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, Default().Fetch, cfg.Fetch)
	assert.Equal(t, Default().Scoring, cfg.Scoring)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":              "9000",
		"HOST":              "127.0.0.1",
		"LOG_LEVEL":         "debug",
		"LOG_DEV":           "true",
		"LEO_FETCH_TIMEOUT": "3s",
		"LEO_USER_AGENT":    "probe/1.0",
		"OPENAI_API_KEY":    "sk-test",
		"LEO_CHUNK_SIZE":    "250",
		"LEO_DB_ENGINE":     "postgres",
		"LEO_DATABASE_URL":  "postgres://leo@db/leodb",
		"LEO_MCP_ADDR":      ":9900",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "probe/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, 250, cfg.Scoring.ChunkSize)
	assert.Equal(t, "postgres", cfg.Store.Engine)
	assert.Equal(t, "postgres://leo@db/leodb", cfg.Store.DatabaseURL)
	assert.Equal(t, ":9900", cfg.MCP.Addr)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("LEO_FETCH_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
}

func TestStoreConfig(t *testing.T) {
	tests := []struct {
		name       string
		engine     string
		path       string
		wantEngine string
		wantPath   string
	}{
		{
			name:       "default values",
			wantEngine: "sqlite",
			wantPath:   "/tmp/leo.db",
		},
		{
			name:       "custom path",
			path:       "/var/lib/leo/scores.db",
			wantEngine: "sqlite",
			wantPath:   "/var/lib/leo/scores.db",
		},
		{
			name:       "postgres",
			engine:     "postgres",
			wantEngine: "postgres",
			wantPath:   "/tmp/leo.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LEO_DB_ENGINE", tt.engine)
			t.Setenv("LEO_DB_PATH", tt.path)
			if tt.engine == "" {
				os.Unsetenv("LEO_DB_ENGINE")
			}
			if tt.path == "" {
				os.Unsetenv("LEO_DB_PATH")
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantEngine, cfg.Store.Engine)
			assert.Equal(t, tt.wantPath, cfg.Store.SQLitePath)
		})
	}
}

func TestRateLimitConfig(t *testing.T) {
	tests := []struct {
		name        string
		rps         string
		burst       string
		enabled     string
		wantRPS     int
		wantBurst   int
		wantEnabled bool
	}{
		{
			name:        "default values",
			wantRPS:     100,
			wantBurst:   200,
			wantEnabled: true,
		},
		{
			name:        "high limits",
			rps:         "1000",
			burst:       "2000",
			wantRPS:     1000,
			wantBurst:   2000,
			wantEnabled: true,
		},
		{
			name:        "disabled",
			enabled:     "false",
			wantRPS:     100,
			wantBurst:   200,
			wantEnabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range map[string]string{
				"RATE_LIMIT_RPS":     tt.rps,
				"RATE_LIMIT_BURST":   tt.burst,
				"RATE_LIMIT_ENABLED": tt.enabled,
			} {
				t.Setenv(key, value)
				if value == "" {
					os.Unsetenv(key)
				}
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantRPS, cfg.RateLimit.RequestsPerSecond)
			assert.Equal(t, tt.wantBurst, cfg.RateLimit.Burst)
			assert.Equal(t, tt.wantEnabled, cfg.RateLimit.Enabled)
		})
	}
}
