package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Fetch     FetchConfig
	AI        AIConfig
	Scoring   ScoringConfig
	Store     StoreConfig
	MCP       MCPConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds per-IP API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// FetchConfig controls the page fetch collaborator.
type FetchConfig struct {
	Timeout       time.Duration `envconfig:"LEO_FETCH_TIMEOUT" default:"10s"`
	UserAgent     string        `envconfig:"LEO_USER_AGENT" default:"LEO-Core/0.2"`
	MaxTextLength int           `envconfig:"LEO_MAX_TEXT_LENGTH" default:"100000"`
	// RequestsPerSecond limits outgoing fetches; 0 means unlimited.
	RequestsPerSecond float64 `envconfig:"LEO_FETCH_RPS" default:"0"`
}

// AIConfig controls the optional embedding and generation collaborators.
// An empty APIKey disables both.
type AIConfig struct {
	APIKey         string        `envconfig:"OPENAI_API_KEY"`
	BaseURL        string        `envconfig:"LEO_AI_BASE_URL" default:"https://api.openai.com/v1"`
	EmbeddingModel string        `envconfig:"LEO_EMBED_MODEL" default:"text-embedding-3-small"`
	ChatModel      string        `envconfig:"LEO_CHAT_MODEL" default:"gpt-4o-mini"`
	Timeout        time.Duration `envconfig:"LEO_AI_TIMEOUT" default:"20s"`
}

// ScoringConfig controls metric computation.
type ScoringConfig struct {
	WeightsPath         string `envconfig:"LEO_WEIGHTS_PATH" default:"config/weights.yml"`
	ChunkSize           int    `envconfig:"LEO_CHUNK_SIZE" default:"500"`
	EmbeddingDimensions int    `envconfig:"LEO_EMBED_DIMENSIONS" default:"64"`
}

// StoreConfig selects and configures the score store.
type StoreConfig struct {
	Engine      string `envconfig:"LEO_DB_ENGINE" default:"sqlite"`
	SQLitePath  string `envconfig:"LEO_DB_PATH" default:"/tmp/leo.db"`
	DatabaseURL string `envconfig:"LEO_DATABASE_URL"`
	PGHost      string `envconfig:"LEO_PG_HOST" default:"localhost"`
	PGPort      int    `envconfig:"LEO_PG_PORT" default:"5432"`
	PGUser      string `envconfig:"LEO_PG_USER" default:"leo"`
	PGPassword  string `envconfig:"LEO_PG_PASSWORD" default:"leo123"`
	PGDatabase  string `envconfig:"LEO_PG_DATABASE" default:"leodb"`
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Addr string `envconfig:"LEO_MCP_ADDR" default:":8800"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Fetch: FetchConfig{
			Timeout:       10 * time.Second,
			UserAgent:     "LEO-Core/0.2",
			MaxTextLength: 100_000,
		},
		AI: AIConfig{
			BaseURL:        "https://api.openai.com/v1",
			EmbeddingModel: "text-embedding-3-small",
			ChatModel:      "gpt-4o-mini",
			Timeout:        20 * time.Second,
		},
		Scoring: ScoringConfig{
			WeightsPath:         "config/weights.yml",
			ChunkSize:           500,
			EmbeddingDimensions: 64,
		},
		Store: StoreConfig{
			Engine:     "sqlite",
			SQLitePath: "/tmp/leo.db",
			PGHost:     "localhost",
			PGPort:     5432,
			PGUser:     "leo",
			PGPassword: "leo123",
			PGDatabase: "leodb",
		},
		MCP: MCPConfig{
			Addr: ":8800",
		},
	}
}
