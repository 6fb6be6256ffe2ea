package ai

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL        = "https://api.openai.com/v1"
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultChatModel      = "gpt-4o-mini"
	DefaultTimeout        = 20 * time.Second
	DefaultRetries        = 2
	maxCompletionTokens   = 200
)

// Config configures a Client. An empty APIKey leaves the client unavailable.
type Config struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	Timeout        time.Duration
	Retries        int
}

// Client talks to an OpenAI-compatible API for embeddings and chat
// completions. Calls share one circuit breaker.
type Client struct {
	cfg     Config
	resty   *resty.Client
	breaker *resilience.Breaker
	logger  *logging.Logger
}

// NewClient creates a client. logger may be nil.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.Named("ai")

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = max(cfg.Retries, 0)
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	breaker := resilience.New("ai", resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &Client{cfg: cfg, resty: restyClient, breaker: breaker, logger: logger}
}

// Available reports whether a credential is configured.
func (c *Client) Available() bool {
	return c.cfg.APIKey != ""
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

type embeddingResponse struct {
	Data []embeddingData `json:"data"`
}

// Embed returns one vector per text. The response must contain exactly
// len(texts) non-empty vectors of equal length.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if !c.Available() {
		return nil, ErrNoCredential
	}
	if len(texts) == 0 {
		return nil, nil
	}

	var result embeddingResponse
	err := c.breaker.Do(func() error {
		return c.post(ctx, "/embeddings", embeddingRequest{Model: c.cfg.EmbeddingModel, Input: texts}, &result)
	})
	if err != nil {
		return nil, err
	}

	if len(result.Data) != len(texts) {
		return nil, fmt.Errorf("%w: %d vectors for %d inputs", ErrMalformedResponse, len(result.Data), len(texts))
	}
	slices.SortStableFunc(result.Data, func(a, b embeddingData) int { return a.Index - b.Index })

	dims := len(result.Data[0].Embedding)
	vectors := make([][]float64, len(result.Data))
	for i, d := range result.Data {
		if len(d.Embedding) == 0 || len(d.Embedding) != dims {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions", ErrMalformedResponse, i, len(d.Embedding))
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate returns the first completion for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", ErrNoCredential
	}

	req := chatRequest{
		Model:       c.cfg.ChatModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxCompletionTokens,
		Temperature: 0.2,
	}

	var result chatResponse
	err := c.breaker.Do(func() error {
		return c.post(ctx, "/chat/completions", req, &result)
	})
	if err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrMalformedResponse)
	}
	return content, nil
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	start := time.Now()
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		ForceContentType("application/json").
		Post(path)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode(), truncate(resp.String(), 200))
	}

	c.logger.Debug("ai call finished",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
