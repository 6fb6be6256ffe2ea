package ai

import (
	"context"
	"errors"
)

var (
	// ErrNoCredential is returned when no API key is configured.
	ErrNoCredential = errors.New("no AI credential configured")
	// ErrMalformedResponse covers responses that decode but cannot be used.
	ErrMalformedResponse = errors.New("malformed AI response")
)

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	Available() bool
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator completes a prompt.
type Generator interface {
	Available() bool
	Generate(ctx context.Context, prompt string) (string, error)
}
