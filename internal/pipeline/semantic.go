package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/domain/scoring"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/LeoCore/internal/providers/ai"
)

// SemanticStage scores textual coherence as the mean pairwise cosine
// similarity of chunk embeddings.
type SemanticStage struct {
	remote    ai.Embedder
	local     ai.LocalEmbedder
	chunkSize int
	logger    *logging.Logger
	observer  Observer
}

func (s *SemanticStage) Name() string { return StageSemantic }

func (s *SemanticStage) Run(ctx context.Context, rec audit.Record) audit.Record {
	chunks := scoring.ChunkText(rec.VisibleText(), s.chunkSize)

	var score float64
	switch len(chunks) {
	case 0:
		score = 0
	case 1:
		score = 1
	default:
		score = scoring.AverageCosineSimilarity(s.embed(ctx, chunks))
	}

	s.logger.Debug("semantic scored", zap.Float64("score", score), zap.Int("chunks", len(chunks)))
	return rec.WithMetric(audit.MetricSemantic, score)
}

// embed prefers the remote embedder and falls back to the local one on any
// failure or short answer.
func (s *SemanticStage) embed(ctx context.Context, chunks []string) [][]float64 {
	if s.remote == nil || !s.remote.Available() {
		s.observer.ObserveFallback("embedder", "unavailable")
		return s.localEmbed(ctx, chunks)
	}

	vectors, err := s.remote.Embed(ctx, chunks)
	if err == nil && len(vectors) == len(chunks) {
		return vectors
	}
	if err == nil {
		err = ai.ErrMalformedResponse
	}

	s.logger.Warn("embedding failed, using local embedding", zap.Error(err))
	s.observer.ObserveFallback("embedder", fallbackReason(err))
	return s.localEmbed(ctx, chunks)
}

func (s *SemanticStage) localEmbed(ctx context.Context, chunks []string) [][]float64 {
	vectors, _ := s.local.Embed(ctx, chunks)
	return vectors
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ai.ErrNoCredential):
		return "unavailable"
	case errors.Is(err, resilience.ErrOpen):
		return "breaker_open"
	case errors.Is(err, ai.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}
