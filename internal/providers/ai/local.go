package ai

import (
	"context"

	"github.com/GriffinCanCode/LeoCore/internal/domain/scoring"
)

// LocalEmbedder is the deterministic offline embedding. It never fails.
type LocalEmbedder struct {
	Dimensions int
}

func (LocalEmbedder) Available() bool { return true }

func (l LocalEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	return scoring.EmbedLocalAll(texts, l.Dimensions), nil
}
