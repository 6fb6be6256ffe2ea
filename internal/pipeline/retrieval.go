package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/domain/scoring"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/providers/scraper"
)

// RetrievalStage scores discoverability from text length and the heading
// and anchor counts of the markup.
type RetrievalStage struct {
	logger *logging.Logger
}

func (s *RetrievalStage) Name() string { return StageRetrieval }

func (s *RetrievalStage) Run(_ context.Context, rec audit.Record) audit.Record {
	var signals scraper.Signals
	if rec.HasMarkup() {
		var err error
		if signals, err = scraper.Analyze(rec.RawMarkup()); err != nil {
			s.logger.Warn("markup analysis failed", zap.Error(err))
			signals = scraper.Signals{}
		}
	}

	score := scoring.RetrievalScore(rec.VisibleText(), signals.Headings, signals.Anchors)

	s.logger.Debug("retrieval scored",
		zap.Float64("score", score),
		zap.Int("headings", signals.Headings),
		zap.Int("anchors", signals.Anchors))
	return rec.WithMetric(audit.MetricRetrieval, score)
}
