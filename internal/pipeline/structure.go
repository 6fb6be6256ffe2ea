package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/domain/scoring"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/providers/scraper"
)

// StructureStage scores markup quality.
type StructureStage struct {
	logger *logging.Logger
}

func (s *StructureStage) Name() string { return StageStructure }

func (s *StructureStage) Run(_ context.Context, rec audit.Record) audit.Record {
	if !rec.HasMarkup() {
		return rec.WithMetric(audit.MetricStructure, 0)
	}

	signals, err := scraper.Analyze(rec.RawMarkup())
	if err != nil {
		s.logger.Warn("markup analysis failed", zap.Error(err))
		return rec.WithMetric(audit.MetricStructure, 0)
	}

	score := scoring.StructureScore(scoring.StructureCounts{
		Headings:       signals.Headings,
		Metas:          signals.Metas,
		StructuredData: signals.StructuredData,
		OpenGraph:      signals.OpenGraph,
	})

	s.logger.Debug("structure scored",
		zap.Float64("score", score),
		zap.Int("headings", signals.Headings),
		zap.Int("metas", signals.Metas),
		zap.Int("structured_data", signals.StructuredData),
		zap.Int("open_graph", signals.OpenGraph),
		zap.Float64("alt_coverage", signals.AltCoverage()),
		zap.Float64("link_health", signals.LinkHealth()))
	return rec.WithMetric(audit.MetricStructure, score)
}
