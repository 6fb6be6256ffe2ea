package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/domain/scoring"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
)

// Recorder persists a finished rank. storage.Store satisfies it.
type Recorder interface {
	RecordScore(ctx context.Context, url string, rank float64, at time.Time) error
}

// AggregationStage combines the metrics into the rank and, when a recorder
// is set, persists it. Persistence errors are logged and dropped.
type AggregationStage struct {
	weights  func() scoring.Weights
	recorder Recorder
	now      func() time.Time
	logger   *logging.Logger
	observer Observer
}

func (s *AggregationStage) Name() string { return StageAggregation }

func (s *AggregationStage) Run(ctx context.Context, rec audit.Record) audit.Record {
	weights := s.weights()
	rank := scoring.Rank(rec.Metrics(), weights)
	rec = rec.WithRank(rank)

	s.logger.Debug("rank computed", zap.Float64("rank", rank), zap.Any("weights", weights))

	if s.recorder == nil {
		return rec
	}
	if err := s.recorder.RecordScore(ctx, rec.URL(), rank, s.now().UTC()); err != nil {
		s.logger.Warn("failed to persist score", zap.Error(err))
		s.observer.ObservePersistFailure()
	}
	return rec
}
