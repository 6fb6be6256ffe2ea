package pipeline

import (
	"context"
	"time"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
)

// Stage names, in execution order.
const (
	StageExtraction     = "extraction"
	StageStructure      = "structure"
	StageSemantic       = "semantic"
	StageRetrieval      = "retrieval"
	StageAggregation    = "aggregation"
	StageRecommendation = "recommendation"
)

// Stage transforms one record state into the next. Run must not fail: a
// stage that cannot do its work records a zero or fallback value instead.
type Stage interface {
	Name() string
	Run(ctx context.Context, rec audit.Record) audit.Record
}

// Observer receives pipeline telemetry.
type Observer interface {
	ObserveStage(stage string, d time.Duration)
	ObserveFallback(collaborator, reason string)
	ObserveAudit(rank float64)
	ObservePersistFailure()
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, time.Duration) {}
func (nopObserver) ObserveFallback(string, string)     {}
func (nopObserver) ObserveAudit(float64)               {}
func (nopObserver) ObservePersistFailure()             {}
