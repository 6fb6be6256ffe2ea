package pipeline

import (
	"context"
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/domain/scoring"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/providers/ai"
	"github.com/GriffinCanCode/LeoCore/internal/providers/fetch"
	"github.com/GriffinCanCode/LeoCore/internal/providers/scraper"
)

// DefaultMaxTextLength caps extracted text, in code points.
const DefaultMaxTextLength = 100_000

// Deps are the collaborators of an audit. Only Fetcher is required for
// meaningful scores; nil Embedder, Generator or Recorder select the local
// fallbacks and skip persistence.
type Deps struct {
	Fetcher   fetch.Fetcher
	Embedder  ai.Embedder
	Generator ai.Generator
	Recorder  Recorder
}

// Pipeline runs audits. It is safe for concurrent use; runs share nothing
// but the collaborators and the weight table.
type Pipeline struct {
	deps          Deps
	logger        *logging.Logger
	observer      Observer
	weights       func() scoring.Weights
	maxTextLength int
	chunkSize     int
	dimensions    int
	now           func() time.Time
	sanitizer     *scraper.Sanitizer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithLogger(l *logging.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithWeightsPath reads the weight table from path through the process-wide
// cache.
func WithWeightsPath(path string) Option {
	return func(p *Pipeline) {
		p.weights = func() scoring.Weights { return scoring.CachedWeights(path) }
	}
}

// WithWeights fixes the weight table, bypassing the cache.
func WithWeights(w scoring.Weights) Option {
	return func(p *Pipeline) {
		fixed := maps.Clone(w)
		p.weights = func() scoring.Weights { return maps.Clone(fixed) }
	}
}

func WithMaxTextLength(n int) Option {
	return func(p *Pipeline) { p.maxTextLength = n }
}

func WithChunkSize(n int) Option {
	return func(p *Pipeline) { p.chunkSize = n }
}

func WithEmbeddingDimensions(n int) Option {
	return func(p *Pipeline) { p.dimensions = n }
}

// WithClock sets the time source for persisted timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline.
func New(deps Deps, opts ...Option) *Pipeline {
	p := &Pipeline{
		deps:          deps,
		logger:        logging.Nop(),
		observer:      nopObserver{},
		weights:       func() scoring.Weights { return scoring.CachedWeights("") },
		maxTextLength: DefaultMaxTextLength,
		chunkSize:     scoring.DefaultChunkSize,
		dimensions:    scoring.DefaultDimensions,
		now:           time.Now,
		sanitizer:     scraper.NewSanitizer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type runOptions struct {
	persist         bool
	recommendations bool
}

// RunOption adjusts a single RunAudit call.
type RunOption func(*runOptions)

// WithPersist controls whether the rank is recorded. Default true.
func WithPersist(persist bool) RunOption {
	return func(o *runOptions) { o.persist = persist }
}

// WithRecommendations controls whether the recommendation stage runs.
// Default true.
func WithRecommendations(enabled bool) RunOption {
	return func(o *runOptions) { o.recommendations = enabled }
}

// RunAudit audits rawURL. The only error is audit.ErrInvalidURL; every
// collaborator failure is absorbed by the stage that owns it. Cancellation
// of ctx does not interrupt a started audit.
func (p *Pipeline) RunAudit(ctx context.Context, rawURL string, opts ...RunOption) (audit.Record, error) {
	ro := runOptions{persist: true, recommendations: true}
	for _, opt := range opts {
		opt(&ro)
	}

	rec, err := audit.New(rawURL)
	if err != nil {
		return audit.Record{}, err
	}

	ctx = context.WithoutCancel(ctx)
	logger := p.logger.ForAudit(rec.ID().String(), rec.URL())
	logger.Info("audit started")
	start := time.Now()

	for _, stage := range p.stages(logger, ro) {
		stageStart := time.Now()
		rec = stage.Run(ctx, rec)
		elapsed := time.Since(stageStart)
		p.observer.ObserveStage(stage.Name(), elapsed)
		logger.Debug("stage finished", zap.String("stage", stage.Name()), zap.Duration("duration", elapsed))
	}

	rank, _ := rec.Rank()
	p.observer.ObserveAudit(rank)
	logger.Info("audit finished",
		zap.Float64("rank", rank),
		zap.Any("metrics", rec.Metrics()),
		zap.Duration("duration", time.Since(start)))
	return rec, nil
}

// stages builds the ordered stage list for one run.
func (p *Pipeline) stages(logger *logging.Logger, ro runOptions) []Stage {
	var recorder Recorder
	if ro.persist {
		recorder = p.deps.Recorder
	}

	stages := []Stage{
		&ExtractionStage{
			fetcher:  p.deps.Fetcher,
			maxChars: p.maxTextLength,
			logger:   logger.Named(StageExtraction),
			observer: p.observer,
		},
		&StructureStage{logger: logger.Named(StageStructure)},
		&SemanticStage{
			remote:    p.deps.Embedder,
			local:     ai.LocalEmbedder{Dimensions: p.dimensions},
			chunkSize: p.chunkSize,
			logger:    logger.Named(StageSemantic),
			observer:  p.observer,
		},
		&RetrievalStage{logger: logger.Named(StageRetrieval)},
		&AggregationStage{
			weights:  p.weights,
			recorder: recorder,
			now:      p.now,
			logger:   logger.Named(StageAggregation),
			observer: p.observer,
		},
	}
	if ro.recommendations {
		stages = append(stages, &RecommendationStage{
			generator: p.deps.Generator,
			sanitizer: p.sanitizer,
			logger:    logger.Named(StageRecommendation),
			observer:  p.observer,
		})
	}
	return stages
}
