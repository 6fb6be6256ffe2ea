package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/config"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/LeoCore/internal/pipeline"
	"github.com/GriffinCanCode/LeoCore/internal/providers/ai"
	"github.com/GriffinCanCode/LeoCore/internal/providers/fetch"
	"github.com/GriffinCanCode/LeoCore/internal/storage"
)

// App holds the wired collaborators of one process.
type App struct {
	Config   *config.Config
	Logger   *logging.Logger
	Metrics  *monitoring.Metrics
	Pipeline *pipeline.Pipeline
	// Store is nil when no store could be opened; audits then skip
	// persistence.
	Store storage.Store

	ownsStore bool
}

type options struct {
	store   storage.Store
	fetcher fetch.Fetcher
	ai      *ai.Client
	metrics *monitoring.Metrics
}

// Option overrides a collaborator, mostly for tests.
type Option func(*options)

// WithStore uses s instead of opening the configured store. The caller keeps
// ownership of s.
func WithStore(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

func WithFetcher(f fetch.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

func WithAIClient(c *ai.Client) Option {
	return func(o *options) { o.ai = c }
}

func WithMetrics(m *monitoring.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New wires an App from cfg. Without WithStore it takes the process-wide
// store from storage.Default; a store that fails to open is logged and left
// nil rather than failing startup.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Logger: logger, Metrics: o.metrics}
	if a.Metrics == nil {
		a.Metrics = monitoring.NewMetrics()
	}

	a.Store = o.store
	if a.Store == nil {
		store, err := storage.Default(ctx, storeConfig(cfg.Store))
		if err != nil {
			logger.Warn("score store unavailable, audits will not be persisted",
				zap.String("engine", cfg.Store.Engine), zap.Error(err))
		} else {
			a.Store = store
			a.ownsStore = true
			logger.Info("score store opened", zap.String("engine", store.Engine()))
		}
	}

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = fetch.NewClient(fetch.Config{
			Timeout:           cfg.Fetch.Timeout,
			UserAgent:         cfg.Fetch.UserAgent,
			RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		})
	}

	aiClient := o.ai
	if aiClient == nil {
		aiClient = ai.NewClient(ai.Config{
			APIKey:         cfg.AI.APIKey,
			BaseURL:        cfg.AI.BaseURL,
			EmbeddingModel: cfg.AI.EmbeddingModel,
			ChatModel:      cfg.AI.ChatModel,
			Timeout:        cfg.AI.Timeout,
			Retries:        ai.DefaultRetries,
		}, logger)
	}
	if !aiClient.Available() {
		logger.Info("no AI credential configured, using local embedding and static suggestions")
	}

	deps := pipeline.Deps{
		Fetcher:   fetcher,
		Embedder:  aiClient,
		Generator: aiClient,
	}
	if a.Store != nil {
		deps.Recorder = a.Store
	}

	a.Pipeline = pipeline.New(deps,
		pipeline.WithLogger(logger.Named("pipeline")),
		pipeline.WithObserver(a.Metrics),
		pipeline.WithWeightsPath(cfg.Scoring.WeightsPath),
		pipeline.WithMaxTextLength(cfg.Fetch.MaxTextLength),
		pipeline.WithChunkSize(cfg.Scoring.ChunkSize),
		pipeline.WithEmbeddingDimensions(cfg.Scoring.EmbeddingDimensions),
	)
	return a
}

// Close releases the process-wide store if the App opened it. Injected
// stores stay open.
func (a *App) Close() error {
	var errs []error
	if a.ownsStore && a.Store != nil {
		if err := storage.ResetDefault(); err != nil {
			errs = append(errs, err)
		}
		a.Store = nil
		a.ownsStore = false
	}
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}

func storeConfig(c config.StoreConfig) storage.Config {
	return storage.Config{
		Engine:      c.Engine,
		SQLitePath:  c.SQLitePath,
		DatabaseURL: c.DatabaseURL,
		PGHost:      c.PGHost,
		PGPort:      c.PGPort,
		PGUser:      c.PGUser,
		PGPassword:  c.PGPassword,
		PGDatabase:  c.PGDatabase,
	}
}
