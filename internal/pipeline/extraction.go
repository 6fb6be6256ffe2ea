package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/providers/fetch"
	"github.com/GriffinCanCode/LeoCore/internal/providers/scraper"
)

// ExtractionStage fetches the page and extracts its visible text. A failed
// fetch leaves the record without content.
type ExtractionStage struct {
	fetcher  fetch.Fetcher
	maxChars int
	logger   *logging.Logger
	observer Observer
}

func (s *ExtractionStage) Name() string { return StageExtraction }

func (s *ExtractionStage) Run(ctx context.Context, rec audit.Record) audit.Record {
	if s.fetcher == nil {
		return rec.WithContent("", "")
	}

	page, err := s.fetcher.Fetch(ctx, rec.URL())
	if err != nil {
		s.logger.Warn("fetch failed, continuing without content", zap.Error(err))
		s.observer.ObserveFallback("fetcher", "error")
		return rec.WithContent("", "")
	}

	text, err := scraper.VisibleText(page.Body, s.maxChars)
	if err != nil {
		s.logger.Warn("text extraction failed", zap.Error(err))
		text = ""
	}

	s.logger.Debug("content extracted",
		zap.Int("status", page.StatusCode),
		zap.Int("markup_bytes", len(page.Body)),
		zap.Int("text_chars", len([]rune(text))))
	return rec.WithContent(page.Body, text)
}
