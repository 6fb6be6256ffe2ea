package pipeline

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/providers/ai"
	"github.com/GriffinCanCode/LeoCore/internal/providers/scraper"
)

// MaxSuggestions bounds the recommendations kept from a generated answer.
const MaxSuggestions = 3

var defaultSuggestions = []string{
	"Add descriptive headings (h1 to h4) so the page outline is machine-readable.",
	"Add a meta description, Open Graph tags and schema.org structured data.",
	"Expand the visible text with clear, consistent language about the page topic.",
}

// DefaultSuggestions returns the static recommendations used whenever
// generation is unavailable or fails.
func DefaultSuggestions() []string {
	return slices.Clone(defaultSuggestions)
}

// RecommendationStage asks the generator for suggestions and falls back to
// DefaultSuggestions.
type RecommendationStage struct {
	generator ai.Generator
	sanitizer *scraper.Sanitizer
	logger    *logging.Logger
	observer  Observer
}

func (s *RecommendationStage) Name() string { return StageRecommendation }

func (s *RecommendationStage) Run(ctx context.Context, rec audit.Record) audit.Record {
	if s.generator == nil || !s.generator.Available() {
		s.observer.ObserveFallback("generator", "unavailable")
		return rec.WithSuggestions(DefaultSuggestions())
	}

	out, err := s.generator.Generate(ctx, BuildPrompt(rec))
	if err != nil {
		s.logger.Warn("generation failed, using static suggestions", zap.Error(err))
		s.observer.ObserveFallback("generator", fallbackReason(err))
		return rec.WithSuggestions(DefaultSuggestions())
	}

	suggestions := ParseSuggestions(out, s.sanitizer)
	if len(suggestions) == 0 {
		s.logger.Warn("generation returned no usable lines, using static suggestions")
		s.observer.ObserveFallback("generator", "empty")
		return rec.WithSuggestions(DefaultSuggestions())
	}
	return rec.WithSuggestions(suggestions)
}

// BuildPrompt summarizes the record for the generator.
func BuildPrompt(rec audit.Record) string {
	rank, _ := rec.Rank()
	metrics := rec.Metrics()

	var b strings.Builder
	b.WriteString("You are an AI visibility auditor.\n")
	fmt.Fprintf(&b, "Page: %s\n", rec.URL())
	fmt.Fprintf(&b, "LEO rank: %.2f / 100\n", rank)
	b.WriteString("Metrics (0 to 1):\n")
	for _, name := range slices.Sorted(maps.Keys(metrics)) {
		fmt.Fprintf(&b, "- %s: %.4f\n", name, metrics[name])
	}
	fmt.Fprintf(&b, "\nSuggest %d concise improvements to increase AI visibility, one per line.\n", MaxSuggestions)
	return b.String()
}

var ordinalMarker = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s*`)

// ParseSuggestions splits generated text into at most MaxSuggestions
// plain-text lines, dropping list markers and blank lines.
func ParseSuggestions(text string, sanitizer *scraper.Sanitizer) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = ordinalMarker.ReplaceAllString(strings.TrimSpace(line), "")
		if sanitizer != nil {
			line = sanitizer.Text(line)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
