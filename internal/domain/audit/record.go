package audit

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/GriffinCanCode/LeoCore/internal/shared/id"
)

// ErrInvalidURL is the only error an audit can fail with.
var ErrInvalidURL = errors.New("invalid audit url")

// Metric names written by the scoring stages.
const (
	MetricStructure = "structure"
	MetricSemantic  = "semantic"
	MetricRetrieval = "retrieval"
)

// Record is the state threaded through the audit stages. It is a value:
// every With method returns a new Record and never touches the receiver's
// maps or slices.
type Record struct {
	id          id.AuditID
	url         string
	rawMarkup   string
	visibleText string
	metrics     map[string]float64
	rank        float64
	ranked      bool
	suggestions []string
	createdAt   time.Time
}

// New starts a record for rawURL. The URL must be absolute http(s) with a host.
func New(rawURL string) (Record, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Record{}, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Record{}, fmt.Errorf("%w: scheme %q", ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return Record{}, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return Record{
		id:        id.NewAuditID(),
		url:       trimmed,
		createdAt: time.Now().UTC(),
	}, nil
}

func (r Record) ID() id.AuditID       { return r.id }
func (r Record) URL() string          { return r.url }
func (r Record) RawMarkup() string    { return r.rawMarkup }
func (r Record) VisibleText() string  { return r.visibleText }
func (r Record) CreatedAt() time.Time { return r.createdAt }

// HasMarkup reports whether the fetch produced any markup.
func (r Record) HasMarkup() bool { return r.rawMarkup != "" }

// Metrics returns a copy of the metric map.
func (r Record) Metrics() map[string]float64 {
	return maps.Clone(r.metrics)
}

// Metric returns one metric and whether it has been set.
func (r Record) Metric(name string) (float64, bool) {
	v, ok := r.metrics[name]
	return v, ok
}

// Rank returns the aggregate rank and whether aggregation has run.
func (r Record) Rank() (float64, bool) {
	return r.rank, r.ranked
}

// Suggestions returns a copy of the recommendations.
func (r Record) Suggestions() []string {
	return slices.Clone(r.suggestions)
}

// WithContent sets the fetched markup and its extracted text.
func (r Record) WithContent(rawMarkup, visibleText string) Record {
	next := r.clone()
	next.rawMarkup = rawMarkup
	next.visibleText = visibleText
	return next
}

// WithMetric sets a single metric.
func (r Record) WithMetric(name string, value float64) Record {
	next := r.clone()
	if next.metrics == nil {
		next.metrics = make(map[string]float64, 3)
	}
	next.metrics[name] = value
	return next
}

// WithRank sets the aggregate rank.
func (r Record) WithRank(rank float64) Record {
	next := r.clone()
	next.rank = rank
	next.ranked = true
	return next
}

// WithSuggestions sets the recommendations.
func (r Record) WithSuggestions(suggestions []string) Record {
	next := r.clone()
	next.suggestions = slices.Clone(suggestions)
	return next
}

func (r Record) clone() Record {
	next := r
	next.metrics = maps.Clone(r.metrics)
	next.suggestions = slices.Clone(r.suggestions)
	return next
}
