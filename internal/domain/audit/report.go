package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

// Report is the serialized view of a finished audit.
type Report struct {
	ID          string             `json:"id,omitempty"`
	URL         string             `json:"url"`
	Metrics     map[string]float64 `json:"metrics"`
	LeoRank     *float64           `json:"leo_rank"`
	Suggestions []string           `json:"suggestions"`
	HTMLPresent bool               `json:"html_present"`
	TextLength  int                `json:"text_length"`
	GeneratedAt string             `json:"generated_at"`
}

// NewReport builds the report for rec, stamped with at in UTC.
func NewReport(rec Record, at time.Time) Report {
	report := Report{
		ID:          rec.ID().String(),
		URL:         rec.URL(),
		Metrics:     rec.Metrics(),
		Suggestions: rec.Suggestions(),
		HTMLPresent: rec.HasMarkup(),
		TextLength:  len([]rune(rec.VisibleText())),
		GeneratedAt: at.UTC().Format(time.RFC3339),
	}
	if report.Metrics == nil {
		report.Metrics = map[string]float64{}
	}
	if report.Suggestions == nil {
		report.Suggestions = []string{}
	}
	if rank, ok := rec.Rank(); ok {
		report.LeoRank = &rank
	}
	return report
}

// MarshalReport encodes a report as indented JSON with sorted metric keys.
func MarshalReport(report Report) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(report, "", "  ")
}

// SaveReport writes the report for rec to path, creating parent directories.
func SaveReport(rec Record, path string) (Report, error) {
	report := NewReport(rec, time.Now())

	data, err := MarshalReport(report)
	if err != nil {
		return Report{}, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Report{}, fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return Report{}, fmt.Errorf("failed to write report: %w", err)
	}
	return report, nil
}
