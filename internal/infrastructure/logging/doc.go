// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output on stderr for machine parsing
//   - Development: colored console output
//
// Logs go to stderr so CLI commands can keep stdout for reports.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("audit finished", zap.String("url", url), zap.Float64("rank", rank))
//	stageLog := logger.ForAudit(rec.ID(), rec.URL()).Named("semantic")
package logging
