package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/pipeline"
	"github.com/GriffinCanCode/LeoCore/internal/storage"
)

// Version is reported by the health endpoint.
const Version = "0.2.0"

// MaxRecentLimit bounds the limit query parameter of the metrics endpoint.
const MaxRecentLimit = 1000

// Auditor runs audits. *pipeline.Pipeline satisfies it.
type Auditor interface {
	RunAudit(ctx context.Context, url string, opts ...pipeline.RunOption) (audit.Record, error)
}

// ScoreReader reads persisted scores. storage.Store satisfies it.
type ScoreReader interface {
	RecentScores(ctx context.Context, limit int) ([]storage.ScoreEntry, error)
	Summary(ctx context.Context) (storage.Summary, error)
}

// Handlers serves the audit API.
type Handlers struct {
	auditor Auditor
	scores  ScoreReader
	logger  *logging.Logger
	now     func() time.Time
}

// NewHandlers creates handlers. scores may be nil when no store is
// configured; the metrics endpoint then answers 503.
func NewHandlers(auditor Auditor, scores ScoreReader, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handlers{
		auditor: auditor,
		scores:  scores,
		logger:  logger,
		now:     time.Now,
	}
}

// Health is the liveness check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": Version,
	})
}

// Audit runs the pipeline for the url query parameter.
func (h *Handlers) Audit(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	persist, err := parseBool(c.Query("persist"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "persist must be a boolean"})
		return
	}

	rec, err := h.auditor.RunAudit(c.Request.Context(), url, pipeline.WithPersist(persist))
	if err != nil {
		if errors.Is(err, audit.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("audit failed", zap.String("url", url), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit failed"})
		return
	}

	c.JSON(http.StatusOK, audit.NewReport(rec, h.now()))
}

// Metrics returns recent persisted scores and the store summary.
func (h *Handlers) Metrics(c *gin.Context) {
	if h.scores == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "score store not configured"})
		return
	}

	limit := storage.DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxRecentLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and " + strconv.Itoa(MaxRecentLimit)})
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	results, err := h.scores.RecentScores(ctx, limit)
	if err != nil {
		h.logger.Error("failed to read recent scores", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read scores"})
		return
	}
	summary, err := h.scores.Summary(ctx)
	if err != nil {
		h.logger.Error("failed to summarize scores", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read scores"})
		return
	}

	if results == nil {
		results = []storage.ScoreEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"summary": summary,
	})
}

func parseBool(raw string, fallback bool) (bool, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseBool(raw)
}
