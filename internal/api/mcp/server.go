package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/domain/audit"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/pipeline"
	"github.com/GriffinCanCode/LeoCore/internal/storage"
)

const (
	ServerName    = "leo-core"
	ServerVersion = "0.2.0"

	ToolAudit  = "leo_audit"
	ToolRecent = "leo_recent"

	maxRecentLimit = 1000
)

// Auditor runs audits. *pipeline.Pipeline satisfies it.
type Auditor interface {
	RunAudit(ctx context.Context, url string, opts ...pipeline.RunOption) (audit.Record, error)
}

// ScoreReader lists persisted scores.
type ScoreReader interface {
	RecentScores(ctx context.Context, limit int) ([]storage.ScoreEntry, error)
}

// Server exposes the audit tools over MCP.
type Server struct {
	srv     *sdk.Server
	auditor Auditor
	scores  ScoreReader
	logger  *logging.Logger
}

// NewServer registers the LEO tools. scores may be nil, in which case
// leo_recent reports an error.
func NewServer(auditor Auditor, scores ScoreReader, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		srv:     sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: ServerVersion}, nil),
		auditor: auditor,
		scores:  scores,
		logger:  logger.Named("mcp"),
	}
	s.registerAuditTool()
	s.registerRecentTool()
	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *sdk.Server { return s.srv }

// ServeStdio serves one session over stdin and stdout until ctx is done or
// the client disconnects.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	return s.srv.Run(ctx, &sdk.StdioTransport{})
}

// Handler serves the streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server { return s.srv }, nil)
}

// ListenAndServe serves the streamable HTTP transport on addr until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()
	s.logger.Info("serving MCP over HTTP", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	sc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sc["required"] = required
	}
	return sc
}

// --- leo_audit ---

type auditReq struct {
	URL     string `json:"url"`
	Persist *bool  `json:"persist,omitempty"`
}

func (s *Server) registerAuditTool() {
	tool := &sdk.Tool{
		Name:        ToolAudit,
		Description: "Run a LEO AI-visibility audit of a web page and return its report (metrics, leo_rank, suggestions).",
		InputSchema: inputSchema(map[string]any{
			"url":     map[string]any{"type": "string", "description": "Absolute http(s) URL to audit"},
			"persist": map[string]any{"type": "boolean", "description": "Record the rank in the score store (default: true)"},
		}, []string{"url"}),
	}

	s.srv.AddTool(tool, func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
		var r auditReq
		if err := decode(req, &r); err != nil {
			return toolError(err), nil
		}
		persist := true
		if r.Persist != nil {
			persist = *r.Persist
		}

		rec, err := s.auditor.RunAudit(ctx, r.URL, pipeline.WithPersist(persist))
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(audit.NewReport(rec, time.Now()))
	})
}

// --- leo_recent ---

type recentReq struct {
	Limit int `json:"limit,omitempty"`
}

func (s *Server) registerRecentTool() {
	tool := &sdk.Tool{
		Name:        ToolRecent,
		Description: "List the most recent persisted LEO scores, newest first.",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Maximum number of scores (default: 10)"},
		}, nil),
	}

	s.srv.AddTool(tool, func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
		var r recentReq
		if err := decode(req, &r); err != nil {
			return toolError(err), nil
		}
		if s.scores == nil {
			return toolError(errors.New("score store not configured")), nil
		}

		limit := r.Limit
		if limit <= 0 {
			limit = storage.DefaultRecentLimit
		}
		limit = min(limit, maxRecentLimit)

		entries, err := s.scores.RecentScores(ctx, limit)
		if err != nil {
			s.logger.Warn("failed to read recent scores", zap.Error(err))
			return toolError(err), nil
		}
		if entries == nil {
			entries = []storage.ScoreEntry{}
		}
		return jsonResult(map[string]any{"results": entries, "count": len(entries)})
	})
}

func decode(req *sdk.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func toolError(err error) *sdk.CallToolResult {
	var res sdk.CallToolResult
	res.SetError(err)
	return &res
}

func jsonResult(v any) (*sdk.CallToolResult, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return toolError(fmt.Errorf("marshal: %w", err)), nil
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(data)}},
	}, nil
}
