package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/LeoCore/internal/api/http"
	"github.com/GriffinCanCode/LeoCore/internal/api/middleware"
	"github.com/GriffinCanCode/LeoCore/internal/app"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/config"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/monitoring"
)

const (
	readHeaderTimeout = 10 * time.Second
	// Audits fetch a page and may call the AI API, so writes get room.
	writeTimeout = 2 * time.Minute
	idleTimeout  = 2 * time.Minute
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router     *gin.Engine
	handler    http.Handler
	httpServer *http.Server
	logger     *logging.Logger
	config     *config.Config
}

// NewServer builds the router for a.
func NewServer(cfg *config.Config, a *app.App) *Server {
	logger := a.Logger.Named("server")

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(monitoring.Middleware(a.Metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	var scores apihttp.ScoreReader
	if a.Store != nil {
		scores = a.Store
	}
	handlers := apihttp.NewHandlers(a.Pipeline, scores, logger)
	apihttp.Register(router, handlers, a.Metrics)

	handler := gzhttp.GzipHandler(router)
	return &Server{
		router:  router,
		handler: handler,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
		logger: logger,
		config: cfg,
	}
}

// Handler returns the compressed root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
}

// Run listens on Addr until Shutdown.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown. It returns nil after a
// clean shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("starting HTTP server", zap.String("addr", ln.Addr().String()))

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
