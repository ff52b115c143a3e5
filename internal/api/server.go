// Package api serves the MCP endpoint and operational routes over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"lifesuite/internal/auth"
	"lifesuite/internal/config"
	"lifesuite/internal/mcp"
	"lifesuite/internal/metrics"
)

// Deps are the collaborators the HTTP transport routes to.
type Deps struct {
	MCP      *mcp.MCPServer
	Gate     *auth.Gate
	Recorder metrics.Recorder  // optional
	Metrics  *metrics.Provider // optional; nil disables /metrics
	Limiter  *auth.RateLimiter // optional; reported on GET /
}

// Server represents the HTTP transport
type Server struct {
	router   chi.Router
	server   *http.Server
	addr     string
	cfg      config.ServerConfig
	logger   *slog.Logger
	mcp      *mcp.MCPServer
	gate     *auth.Gate
	limiter  *auth.RateLimiter
	recorder metrics.Recorder
	metrics  *metrics.Provider
	started  time.Time
	draining atomic.Bool
}

// NewServer creates a new HTTP server instance
func NewServer(cfg config.ServerConfig, deps Deps, logger *slog.Logger) (*Server, error) {
	if deps.MCP == nil {
		return nil, errors.New("api: MCP server is required")
	}
	if deps.Gate == nil {
		return nil, errors.New("api: auth gate is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoOp{}
	}

	s := &Server{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		cfg:      cfg,
		logger:   logger,
		mcp:      deps.MCP,
		gate:     deps.Gate,
		limiter:  deps.Limiter,
		recorder: deps.Recorder,
		metrics:  deps.Metrics,
		started:  time.Now(),
	}

	s.router = s.buildRouter()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadTimeout:       millis(cfg.ReadTimeoutMs),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      millis(cfg.WriteTimeoutMs),
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start listens on the configured address and blocks until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln and blocks until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting HTTP server",
		"addr", ln.Addr().String(),
		"gzip", s.cfg.Gzip,
		"metrics", s.metrics != nil,
	)

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.draining.Store(true)
	s.logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("Server shut down successfully")
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
