package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"

	"lifesuite/internal/metrics"
	"lifesuite/internal/version"
)

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(middleware.RealIP)
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID", "Mcp-Session-Id"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After", "WWW-Authenticate"},
		MaxAge:         300,
	}))
	r.Use(LoggingMiddleware(s.logger))
	if s.metrics != nil {
		r.Use(metrics.HTTPMiddleware(s.metrics.MeterProvider(), s.metrics.Namespace()))
	}
	if s.cfg.Gzip {
		r.Use(func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })
	}

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(s.gate, s.recorder, s.logger))
		r.Post("/mcp", s.handleMCP)
	})

	r.Get("/", s.handleRoot)

	return r
}

// handleRoot lists the available endpoints.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	endpoints := []string{
		"POST /mcp - MCP JSON-RPC endpoint (Authorization: Bearer <token>)",
		"GET /health - Health check",
		"GET /ready - Readiness check",
	}
	if s.metrics != nil {
		endpoints = append(endpoints, "GET /metrics - Prometheus metrics")
	}

	WriteJSON(w, map[string]interface{}{
		"name":      "lifesuite",
		"version":   version.Get().Short(),
		"tools":     len(s.mcp.Tools()),
		"rateLimit": s.limiter.Stats(),
		"endpoints": endpoints,
	}, http.StatusOK)
}
