package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"lifesuite/internal/auth"
	"lifesuite/internal/errors"
	"lifesuite/internal/metrics"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	requestIDKey contextKey = "requestID"
)

const (
	// AuthHeader is the header carrying the bearer credential
	AuthHeader = "Authorization"

	// AuthScheme is the authentication scheme prefix
	AuthScheme = "Bearer "
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), requestIDKey, reqID)
			w.Header().Set("X-Request-ID", reqID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// LoggingMiddleware writes one access log line per request. Health checks
// and CORS preflights log at debug level.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case r.Method == http.MethodOptions, r.URL.Path == "/health", r.URL.Path == "/ready":
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"durationMs", time.Since(start).Milliseconds(),
				"remoteAddr", r.RemoteAddr,
				"requestID", GetRequestID(r.Context()),
			)
		})
	}
}

// RecoveryMiddleware recovers from panics and logs them
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("Panic recovered",
						"error", fmt.Sprintf("%v", rec),
						"stack", string(debug.Stack()),
						"requestID", GetRequestID(r.Context()),
					)
					WriteError(w, errors.NewInternalError("Internal server error", nil))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// BearerAuthMiddleware authorizes every request against the gate and
// attaches the granted result to the request context.
func BearerAuthMiddleware(gate *auth.Gate, recorder metrics.Recorder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var result *auth.Result
			token, ok := extractBearerToken(r.Header.Get(AuthHeader))
			if ok {
				result = gate.Authorize(token)
			} else {
				result = &auth.Result{
					ErrorCode:    auth.ErrCodeInvalidToken,
					ErrorMessage: "Invalid Authorization scheme, expected Bearer",
				}
				if r.Header.Get(AuthHeader) == "" {
					result = gate.Authorize("")
				}
			}

			recorder.RecordAuth(r.Context(), result.Outcome())

			if !result.Authorized {
				logger.Debug("Request not authorized",
					"reason", result.ErrorCode,
					"path", r.URL.Path,
					"requestID", GetRequestID(r.Context()),
				)
				writeAuthError(w, result)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithResult(r.Context(), result)))
		})
	}
}

// extractBearerToken returns the credential after the Bearer scheme. The
// scheme matches case-insensitively; the credential is returned untouched.
func extractBearerToken(header string) (string, bool) {
	if len(header) < len(AuthScheme) || !strings.EqualFold(header[:len(AuthScheme)], AuthScheme) {
		return "", false
	}
	return header[len(AuthScheme):], true
}

// writeAuthError answers a denied result: 429 with Retry-After when rate
// limited, otherwise 401 with a Bearer challenge.
func writeAuthError(w http.ResponseWriter, result *auth.Result) {
	if result.RateLimited {
		w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
		WriteError(w, errors.NewRateLimitedError(result.RetryAfter))
		return
	}

	challenge := "Bearer"
	if result.ErrorCode == auth.ErrCodeInvalidToken {
		challenge = `Bearer error="invalid_token"`
	}
	w.Header().Set("WWW-Authenticate", challenge)
	WriteError(w, errors.NewAuthenticationError(result.ErrorMessage))
}
