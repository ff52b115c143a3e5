// Package auth implements the bearer credential gate and per-client rate limiting.
package auth

import (
	"crypto/subtle"
	"log/slog"

	"golang.org/x/crypto/blake2b"

	"lifesuite/internal/config"
	"lifesuite/internal/errors"
)

// Gate authorizes callers against the single configured secret.
// It is immutable after construction.
type Gate struct {
	secretDigest [blake2b.Size256]byte
	identity     string
	limiter      *RateLimiter
	logger       *slog.Logger
}

// NewGate builds a gate from the auth configuration. limiter may be nil.
func NewGate(cfg config.AuthConfig, limiter *RateLimiter, logger *slog.Logger) (*Gate, error) {
	if cfg.Token == "" {
		return nil, ErrSecretRequired
	}
	if cfg.Identity == "" {
		return nil, ErrIdentityRequired
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{
		secretDigest: blake2b.Sum256([]byte(cfg.Token)),
		identity:     cfg.Identity,
		limiter:      limiter,
		logger:       logger,
	}, nil
}

// Authorize checks the presented token. The comparison is exact: case,
// whitespace and length all matter. Both sides are hashed to a fixed size
// first so the constant-time compare does not leak the secret's length.
func (g *Gate) Authorize(token string) *Result {
	result := &Result{}

	if token == "" {
		result.ErrorCode = ErrCodeMissingToken
		result.ErrorMessage = "Authorization header required"
		return result
	}

	presented := blake2b.Sum256([]byte(token))
	if subtle.ConstantTimeCompare(presented[:], g.secretDigest[:]) != 1 {
		result.ErrorCode = ErrCodeInvalidToken
		result.ErrorMessage = "Invalid bearer token"
		g.logger.Warn("Rejected bearer token", "reason", result.ErrorCode)
		return result
	}

	if g.limiter != nil {
		if allowed, retryAfter := g.limiter.Allow(ClientID); !allowed {
			result.RateLimited = true
			result.RetryAfter = retryAfter
			result.ErrorCode = ErrCodeRateLimited
			result.ErrorMessage = "Rate limit exceeded"
			return result
		}
	}

	result.Authorized = true
	result.ClientID = ClientID
	result.Scopes = []Scope{ScopeAll}
	return result
}

// Validate returns the configured identity for an authorized caller.
func (g *Gate) Validate(r *Result) (string, error) {
	if r == nil || !r.Authorized {
		return "", errors.NewAuthenticationError("caller is not authorized")
	}
	return g.identity, nil
}
