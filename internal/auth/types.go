package auth

import (
	"context"
	"time"
)

// Scope represents a permission scope granted to an authenticated caller
type Scope string

const (
	// ScopeAll grants every operation
	ScopeAll Scope = "*"

	// ScopeTools permits tools/call
	ScopeTools Scope = "tools"
)

// Includes checks if this scope includes the required scope
func (s Scope) Includes(required Scope) bool {
	return s == ScopeAll || s == required
}

// ClientID is the fixed client identifier attached to every authorized caller.
const ClientID = "puch-client"

// Result represents the outcome of an authorization attempt.
// A denied result is a normal value, not an error.
type Result struct {
	Authorized   bool       `json:"authorized"`
	ClientID     string     `json:"client_id,omitempty"`
	Scopes       []Scope    `json:"scopes,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"` // nil = never
	RateLimited  bool       `json:"rate_limited,omitempty"`
	RetryAfter   int        `json:"retry_after,omitempty"` // seconds
	ErrorCode    string     `json:"error_code,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// HasScope checks if the result grants the required scope
func (r *Result) HasScope(required Scope) bool {
	if r == nil || !r.Authorized {
		return false
	}
	for _, s := range r.Scopes {
		if s.Includes(required) {
			return true
		}
	}
	return false
}

// Error codes carried by denied results
const (
	ErrCodeMissingToken = "missing_token"
	ErrCodeInvalidToken = "invalid_token"
	ErrCodeRateLimited  = "rate_limited"
)

type resultKey struct{}

// WithResult attaches an authorization result to ctx.
func WithResult(ctx context.Context, r *Result) context.Context {
	return context.WithValue(ctx, resultKey{}, r)
}

// FromContext returns the authorization result attached to ctx, if any.
func FromContext(ctx context.Context) (*Result, bool) {
	r, ok := ctx.Value(resultKey{}).(*Result)
	return r, ok && r != nil
}

// Outcome labels the result for metrics: "granted" or the denial code.
func (r *Result) Outcome() string {
	if r == nil {
		return ErrCodeMissingToken
	}
	if r.Authorized {
		return "granted"
	}
	return r.ErrorCode
}
