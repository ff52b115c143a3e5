package auth

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"lifesuite/internal/config"
)

// staleAfter is how long an idle bucket survives cleanup.
const staleAfter = 10 * time.Minute

// RateLimiter implements per-client token bucket rate limiting
type RateLimiter struct {
	rps     float64
	burst   int
	entries map[string]*limiterEntry
	mu      sync.Mutex
	now     func() time.Time
	logger  *slog.Logger
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter creates a rate limiter, or returns nil when limiting is disabled.
func NewRateLimiter(cfg config.RateLimitConfig, logger *slog.Logger) *RateLimiter {
	if !cfg.Enabled {
		return nil
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RateLimiter{
		rps:     cfg.RequestsPerSec,
		burst:   cfg.Burst,
		entries: make(map[string]*limiterEntry),
		now:     time.Now,
		logger:  logger,
	}
}

// Allow checks if a request is allowed and consumes a token.
// Returns: allowed (bool), retryAfter (whole seconds until a token is available)
func (r *RateLimiter) Allow(clientID string) (bool, int) {
	if r == nil {
		return true, 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, ok := r.entries[clientID]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r.rps), r.burst)}
		r.entries[clientID] = entry
	}
	entry.lastAccess = now

	if entry.limiter.AllowN(now, 1) {
		return true, 0
	}

	reservation := entry.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	reservation.CancelAt(now)

	return false, int(math.Ceil(delay.Seconds()))
}

// StartCleanup removes idle buckets every interval until ctx is done.
func (r *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	if r == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.cleanup()
			}
		}
	}()
}

func (r *RateLimiter) cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-staleAfter)
	removed := 0
	for id, entry := range r.entries {
		if entry.lastAccess.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}

	if removed > 0 {
		r.logger.Debug("Rate limit cleanup",
			"removed_buckets", removed,
			"remaining", len(r.entries),
		)
	}
	return removed
}

// Stats returns rate limiter statistics
func (r *RateLimiter) Stats() map[string]interface{} {
	if r == nil {
		return map[string]interface{}{"enabled": false}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	return map[string]interface{}{
		"enabled":          true,
		"requests_per_sec": r.rps,
		"burst":            r.burst,
		"active_buckets":   len(r.entries),
	}
}
