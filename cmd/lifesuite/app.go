package main

import (
	"context"
	"fmt"

	"lifesuite/internal/auth"
	"lifesuite/internal/config"
	"lifesuite/internal/metrics"
	"lifesuite/internal/operations"
	"lifesuite/internal/slogutil"
)

// app holds the components shared by the serve and mcp commands.
type app struct {
	dispatcher *operations.Dispatcher
	limiter    *auth.RateLimiter
	gate       *auth.Gate
	recorder   metrics.Recorder
	provider   *metrics.Provider
}

func newApp(cfg *config.Config, logs *slogutil.LoggerFactory) (*app, error) {
	authLogger := logs.Logger(slogutil.SubsystemAuth)
	limiter := auth.NewRateLimiter(cfg.RateLimit, authLogger)
	gate, err := auth.NewGate(cfg.Auth, limiter, authLogger)
	if err != nil {
		return nil, err
	}

	dispatcher, err := operations.NewDispatcher(gate,
		operations.WithLogger(logs.Logger(slogutil.SubsystemMCP)))
	if err != nil {
		return nil, fmt.Errorf("building operation catalog: %w", err)
	}

	a := &app{
		dispatcher: dispatcher,
		limiter:    limiter,
		gate:       gate,
		recorder:   metrics.NoOp{},
	}

	if cfg.Metrics.Enabled {
		provider, err := metrics.NewProvider(cfg.Metrics.Namespace)
		if err != nil {
			return nil, err
		}
		recorder, err := metrics.NewRecorder(provider.MeterProvider(), cfg.Metrics.Namespace)
		if err != nil {
			_ = provider.Shutdown(context.Background())
			return nil, err
		}
		a.provider = provider
		a.recorder = recorder
	}

	return a, nil
}

func (a *app) shutdown(ctx context.Context) error {
	return a.provider.Shutdown(ctx)
}
