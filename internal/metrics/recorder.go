package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status labels for operation calls.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// OperationUnknown labels calls to names outside the catalog.
const OperationUnknown = "unknown"

// Recorder records operation and authentication outcomes.
type Recorder interface {
	// RecordOperation counts one operation call.
	RecordOperation(ctx context.Context, operation, status string)

	// RecordDuration records how long an operation call took.
	RecordDuration(ctx context.Context, operation string, d time.Duration, status string)

	// RecordAuth counts one authorization attempt by outcome
	// ("granted", "missing_token", "invalid_token", "rate_limited").
	RecordAuth(ctx context.Context, outcome string)
}

type otelRecorder struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
	auth       metric.Int64Counter
}

// NewRecorder creates a Recorder whose instruments live on meterProvider.
func NewRecorder(meterProvider metric.MeterProvider, namespace string) (Recorder, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of operation calls"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Operation call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation duration histogram: %w", err)
	}

	auth, err := meter.Int64Counter(
		fmt.Sprintf("%s_auth_attempts_total", namespace),
		metric.WithDescription("Total number of bearer authorization attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth counter: %w", err)
	}

	return &otelRecorder{operations: operations, durations: durations, auth: auth}, nil
}

func (r *otelRecorder) RecordOperation(ctx context.Context, operation, status string) {
	r.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (r *otelRecorder) RecordDuration(ctx context.Context, operation string, d time.Duration, status string) {
	r.durations.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (r *otelRecorder) RecordAuth(ctx context.Context, outcome string) {
	r.auth.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// NoOp discards everything. Used when metrics are disabled.
type NoOp struct{}

func (NoOp) RecordOperation(context.Context, string, string) {}
func (NoOp) RecordDuration(context.Context, string, time.Duration, string) {}
func (NoOp) RecordAuth(context.Context, string) {}
