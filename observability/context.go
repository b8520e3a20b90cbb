package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RunContext holds observability context for a tracked pipe run.
type RunContext struct {
	PipeName  string
	PipeID    string
	StartTime time.Time
	Metrics   *PipeMetrics
}

// NewRunContext creates a new run context.
// If metrics is nil, metric recording is silently skipped.
func NewRunContext(pipeName, pipeID string, metrics *PipeMetrics) *RunContext {
	return &RunContext{
		PipeName:  pipeName,
		PipeID:    pipeID,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

// runContextKey is the context key for RunContext.
type runContextKey struct{}

// WithRunContext stores a RunContext in the context.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFromContext retrieves the RunContext from context, or nil.
func RunContextFromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return rc
	}
	return nil
}

// StartSpanForRun starts a traced span and records the pipe start metric.
func (rc *RunContext) StartSpanForRun(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(
		attribute.String(AttrPipeName, rc.PipeName),
		attribute.String(AttrPipeID, rc.PipeID),
	)

	if rc.Metrics != nil {
		rc.Metrics.RecordPipeStart(ctx)
	}
	return ctx, span
}

// EndRun ends the span and records run-end metrics.
func (rc *RunContext) EndRun(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(rc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if rc.Metrics != nil {
		rc.Metrics.RecordPipeEnd(ctx, rc.PipeName, status, duration)
	}
}

// Duration returns the elapsed time since the run started.
func (rc *RunContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}
