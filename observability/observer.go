package observability

import (
	"context"
	"time"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

// MetricsObserver records pipe progress events as OpenTelemetry metrics.
// It implements stream.Observer and is attached with stream.WithObserver.
type MetricsObserver struct {
	ctx     context.Context
	metrics *PipeMetrics
	name    string
	start   time.Time
}

// NewMetricsObserver creates an observer for a named pipe and records the
// run as started. The context is retained for metric recording because
// observer callbacks carry no context of their own.
func NewMetricsObserver(ctx context.Context, metrics *PipeMetrics, name string) *MetricsObserver {
	if ctx == nil {
		ctx = context.Background()
	}
	o := &MetricsObserver{
		ctx:     ctx,
		metrics: metrics,
		name:    name,
		start:   time.Now(),
	}
	metrics.RecordPipeStart(ctx)
	return o
}

// ChunkMoved records a chunk delivered to the sink.
func (o *MetricsObserver) ChunkMoved(pipeID string, bytes int) {
	o.metrics.RecordChunk(o.ctx, o.name, bytes)
}

// Stalled records a backpressure stall.
func (o *MetricsObserver) Stalled(pipeID string) {
	o.metrics.RecordStall(o.ctx, o.name)
}

// Resumed records a resume after backpressure cleared.
func (o *MetricsObserver) Resumed(pipeID string) {
	o.metrics.RecordResume(o.ctx, o.name)
}

// Terminal records the end of the run with its final state, and the
// terminal error by kind when the run failed.
func (o *MetricsObserver) Terminal(pipeID string, state stream.State, err error) {
	o.metrics.RecordPipeEnd(o.ctx, o.name, state.String(), time.Since(o.start))
	if err != nil {
		o.metrics.RecordError(o.ctx, string(errors.KindOf(err)), o.name)
	}
}
