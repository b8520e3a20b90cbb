package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// PipelineName is the name of the pipeline or tool.
	PipelineName string
	// Version is the version of the pipeline or tool.
	Version string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(pipelineName string) MeterConfig {
	return MeterConfig{
		PipelineName: pipelineName,
		Version:      version.Short(),
		Environment:  "development",
		Endpoint:     "localhost:4318",
		Insecure:     true,
		Interval:     15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.PipelineName, config.Version, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"pipeline", config.PipelineName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PipeMetrics holds OpenTelemetry metric instruments for pipe observability.
type PipeMetrics struct {
	chunkTotal   metric.Int64Counter
	byteTotal    metric.Int64Counter
	stallTotal   metric.Int64Counter
	resumeTotal  metric.Int64Counter
	pipeActive   metric.Int64UpDownCounter
	pipeDuration metric.Float64Histogram
	errorTotal   metric.Int64Counter
}

// NewPipeMetrics creates metric instruments on the given meter.
func NewPipeMetrics(meter metric.Meter) (*PipeMetrics, error) {
	chunkTotal, err := meter.Int64Counter("chunk.total",
		metric.WithDescription("Total number of chunks moved through pipes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chunk.total counter: %w", err)
	}

	byteTotal, err := meter.Int64Counter("byte.total",
		metric.WithDescription("Total bytes moved through pipes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating byte.total counter: %w", err)
	}

	stallTotal, err := meter.Int64Counter("stall.total",
		metric.WithDescription("Total number of backpressure stalls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stall.total counter: %w", err)
	}

	resumeTotal, err := meter.Int64Counter("resume.total",
		metric.WithDescription("Total number of resumes after backpressure"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resume.total counter: %w", err)
	}

	pipeActive, err := meter.Int64UpDownCounter("pipe.active",
		metric.WithDescription("Number of currently running pipes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipe.active gauge: %w", err)
	}

	pipeDuration, err := meter.Float64Histogram("pipe.duration",
		metric.WithDescription("Duration of pipe runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipe.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by kind and pipe"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &PipeMetrics{
		chunkTotal:   chunkTotal,
		byteTotal:    byteTotal,
		stallTotal:   stallTotal,
		resumeTotal:  resumeTotal,
		pipeActive:   pipeActive,
		pipeDuration: pipeDuration,
		errorTotal:   errorTotal,
	}, nil
}

// RecordPipeStart increments the active pipe count.
func (m *PipeMetrics) RecordPipeStart(ctx context.Context) {
	m.pipeActive.Add(ctx, 1)
}

// RecordPipeEnd decrements active pipes and records the completed run.
func (m *PipeMetrics) RecordPipeEnd(ctx context.Context, pipe, status string, duration time.Duration) {
	m.pipeActive.Add(ctx, -1)
	m.pipeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("pipe", pipe),
		attribute.String("status", status),
	))
}

// RecordChunk records a chunk delivered to the sink.
func (m *PipeMetrics) RecordChunk(ctx context.Context, pipe string, bytes int) {
	attrs := metric.WithAttributes(attribute.String("pipe", pipe))
	m.chunkTotal.Add(ctx, 1, attrs)
	m.byteTotal.Add(ctx, int64(bytes), attrs)
}

// RecordStall records a backpressure stall.
func (m *PipeMetrics) RecordStall(ctx context.Context, pipe string) {
	m.stallTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("pipe", pipe)))
}

// RecordResume records a resume after backpressure cleared.
func (m *PipeMetrics) RecordResume(ctx context.Context, pipe string) {
	m.resumeTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("pipe", pipe)))
}

// RecordError records a terminal error by kind and pipe.
func (m *PipeMetrics) RecordError(ctx context.Context, kind, pipe string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("pipe", pipe),
	))
}
