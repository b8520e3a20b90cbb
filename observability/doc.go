// Package observability provides OpenTelemetry tracing and metrics
// integration for streaming pipelines.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("archive-copy"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPipeRun)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("archive-copy"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewPipeMetrics(observability.Meter("archive-copy"))
//	obs := observability.NewMetricsObserver(ctx, metrics, "archive-copy")
//	pipe := stream.New(src, dst, stream.WithObserver(obs))
package observability
