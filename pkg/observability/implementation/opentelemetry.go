package implementation

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jt828/hello-observability/pkg/apperror"
	"github.com/jt828/hello-observability/pkg/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"go.opentelemetry.io/otel/trace"
)

type otelTracer struct {
	tracer trace.Tracer
}

type otelSpan struct {
	span   trace.Span
	closed atomic.Bool
}

func (s *otelSpan) SetAttribute(key string, value any) error {
	if s.closed.Load() {
		return fmt.Errorf("set attribute %q: %w", key, apperror.ErrSpanAlreadyClosed)
	}
	s.span.SetAttributes(toAttribute(key, value))
	return nil
}

func (s *otelSpan) RecordError(err error) {
	if s.closed.Load() {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *otelSpan) End() error {
	if !s.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("end span: %w", apperror.ErrSpanAlreadyClosed)
	}
	s.span.End()
	return nil
}

func (t otelTracer) Start(
	ctx context.Context,
	name string,
) (context.Context, observability.Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &otelSpan{span: span}
}

func NewOtelTracer(
	ctx context.Context,
	serviceName string,
	serviceVersion string,
	cfg TracingConfig,
) (observability.Tracer, func(ctx context.Context) error, error) {
	exp, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	batchOpts := make([]sdktrace.BatchSpanProcessorOption, 0, 3)
	if cfg.BatchTimeout > 0 {
		batchOpts = append(batchOpts, sdktrace.WithBatchTimeout(cfg.BatchTimeout))
	}
	if cfg.MaxExportBatchSize > 0 {
		batchOpts = append(batchOpts, sdktrace.WithMaxExportBatchSize(cfg.MaxExportBatchSize))
	}
	if cfg.MaxQueueSize > 0 {
		batchOpts = append(batchOpts, sdktrace.WithMaxQueueSize(cfg.MaxQueueSize))
	}

	return NewOtelTracerWithExporter(ctx, serviceName, serviceVersion, exp, newSampler(cfg.SampleRate), batchOpts...)
}

// NewOtelTracerWithExporter installs a global tracer provider that hands
// finished spans to exp through a batch span processor, so End never waits
// on the exporter. A nil exp drops every span.
func NewOtelTracerWithExporter(
	ctx context.Context,
	serviceName string,
	serviceVersion string,
	exp sdktrace.SpanExporter,
	sampler sdktrace.Sampler,
	batchOpts ...sdktrace.BatchSpanProcessorOption,
) (observability.Tracer, func(ctx context.Context) error, error) {
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if exp != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exp, batchOpts...))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return otelTracer{tracer: tp.Tracer(serviceName)},
		func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return tp.Shutdown(ctx)
		},
		nil
}

func newSampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case time.Duration:
		return attribute.Float64(key, v.Seconds())
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
