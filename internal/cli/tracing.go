package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/watzon/blogwebhook/internal/config"
)

const tracingShutdownTimeout = 5 * time.Second

// initTracing installs a global tracer provider exporting over OTLP/HTTP, so
// the instrumented client transport has somewhere to send spans. The returned
// function flushes and stops the exporter.
func initTracing(ctx context.Context, cfg config.WebhookConfig) (func(context.Context) error, error) {
	var opts []otlptracehttp.Option
	if cfg.TracingEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.TracingEndpoint))
	}

	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("blogwebhook"),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Debug().Err(err).Msg("Tracing error")
	}))
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// shutdownTracing flushes pending spans, bounded by tracingShutdownTimeout.
func shutdownTracing(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Debug().Err(err).Msg("Failed to flush traces")
	}
}
