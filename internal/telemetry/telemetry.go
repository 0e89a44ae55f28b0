// Package telemetry wires the OpenTelemetry SDK to an OTLP/HTTP
// collector. When no telemetry is configured the global tracer provider
// stays a no-op and span creation costs nothing.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/fbianco/proghelper/internal/config"
)

const defaultServiceName = "proghelper"

// Setup installs a batching OTLP trace exporter as the global tracer
// provider. The returned function flushes and shuts the provider down.
// A nil config is valid and returns a no-op shutdown.
func Setup(ctx context.Context, cfg *config.TelemetryConfig, logger *slog.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating OTLP exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(provider)

	logger.Info("telemetry enabled", "endpoint", cfg.Endpoint, "service", serviceName)
	return provider.Shutdown, nil
}
