package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "operations-dashboard"
	ServiceVersion = "1.0.0"
)

// Provider wraps the tracer provider so main can shut it down cleanly.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Init configures the global tracer provider. Traces go to stdout; sampling
// is always-on in development and ratio-based elsewhere.
func Init(environment string) (*Provider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	sampler := sdktrace.TraceIDRatioBased(0.2)
	if environment == "development" {
		sampler = sdktrace.AlwaysSample()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{tp: tp}, nil
}

// Shutdown flushes and stops the tracer provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// GetHTTPTracer returns the tracer used for HTTP request spans.
func GetHTTPTracer() trace.Tracer {
	return otel.Tracer(ServiceName + "/http")
}
