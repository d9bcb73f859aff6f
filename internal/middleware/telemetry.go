package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/telemetry"
)

// TelemetryMiddleware creates a Gin middleware for OpenTelemetry tracing
func TelemetryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Health probes are polled constantly and would drown real traces
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		tracer := telemetry.GetHTTPTracer()
		ctx := c.Request.Context()

		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(c.Request.Header))

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.url", c.Request.URL.String()),
			attribute.String("http.host", c.Request.Host),
			attribute.String("http.client_ip", c.ClientIP()),
		}
		if routePath := c.FullPath(); routePath != "" {
			attrs = append(attrs, attribute.String("http.route", routePath))
		}

		ctx, span := tracer.Start(
			ctx,
			fmt.Sprintf("HTTP %s %s", c.Request.Method, c.Request.URL.Path),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		statusCode := c.Writer.Status()
		span.SetAttributes(
			attribute.Int("http.status_code", statusCode),
			attribute.Int64("http.response.time_ms", time.Since(start).Milliseconds()),
		)

		if statusCode >= 400 {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
			span.RecordError(fmt.Errorf("HTTP %d", statusCode))
		} else {
			span.SetStatus(codes.Ok, fmt.Sprintf("HTTP %d", statusCode))
		}
	}
}

// RecordError records an error on the current span
func RecordError(c *gin.Context, err error, description string) {
	span := trace.SpanFromContext(c.Request.Context())
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, description)
	}
}
