// Package middleware provides HTTP middleware for the CRM system.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps request IDs taken from headers so an oversized
// header cannot bloat span attributes.
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName identifies the service on emitted spans.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "crm-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin, which names spans "METHOD route_pattern"
// (e.g. "GET /api/v1/customers/:id"), and then annotates the span with the
// request ID.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	base := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		base(c)

		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			annotateSpan(c, span)
		}
	}
}

func annotateSpan(c *gin.Context, span trace.Span) {
	if id := requestIDOf(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
}

// requestIDOf prefers the ID placed in the gin context by the RequestID
// middleware, then falls back to the X-Request-ID header, truncated to
// MaxRequestIDLength.
func requestIDOf(c *gin.Context) string {
	if v, exists := c.Get("request_id"); exists {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}

	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		headerID = headerID[:MaxRequestIDLength]
	}
	return headerID
}

// SpanErrorMarker marks the active span as failed for 4xx/5xx responses.
// It must sit after the Tracing middleware in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, statusDescription(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

func statusDescription(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}

// TracingAttributeInjector annotates the current span for requests that
// bypass TracingWithConfig enrichment. It must sit after the Tracing
// middleware in the chain.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			annotateSpan(c, span)
		}
		c.Next()
	}
}
