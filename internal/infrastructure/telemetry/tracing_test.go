package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/crmcore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs an in-memory tracer provider for the duration of
// the test and returns its span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})

	return sr
}

func singleEndedSpan(t *testing.T, sr *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	return spans[0]
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]interface{} {
	m := make(map[string]interface{})
	for _, attr := range span.Attributes() {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}
	return m
}

func TestStartSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "customer.get")
	require.NotNil(t, span)
	span.End()

	recorded := singleEndedSpan(t, sr)
	assert.Equal(t, "customer.get", recorded.Name())
	assert.Equal(t, trace.SpanKindInternal, recorded.SpanKind())
}

func TestStartSpan_WithOptions(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "customer.get",
		telemetry.WithAttribute("customer_id", "c-123"),
		telemetry.WithSpanKind(trace.SpanKindClient),
	)
	span.End()

	recorded := singleEndedSpan(t, sr)
	assert.Equal(t, trace.SpanKindClient, recorded.SpanKind())
	assert.Equal(t, "c-123", spanAttrs(recorded)["customer_id"])
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "customer", "create")
	span.End()

	assert.Equal(t, "customer.create", singleEndedSpan(t, sr).Name())
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	t.Run("typed values", func(t *testing.T) {
		_, span := telemetry.StartSpan(context.Background(), "customer.update_credit")
		telemetry.SetAttributes(span,
			"string_attr", "value",
			"int_attr", 42,
			"bool_attr", true,
		)
		span.End()

		attrs := spanAttrs(singleEndedSpan(t, sr))
		assert.Equal(t, "value", attrs["string_attr"])
		assert.Equal(t, int64(42), attrs["int_attr"])
		assert.Equal(t, true, attrs["bool_attr"])
	})

	t.Run("all supported slice and scalar types", func(t *testing.T) {
		sr := setupTestTracer(t)
		_, span := telemetry.StartSpan(context.Background(), "customer.update_credit")
		telemetry.SetAttributes(span,
			"string", "value",
			"int", 42,
			"int64", int64(100),
			"float64", 3.14,
			"bool", true,
			"string_slice", []string{"a", "b"},
			"int_slice", []int{1, 2, 3},
			"int64_slice", []int64{10, 20},
			"float64_slice", []float64{1.1, 2.2},
			"bool_slice", []bool{true, false},
		)
		span.End()

		assert.GreaterOrEqual(t, len(singleEndedSpan(t, sr).Attributes()), 10)
	})

	t.Run("trailing key without value is dropped", func(t *testing.T) {
		sr := setupTestTracer(t)
		_, span := telemetry.StartSpan(context.Background(), "customer.update_credit")
		telemetry.SetAttributes(span,
			"key1", "value1",
			"key2", "value2",
			"orphan_key",
		)
		span.End()

		assert.Len(t, singleEndedSpan(t, sr).Attributes(), 2)
	})

	t.Run("non-string key skips the pair", func(t *testing.T) {
		sr := setupTestTracer(t)
		_, span := telemetry.StartSpan(context.Background(), "customer.update_credit")
		telemetry.SetAttributes(span,
			"valid_key", "value",
			123, "value for a bad key",
		)
		span.End()

		assert.Len(t, singleEndedSpan(t, sr).Attributes(), 1)
	})
}

func TestSetAttribute(t *testing.T) {
	t.Run("string value", func(t *testing.T) {
		sr := setupTestTracer(t)
		_, span := telemetry.StartSpan(context.Background(), "customer.get")
		telemetry.SetAttribute(span, "customer_id", "12345")
		span.End()

		assert.Equal(t, "12345", spanAttrs(singleEndedSpan(t, sr))["customer_id"])
	})

	t.Run("uuid goes through fmt.Stringer", func(t *testing.T) {
		sr := setupTestTracer(t)
		customerID := uuid.New()

		_, span := telemetry.StartSpan(context.Background(), "customer.get")
		telemetry.SetAttribute(span, "customer_id", customerID)
		span.End()

		assert.Equal(t, customerID.String(), spanAttrs(singleEndedSpan(t, sr))["customer_id"])
	})
}

func TestRecordError(t *testing.T) {
	t.Run("marks the span failed and records an exception event", func(t *testing.T) {
		sr := setupTestTracer(t)
		_, span := telemetry.StartSpan(context.Background(), "customer.update_credit")
		telemetry.RecordError(span, errors.New("insufficient credit"))
		span.End()

		recorded := singleEndedSpan(t, sr)
		assert.Equal(t, codes.Error, recorded.Status().Code)
		assert.Equal(t, "insufficient credit", recorded.Status().Description)

		events := recorded.Events()
		require.NotEmpty(t, events)
		assert.Equal(t, "exception", events[0].Name)
	})

	t.Run("nil error is a no-op", func(t *testing.T) {
		sr := setupTestTracer(t)
		_, span := telemetry.StartSpan(context.Background(), "customer.update_credit")
		telemetry.RecordError(span, nil)
		span.End()

		assert.NotEqual(t, codes.Error, singleEndedSpan(t, sr).Status().Code)
	})
}

func TestSetOK(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "customer.get")
	telemetry.SetOK(span)
	span.End()

	assert.Equal(t, codes.Ok, singleEndedSpan(t, sr).Status().Code)
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "customer.update_credit")
	telemetry.AddEvent(span, "credit_reserved",
		"reference", "ORD-123",
		"amount", 10,
	)
	span.End()

	events := singleEndedSpan(t, sr).Events()
	require.Len(t, events, 1)
	assert.Equal(t, "credit_reserved", events[0].Name)

	attrMap := make(map[string]interface{})
	for _, attr := range events[0].Attributes {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, "ORD-123", attrMap["reference"])
	assert.Equal(t, int64(10), attrMap["amount"])
}

// The helpers have to tolerate a nil span so callers can skip guarding.
func TestNilSpanIsSafe(t *testing.T) {
	telemetry.RecordError(nil, errors.New("boom"))
	telemetry.SetAttributes(nil, "key", "value")
	telemetry.SetAttribute(nil, "key", "value")
	telemetry.SetOK(nil)
	telemetry.AddEvent(nil, "event_name", "key", "value")
}

func TestSpanFromContext(t *testing.T) {
	setupTestTracer(t)
	ctx := context.Background()

	assert.NotNil(t, telemetry.SpanFromContext(ctx), "returns a no-op span without one in context")

	ctx, span := telemetry.StartSpan(ctx, "customer.get")
	defer span.End()

	retrieved := telemetry.SpanFromContext(ctx)
	assert.Equal(t, span.SpanContext().SpanID(), retrieved.SpanContext().SpanID())
}

func TestContextWithSpan(t *testing.T) {
	setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "customer.get")
	defer span.End()

	ctx := telemetry.ContextWithSpan(context.Background(), span)
	assert.Equal(t, span.SpanContext().SpanID(), telemetry.SpanFromContext(ctx).SpanContext().SpanID())
}

func TestGetTraceID(t *testing.T) {
	setupTestTracer(t)
	ctx := context.Background()

	assert.Empty(t, telemetry.GetTraceID(ctx))

	ctx, span := telemetry.StartSpan(ctx, "customer.get")
	defer span.End()

	traceID := telemetry.GetTraceID(ctx)
	assert.Len(t, traceID, 32, "trace ID is 16 bytes as hex")
}

func TestGetSpanID(t *testing.T) {
	setupTestTracer(t)
	ctx := context.Background()

	assert.Empty(t, telemetry.GetSpanID(ctx))

	ctx, span := telemetry.StartSpan(ctx, "customer.get")
	defer span.End()

	spanID := telemetry.GetSpanID(ctx)
	assert.Len(t, spanID, 16, "span ID is 8 bytes as hex")
}

func TestNestedSpans(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, parentSpan := telemetry.StartSpan(context.Background(), "customer.create")
	_, childSpan := telemetry.StartSpan(ctx, "outbox.save")
	childSpan.End()
	parentSpan.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)

	var parent, child sdktrace.ReadOnlySpan
	for _, s := range spans {
		switch s.Name() {
		case "customer.create":
			parent = s
		case "outbox.save":
			child = s
		}
	}
	require.NotNil(t, parent, "parent span not found")
	require.NotNil(t, child, "child span not found")

	assert.Equal(t, parent.SpanContext().TraceID(), child.SpanContext().TraceID())
	assert.Equal(t, parent.SpanContext().SpanID(), child.Parent().SpanID())
}
