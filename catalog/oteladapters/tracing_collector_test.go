package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/opencirc/circulation-go/catalog/oteladapters"
)

func Test_NewTracingCollector_Construction(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("circulation-test")

	collector := oteladapters.NewTracingCollector(tracer)
	assert.NotNil(t, collector, "NewTracingCollector should return non-nil collector")
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// setup
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("circulation-test")
	collector := oteladapters.NewTracingCollector(tracer)

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "circulation.create_loan", map[string]string{
		"operation": "create_loan",
	})
	collector.FinishSpan(spanCtx, "success", map[string]string{
		"status": "success",
	})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "exactly one span should be exported")

	span := spans[0]
	assert.Equal(t, "circulation.create_loan", span.Name, "span should carry the operation name")
	assert.Equal(t, codes.Ok, span.Status.Code, "success status should map to codes.Ok")
	assertSpanHasAttribute(t, span, "operation", "create_loan")
	assertSpanHasAttribute(t, span, "status", "success")
}

func Test_TracingCollector_FinishSpan_RecordsErrorStatus(t *testing.T) {
	// setup
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("circulation-test")
	collector := oteladapters.NewTracingCollector(tracer)

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "circulation.create_loan", map[string]string{
		"operation": "create_loan",
	})
	collector.FinishSpan(spanCtx, "error", map[string]string{
		"error_type": "publication_unavailable",
	})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, codes.Error, span.Status.Code, "error status should map to codes.Error")
	assert.Equal(t, "Operation failed", span.Status.Description)
	assertSpanHasAttribute(t, span, "error_type", "publication_unavailable")
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("circulation-test")
	collector := oteladapters.NewTracingCollector(tracer)

	testCases := []struct {
		status              string
		expectedCode        codes.Code
		expectedDescription string
	}{
		{status: "ok", expectedCode: codes.Ok, expectedDescription: ""},
		{status: "success", expectedCode: codes.Ok, expectedDescription: ""},
		{status: "completed", expectedCode: codes.Ok, expectedDescription: ""},
		{status: "error", expectedCode: codes.Error, expectedDescription: "Operation failed"},
		{status: "failed", expectedCode: codes.Error, expectedDescription: "Operation failed"},
		{status: "failure", expectedCode: codes.Error, expectedDescription: "Operation failed"},
		{status: "cancelled", expectedCode: codes.Error, expectedDescription: "Operation cancelled"},
		{status: "canceled", expectedCode: codes.Error, expectedDescription: "Operation cancelled"},
		{status: "timeout", expectedCode: codes.Error, expectedDescription: "Operation timed out"},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			exporter.Reset()

			_, spanCtx := collector.StartSpan(context.Background(), "circulation.return_loan", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)

			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
			assert.Equal(t, tc.expectedDescription, spans[0].Status.Description)
		})
	}
}

func Test_TracingCollector_UnknownStatus_BecomesAnAttribute(t *testing.T) {
	// setup
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("circulation-test")
	collector := oteladapters.NewTracingCollector(tracer)

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "circulation.pay_penalty", nil)
	collector.FinishSpan(spanCtx, "partial", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, codes.Unset, span.Status.Code, "unknown status should leave the span status unset")
	assertSpanHasAttribute(t, span, "status", "partial")
}

func Test_TracingCollector_ContextPropagation(t *testing.T) {
	// setup
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("circulation-test")
	collector := oteladapters.NewTracingCollector(tracer)

	// act
	parentCtx, parentSpanCtx := collector.StartSpan(context.Background(), "circulation.create_loan", nil)
	_, childSpanCtx := collector.StartSpan(parentCtx, "circulation.create_loan.journal", nil)

	collector.FinishSpan(childSpanCtx, "success", nil)
	collector.FinishSpan(parentSpanCtx, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2, "both spans should be exported")

	childSpan := spans[0]
	parentSpan := spans[1]

	assert.Equal(t, "circulation.create_loan.journal", childSpan.Name)
	assert.Equal(t, parentSpan.SpanContext.TraceID(), childSpan.SpanContext.TraceID(), "child should share the parent trace")
	assert.Equal(t, parentSpan.SpanContext.SpanID(), childSpan.Parent.SpanID(), "child should reference the parent span")
}

func Test_TracingCollector_FinishSpan_IgnoresForeignSpanContexts(t *testing.T) {
	// setup
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("circulation-test")
	collector := oteladapters.NewTracingCollector(tracer)

	// act + assert
	assert.NotPanics(t, func() {
		collector.FinishSpan(&mockSpanContext{}, "success", map[string]string{"operation": "create_loan"})
	}, "foreign span contexts should be ignored")

	assert.Empty(t, exporter.GetSpans(), "no span should be exported for a foreign span context")
}

func Test_OTelSpanContext_SetStatusAndAddAttribute(t *testing.T) {
	// setup
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("circulation-test")
	collector := oteladapters.NewTracingCollector(tracer)

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "circulation.return_loan", nil)
	spanCtx.AddAttribute("loan_id", "7")
	spanCtx.SetStatus("ok")
	collector.FinishSpan(spanCtx, "ok", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, codes.Ok, span.Status.Code)
	assertSpanHasAttribute(t, span, "loan_id", "7")
}

// mockSpanContext is a catalog.SpanContext that was not created by the
// OpenTelemetry collector.
type mockSpanContext struct{}

func (m *mockSpanContext) SetStatus(_ string)       {}
func (m *mockSpanContext) AddAttribute(_, _ string) {}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expected string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			assert.Equal(t, expected, attr.Value.AsString(), "attribute %s should have the expected value", key)

			return
		}
	}

	t.Errorf("span %s has no attribute %s", span.Name, key)
}
