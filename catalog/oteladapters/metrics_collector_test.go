package oteladapters_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/opencirc/circulation-go/catalog/oteladapters"
)

func Test_NewMetricsCollector_Construction(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("circulation-test")

	collector := oteladapters.NewMetricsCollector(meter)
	assert.NotNil(t, collector, "NewMetricsCollector should return non-nil collector")
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// setup
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("circulation-test")
	collector := oteladapters.NewMetricsCollector(meter)

	// act
	collector.RecordDuration("circulation_operation_duration_seconds", 250*time.Millisecond, map[string]string{
		"operation": "create_loan",
		"status":    "success",
	})

	// assert
	resourceMetrics := collectMetrics(t, reader)
	histogram := findHistogramMetric(t, resourceMetrics, "circulation_operation_duration_seconds")

	require.Len(t, histogram.DataPoints, 1, "should have exactly one data point")
	dataPoint := histogram.DataPoints[0]

	assert.Equal(t, uint64(1), dataPoint.Count, "histogram should count one recording")
	assert.InDelta(t, 0.25, dataPoint.Sum, 0.001, "duration should be recorded in seconds")

	expectedAttrs := attribute.NewSet(
		attribute.String("operation", "create_loan"),
		attribute.String("status", "success"),
	)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs), "labels should be attached as attributes")
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// setup
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("circulation-test")
	collector := oteladapters.NewMetricsCollector(meter)

	labels := map[string]string{
		"operation":  "create_loan",
		"error_type": "publication_unavailable",
	}

	// act
	collector.IncrementCounter("circulation_operation_errors_total", labels)
	collector.IncrementCounter("circulation_operation_errors_total", labels)
	collector.IncrementCounter("circulation_operation_errors_total", labels)

	// assert
	resourceMetrics := collectMetrics(t, reader)
	counter := findCounterMetric(t, resourceMetrics, "circulation_operation_errors_total")

	require.Len(t, counter.DataPoints, 1, "should have exactly one data point")
	assert.Equal(t, int64(3), counter.DataPoints[0].Value, "counter should accumulate increments")
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// setup
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("circulation-test")
	collector := oteladapters.NewMetricsCollector(meter)

	labels := map[string]string{"operation": "create_loan"}

	// act
	collector.RecordValue("circulation_loans_active", 2, labels)
	collector.RecordValue("circulation_loans_active", 3, labels)

	// assert
	resourceMetrics := collectMetrics(t, reader)
	gauge := findGaugeMetric(t, resourceMetrics, "circulation_loans_active")

	require.Len(t, gauge.DataPoints, 1, "should have exactly one data point")
	assert.InDelta(t, 3.0, gauge.DataPoints[0].Value, 0.001, "gauge should keep the last recorded value")
}

func Test_MetricsCollector_ContextualMethods(t *testing.T) {
	// setup
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("circulation-test")
	collector := oteladapters.NewMetricsCollector(meter)
	ctx := context.Background()

	// act
	collector.RecordDurationContext(ctx, "circulation_operation_duration_seconds", 100*time.Millisecond, map[string]string{"operation": "return_loan"})
	collector.IncrementCounterContext(ctx, "circulation_operation_errors_total", map[string]string{"operation": "return_loan"})
	collector.RecordValueContext(ctx, "circulation_loans_overdue", 1, map[string]string{"operation": "return_loan"})

	// assert
	resourceMetrics := collectMetrics(t, reader)

	histogram := findHistogramMetric(t, resourceMetrics, "circulation_operation_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)
	assert.InDelta(t, 0.1, histogram.DataPoints[0].Sum, 0.001)

	counter := findCounterMetric(t, resourceMetrics, "circulation_operation_errors_total")
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(1), counter.DataPoints[0].Value)

	gauge := findGaugeMetric(t, resourceMetrics, "circulation_loans_overdue")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 1.0, gauge.DataPoints[0].Value, 0.001)
}

func Test_MetricsCollector_NilLabels(t *testing.T) {
	// setup
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("circulation-test")
	collector := oteladapters.NewMetricsCollector(meter)

	// act
	assert.NotPanics(t, func() {
		collector.RecordDuration("circulation_operation_duration_seconds", 50*time.Millisecond, nil)
	}, "nil labels should not panic")

	// assert
	resourceMetrics := collectMetrics(t, reader)
	histogram := findHistogramMetric(t, resourceMetrics, "circulation_operation_duration_seconds")

	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, 0, histogram.DataPoints[0].Attributes.Len(), "nil labels should produce an empty attribute set")
}

func Test_MetricsCollector_ReusesInstruments(t *testing.T) {
	// setup
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("circulation-test")
	collector := oteladapters.NewMetricsCollector(meter)

	labels := map[string]string{"operation": "pay_penalty"}

	// act
	collector.RecordDuration("circulation_operation_duration_seconds", 100*time.Millisecond, labels)
	collector.RecordDuration("circulation_operation_duration_seconds", 200*time.Millisecond, labels)

	// assert
	resourceMetrics := collectMetrics(t, reader)
	histogram := findHistogramMetric(t, resourceMetrics, "circulation_operation_duration_seconds")

	require.Len(t, histogram.DataPoints, 1, "repeated recordings should share one instrument")
	assert.Equal(t, uint64(2), histogram.DataPoints[0].Count, "both recordings should land in the same histogram")
	assert.InDelta(t, 0.3, histogram.DataPoints[0].Sum, 0.001)
}

func Test_MetricsCollector_SkipsMeasurements_WhenInstrumentCreationFails(t *testing.T) {
	// setup
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := &errorInjectingMeter{Meter: provider.Meter("circulation-test")}
	collector := oteladapters.NewMetricsCollector(meter)

	// act
	assert.NotPanics(t, func() {
		collector.RecordDuration("error_duration", 100*time.Millisecond, nil)
		collector.IncrementCounter("error_counter", nil)
		collector.RecordValue("error_gauge", 1, nil)
	}, "failed instrument creation should drop the measurement, not panic")

	// assert
	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			assert.False(t, strings.HasPrefix(m.Name, "error_"), "no metric should exist for a failed instrument")
		}
	}
}

// errorInjectingMeter fails instrument creation for names with an "error_" prefix.
type errorInjectingMeter struct {
	metric.Meter
}

func (m *errorInjectingMeter) Float64Histogram(name string, options ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	if strings.HasPrefix(name, "error_") {
		return nil, errors.New("injected histogram creation failure")
	}

	return m.Meter.Float64Histogram(name, options...)
}

func (m *errorInjectingMeter) Int64Counter(name string, options ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	if strings.HasPrefix(name, "error_") {
		return nil, errors.New("injected counter creation failure")
	}

	return m.Meter.Int64Counter(name, options...)
}

func (m *errorInjectingMeter) Float64Gauge(name string, options ...metric.Float64GaugeOption) (metric.Float64Gauge, error) {
	if strings.HasPrefix(name, "error_") {
		return nil, errors.New("injected gauge creation failure")
	}

	return m.Meter.Float64Gauge(name, options...)
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics), "collecting metrics should not fail")

	return resourceMetrics
}

func findHistogramMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Histogram[float64] {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				histogram, ok := m.Data.(metricdata.Histogram[float64])
				if !ok {
					t.Fatalf("metric %s is not a float64 histogram", name)
				}

				return histogram
			}
		}
	}

	t.Fatalf("histogram metric %s not found", name)

	return metricdata.Histogram[float64]{}
}

func findCounterMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Sum[int64] {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("metric %s is not an int64 sum", name)
				}

				return sum
			}
		}
	}

	t.Fatalf("counter metric %s not found", name)

	return metricdata.Sum[int64]{}
}

func findGaugeMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Gauge[float64] {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				gauge, ok := m.Data.(metricdata.Gauge[float64])
				if !ok {
					t.Fatalf("metric %s is not a float64 gauge", name)
				}

				return gauge
			}
		}
	}

	t.Fatalf("gauge metric %s not found", name)

	return metricdata.Gauge[float64]{}
}
