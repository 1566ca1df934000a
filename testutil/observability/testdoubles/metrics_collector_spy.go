package testdoubles

import (
	"context"
	"sync"
	"time"

	"github.com/opencirc/circulation-go/catalog"
)

// MetricsCollectorSpy is a MetricsCollector implementation that captures metrics calls for testing.
// It implements the same interface as OpenTelemetry metrics collectors, making it suitable for testing
// catalog observability instrumentation that follows OpenTelemetry standards.
type MetricsCollectorSpy struct {
	durationRecords []DurationRecord
	counterRecords  []CounterRecord
	valueRecords    []ValueRecord
	mu              sync.Mutex
	recordCalls     bool
}

// DurationRecord represents a recorded duration metric call.
type DurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// CounterRecord represents a recorded counter-increment call.
type CounterRecord struct {
	Metric string
	Labels map[string]string
}

// ValueRecord represents a recorded value metric call.
type ValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy for testing OpenTelemetry-compatible metrics.
// Set recordCalls to true to capture all metrics calls for inspection in tests.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		durationRecords: make([]DurationRecord, 0),
		counterRecords:  make([]CounterRecord, 0),
		valueRecords:    make([]ValueRecord, 0),
		recordCalls:     recordCalls,
	}
}

// RecordDuration implements the MetricsCollector interface for OpenTelemetry-compatible duration metrics.
func (c *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	if !c.recordCalls {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.durationRecords = append(c.durationRecords, DurationRecord{
		Metric:   metric,
		Duration: duration,
		Labels:   copyLabels(labels),
	})
}

// IncrementCounter implements the MetricsCollector interface for OpenTelemetry-compatible counter metrics.
func (c *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	if !c.recordCalls {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.counterRecords = append(c.counterRecords, CounterRecord{
		Metric: metric,
		Labels: copyLabels(labels),
	})
}

// RecordValue implements the MetricsCollector interface for OpenTelemetry-compatible value/gauge metrics.
func (c *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	if !c.recordCalls {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.valueRecords = append(c.valueRecords, ValueRecord{
		Metric: metric,
		Value:  value,
		Labels: copyLabels(labels),
	})
}

// copyLabels copies labels to keep records isolated from external modifications.
func copyLabels(labels map[string]string) map[string]string {
	labelsCopy := make(map[string]string)
	for k, v := range labels {
		labelsCopy[k] = v
	}

	return labelsCopy
}

// GetDurationRecordCount returns the number of captured duration records.
func (c *MetricsCollectorSpy) GetDurationRecordCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.durationRecords)
}

// GetCounterRecordCount returns the number of captured counter-records.
func (c *MetricsCollectorSpy) GetCounterRecordCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.counterRecords)
}

// GetValueRecordCount returns the number of captured value records.
func (c *MetricsCollectorSpy) GetValueRecordCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.valueRecords)
}

// GetDurationRecords returns a copy of all captured duration records.
func (c *MetricsCollectorSpy) GetDurationRecords() []DurationRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]DurationRecord, len(c.durationRecords))
	copy(records, c.durationRecords)

	return records
}

// GetCounterRecords returns a copy of all captured counter-records.
func (c *MetricsCollectorSpy) GetCounterRecords() []CounterRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]CounterRecord, len(c.counterRecords))
	copy(records, c.counterRecords)

	return records
}

// GetValueRecords returns a copy of all captured value records.
func (c *MetricsCollectorSpy) GetValueRecords() []ValueRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]ValueRecord, len(c.valueRecords))
	copy(records, c.valueRecords)

	return records
}

// Reset clears all captured metric records.
func (c *MetricsCollectorSpy) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.durationRecords = c.durationRecords[:0]
	c.counterRecords = c.counterRecords[:0]
	c.valueRecords = c.valueRecords[:0]
}

// HasValueRecord checks if there's a value record with the specified metric name.
func (c *MetricsCollectorSpy) HasValueRecord(metric string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, record := range c.valueRecords {
		if record.Metric == metric {
			return true
		}
	}

	return false
}

// LastValueForMetric returns the most recent value recorded for the metric
// and whether any record exists.
func (c *MetricsCollectorSpy) LastValueForMetric(metric string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.valueRecords) - 1; i >= 0; i-- {
		if c.valueRecords[i].Metric == metric {
			return c.valueRecords[i].Value, true
		}
	}

	return 0, false
}

// MetricRecordMatcher provides a fluent interface for checking metric records.
type MetricRecordMatcher struct {
	found  bool
	labels map[string]string
}

// HasDurationRecordForMetric starts a fluent chain to check a duration record.
func (c *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, record := range c.durationRecords {
		if record.Metric == metric {
			return &MetricRecordMatcher{found: true, labels: record.Labels}
		}
	}

	return &MetricRecordMatcher{found: false}
}

// HasCounterRecordForMetric starts a fluent chain to check a counter-record.
func (c *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, record := range c.counterRecords {
		if record.Metric == metric {
			return &MetricRecordMatcher{found: true, labels: record.Labels}
		}
	}

	return &MetricRecordMatcher{found: false}
}

// WithOperation checks if the record has the specified operation label.
func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

// WithStatus checks if the record has the specified status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// WithErrorType checks if the record has the specified error_type label.
func (m *MetricRecordMatcher) WithErrorType(errorType string) *MetricRecordMatcher {
	return m.WithLabel("error_type", errorType)
}

// WithLabel checks if the record has the specified label with the given value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	if !m.found {
		return m
	}

	if labelValue, exists := m.labels[key]; !exists || labelValue != value {
		m.found = false
	}

	return m
}

// Assert returns true if all conditions in the fluent chain were met.
func (m *MetricRecordMatcher) Assert() bool {
	return m.found
}

// CountCounterRecordsForMetric counts how many counter-records exist for a specific metric.
func (c *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, record := range c.counterRecords {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// CountDurationRecordsForMetric counts how many duration records exist for a specific metric.
func (c *MetricsCollectorSpy) CountDurationRecordsForMetric(metric string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, record := range c.durationRecords {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// Compile-time check to ensure MetricsCollectorSpy implements MetricsCollector interface.
var _ catalog.MetricsCollector = (*MetricsCollectorSpy)(nil)

// ContextualMetricsCollectorSpy extends MetricsCollectorSpy with context-aware
// methods, so tests can verify that the catalog prefers the contextual path
// when the collector supports it.
type ContextualMetricsCollectorSpy struct {
	*MetricsCollectorSpy
	contextCalls int
	mu           sync.Mutex
}

// NewContextualMetricsCollectorSpy creates a new ContextualMetricsCollectorSpy instance.
func NewContextualMetricsCollectorSpy(recordCalls bool) *ContextualMetricsCollectorSpy {
	return &ContextualMetricsCollectorSpy{
		MetricsCollectorSpy: NewMetricsCollectorSpy(recordCalls),
	}
}

// RecordDurationContext implements the ContextualMetricsCollector interface for testing.
func (c *ContextualMetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	c.countContextCall()
	c.RecordDuration(metric, duration, labels)
}

// IncrementCounterContext implements the ContextualMetricsCollector interface for testing.
func (c *ContextualMetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	c.countContextCall()
	c.IncrementCounter(metric, labels)
}

// RecordValueContext implements the ContextualMetricsCollector interface for testing.
func (c *ContextualMetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	c.countContextCall()
	c.RecordValue(metric, value, labels)
}

// GetContextCallCount returns how many context-aware methods were invoked.
func (c *ContextualMetricsCollectorSpy) GetContextCallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.contextCalls
}

func (c *ContextualMetricsCollectorSpy) countContextCall() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.contextCalls++
}

// Compile-time check to ensure ContextualMetricsCollectorSpy implements ContextualMetricsCollector interface.
var _ catalog.ContextualMetricsCollector = (*ContextualMetricsCollectorSpy)(nil)
