package catalog

import (
	"time"

	"github.com/opencirc/circulation-go/core"
)

// Option defines a functional option for configuring a Catalog.
type Option func(*Catalog) error

// WithClock sets the clock for the Catalog.
// The clock is the single time source for the whole catalog: it stamps
// borrow, due, and return timestamps, drives overdue checks, and dates
// journal records. Defaults to core.SystemClock.
func WithClock(clock core.Clock) Option {
	return func(c *Catalog) error {
		if clock == nil {
			return core.ErrNilClock
		}

		c.clock = clock

		return nil
	}
}

// WithDefaultLoanPeriod sets the loan period applied when CreateLoan is
// called with a zero period. Defaults to core.DefaultLoanPeriod.
func WithDefaultLoanPeriod(period time.Duration) Option {
	return func(c *Catalog) error {
		if period <= 0 {
			return core.ErrInvalidLoanPeriod
		}

		c.defaultLoanPeriod = period

		return nil
	}
}

// WithLogger sets the logger for the Catalog.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Info level: Operation outcomes, loan counts, durations (production-safe)
// Warn level: Non-critical issues like journal append failures
// Error level: Refused operations and critical failures.
func WithLogger(logger Logger) Option {
	return func(c *Catalog) error {
		c.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Catalog.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(c *Catalog) error {
		c.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Catalog.
// The metrics collector will receive performance and operational metrics including
// operation durations, refusal counters, and active/overdue loan gauges.
func WithMetrics(collector MetricsCollector) Option {
	return func(c *Catalog) error {
		c.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Catalog.
// The tracing collector will receive distributed tracing information including
// span creation for lending operations, context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(c *Catalog) error {
		c.tracingCollector = collector
		return nil
	}
}
