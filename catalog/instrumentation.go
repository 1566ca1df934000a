package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/opencirc/circulation-go/core"
)

const (
	metricOperationDuration = "circulation_operation_duration_seconds"
	metricOperationErrors   = "circulation_operation_errors_total"
	metricActiveLoans       = "circulation_loans_active"
	metricOverdueLoans      = "circulation_loans_overdue"

	spanNamePrefix = "circulation."

	operationRegisterPublication = "register_publication"
	operationRegisterPatron      = "register_patron"
	operationCreateLoan          = "create_loan"
	operationReturnLoan          = "return_loan"
	operationPayPenalty          = "pay_penalty"

	statusSuccess = "success"
	statusError   = "error"

	logMsgOperation           = "catalog operation: "
	logMsgJournalAppendFailed = "failed to append journal record"

	logAttrOperation     = "operation"
	logAttrStatus        = "status"
	logAttrError         = "error"
	logAttrErrorType     = "error_type"
	logAttrDurationMS    = "duration_ms"
	logAttrEventType     = "event_type"
	logAttrLoanID        = "loan_id"
	logAttrPatronID      = "patron_id"
	logAttrPublicationID = "publication_id"
	logAttrDueAt         = "due_at"
	logAttrDaysLate      = "days_late"
	logAttrPenalty       = "penalty"
	logAttrAmount        = "amount"
	logAttrBalance       = "balance"

	errorTypePatronNotFound         = "patron_not_found"
	errorTypePublicationNotFound    = "publication_not_found"
	errorTypeLoanNotFound           = "loan_not_found"
	errorTypePublicationUnavailable = "publication_unavailable"
	errorTypeLoanLimitReached       = "loan_limit_reached"
	errorTypeOutstandingPenalty     = "outstanding_penalty"
	errorTypeBorrowingNotAllowed    = "borrowing_not_allowed"
	errorTypeLoanAlreadyReturned    = "loan_already_returned"
	errorTypePaymentExceedsBalance  = "payment_exceeds_balance"
	errorTypeNegativeAmount         = "negative_amount"
	errorTypeAlreadyRegistered      = "already_registered"
	errorTypeInvalidLoanPeriod      = "invalid_loan_period"
	errorTypeInvalidArgument        = "invalid_argument"
	errorTypeInternalInconsistency  = "internal_inconsistency"
)

// logOperation logs operational information at info level, preferring the
// contextual logger for trace correlation when both loggers are configured.
func (c *Catalog) logOperation(ctx context.Context, action string, args ...any) {
	if c.contextualLogger != nil {
		c.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	if c.logger != nil {
		c.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (c *Catalog) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if c.contextualLogger != nil {
		c.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if c.logger != nil {
		c.logger.Error(message, allArgs...)
	}
}

// logWarn logs warnings if a logger is configured.
func (c *Catalog) logWarn(ctx context.Context, message string, args ...any) {
	if c.contextualLogger != nil {
		c.contextualLogger.WarnContext(ctx, message, args...)
		return
	}

	if c.logger != nil {
		c.logger.Warn(message, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (c *Catalog) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetrics records an operation duration with context if the collector supports it.
func (c *Catalog) recordDurationMetrics(ctx context.Context, operation, status string, duration time.Duration) {
	if c.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		logAttrOperation: operation,
		logAttrStatus:    status,
	}

	if contextualCollector, ok := c.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
	} else {
		c.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
	}
}

// recordErrorMetrics increments the refusal counter with context if the collector supports it.
func (c *Catalog) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if c.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		logAttrOperation: operation,
		logAttrStatus:    statusError,
		logAttrErrorType: errorType,
	}

	if contextualCollector, ok := c.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricOperationErrors, labels)
	} else {
		c.metricsCollector.IncrementCounter(metricOperationErrors, labels)
	}
}

// recordLoanGauges publishes the current active and overdue loan counts.
// Callers must hold c.mu.
func (c *Catalog) recordLoanGauges(ctx context.Context) {
	if c.metricsCollector == nil {
		return
	}

	active := 0
	overdue := 0

	for _, id := range c.loanOrder {
		loan := c.loans[id]
		if loan.IsReturned() {
			continue
		}

		active++
		if loan.IsOverdue() {
			overdue++
		}
	}

	labels := map[string]string{}

	if contextualCollector, ok := c.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricActiveLoans, float64(active), labels)
		contextualCollector.RecordValueContext(ctx, metricOverdueLoans, float64(overdue), labels)
	} else {
		c.metricsCollector.RecordValue(metricActiveLoans, float64(active), labels)
		c.metricsCollector.RecordValue(metricOverdueLoans, float64(overdue), labels)
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (c *Catalog) startTraceSpan(ctx context.Context, operation string, attrs map[string]string) (context.Context, SpanContext) {
	if c.tracingCollector != nil {
		return c.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (c *Catalog) finishTraceSpan(spanCtx SpanContext, status string, attrs map[string]string) {
	if c.tracingCollector != nil && spanCtx != nil {
		c.tracingCollector.FinishSpan(spanCtx, status, attrs)
	}
}

// === Operation Observer ===
// The observer encapsulates span, metric, and log lifecycle management for
// one catalog operation, so the operation methods stay focused on domain flow.

type operationObserver struct {
	catalog   *Catalog
	ctx       context.Context
	operation string
	span      SpanContext
	startedAt time.Time
}

// startOperation creates a new observer for one catalog operation and opens
// its tracing span.
func (c *Catalog) startOperation(ctx context.Context, operation string, attrs map[string]string) (*operationObserver, context.Context) {
	spanAttrs := map[string]string{
		logAttrOperation: operation,
	}
	for key, value := range attrs {
		spanAttrs[key] = value
	}

	newCtx, span := c.startTraceSpan(ctx, operation, spanAttrs)

	return &operationObserver{
		catalog:   c,
		ctx:       newCtx,
		operation: operation,
		span:      span,
		startedAt: time.Now(),
	}, newCtx
}

// succeed completes the operation: it logs the outcome, records the duration
// metric, and finishes the span with success status.
func (o *operationObserver) succeed(args ...any) {
	duration := time.Since(o.startedAt)

	logArgs := []any{
		logAttrOperation, o.operation,
		logAttrDurationMS, o.catalog.toMilliseconds(duration),
	}
	logArgs = append(logArgs, args...)
	o.catalog.logOperation(o.ctx, o.operation, logArgs...)

	o.catalog.recordDurationMetrics(o.ctx, o.operation, statusSuccess, duration)

	if o.span != nil {
		o.span.SetStatus(statusSuccess)
		o.span.AddAttribute(logAttrDurationMS, o.formatDuration(duration))
	}

	o.catalog.finishTraceSpan(o.span, statusSuccess, nil)
}

// fail completes the operation after a refusal or failure: it logs the error,
// records duration and error metrics, and finishes the span with error status.
func (o *operationObserver) fail(err error) {
	duration := time.Since(o.startedAt)
	errorType := errorTypeFrom(err)

	o.catalog.logError(o.ctx, logMsgOperation+o.operation, err,
		logAttrOperation, o.operation,
		logAttrErrorType, errorType,
		logAttrDurationMS, o.catalog.toMilliseconds(duration),
	)

	o.catalog.recordDurationMetrics(o.ctx, o.operation, statusError, duration)
	o.catalog.recordErrorMetrics(o.ctx, o.operation, errorType)

	if o.span != nil {
		o.span.SetStatus(statusError)
		o.span.AddAttribute(logAttrErrorType, errorType)
		o.span.AddAttribute(logAttrDurationMS, o.formatDuration(duration))
	}

	o.catalog.finishTraceSpan(o.span, statusError, map[string]string{logAttrErrorType: errorType})
}

// formatDuration formats duration in milliseconds for span attributes.
func (o *operationObserver) formatDuration(duration time.Duration) string {
	return fmt.Sprintf("%.2f", o.catalog.toMilliseconds(duration))
}

// formatLoanID formats a loan id for span attributes.
func formatLoanID(loanID core.LoanIDUint) string {
	return strconv.FormatUint(loanID, 10)
}

// errorTypeFrom classifies an operation error into a low-cardinality label
// for metrics and span attributes.
func errorTypeFrom(err error) string {
	switch {
	case errors.Is(err, ErrPatronNotFound):
		return errorTypePatronNotFound
	case errors.Is(err, ErrPublicationNotFound):
		return errorTypePublicationNotFound
	case errors.Is(err, ErrLoanNotFound):
		return errorTypeLoanNotFound
	case errors.Is(err, ErrPublicationUnavailable):
		return errorTypePublicationUnavailable
	case errors.Is(err, core.ErrLoanLimitReached):
		return errorTypeLoanLimitReached
	case errors.Is(err, core.ErrOutstandingPenalty):
		return errorTypeOutstandingPenalty
	case errors.Is(err, core.ErrBorrowingNotAllowed):
		return errorTypeBorrowingNotAllowed
	case errors.Is(err, core.ErrLoanAlreadyReturned):
		return errorTypeLoanAlreadyReturned
	case errors.Is(err, core.ErrPaymentExceedsBalance):
		return errorTypePaymentExceedsBalance
	case errors.Is(err, core.ErrNegativeAmount):
		return errorTypeNegativeAmount
	case errors.Is(err, ErrPublicationAlreadyRegistered), errors.Is(err, ErrPatronAlreadyRegistered):
		return errorTypeAlreadyRegistered
	case errors.Is(err, core.ErrInvalidLoanPeriod):
		return errorTypeInvalidLoanPeriod
	case errors.Is(err, core.ErrNilPatron), errors.Is(err, core.ErrNilPublication):
		return errorTypeInvalidArgument
	default:
		return errorTypeInternalInconsistency
	}
}
