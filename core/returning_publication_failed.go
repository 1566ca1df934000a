package core

import (
	"time"
)

// ReturningPublicationFailedEventType is the event type identifier.
const ReturningPublicationFailedEventType = EventTypeString("ReturningPublicationFailed")

// ReturningPublicationFailed represents when returning a loan is refused by a
// business rule.
type ReturningPublicationFailed struct {
	LoanID     LoanIDUint
	Reason     string
	OccurredAt OccurredAtTS
}

// BuildReturningPublicationFailed creates a new ReturningPublicationFailed event.
func BuildReturningPublicationFailed(loanID LoanIDUint, reason string, occurredAt time.Time) ReturningPublicationFailed {
	event := ReturningPublicationFailed{
		LoanID:     loanID,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e ReturningPublicationFailed) EventType() EventTypeString {
	return ReturningPublicationFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReturningPublicationFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns true since this event records a refused operation.
func (e ReturningPublicationFailed) IsFailureEvent() bool {
	return true
}

// FailureReason returns the refusal reason code.
func (e ReturningPublicationFailed) FailureReason() string {
	return e.Reason
}
