package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents a business event that has occurred in the
// circulation domain.
type DomainEvent interface {
	// EventType returns the string identifier for this event type.
	EventType() EventTypeString

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// IsFailureEvent returns true if this event records a refused operation.
	IsFailureEvent() bool
}

// FailureEvent is a DomainEvent that records a refused operation together
// with the refusal reason.
type FailureEvent interface {
	DomainEvent
	FailureReason() string
}

// Failure reason codes carried by failure events.
const (
	ReasonPatronNotFound         = "PatronNotFound"
	ReasonPublicationNotFound    = "PublicationNotFound"
	ReasonLoanLimitReached       = "LoanLimitReached"
	ReasonOutstandingPenalty     = "OutstandingPenalty"
	ReasonPublicationUnavailable = "PublicationUnavailable"
	ReasonLoanNotFound           = "LoanNotFound"
	ReasonLoanAlreadyReturned    = "LoanAlreadyReturned"
)
