package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PenaltyPaidByPatronEventType is the event type identifier.
const PenaltyPaidByPatronEventType = EventTypeString("PenaltyPaidByPatron")

// PenaltyPaidByPatron represents when a patron pays down their penalty balance.
type PenaltyPaidByPatron struct {
	PatronID         PatronIDString
	Amount           string
	RemainingBalance string
	OccurredAt       OccurredAtTS
}

// BuildPenaltyPaidByPatron creates a new PenaltyPaidByPatron event.
func BuildPenaltyPaidByPatron(
	patronID uuid.UUID,
	amount decimal.Decimal,
	remainingBalance decimal.Decimal,
	occurredAt time.Time,
) PenaltyPaidByPatron {

	event := PenaltyPaidByPatron{
		PatronID:         patronID.String(),
		Amount:           amount.String(),
		RemainingBalance: remainingBalance.String(),
		OccurredAt:       ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e PenaltyPaidByPatron) EventType() EventTypeString {
	return PenaltyPaidByPatronEventType
}

// HasOccurredAt returns when this event occurred.
func (e PenaltyPaidByPatron) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e PenaltyPaidByPatron) IsFailureEvent() bool {
	return false
}
