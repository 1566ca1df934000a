package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PublicationReturnedByPatronEventType is the event type identifier.
const PublicationReturnedByPatronEventType = EventTypeString("PublicationReturnedByPatron")

// PublicationReturnedByPatron represents when a patron returns a publication,
// including the late days and penalty computed at return time.
type PublicationReturnedByPatron struct {
	LoanID        LoanIDUint
	PublicationID PublicationIDString
	PatronID      PatronIDString
	DaysLate      int64
	Penalty       string
	OccurredAt    OccurredAtTS
}

// BuildPublicationReturnedByPatron creates a new PublicationReturnedByPatron event.
func BuildPublicationReturnedByPatron(
	loanID LoanIDUint,
	publicationID uuid.UUID,
	patronID uuid.UUID,
	daysLate int64,
	penalty decimal.Decimal,
	occurredAt time.Time,
) PublicationReturnedByPatron {

	event := PublicationReturnedByPatron{
		LoanID:        loanID,
		PublicationID: publicationID.String(),
		PatronID:      patronID.String(),
		DaysLate:      daysLate,
		Penalty:       penalty.String(),
		OccurredAt:    ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e PublicationReturnedByPatron) EventType() EventTypeString {
	return PublicationReturnedByPatronEventType
}

// HasOccurredAt returns when this event occurred.
func (e PublicationReturnedByPatron) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e PublicationReturnedByPatron) IsFailureEvent() bool {
	return false
}
