package core

import (
	"time"

	"github.com/google/uuid"
)

// PublicationLentToPatronEventType is the event type identifier.
const PublicationLentToPatronEventType = EventTypeString("PublicationLentToPatron")

// PublicationLentToPatron represents when a publication is lent to a patron.
type PublicationLentToPatron struct {
	LoanID        LoanIDUint
	PublicationID PublicationIDString
	PatronID      PatronIDString
	DueAt         time.Time
	OccurredAt    OccurredAtTS
}

// BuildPublicationLentToPatron creates a new PublicationLentToPatron event.
func BuildPublicationLentToPatron(
	loanID LoanIDUint,
	publicationID uuid.UUID,
	patronID uuid.UUID,
	dueAt time.Time,
	occurredAt time.Time,
) PublicationLentToPatron {

	event := PublicationLentToPatron{
		LoanID:        loanID,
		PublicationID: publicationID.String(),
		PatronID:      patronID.String(),
		DueAt:         ToOccurredAt(dueAt),
		OccurredAt:    ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e PublicationLentToPatron) EventType() EventTypeString {
	return PublicationLentToPatronEventType
}

// HasOccurredAt returns when this event occurred.
func (e PublicationLentToPatron) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e PublicationLentToPatron) IsFailureEvent() bool {
	return false
}
