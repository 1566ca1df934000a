package core

import (
	"time"

	"github.com/google/uuid"
)

// LendingPublicationToPatronFailedEventType is the event type identifier.
const LendingPublicationToPatronFailedEventType = EventTypeString("LendingPublicationToPatronFailed")

// LendingPublicationToPatronFailed represents when lending a publication to a
// patron is refused by a business rule.
type LendingPublicationToPatronFailed struct {
	PublicationID PublicationIDString
	PatronID      PatronIDString
	Reason        string
	OccurredAt    OccurredAtTS
}

// BuildLendingPublicationToPatronFailed creates a new LendingPublicationToPatronFailed event.
func BuildLendingPublicationToPatronFailed(
	publicationID uuid.UUID,
	patronID uuid.UUID,
	reason string,
	occurredAt time.Time,
) LendingPublicationToPatronFailed {

	event := LendingPublicationToPatronFailed{
		PublicationID: publicationID.String(),
		PatronID:      patronID.String(),
		Reason:        reason,
		OccurredAt:    ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e LendingPublicationToPatronFailed) EventType() EventTypeString {
	return LendingPublicationToPatronFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LendingPublicationToPatronFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns true since this event records a refused operation.
func (e LendingPublicationToPatronFailed) IsFailureEvent() bool {
	return true
}

// FailureReason returns the refusal reason code.
func (e LendingPublicationToPatronFailed) FailureReason() string {
	return e.Reason
}
