package core

import (
	"time"

	"github.com/google/uuid"
)

// PublicationAddedToCirculationEventType is the event type identifier.
const PublicationAddedToCirculationEventType = EventTypeString("PublicationAddedToCirculation")

// PublicationAddedToCirculation represents when a publication is registered
// with the catalog and becomes available for lending.
type PublicationAddedToCirculation struct {
	PublicationID PublicationIDString
	Kind          string
	Title         string
	OccurredAt    OccurredAtTS
}

// BuildPublicationAddedToCirculation creates a new PublicationAddedToCirculation event.
func BuildPublicationAddedToCirculation(
	publicationID uuid.UUID,
	kind PublicationKind,
	title string,
	occurredAt time.Time,
) PublicationAddedToCirculation {

	event := PublicationAddedToCirculation{
		PublicationID: publicationID.String(),
		Kind:          string(kind),
		Title:         title,
		OccurredAt:    ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e PublicationAddedToCirculation) EventType() EventTypeString {
	return PublicationAddedToCirculationEventType
}

// HasOccurredAt returns when this event occurred.
func (e PublicationAddedToCirculation) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e PublicationAddedToCirculation) IsFailureEvent() bool {
	return false
}
