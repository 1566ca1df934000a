package core

import (
	"time"

	"github.com/google/uuid"
)

// PatronRegisteredEventType is the event type identifier.
const PatronRegisteredEventType = EventTypeString("PatronRegistered")

// PatronRegistered represents when a patron is registered with the catalog.
type PatronRegistered struct {
	PatronID   PatronIDString
	Name       string
	OccurredAt OccurredAtTS
}

// BuildPatronRegistered creates a new PatronRegistered event.
func BuildPatronRegistered(patronID uuid.UUID, name string, occurredAt time.Time) PatronRegistered {
	event := PatronRegistered{
		PatronID:   patronID.String(),
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e PatronRegistered) EventType() EventTypeString {
	return PatronRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e PatronRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e PatronRegistered) IsFailureEvent() bool {
	return false
}
