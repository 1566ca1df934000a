package journal

import (
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrEmptyEventType occurs when a record is built without an event type.
	ErrEmptyEventType = errors.New("event type must not be empty")

	// ErrInvalidPayloadJSON occurs when a record's payload is not valid JSON.
	ErrInvalidPayloadJSON = errors.New("payload json is not valid")
)

// Records is an alias type for a slice of Record
type Records = []Record

// Record is one journal entry. It is built on scalars to be completely
// agnostic of the implementation of domain events in the library, so callers
// can persist or export history without importing the domain packages.
//
// While its properties are exported, it should only be constructed with the
// BuildRecord factory method.
type Record struct {
	EventID     uuid.UUID
	EventType   string
	OccurredAt  time.Time
	PayloadJSON []byte
}

// BuildRecord is a factory method for Record.
//
// It populates the Record with the given scalar input. Returns an error when
// the event type is empty or payloadJSON is not valid JSON.
func BuildRecord(eventID uuid.UUID, eventType string, occurredAt time.Time, payloadJSON []byte) (Record, error) {
	if eventType == "" {
		return Record{}, ErrEmptyEventType
	}

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return Record{}, ErrInvalidPayloadJSON
	}

	return Record{
		EventID:     eventID,
		EventType:   eventType,
		OccurredAt:  occurredAt,
		PayloadJSON: payloadJSON,
	}, nil
}
