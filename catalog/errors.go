package catalog

import (
	"errors"
)

// Entity resolution and registration errors.
var (
	// ErrPublicationAlreadyRegistered occurs when a publication with the same id is registered twice.
	ErrPublicationAlreadyRegistered = errors.New("publication is already registered")

	// ErrPatronAlreadyRegistered occurs when a patron with the same id is registered twice.
	ErrPatronAlreadyRegistered = errors.New("patron is already registered")

	// ErrPublicationNotFound occurs when no publication with the given id is registered.
	ErrPublicationNotFound = errors.New("publication not found")

	// ErrPatronNotFound occurs when no patron with the given id is registered.
	ErrPatronNotFound = errors.New("patron not found")

	// ErrLoanNotFound occurs when no loan with the given id exists.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrPublicationUnavailable occurs when a loan is requested for a publication that is loaned out.
	ErrPublicationUnavailable = errors.New("publication is not available for lending")
)

// Journal record conversion errors.
var (
	// ErrMappingToRecordFailed is returned when domain event serialization fails.
	ErrMappingToRecordFailed = errors.New("mapping to journal record failed")

	// ErrMappingToDomainEventFailed is returned when journal record deserialization fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrUnknownEventType is returned for unrecognized event types.
	ErrUnknownEventType = errors.New("unknown event type")
)
