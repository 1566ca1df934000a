package catalog

import (
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/opencirc/circulation-go/catalog/journal"
	"github.com/opencirc/circulation-go/core"
)

// RecordFromDomainEvent converts a DomainEvent to a journal.Record with a
// freshly assigned event id.
func RecordFromDomainEvent(event core.DomainEvent) (journal.Record, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return journal.Record{}, errors.Join(ErrMappingToRecordFailed, err)
	}

	eventID, err := uuid.NewV7()
	if err != nil {
		return journal.Record{}, errors.Join(ErrMappingToRecordFailed, err)
	}

	record, err := journal.BuildRecord(eventID, event.EventType(), event.HasOccurredAt(), payloadJSON)
	if err != nil {
		return journal.Record{}, errors.Join(ErrMappingToRecordFailed, err)
	}

	return record, nil
}

// EventsFromRecords converts multiple journal records to DomainEvents.
func EventsFromRecords(records journal.Records) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0)

	for _, record := range records {
		domainEvent, err := EventFromRecord(record)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// EventFromRecord converts a journal.Record back to its corresponding DomainEvent.
func EventFromRecord(record journal.Record) (core.DomainEvent, error) {
	switch record.EventType {
	case core.PublicationAddedToCirculationEventType:
		return unmarshalPublicationAddedToCirculation(record.PayloadJSON)

	case core.PatronRegisteredEventType:
		return unmarshalPatronRegistered(record.PayloadJSON)

	case core.PublicationLentToPatronEventType:
		return unmarshalPublicationLentToPatron(record.PayloadJSON)

	case core.PublicationReturnedByPatronEventType:
		return unmarshalPublicationReturnedByPatron(record.PayloadJSON)

	case core.PenaltyPaidByPatronEventType:
		return unmarshalPenaltyPaidByPatron(record.PayloadJSON)

	case core.LendingPublicationToPatronFailedEventType:
		return unmarshalLendingPublicationToPatronFailed(record.PayloadJSON)

	case core.ReturningPublicationFailedEventType:
		return unmarshalReturningPublicationFailed(record.PayloadJSON)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrUnknownEventType)
	}
}

func unmarshalPublicationAddedToCirculation(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.PublicationAddedToCirculation)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.PublicationAddedToCirculation{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.PublicationAddedToCirculation{
		PublicationID: payload.PublicationID,
		Kind:          payload.Kind,
		Title:         payload.Title,
		OccurredAt:    payload.OccurredAt,
	}, nil
}

func unmarshalPatronRegistered(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.PatronRegistered)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.PatronRegistered{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.PatronRegistered{
		PatronID:   payload.PatronID,
		Name:       payload.Name,
		OccurredAt: payload.OccurredAt,
	}, nil
}

func unmarshalPublicationLentToPatron(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.PublicationLentToPatron)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.PublicationLentToPatron{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.PublicationLentToPatron{
		LoanID:        payload.LoanID,
		PublicationID: payload.PublicationID,
		PatronID:      payload.PatronID,
		DueAt:         payload.DueAt,
		OccurredAt:    payload.OccurredAt,
	}, nil
}

func unmarshalPublicationReturnedByPatron(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.PublicationReturnedByPatron)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.PublicationReturnedByPatron{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.PublicationReturnedByPatron{
		LoanID:        payload.LoanID,
		PublicationID: payload.PublicationID,
		PatronID:      payload.PatronID,
		DaysLate:      payload.DaysLate,
		Penalty:       payload.Penalty,
		OccurredAt:    payload.OccurredAt,
	}, nil
}

func unmarshalPenaltyPaidByPatron(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.PenaltyPaidByPatron)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.PenaltyPaidByPatron{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.PenaltyPaidByPatron{
		PatronID:         payload.PatronID,
		Amount:           payload.Amount,
		RemainingBalance: payload.RemainingBalance,
		OccurredAt:       payload.OccurredAt,
	}, nil
}

func unmarshalLendingPublicationToPatronFailed(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.LendingPublicationToPatronFailed)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.LendingPublicationToPatronFailed{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.LendingPublicationToPatronFailed{
		PublicationID: payload.PublicationID,
		PatronID:      payload.PatronID,
		Reason:        payload.Reason,
		OccurredAt:    payload.OccurredAt,
	}, nil
}

func unmarshalReturningPublicationFailed(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.ReturningPublicationFailed)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.ReturningPublicationFailed{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.ReturningPublicationFailed{
		LoanID:     payload.LoanID,
		Reason:     payload.Reason,
		OccurredAt: payload.OccurredAt,
	}, nil
}
