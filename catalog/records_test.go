package catalog_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-go/catalog"
	"github.com/opencirc/circulation-go/catalog/journal"
	"github.com/opencirc/circulation-go/core"
	. "github.com/opencirc/circulation-go/testutil/helper" //nolint:revive
)

func Test_Mapping_RecordFromDomainEvent_CarriesTypeTimeAndPayload(t *testing.T) {
	// arrange
	event := core.BuildPublicationLentToPatron(
		7, GivenUniqueID(t), GivenUniqueID(t), catalogTestStart.Add(core.DefaultLoanPeriod), catalogTestStart)

	// act
	record, err := catalog.RecordFromDomainEvent(event)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.PublicationLentToPatronEventType, record.EventType)
	assert.Equal(t, event.HasOccurredAt(), record.OccurredAt)
	assert.NotEqual(t, uuid.Nil, record.EventID)
	assert.NotEmpty(t, record.PayloadJSON)
}

func Test_Mapping_RecordFromDomainEvent_AssignsUniqueEventIDs(t *testing.T) {
	// arrange
	event := core.BuildPatronRegistered(GivenUniqueID(t), "Ada Lovelace", catalogTestStart)

	// act
	first, firstErr := catalog.RecordFromDomainEvent(event)
	second, secondErr := catalog.RecordFromDomainEvent(event)

	// assert
	assert.NoError(t, firstErr)
	assert.NoError(t, secondErr)
	assert.NotEqual(t, first.EventID, second.EventID)
}

func Test_Mapping_EventFromRecord_RestoresAFailureEvent(t *testing.T) {
	// arrange
	original := core.BuildLendingPublicationToPatronFailed(
		GivenUniqueID(t), GivenUniqueID(t), core.ReasonLoanLimitReached, catalogTestStart)

	record, err := catalog.RecordFromDomainEvent(original)
	require.NoError(t, err, "error in arranging test data")

	// act
	mapped, mapErr := catalog.EventFromRecord(record)

	// assert
	assert.NoError(t, mapErr)
	assert.Equal(t, original, mapped)
	assert.True(t, mapped.IsFailureEvent())
}

func Test_Mapping_EventFromRecord_Fails_ForUnknownEventType(t *testing.T) {
	// arrange
	record, err := journal.BuildRecord(
		GivenUniqueID(t), "SomethingUnknown", catalogTestStart, []byte(`{}`))
	require.NoError(t, err, "error in arranging test data")

	// act
	_, mapErr := catalog.EventFromRecord(record)

	// assert
	assert.ErrorIs(t, mapErr, catalog.ErrUnknownEventType)
	assert.ErrorIs(t, mapErr, catalog.ErrMappingToDomainEventFailed)
}

func Test_Mapping_EventFromRecord_Fails_ForMalformedPayload(t *testing.T) {
	// arrange: valid JSON whose field types do not match the event
	record, err := journal.BuildRecord(
		GivenUniqueID(t),
		core.ReturningPublicationFailedEventType,
		catalogTestStart,
		[]byte(`{"LoanID": "not-a-number"}`),
	)
	require.NoError(t, err, "error in arranging test data")

	// act
	_, mapErr := catalog.EventFromRecord(record)

	// assert
	assert.ErrorIs(t, mapErr, catalog.ErrMappingToDomainEventFailed)
	assert.NotErrorIs(t, mapErr, catalog.ErrUnknownEventType)
}

func Test_Mapping_EventsFromRecords_MapsABatchInOrder(t *testing.T) {
	// arrange
	patronID := GivenUniqueID(t)
	publicationID := GivenUniqueID(t)

	events := core.DomainEvents{
		core.BuildPatronRegistered(patronID, "Ada Lovelace", catalogTestStart),
		core.BuildPublicationAddedToCirculation(publicationID, core.KindBook, "Learning Domain-Driven Design", catalogTestStart),
		core.BuildPenaltyPaidByPatron(patronID, decimal.RequireFromString("2.50"), decimal.Zero, catalogTestStart),
	}

	records := make(journal.Records, 0, len(events))
	for _, event := range events {
		record, err := catalog.RecordFromDomainEvent(event)
		require.NoError(t, err, "error in arranging test data")
		records = append(records, record)
	}

	// act
	mapped, err := catalog.EventsFromRecords(records)

	// assert
	assert.NoError(t, err)
	require.Len(t, mapped, len(events))
	for i := range events {
		assert.Equal(t, events[i], mapped[i])
	}
}

func Test_Mapping_EventsFromRecords_Fails_WhenOneRecordCannotBeMapped(t *testing.T) {
	// arrange
	goodRecord, err := catalog.RecordFromDomainEvent(
		core.BuildPatronRegistered(GivenUniqueID(t), "Ada Lovelace", catalogTestStart))
	require.NoError(t, err, "error in arranging test data")

	badRecord, err := journal.BuildRecord(
		GivenUniqueID(t), "SomethingUnknown", catalogTestStart, []byte(`{}`))
	require.NoError(t, err, "error in arranging test data")

	// act
	_, mapErr := catalog.EventsFromRecords(journal.Records{goodRecord, badRecord})

	// assert
	assert.ErrorIs(t, mapErr, catalog.ErrUnknownEventType)
}
