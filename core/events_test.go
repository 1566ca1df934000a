package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-go/core"
)

func Test_Events_NormalizeOccurredAt_ToUTCMicroseconds(t *testing.T) {
	// arrange - a zoned timestamp with nanosecond noise
	zone := time.FixedZone("CET", 60*60)
	occurredAt := time.Date(2025, time.March, 10, 13, 30, 15, 123456789, zone)
	expected := time.Date(2025, time.March, 10, 12, 30, 15, 123456000, time.UTC)

	// act
	event := core.BuildPatronRegistered(uuid.New(), "Ada Lovelace", occurredAt)

	// assert
	assert.Equal(t, expected, event.HasOccurredAt(), "occurredAt should be normalized to UTC microseconds")
	assert.Equal(t, core.PatronRegisteredEventType, event.EventType())
	assert.False(t, event.IsFailureEvent())
}

func Test_Events_CarryScalarPayloads(t *testing.T) {
	// arrange
	publicationID := uuid.New()
	patronID := uuid.New()
	occurredAt := time.Date(2025, time.March, 17, 12, 0, 0, 0, time.UTC)

	// act
	lent := core.BuildPublicationLentToPatron(7, publicationID, patronID, occurredAt.Add(7*24*time.Hour), occurredAt)
	returned := core.BuildPublicationReturnedByPatron(7, publicationID, patronID, 3, decimal.RequireFromString("6.00"), occurredAt)
	paid := core.BuildPenaltyPaidByPatron(patronID, decimal.RequireFromString("6.00"), decimal.Zero, occurredAt)

	// assert
	assert.Equal(t, core.LoanIDUint(7), lent.LoanID)
	assert.Equal(t, publicationID.String(), lent.PublicationID)
	assert.Equal(t, patronID.String(), lent.PatronID)

	assert.Equal(t, int64(3), returned.DaysLate)
	assert.Equal(t, "6", returned.Penalty, "penalty string should carry the trimmed decimal form")

	assert.Equal(t, "6", paid.Amount)
	assert.Equal(t, "0", paid.RemainingBalance)
}

func Test_FailureEvents_ExposeTheirReason(t *testing.T) {
	// arrange
	occurredAt := time.Date(2025, time.March, 17, 12, 0, 0, 0, time.UTC)

	lendingFailed := core.BuildLendingPublicationToPatronFailed(
		uuid.New(), uuid.New(), core.ReasonPublicationUnavailable, occurredAt)
	returningFailed := core.BuildReturningPublicationFailed(9, core.ReasonLoanAlreadyReturned, occurredAt)

	// assert - both satisfy the FailureEvent contract
	failures := []core.FailureEvent{lendingFailed, returningFailed}
	reasons := []string{core.ReasonPublicationUnavailable, core.ReasonLoanAlreadyReturned}

	for i, failure := range failures {
		require.True(t, failure.IsFailureEvent(), "failure events must identify themselves")
		assert.Equal(t, reasons[i], failure.FailureReason())
	}
}
