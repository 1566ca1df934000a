package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-go/catalog"
	"github.com/opencirc/circulation-go/core"
	"github.com/opencirc/circulation-go/testutil/clock"
	. "github.com/opencirc/circulation-go/testutil/helper" //nolint:revive
)

func Test_Factory_New_UsesSensibleDefaults(t *testing.T) {
	// act
	lib, err := catalog.New()

	// assert
	assert.NoError(t, err)
	require.NotNil(t, lib)
	assert.Equal(t, core.DefaultLoanPeriod, lib.DefaultLoanPeriod())
	assert.Equal(t, 0, lib.Journal().Len())
	assert.Empty(t, lib.Publications(context.Background()))
	assert.Empty(t, lib.Patrons(context.Background()))
}

func Test_Factory_New_ShouldFail_WithInvalidOptions(t *testing.T) {
	testCases := []struct {
		name        string
		option      catalog.Option
		expectedErr error
	}{
		{
			name:        "WithClock with nil",
			option:      catalog.WithClock(nil),
			expectedErr: core.ErrNilClock,
		},
		{
			name:        "WithDefaultLoanPeriod with zero",
			option:      catalog.WithDefaultLoanPeriod(0),
			expectedErr: core.ErrInvalidLoanPeriod,
		},
		{
			name:        "WithDefaultLoanPeriod with negative duration",
			option:      catalog.WithDefaultLoanPeriod(-time.Hour),
			expectedErr: core.ErrInvalidLoanPeriod,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			lib, err := catalog.New(tc.option)

			// assert
			assert.ErrorContains(t, err, tc.expectedErr.Error())
			assert.Nil(t, lib)
		})
	}
}

func Test_Factory_New_AppliesACustomDefaultLoanPeriod(t *testing.T) {
	// setup
	ctx := context.Background()
	customPeriod := 3 * 24 * time.Hour
	adjustable := clock.NewAdjustableAt(catalogTestStart)

	lib, err := catalog.New(
		catalog.WithClock(adjustable.Now),
		catalog.WithDefaultLoanPeriod(customPeriod),
	)
	require.NoError(t, err, "error in arranging test data")

	// arrange
	book := GivenRegisteredBook(t, ctx, lib)
	patron := GivenRegisteredPatron(t, ctx, lib)

	// act
	loan, loanErr := lib.CreateLoan(ctx, patron.ID(), book.ID(), 0)

	// assert
	assert.NoError(t, loanErr)
	assert.Equal(t, customPeriod, lib.DefaultLoanPeriod())
	assert.Equal(t, catalogTestStart.Add(customPeriod), loan.DueAt())
}

func Test_Factory_New_RunsOnTheSystemClock_WhenNoClockIsGiven(t *testing.T) {
	// setup
	ctx := context.Background()
	lib, err := catalog.New()
	require.NoError(t, err, "error in arranging test data")

	book := GivenRegisteredBook(t, ctx, lib)
	patron := GivenRegisteredPatron(t, ctx, lib)

	// act
	before := time.Now().UTC()
	loan, loanErr := lib.CreateLoan(ctx, patron.ID(), book.ID(), 0)
	after := time.Now().UTC()

	// assert
	assert.NoError(t, loanErr)
	assert.False(t, loan.BorrowedAt().Before(before.Truncate(time.Microsecond)),
		"borrowedAt should not precede the call")
	assert.False(t, loan.BorrowedAt().After(after),
		"borrowedAt should not follow the call")
}
