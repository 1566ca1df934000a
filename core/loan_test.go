package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-go/core"
	"github.com/opencirc/circulation-go/testutil/clock"
)

var loanTestStart = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func Test_BuildLoan_CapturesBorrowAndDueTimestamps(t *testing.T) {
	// arrange
	patron := core.BuildPatron(uuid.New(), "Ada Lovelace", "ada@example.org")
	book := core.BuildBook(uuid.New(), "Gödel, Escher, Bach", 1979, "Douglas Hofstadter", "978-0465026562")
	clk := clock.NewAdjustableAt(loanTestStart)

	// act
	loan, err := core.BuildLoan(1, patron, book, core.DefaultLoanPeriod, clk.Now)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.LoanIDUint(1), loan.ID())
	assert.Equal(t, loanTestStart, loan.BorrowedAt(), "borrow timestamp should be sampled from the clock")
	assert.Equal(t, loanTestStart.Add(7*24*time.Hour), loan.DueAt(), "due timestamp should be borrow + period")
	assert.False(t, loan.IsReturned(), "a fresh loan is active")
	assert.True(t, loan.Penalty().IsZero(), "a fresh loan carries no penalty")
	assert.Equal(t, patron.ID(), loan.PatronID())
	assert.Equal(t, book.ID(), loan.PublicationID())
}

func Test_BuildLoan_ValidatesItsCollaborators(t *testing.T) {
	patron := core.BuildPatron(uuid.New(), "Ada Lovelace", "ada@example.org")
	book := core.BuildBook(uuid.New(), "Gödel, Escher, Bach", 1979, "Douglas Hofstadter", "978-0465026562")
	clk := clock.NewAdjustableAt(loanTestStart)

	testCases := []struct {
		name        string
		patron      *core.Patron
		publication core.Publication
		period      time.Duration
		clock       core.Clock
		expectedErr error
	}{
		{
			name:        "nil patron",
			patron:      nil,
			publication: book,
			period:      core.DefaultLoanPeriod,
			clock:       clk.Now,
			expectedErr: core.ErrNilPatron,
		},
		{
			name:        "nil publication",
			patron:      patron,
			publication: nil,
			period:      core.DefaultLoanPeriod,
			clock:       clk.Now,
			expectedErr: core.ErrNilPublication,
		},
		{
			name:        "nil clock",
			patron:      patron,
			publication: book,
			period:      core.DefaultLoanPeriod,
			clock:       nil,
			expectedErr: core.ErrNilClock,
		},
		{
			name:        "zero period",
			patron:      patron,
			publication: book,
			period:      0,
			clock:       clk.Now,
			expectedErr: core.ErrInvalidLoanPeriod,
		},
		{
			name:        "negative period",
			patron:      patron,
			publication: book,
			period:      -time.Hour,
			clock:       clk.Now,
			expectedErr: core.ErrInvalidLoanPeriod,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			loan, err := core.BuildLoan(1, tc.patron, tc.publication, tc.period, tc.clock)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Nil(t, loan)
		})
	}
}

func Test_Loan_IsOverdue_TracksTheClock(t *testing.T) {
	// arrange
	clk := clock.NewAdjustableAt(loanTestStart)
	patron := core.BuildPatron(uuid.New(), "Grace Hopper", "grace@example.org")
	book := core.BuildBook(uuid.New(), "The Mythical Man-Month", 1975, "Fred Brooks", "978-0201835953")
	loan := givenLentLoan(t, 1, patron, book, core.DefaultLoanPeriod, clk)

	// assert - not overdue while the period runs
	assert.False(t, loan.IsOverdue(), "loan should not be overdue right after borrowing")
	assert.Zero(t, loan.DaysLate())

	// act - advance to the due instant exactly
	clk.AdvanceDays(7)

	// assert - due is not yet overdue
	assert.False(t, loan.IsOverdue(), "loan is not overdue at the due instant")
	assert.Zero(t, loan.DaysLate())

	// act - one second past due
	clk.Advance(time.Second)

	// assert
	assert.True(t, loan.IsOverdue(), "loan should be overdue past the due instant")
	assert.Zero(t, loan.DaysLate(), "less than a whole day late still counts as zero days")

	// act - two days and five hours past due
	clk.Advance(2*24*time.Hour + 5*time.Hour - time.Second)

	// assert - whole days are floored
	assert.True(t, loan.IsOverdue())
	assert.Equal(t, int64(2), loan.DaysLate(), "days late should be floored to whole days")
}

func Test_Loan_Return_OnTime_LeavesNoPenalty(t *testing.T) {
	// arrange
	clk := clock.NewAdjustableAt(loanTestStart)
	patron := core.BuildPatron(uuid.New(), "Alan Turing", "alan@example.org")
	book := core.BuildBook(uuid.New(), "Computing Machinery and Intelligence", 1950, "Alan Turing", "978-0000000001")
	loan := givenLentLoan(t, 1, patron, book, core.DefaultLoanPeriod, clk)

	// act - return exactly on the due date
	clk.AdvanceDays(7)
	err := loan.Return()

	// assert
	require.NoError(t, err)
	assert.True(t, loan.Penalty().IsZero(), "an on-time return carries no penalty")
	assert.True(t, patron.PenaltyBalance().IsZero(), "nothing should be posted to the patron")
	assert.True(t, book.IsAvailable(), "the publication should be available again")
	assert.Zero(t, patron.ActiveLoanCount(), "the loan should leave the patron's active set")

	returnedAt, returned := loan.ReturnedAt()
	require.True(t, returned)
	assert.Equal(t, loanTestStart.Add(7*24*time.Hour), returnedAt, "return timestamp should be sampled from the clock")
	assert.False(t, loan.IsOverdue(), "a returned loan is never overdue")
}

func Test_Loan_Return_Late_PostsPenaltyPerVariant(t *testing.T) {
	testCases := []struct {
		name            string
		publication     core.Publication
		daysLate        int
		expectedPenalty string
	}{
		{
			name:            "book ten days late costs 10.00",
			publication:     core.BuildBook(uuid.New(), "Dune", 1965, "Frank Herbert", "978-0441172719"),
			daysLate:        10,
			expectedPenalty: "10.00",
		},
		{
			name:            "magazine four days late costs 2.00",
			publication:     core.BuildMagazine(uuid.New(), "Le Monde diplomatique", 2024, 840),
			daysLate:        4,
			expectedPenalty: "2.00",
		},
		{
			name:            "dvd three days late costs 6.00",
			publication:     core.BuildDVD(uuid.New(), "Seven Samurai", 1954, 207),
			daysLate:        3,
			expectedPenalty: "6.00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			clk := clock.NewAdjustableAt(loanTestStart)
			patron := core.BuildPatron(uuid.New(), "Barbara Liskov", "barbara@example.org")
			loan := givenLentLoan(t, 1, patron, tc.publication, core.DefaultLoanPeriod, clk)

			// act - overshoot the due date by whole days
			clk.AdvanceDays(7 + tc.daysLate)
			err := loan.Return()

			// assert
			require.NoError(t, err)

			expected := decimal.RequireFromString(tc.expectedPenalty)
			assert.True(t, loan.Penalty().Equal(expected),
				"penalty should be %s, got %s", tc.expectedPenalty, loan.Penalty())
			assert.True(t, patron.PenaltyBalance().Equal(expected),
				"the penalty should be posted to the patron's balance")
			assert.Equal(t, int64(tc.daysLate), loan.DaysLateAtReturn())
			assert.True(t, tc.publication.IsAvailable(), "the publication should be available again")
			assert.Zero(t, patron.ActiveLoanCount(), "the loan should leave the patron's active set")
		})
	}
}

func Test_Loan_Return_LessThanOneDayLate_CountsAsZeroDays(t *testing.T) {
	// arrange
	clk := clock.NewAdjustableAt(loanTestStart)
	patron := core.BuildPatron(uuid.New(), "Donald Knuth", "donald@example.org")
	dvd := core.BuildDVD(uuid.New(), "Rashomon", 1950, 88)
	loan := givenLentLoan(t, 1, patron, dvd, core.DefaultLoanPeriod, clk)

	// act - twelve hours past due
	clk.AdvanceDays(7)
	clk.Advance(12 * time.Hour)
	err := loan.Return()

	// assert
	require.NoError(t, err)
	assert.True(t, loan.Penalty().IsZero(), "a partial day late floors to zero days and zero penalty")
	assert.True(t, patron.PenaltyBalance().IsZero())
}

func Test_Loan_Return_Fails_WhenAlreadyReturned(t *testing.T) {
	// arrange
	clk := clock.NewAdjustableAt(loanTestStart)
	patron := core.BuildPatron(uuid.New(), "Margaret Hamilton", "margaret@example.org")
	book := core.BuildBook(uuid.New(), "Apollo Guidance Computer", 2010, "Frank O'Brien", "978-1441908766")
	loan := givenLentLoan(t, 1, patron, book, core.DefaultLoanPeriod, clk)

	clk.AdvanceDays(9)
	require.NoError(t, loan.Return(), "error in arranging test data")

	firstReturnedAt, _ := loan.ReturnedAt()
	firstPenalty := loan.Penalty()

	// act - a second return attempt, even later
	clk.AdvanceDays(3)
	err := loan.Return()

	// assert
	assert.ErrorIs(t, err, core.ErrLoanAlreadyReturned, "a loan can be returned at most once")

	returnedAt, _ := loan.ReturnedAt()
	assert.Equal(t, firstReturnedAt, returnedAt, "the first return timestamp must stay unchanged")
	assert.True(t, loan.Penalty().Equal(firstPenalty), "the first return's penalty must stay unchanged")
	assert.True(t, patron.PenaltyBalance().Equal(firstPenalty), "no penalty may be posted twice")
}

// Test helper functions with t.Helper() for better error reporting

// givenLentLoan builds an active loan and applies the surrounding mutations
// the catalog would perform: the publication is marked loaned and the loan is
// attached to the patron.
func givenLentLoan(
	t *testing.T,
	id core.LoanIDUint,
	patron *core.Patron,
	publication core.Publication,
	period time.Duration,
	clk *clock.Adjustable,
) *core.Loan {
	t.Helper()

	loan, err := core.BuildLoan(id, patron, publication, period, clk.Now)
	require.NoError(t, err, "error in arranging test data")

	require.NoError(t, publication.MarkLoaned(), "error in arranging test data")
	patron.AttachLoan(loan)

	return loan
}
