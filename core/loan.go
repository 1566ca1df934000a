package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLoanPeriod is the loan period applied when the caller does not
// choose one.
const DefaultLoanPeriod = 7 * 24 * time.Hour

// dayLength is the unit for whole-day late computations.
const dayLength = 24 * time.Hour

// Loan binds one patron to one publication for a period. The patron and
// publication references are non-owning back-references, kept for fee lookup
// and penalty posting; ownership of all three entities stays with the
// catalog.
//
// A loan is mutated exactly once, by Return. Afterwards it is immutable and
// forms a historical record; loans are never deleted.
type Loan struct {
	id          LoanIDUint
	patron      *Patron
	publication Publication
	now         Clock
	borrowedAt  time.Time
	dueAt       time.Time
	returnedAt  *time.Time
	daysLate    int64
	penalty     decimal.Decimal
}

// BuildLoan creates an active loan. The borrow timestamp is sampled from the
// injected clock, and the due timestamp is borrow + period.
//
// BuildLoan does not mutate the patron or the publication; the catalog
// performs those mutations atomically around construction.
func BuildLoan(
	id LoanIDUint,
	patron *Patron,
	publication Publication,
	period time.Duration,
	clock Clock,
) (*Loan, error) {

	if patron == nil {
		return nil, ErrNilPatron
	}

	if publication == nil {
		return nil, ErrNilPublication
	}

	if clock == nil {
		return nil, ErrNilClock
	}

	if period <= 0 {
		return nil, ErrInvalidLoanPeriod
	}

	borrowedAt := ToOccurredAt(clock())

	return &Loan{
		id:          id,
		patron:      patron,
		publication: publication,
		now:         clock,
		borrowedAt:  borrowedAt,
		dueAt:       borrowedAt.Add(period),
		penalty:     decimal.Zero,
	}, nil
}

// ID returns the immutable loan identifier.
func (l *Loan) ID() LoanIDUint {
	return l.id
}

// Patron returns the borrowing patron.
func (l *Loan) Patron() *Patron {
	return l.patron
}

// Publication returns the borrowed publication.
func (l *Loan) Publication() Publication {
	return l.publication
}

// PatronID returns the borrowing patron's identifier.
func (l *Loan) PatronID() uuid.UUID {
	return l.patron.ID()
}

// PublicationID returns the borrowed publication's identifier.
func (l *Loan) PublicationID() uuid.UUID {
	return l.publication.ID()
}

// BorrowedAt returns the borrow timestamp.
func (l *Loan) BorrowedAt() time.Time {
	return l.borrowedAt
}

// DueAt returns the due timestamp.
func (l *Loan) DueAt() time.Time {
	return l.dueAt
}

// ReturnedAt returns the return timestamp and whether the loan was returned.
func (l *Loan) ReturnedAt() (time.Time, bool) {
	if l.returnedAt == nil {
		return time.Time{}, false
	}

	return *l.returnedAt, true
}

// IsReturned reports whether the loan was returned.
func (l *Loan) IsReturned() bool {
	return l.returnedAt != nil
}

// Penalty returns the penalty computed at return time, zero until then and
// zero for on-time returns.
func (l *Loan) Penalty() decimal.Decimal {
	return l.penalty
}

// IsOverdue reports whether the loan is past due and not yet returned.
// Overdue is derived from the injected clock on every call, never stored.
func (l *Loan) IsOverdue() bool {
	if l.returnedAt != nil {
		return false
	}

	return l.now().After(l.dueAt)
}

// DaysLate returns the whole days the loan is currently past due, floored,
// never negative. A returned loan is not overdue and reports zero; the days
// late captured at return time are available via DaysLateAtReturn.
func (l *Loan) DaysLate() int64 {
	if l.returnedAt != nil {
		return 0
	}

	return wholeDaysPast(l.dueAt, l.now())
}

// DaysLateAtReturn returns the whole days the loan was past due when it was
// returned, zero for on-time returns and for loans still active.
func (l *Loan) DaysLateAtReturn() int64 {
	if l.returnedAt == nil {
		return 0
	}

	return l.daysLate
}

// Return completes the loan.
//
// GIVEN an active loan
// WHEN it is returned after the due timestamp
// THEN the penalty is whole days late times the publication's late-fee rate,
// posted to the patron's balance and recorded on the loan
// AND the publication becomes available again
// AND the loan leaves the patron's active set.
//
// An on-time return skips the penalty but performs the same transitions.
// Return fails with ErrLoanAlreadyReturned when invoked a second time; the
// first return's timestamp and penalty stay unchanged. The penalty is
// computed exactly once, from the elapsed days between the due timestamp and
// the actual return timestamp.
func (l *Loan) Return() error {
	if l.returnedAt != nil {
		return ErrLoanAlreadyReturned
	}

	if err := l.publication.MarkReturned(); err != nil {
		return err
	}

	returnedAt := ToOccurredAt(l.now())

	if returnedAt.After(l.dueAt) {
		daysLate := wholeDaysPast(l.dueAt, returnedAt)
		penalty := l.publication.LateFeeRate().Mul(decimal.NewFromInt(daysLate))

		if err := l.patron.PostPenalty(penalty); err != nil {
			return err
		}

		l.daysLate = daysLate
		l.penalty = penalty
	}

	l.returnedAt = &returnedAt
	l.patron.DetachLoan(l.id)

	return nil
}

// wholeDaysPast returns the whole days from due until now, floored at zero.
func wholeDaysPast(due time.Time, now time.Time) int64 {
	if !now.After(due) {
		return 0
	}

	return int64(now.Sub(due) / dayLength)
}
