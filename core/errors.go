package core

import (
	"errors"
)

// Publication availability transition errors.
var (
	// ErrPublicationAlreadyLoaned occurs when MarkLoaned is called on a publication that is already loaned out.
	ErrPublicationAlreadyLoaned = errors.New("publication is already loaned out")

	// ErrPublicationNotLoaned occurs when MarkReturned is called on a publication that is not loaned out.
	ErrPublicationNotLoaned = errors.New("publication is not currently loaned out")
)

// Borrowing eligibility errors. ErrBorrowingNotAllowed is always joined with
// at least one sub-cause, so callers can distinguish the failed condition
// with errors.Is.
var (
	// ErrBorrowingNotAllowed occurs when a patron may not initiate a new loan.
	ErrBorrowingNotAllowed = errors.New("patron is not allowed to borrow")

	// ErrLoanLimitReached is the sub-cause when the patron holds the maximum number of active loans.
	ErrLoanLimitReached = errors.New("patron has reached the active loan limit")

	// ErrOutstandingPenalty is the sub-cause when the patron has an unpaid penalty balance.
	ErrOutstandingPenalty = errors.New("patron has an outstanding penalty balance")
)

// Loan lifecycle and penalty accounting errors.
var (
	// ErrLoanAlreadyReturned occurs when Return is invoked on a loan that was already returned.
	ErrLoanAlreadyReturned = errors.New("loan was already returned")

	// ErrPaymentExceedsBalance occurs when a penalty payment is larger than the outstanding balance.
	ErrPaymentExceedsBalance = errors.New("payment exceeds the outstanding penalty balance")

	// ErrNegativeAmount occurs when a negative monetary amount is supplied.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// Structural validation errors for loan construction.
var (
	// ErrNilPatron occurs when a loan is built without a patron.
	ErrNilPatron = errors.New("patron must not be nil")

	// ErrNilPublication occurs when a loan is built without a publication.
	ErrNilPublication = errors.New("publication must not be nil")

	// ErrNilClock occurs when a loan is built without a clock.
	ErrNilClock = errors.New("clock must not be nil")

	// ErrInvalidLoanPeriod occurs when a loan period is zero or negative.
	ErrInvalidLoanPeriod = errors.New("loan period must be positive")
)
