package core

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxActiveLoans is the cap on simultaneously active loans per patron.
const MaxActiveLoans = 3

// Patron is a registered borrower. It holds the ordered set of its active
// loans and an accumulated penalty balance, and gates its own borrowing
// eligibility.
type Patron struct {
	id          uuid.UUID
	name        string
	contact     string
	activeLoans []*Loan
	penalty     decimal.Decimal
}

// BuildPatron creates a patron with no active loans and a zero penalty balance.
func BuildPatron(id uuid.UUID, name string, contact string) *Patron {
	return &Patron{
		id:      id,
		name:    name,
		contact: contact,
		penalty: decimal.Zero,
	}
}

// ID returns the immutable patron identifier.
func (p *Patron) ID() uuid.UUID {
	return p.id
}

// Name returns the patron's name.
func (p *Patron) Name() string {
	return p.name
}

// Contact returns the patron's contact string.
func (p *Patron) Contact() string {
	return p.contact
}

// PenaltyBalance returns the accumulated penalty balance.
func (p *Patron) PenaltyBalance() decimal.Decimal {
	return p.penalty
}

// ActiveLoanCount returns the number of currently active loans.
func (p *Patron) ActiveLoanCount() int {
	return len(p.activeLoans)
}

// ActiveLoans returns a copy of the active loan set in attachment order.
func (p *Patron) ActiveLoans() []*Loan {
	return append([]*Loan(nil), p.activeLoans...)
}

// BorrowingEligibility reports whether the patron may initiate a new loan.
//
// It returns nil when the patron holds fewer than MaxActiveLoans active
// loans and has a zero penalty balance. Otherwise the returned error matches
// ErrBorrowingNotAllowed and additionally matches ErrLoanLimitReached and/or
// ErrOutstandingPenalty, so callers can tell the failed condition apart.
func (p *Patron) BorrowingEligibility() error {
	causes := []error{ErrBorrowingNotAllowed}

	if len(p.activeLoans) >= MaxActiveLoans {
		causes = append(causes, ErrLoanLimitReached)
	}

	if p.penalty.IsPositive() {
		causes = append(causes, ErrOutstandingPenalty)
	}

	if len(causes) == 1 {
		return nil
	}

	return errors.Join(causes...)
}

// CanBorrow reports whether the patron may initiate a new loan.
func (p *Patron) CanBorrow() bool {
	return p.BorrowingEligibility() == nil
}

// AttachLoan adds a loan to the active set. Eligibility is checked by the
// catalog before any loan is created; AttachLoan itself does not gate.
func (p *Patron) AttachLoan(loan *Loan) {
	p.activeLoans = append(p.activeLoans, loan)
}

// DetachLoan removes the loan with the given id from the active set.
// Detaching a loan that is not attached is a no-op.
func (p *Patron) DetachLoan(loanID LoanIDUint) {
	for i, loan := range p.activeLoans {
		if loan.ID() == loanID {
			p.activeLoans = append(p.activeLoans[:i], p.activeLoans[i+1:]...)
			return
		}
	}
}

// PostPenalty adds amount to the penalty balance.
// It fails with ErrNegativeAmount when amount is negative.
func (p *Patron) PostPenalty(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	p.penalty = p.penalty.Add(amount)

	return nil
}

// PayPenalty subtracts amount from the penalty balance.
// It fails with ErrNegativeAmount when amount is negative and with
// ErrPaymentExceedsBalance when amount is larger than the balance.
func (p *Patron) PayPenalty(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	if amount.GreaterThan(p.penalty) {
		return ErrPaymentExceedsBalance
	}

	p.penalty = p.penalty.Sub(amount)

	return nil
}
