package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencirc/circulation-go/catalog/journal"
	"github.com/opencirc/circulation-go/core"
)

// Catalog owns the lifetime of all publications, patrons, and loans and
// coordinates the lending operations. Every operation runs under one mutex,
// so each one is atomic with respect to all others; the mutex is the only
// serialization boundary in the library.
//
// Entities returned by lookups are live references owned by the catalog.
// Mutate them only through catalog operations, never directly, or the
// atomicity guarantees no longer hold.
type Catalog struct {
	mu sync.Mutex

	clock             core.Clock
	defaultLoanPeriod time.Duration

	publications     map[uuid.UUID]core.Publication
	publicationOrder []uuid.UUID
	patrons          map[uuid.UUID]*core.Patron
	patronOrder      []uuid.UUID
	loans            map[core.LoanIDUint]*core.Loan
	loanOrder        []core.LoanIDUint
	nextLoanID       core.LoanIDUint

	history *journal.Journal

	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// New creates an empty Catalog with optional configuration.
// Loan ids are assigned sequentially starting at 1.
func New(options ...Option) (*Catalog, error) {
	c := &Catalog{
		clock:             core.SystemClock,
		defaultLoanPeriod: core.DefaultLoanPeriod,
		publications:      make(map[uuid.UUID]core.Publication),
		patrons:           make(map[uuid.UUID]*core.Patron),
		loans:             make(map[core.LoanIDUint]*core.Loan),
		nextLoanID:        1,
		history:           journal.New(),
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RegisterPublication adds a publication to the catalog and makes it
// available for lending. It fails with ErrPublicationAlreadyRegistered when
// a publication with the same id is already registered.
func (c *Catalog) RegisterPublication(ctx context.Context, publication core.Publication) error {
	observer, ctx := c.startOperation(ctx, operationRegisterPublication, nil)

	if publication == nil {
		observer.fail(core.ErrNilPublication)
		return core.ErrNilPublication
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.publications[publication.ID()]; exists {
		observer.fail(ErrPublicationAlreadyRegistered)
		return ErrPublicationAlreadyRegistered
	}

	c.publications[publication.ID()] = publication
	c.publicationOrder = append(c.publicationOrder, publication.ID())

	c.journalEvent(ctx, core.BuildPublicationAddedToCirculation(
		publication.ID(), publication.Kind(), publication.Title(), c.clock()))

	observer.succeed(logAttrPublicationID, publication.ID().String())

	return nil
}

// RegisterPatron adds a patron to the catalog. It fails with
// ErrPatronAlreadyRegistered when a patron with the same id is already
// registered.
func (c *Catalog) RegisterPatron(ctx context.Context, patron *core.Patron) error {
	observer, ctx := c.startOperation(ctx, operationRegisterPatron, nil)

	if patron == nil {
		observer.fail(core.ErrNilPatron)
		return core.ErrNilPatron
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.patrons[patron.ID()]; exists {
		observer.fail(ErrPatronAlreadyRegistered)
		return ErrPatronAlreadyRegistered
	}

	c.patrons[patron.ID()] = patron
	c.patronOrder = append(c.patronOrder, patron.ID())

	c.journalEvent(ctx, core.BuildPatronRegistered(patron.ID(), patron.Name(), c.clock()))

	observer.succeed(logAttrPatronID, patron.ID().String())

	return nil
}

// CreateLoan lends a publication to a patron.
//
// The period is the loan duration; a zero period applies the catalog's
// default. The operation runs as one atomic unit:
//
//  1. Resolve the patron, failing with ErrPatronNotFound.
//  2. Resolve the publication, failing with ErrPublicationNotFound.
//  3. Check the patron's borrowing eligibility, failing with an error
//     matching core.ErrBorrowingNotAllowed plus the failed condition.
//  4. Check availability, failing with ErrPublicationUnavailable.
//  5. Construct the loan with the next sequential id, mark the publication
//     loaned, and attach the loan to the patron.
//
// When any check fails, no entity is mutated, the loan id is not consumed,
// and a failure event is journaled with the refusal reason.
func (c *Catalog) CreateLoan(
	ctx context.Context,
	patronID uuid.UUID,
	publicationID uuid.UUID,
	period time.Duration,
) (*core.Loan, error) {

	observer, ctx := c.startOperation(ctx, operationCreateLoan, map[string]string{
		logAttrPatronID:      patronID.String(),
		logAttrPublicationID: publicationID.String(),
	})

	if period < 0 {
		observer.fail(core.ErrInvalidLoanPeriod)
		return nil, core.ErrInvalidLoanPeriod
	}

	if period == 0 {
		period = c.defaultLoanPeriod
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	patron, found := c.patrons[patronID]
	if !found {
		c.journalLendingFailed(ctx, publicationID, patronID, core.ReasonPatronNotFound)
		observer.fail(ErrPatronNotFound)

		return nil, ErrPatronNotFound
	}

	publication, found := c.publications[publicationID]
	if !found {
		c.journalLendingFailed(ctx, publicationID, patronID, core.ReasonPublicationNotFound)
		observer.fail(ErrPublicationNotFound)

		return nil, ErrPublicationNotFound
	}

	if eligibilityErr := patron.BorrowingEligibility(); eligibilityErr != nil {
		c.journalLendingFailed(ctx, publicationID, patronID, refusalReasonFrom(eligibilityErr))
		observer.fail(eligibilityErr)

		return nil, eligibilityErr
	}

	if !publication.IsAvailable() {
		c.journalLendingFailed(ctx, publicationID, patronID, core.ReasonPublicationUnavailable)
		observer.fail(ErrPublicationUnavailable)

		return nil, ErrPublicationUnavailable
	}

	loan, buildErr := core.BuildLoan(c.nextLoanID, patron, publication, period, c.clock)
	if buildErr != nil {
		observer.fail(buildErr)
		return nil, buildErr
	}

	if markErr := publication.MarkLoaned(); markErr != nil {
		joined := errors.Join(ErrPublicationUnavailable, markErr)
		c.journalLendingFailed(ctx, publicationID, patronID, core.ReasonPublicationUnavailable)
		observer.fail(joined)

		return nil, joined
	}

	patron.AttachLoan(loan)
	c.loans[loan.ID()] = loan
	c.loanOrder = append(c.loanOrder, loan.ID())
	c.nextLoanID++

	c.journalEvent(ctx, core.BuildPublicationLentToPatron(
		loan.ID(), publicationID, patronID, loan.DueAt(), loan.BorrowedAt()))

	c.recordLoanGauges(ctx)

	observer.succeed(
		logAttrLoanID, loan.ID(),
		logAttrPatronID, patronID.String(),
		logAttrPublicationID, publicationID.String(),
		logAttrDueAt, loan.DueAt(),
	)

	return loan, nil
}

// ReturnLoan completes the loan with the given id.
//
// The loan's publication becomes available again, the loan leaves the
// patron's active set, and a late return posts the penalty to the patron's
// balance. It fails with ErrLoanNotFound when no such loan exists and with
// core.ErrLoanAlreadyReturned when the loan was already returned; both
// refusals leave every entity untouched and journal a failure event.
func (c *Catalog) ReturnLoan(ctx context.Context, loanID core.LoanIDUint) error {
	observer, ctx := c.startOperation(ctx, operationReturnLoan, map[string]string{
		logAttrLoanID: formatLoanID(loanID),
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	loan, found := c.loans[loanID]
	if !found {
		c.journalReturningFailed(ctx, loanID, core.ReasonLoanNotFound)
		observer.fail(ErrLoanNotFound)

		return ErrLoanNotFound
	}

	if loan.IsReturned() {
		c.journalReturningFailed(ctx, loanID, core.ReasonLoanAlreadyReturned)
		observer.fail(core.ErrLoanAlreadyReturned)

		return core.ErrLoanAlreadyReturned
	}

	if returnErr := loan.Return(); returnErr != nil {
		observer.fail(returnErr)
		return returnErr
	}

	returnedAt, _ := loan.ReturnedAt()

	c.journalEvent(ctx, core.BuildPublicationReturnedByPatron(
		loan.ID(), loan.PublicationID(), loan.PatronID(),
		loan.DaysLateAtReturn(), loan.Penalty(), returnedAt))

	c.recordLoanGauges(ctx)

	observer.succeed(
		logAttrLoanID, loan.ID(),
		logAttrDaysLate, loan.DaysLateAtReturn(),
		logAttrPenalty, loan.Penalty().String(),
	)

	return nil
}

// PayPenalty subtracts amount from the patron's penalty balance and returns
// the remaining balance. It fails with ErrPatronNotFound when no such patron
// is registered, with core.ErrNegativeAmount for a negative amount, and with
// core.ErrPaymentExceedsBalance when amount is larger than the balance.
func (c *Catalog) PayPenalty(ctx context.Context, patronID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	observer, ctx := c.startOperation(ctx, operationPayPenalty, map[string]string{
		logAttrPatronID: patronID.String(),
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	patron, found := c.patrons[patronID]
	if !found {
		observer.fail(ErrPatronNotFound)
		return decimal.Zero, ErrPatronNotFound
	}

	if payErr := patron.PayPenalty(amount); payErr != nil {
		observer.fail(payErr)
		return patron.PenaltyBalance(), payErr
	}

	remaining := patron.PenaltyBalance()

	c.journalEvent(ctx, core.BuildPenaltyPaidByPatron(patronID, amount, remaining, c.clock()))

	observer.succeed(
		logAttrPatronID, patronID.String(),
		logAttrAmount, amount.String(),
		logAttrBalance, remaining.String(),
	)

	return remaining, nil
}

// FindPublication returns the registered publication with the given id,
// failing with ErrPublicationNotFound.
func (c *Catalog) FindPublication(_ context.Context, publicationID uuid.UUID) (core.Publication, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	publication, found := c.publications[publicationID]
	if !found {
		return nil, ErrPublicationNotFound
	}

	return publication, nil
}

// FindPatron returns the registered patron with the given id, failing with
// ErrPatronNotFound.
func (c *Catalog) FindPatron(_ context.Context, patronID uuid.UUID) (*core.Patron, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	patron, found := c.patrons[patronID]
	if !found {
		return nil, ErrPatronNotFound
	}

	return patron, nil
}

// FindLoan returns the loan with the given id, failing with ErrLoanNotFound.
func (c *Catalog) FindLoan(_ context.Context, loanID core.LoanIDUint) (*core.Loan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	loan, found := c.loans[loanID]
	if !found {
		return nil, ErrLoanNotFound
	}

	return loan, nil
}

// Publications returns all registered publications in registration order.
func (c *Catalog) Publications(_ context.Context) []core.Publication {
	c.mu.Lock()
	defer c.mu.Unlock()

	publications := make([]core.Publication, 0, len(c.publicationOrder))
	for _, id := range c.publicationOrder {
		publications = append(publications, c.publications[id])
	}

	return publications
}

// Patrons returns all registered patrons in registration order.
func (c *Catalog) Patrons(_ context.Context) []*core.Patron {
	c.mu.Lock()
	defer c.mu.Unlock()

	patrons := make([]*core.Patron, 0, len(c.patronOrder))
	for _, id := range c.patronOrder {
		patrons = append(patrons, c.patrons[id])
	}

	return patrons
}

// ActiveLoans returns all loans that have not been returned, in creation
// order.
func (c *Catalog) ActiveLoans(_ context.Context) []*core.Loan {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.collectLoans(func(loan *core.Loan) bool {
		return !loan.IsReturned()
	})
}

// FinishedLoans returns all returned loans, in creation order.
func (c *Catalog) FinishedLoans(_ context.Context) []*core.Loan {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.collectLoans(func(loan *core.Loan) bool {
		return loan.IsReturned()
	})
}

// OverdueLoans returns all loans that are currently overdue, in creation
// order. Overdue status is evaluated fresh against the clock on every call,
// never cached, since it is time-relative.
func (c *Catalog) OverdueLoans(_ context.Context) []*core.Loan {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.collectLoans(func(loan *core.Loan) bool {
		return loan.IsOverdue()
	})
}

// LoansForPatron returns all loans of the given patron, active and returned,
// in creation order.
func (c *Catalog) LoansForPatron(_ context.Context, patronID uuid.UUID) []*core.Loan {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.collectLoans(func(loan *core.Loan) bool {
		return loan.PatronID() == patronID
	})
}

// collectLoans returns the loans matching the predicate in creation order.
// Callers must hold c.mu.
func (c *Catalog) collectLoans(matches func(*core.Loan) bool) []*core.Loan {
	loans := make([]*core.Loan, 0)
	for _, id := range c.loanOrder {
		if loan := c.loans[id]; matches(loan) {
			loans = append(loans, loan)
		}
	}

	return loans
}

// Journal returns the catalog's event history. The journal is safe for
// concurrent use and hands out copies, so callers can read it at any time.
func (c *Catalog) Journal() *journal.Journal {
	return c.history
}

// DefaultLoanPeriod returns the period applied when CreateLoan is called
// with a zero period.
func (c *Catalog) DefaultLoanPeriod() time.Duration {
	return c.defaultLoanPeriod
}

// journalEvent converts the event to a journal record and appends it.
// A conversion failure is logged and swallowed: the journal is an
// observability record, losing an entry must not fail the operation itself.
func (c *Catalog) journalEvent(ctx context.Context, event core.DomainEvent) {
	record, err := RecordFromDomainEvent(event)
	if err != nil {
		c.logWarn(ctx, logMsgJournalAppendFailed, logAttrError, err.Error(), logAttrEventType, event.EventType())
		return
	}

	c.history.Append(record)
}

// journalLendingFailed journals a refused lending operation.
func (c *Catalog) journalLendingFailed(ctx context.Context, publicationID, patronID uuid.UUID, reason string) {
	c.journalEvent(ctx, core.BuildLendingPublicationToPatronFailed(publicationID, patronID, reason, c.clock()))
}

// journalReturningFailed journals a refused return operation.
func (c *Catalog) journalReturningFailed(ctx context.Context, loanID core.LoanIDUint, reason string) {
	c.journalEvent(ctx, core.BuildReturningPublicationFailed(loanID, reason, c.clock()))
}

// refusalReasonFrom maps a borrowing eligibility error to the reason code
// journaled on the failure event. When both conditions failed, the loan
// limit is reported; the returned error still carries both causes.
func refusalReasonFrom(eligibilityErr error) string {
	if errors.Is(eligibilityErr, core.ErrLoanLimitReached) {
		return core.ReasonLoanLimitReached
	}

	return core.ReasonOutstandingPenalty
}
