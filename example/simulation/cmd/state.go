package main

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-go/core"
)

// maxReturnedHistory bounds the returned-loan history kept for double-return
// error scenarios.
const maxReturnedHistory = 100

// loanEntry holds the bookkeeping the simulation needs per outstanding loan.
type loanEntry struct {
	patronID      uuid.UUID
	publicationID uuid.UUID
	dueAt         time.Time
}

// SimulationState mirrors the catalog's lending state for realistic scenario
// generation. All updates are protected by mutex for concurrent access from
// the worker pool.
type SimulationState struct {
	mu sync.RWMutex

	// patrons and publications registered with the catalog
	patrons      []uuid.UUID
	publications []uuid.UUID

	// activeLoans tracks outstanding loans (LoanID -> bookkeeping)
	activeLoans map[core.LoanIDUint]loanEntry

	// loanedPublications tracks which publication is held by which loan
	loanedPublications map[uuid.UUID]core.LoanIDUint

	// pendingReturns guards loans currently being returned by a worker
	pendingReturns map[core.LoanIDUint]bool

	// indebtedPatrons tracks patrons carrying an outstanding penalty balance
	indebtedPatrons map[uuid.UUID]bool

	// recentlyReturned keeps a bounded history for double-return scenarios
	recentlyReturned []core.LoanIDUint

	completedLoans int
	latePenalties  int
	paidPenalties  int
}

// NewSimulationState creates a new empty simulation state.
func NewSimulationState() *SimulationState {
	return &SimulationState{
		activeLoans:        make(map[core.LoanIDUint]loanEntry),
		loanedPublications: make(map[uuid.UUID]core.LoanIDUint),
		pendingReturns:     make(map[core.LoanIDUint]bool),
		indebtedPatrons:    make(map[uuid.UUID]bool),
	}
}

// AddPatron records a patron as registered with the catalog.
func (s *SimulationState) AddPatron(patronID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patrons = append(s.patrons, patronID)
}

// AddPublication records a publication as registered with the catalog.
func (s *SimulationState) AddPublication(publicationID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publications = append(s.publications, publicationID)
}

// RecordLoan records a successfully created loan.
func (s *SimulationState) RecordLoan(loanID core.LoanIDUint, patronID, publicationID uuid.UUID, dueAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeLoans[loanID] = loanEntry{
		patronID:      patronID,
		publicationID: publicationID,
		dueAt:         dueAt,
	}
	s.loanedPublications[publicationID] = loanID
}

// ReserveReturn marks a loan as being returned so that only one worker
// processes it. Returns false if the loan is not outstanding or another
// worker already claimed it.
func (s *SimulationState) ReserveReturn(loanID core.LoanIDUint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, outstanding := s.activeLoans[loanID]; !outstanding {
		return false
	}

	if s.pendingReturns[loanID] {
		return false
	}

	s.pendingReturns[loanID] = true

	return true
}

// ReleaseReturn removes the return reservation for a loan. Safe to call for
// loans that were never reserved.
func (s *SimulationState) ReleaseReturn(loanID core.LoanIDUint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pendingReturns, loanID)
}

// CompleteReturn removes a returned loan from the outstanding set and keeps
// its id in the bounded history. A late return counts toward the posted
// penalties.
func (s *SimulationState) CompleteReturn(loanID core.LoanIDUint, wasLate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, outstanding := s.activeLoans[loanID]
	if !outstanding {
		return
	}

	delete(s.activeLoans, loanID)
	delete(s.loanedPublications, entry.publicationID)
	s.completedLoans++

	if wasLate {
		s.latePenalties++
	}

	s.recentlyReturned = append(s.recentlyReturned, loanID)
	if len(s.recentlyReturned) > maxReturnedHistory {
		s.recentlyReturned = s.recentlyReturned[len(s.recentlyReturned)-maxReturnedHistory:]
	}
}

// MarkIndebted records a patron as carrying an outstanding penalty balance.
func (s *SimulationState) MarkIndebted(patronID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.indebtedPatrons[patronID] = true
}

// ClearDebt removes a patron from the indebted set after a settling payment.
// Safe to call twice when two workers race for the same patron.
func (s *SimulationState) ClearDebt(patronID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indebtedPatrons[patronID] {
		delete(s.indebtedPatrons, patronID)
		s.paidPenalties++
	}
}

// PatronIDs returns a snapshot of all registered patron ids.
func (s *SimulationState) PatronIDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, len(s.patrons))
	copy(ids, s.patrons)

	return ids
}

// AvailablePublicationIDs returns publication ids that are not currently on
// loan.
func (s *SimulationState) AvailablePublicationIDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var available []uuid.UUID
	for _, publicationID := range s.publications {
		if _, loaned := s.loanedPublications[publicationID]; !loaned {
			available = append(available, publicationID)
		}
	}

	return available
}

// LoanPartition splits the outstanding, unreserved loans into on-time and
// overdue sets relative to the given instant.
func (s *SimulationState) LoanPartition(now time.Time) (onTime, overdue []core.LoanIDUint) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for loanID, entry := range s.activeLoans {
		if s.pendingReturns[loanID] {
			continue
		}

		if now.After(entry.dueAt) {
			overdue = append(overdue, loanID)
		} else {
			onTime = append(onTime, loanID)
		}
	}

	return onTime, overdue
}

// IndebtedPatronIDs returns a snapshot of patrons with an outstanding penalty.
func (s *SimulationState) IndebtedPatronIDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.indebtedPatrons))
	for patronID := range s.indebtedPatrons {
		ids = append(ids, patronID)
	}

	return ids
}

// ReturnedLoanIDs returns the bounded history of already-returned loan ids.
func (s *SimulationState) ReturnedLoanIDs() []core.LoanIDUint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]core.LoanIDUint, len(s.recentlyReturned))
	copy(ids, s.recentlyReturned)

	return ids
}

// GetStats returns current state statistics (read-only).
func (s *SimulationState) GetStats() (patrons, publications, activeLoans int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.patrons), len(s.publications), len(s.activeLoans)
}

// GetDetailedStats returns detailed state statistics including completed
// loans and penalty bookkeeping.
func (s *SimulationState) GetDetailedStats() (activeLoans, completedLoans, latePenalties, paidPenalties, indebted int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.activeLoans), s.completedLoans, s.latePenalties, s.paidPenalties, len(s.indebtedPatrons)
}
