package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-go/catalog"
	"github.com/opencirc/circulation-go/core"
	"github.com/opencirc/circulation-go/testutil/clock"
)

// clockTickInterval is how often the simulated clock advances.
const clockTickInterval = 100 * time.Millisecond

// requestTimeout bounds a single catalog operation.
const requestTimeout = 1 * time.Second

// Request represents a single simulation request to be processed by workers.
type Request struct {
	ctx      context.Context
	scenario Scenario
}

// scenarioStats tracks per-scenario outcome counters.
type scenarioStats struct {
	attempted int64
	succeeded int64
	refused   int64
	failed    int64
}

// scenarioOrder fixes the reporting order for per-scenario stats.
var scenarioOrder = []ScenarioType{
	ScenarioLend,
	ScenarioReturnOnTime,
	ScenarioReturnLate,
	ScenarioPayPenalty,
	ScenarioBrowseOverdue,
}

// CirculationSimulation drives realistic lending traffic against an
// in-process catalog using a worker pool with state-aware scenario
// generation and an accelerated simulated clock.
type CirculationSimulation struct {
	library  *catalog.Catalog
	clock    *clock.Adjustable
	config   Config
	state    *SimulationState
	selector *ScenarioSelector

	// Worker pool architecture
	requestQueue chan *Request
	workerCount  int
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup

	// Metrics and state
	requestCount      int64
	refusalCount      int64
	errorCount        int64
	backpressureCount int64
	perScenario       map[ScenarioType]*scenarioStats
	startTime         time.Time
	mu                sync.RWMutex
}

// NewCirculationSimulation creates a new simulation around the given catalog
// and adjustable clock.
func NewCirculationSimulation(library *catalog.Catalog, simClock *clock.Adjustable, config Config) *CirculationSimulation {
	queueSize := config.Workers * 2 // Bounded queue to prevent memory leaks

	state := NewSimulationState()
	selector := NewScenarioSelector(state, config, simClock.Now)

	perScenario := make(map[ScenarioType]*scenarioStats, len(scenarioOrder))
	for _, scenarioType := range scenarioOrder {
		perScenario[scenarioType] = &scenarioStats{}
	}

	return &CirculationSimulation{
		library:      library,
		clock:        simClock,
		config:       config,
		state:        state,
		selector:     selector,
		stopChan:     make(chan struct{}),
		requestQueue: make(chan *Request, queueSize),
		workerCount:  config.Workers,
		perScenario:  perScenario,
	}
}

// Start seeds the catalog and runs the main simulation loop until the
// configured duration expires or the context is canceled.
func (cs *CirculationSimulation) Start(ctx context.Context) error {
	log.Printf("Circulation simulation starting with seed phase...")

	if err := cs.seedInitialState(ctx); err != nil {
		return fmt.Errorf("failed to seed initial state: %w", err)
	}

	cs.wg.Add(1)
	go cs.clockDriver(ctx)

	log.Printf("Starting main simulation phase...")
	return cs.runMainSimulation(ctx)
}

// signalStop closes the stop channel exactly once. Both Stop and the
// duration expiry path use it, so racing shutdown triggers are safe.
func (cs *CirculationSimulation) signalStop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
	})
}

// Stop gracefully shuts down the simulation.
func (cs *CirculationSimulation) Stop(ctx context.Context) error {
	cs.signalStop() // Signal main simulation loop to stop

	// Wait for all goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		cs.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout exceeded")
	}
}

// seedInitialState registers the configured number of patrons and
// publications with the catalog.
func (cs *CirculationSimulation) seedInitialState(ctx context.Context) error {
	log.Printf("Seeding catalog: %d patrons, %d publications", cs.config.Patrons, cs.config.Publications)

	for i := 0; i < cs.config.Patrons; i++ {
		patronID := uuid.New()
		patron := core.BuildPatron(
			patronID,
			fmt.Sprintf("Patron %04d", i),
			fmt.Sprintf("patron%04d@example.org", i),
		)

		if err := cs.library.RegisterPatron(ctx, patron); err != nil {
			return fmt.Errorf("failed to register patron %d: %w", i, err)
		}

		cs.state.AddPatron(patronID)
	}

	for i := 0; i < cs.config.Publications; i++ {
		publicationID := uuid.New()
		publication := buildSeedPublication(publicationID, i)

		if err := cs.library.RegisterPublication(ctx, publication); err != nil {
			return fmt.Errorf("failed to register publication %d: %w", i, err)
		}

		cs.state.AddPublication(publicationID)
	}

	patrons, publications, _ := cs.state.GetStats()
	log.Printf("Seed complete: %d patrons, %d publications registered", patrons, publications)

	return nil
}

// buildSeedPublication builds a mixed collection: mostly books, with
// magazines and DVDs sprinkled in.
func buildSeedPublication(publicationID uuid.UUID, index int) core.Publication {
	year := 1990 + index%35

	switch {
	case index%5 == 0:
		return core.BuildDVD(publicationID, fmt.Sprintf("Simulation DVD %d", index), year, 90+index%60)
	case index%3 == 0:
		return core.BuildMagazine(publicationID, fmt.Sprintf("Simulation Magazine %d", index), year, index%12+1)
	default:
		return core.BuildBook(
			publicationID,
			fmt.Sprintf("Simulation Book %d", index),
			year,
			"Test Author",
			fmt.Sprintf("978-%010d", index),
		)
	}
}

// clockDriver advances the simulated clock at the configured acceleration.
func (cs *CirculationSimulation) clockDriver(ctx context.Context) {
	defer cs.wg.Done()

	ticker := time.NewTicker(clockTickInterval)
	defer ticker.Stop()

	// Simulated time advanced per tick
	step := time.Duration(cs.config.Acceleration) * time.Second / 10

	for {
		select {
		case <-ctx.Done():
			return
		case <-cs.stopChan:
			return
		case <-ticker.C:
			cs.clock.Advance(step)
		}
	}
}

// runMainSimulation executes the main simulation loop with worker pool architecture.
func (cs *CirculationSimulation) runMainSimulation(ctx context.Context) error {
	cs.mu.Lock()
	cs.startTime = time.Now()
	cs.mu.Unlock()

	// Calculate batching parameters for higher rate precision.
	// For rates >=50 req/sec, batch multiple requests per tick to avoid
	// OS timer precision limitations.
	batchSize := 1
	batchInterval := time.Second / time.Duration(cs.config.Rate)

	if cs.config.Rate >= 50 {
		batchSize = cs.config.Rate / 10 // 10 batches per second
		if batchSize < 1 {
			batchSize = 1
		}
		batchInterval = 100 * time.Millisecond
	}

	ticker := time.NewTicker(batchInterval)
	defer ticker.Stop()

	var durationC <-chan time.Time
	if cs.config.Duration > 0 {
		durationTimer := time.NewTimer(cs.config.Duration)
		defer durationTimer.Stop()
		durationC = durationTimer.C
	}

	log.Printf("Main simulation running at %d requests/second (batch: %d req every %v), %d workers, goroutines: %d",
		cs.config.Rate, batchSize, batchInterval, cs.workerCount, runtime.NumGoroutine())

	for i := 0; i < cs.workerCount; i++ {
		cs.wg.Add(1)
		go cs.worker(ctx, i)
	}

	cs.wg.Add(1)
	go cs.statsReporter(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Main simulation stopping due to context cancellation - initiating graceful shutdown")
			close(cs.requestQueue)
			cs.wg.Wait()
			cs.logFinalStats()
			return ctx.Err()

		case <-cs.stopChan:
			log.Printf("Main simulation stopping due to stop signal - initiating graceful shutdown")
			close(cs.requestQueue)
			cs.wg.Wait()
			cs.logFinalStats()
			return nil

		case <-durationC:
			log.Printf("Configured duration of %v elapsed - initiating graceful shutdown", cs.config.Duration)
			cs.signalStop()
			close(cs.requestQueue)
			cs.wg.Wait()
			cs.logFinalStats()
			return nil

		case <-ticker.C:
			for i := 0; i < batchSize; i++ {
				scenario := cs.selector.SelectScenario()
				request := &Request{ctx: ctx, scenario: scenario}

				// Non-blocking request submission (backpressure handling)
				select {
				case cs.requestQueue <- request:
				default:
					cs.recordBackpressure()
				}
			}
		}
	}
}

// recordBackpressure records backpressure events when the queue is full.
func (cs *CirculationSimulation) recordBackpressure() {
	cs.mu.Lock()
	cs.backpressureCount++
	cs.mu.Unlock()
}

// worker processes requests from the queue with bounded concurrency.
func (cs *CirculationSimulation) worker(ctx context.Context, workerID int) {
	defer cs.wg.Done()

	for {
		select {
		case request, ok := <-cs.requestQueue:
			if !ok {
				return
			}

			executed, err := cs.executeRequest(request)
			if executed {
				cs.updateCounters(workerID, request.scenario, err)
			}

		case <-ctx.Done():
			return
		}
	}
}

// executeRequest executes a single request based on scenario type. The
// boolean result reports whether the operation was actually attempted;
// return scenarios whose loan another worker already claimed are skipped.
func (cs *CirculationSimulation) executeRequest(request *Request) (bool, error) {
	opCtx, cancel := context.WithTimeout(request.ctx, requestTimeout)
	defer cancel()

	scenario := request.scenario

	// For genuine return scenarios, claim the loan first so only one worker
	// processes it. Intentional double-return scenarios bypass the claim.
	isReturn := scenario.Type == ScenarioReturnOnTime || scenario.Type == ScenarioReturnLate
	if isReturn && !scenario.IsError {
		if !cs.state.ReserveReturn(scenario.LoanID) {
			return false, nil
		}
		defer cs.state.ReleaseReturn(scenario.LoanID)
	}

	switch scenario.Type {
	case ScenarioLend:
		return true, cs.executeLend(opCtx, scenario)
	case ScenarioReturnOnTime, ScenarioReturnLate:
		return true, cs.executeReturn(opCtx, scenario)
	case ScenarioPayPenalty:
		return true, cs.executePayPenalty(opCtx, scenario)
	case ScenarioBrowseOverdue:
		return true, cs.executeBrowseOverdue(opCtx)
	default:
		return true, fmt.Errorf("unknown scenario type: %s", scenario.Type)
	}
}

// executeLend lends a publication to a patron and records the loan on success.
func (cs *CirculationSimulation) executeLend(ctx context.Context, scenario Scenario) error {
	loan, err := cs.library.CreateLoan(ctx, scenario.PatronID, scenario.PublicationID, 0)
	if err != nil {
		return err
	}

	cs.state.RecordLoan(loan.ID(), scenario.PatronID, scenario.PublicationID, loan.DueAt())

	return nil
}

// executeReturn returns a loan and updates the simulation bookkeeping,
// marking the patron indebted when the return posted a penalty.
func (cs *CirculationSimulation) executeReturn(ctx context.Context, scenario Scenario) error {
	if err := cs.library.ReturnLoan(ctx, scenario.LoanID); err != nil {
		return err
	}

	loan, err := cs.library.FindLoan(ctx, scenario.LoanID)
	if err != nil {
		return err
	}

	wasLate := loan.DaysLateAtReturn() > 0
	if loan.Penalty().IsPositive() {
		cs.state.MarkIndebted(loan.PatronID())
	}

	cs.state.CompleteReturn(scenario.LoanID, wasLate)

	return nil
}

// executePayPenalty settles a patron's full outstanding penalty balance.
func (cs *CirculationSimulation) executePayPenalty(ctx context.Context, scenario Scenario) error {
	patron, err := cs.library.FindPatron(ctx, scenario.PatronID)
	if err != nil {
		return err
	}

	balance := patron.PenaltyBalance()
	if !balance.IsPositive() {
		// Another worker already settled this patron
		cs.state.ClearDebt(scenario.PatronID)
		return nil
	}

	remaining, err := cs.library.PayPenalty(ctx, scenario.PatronID, balance)
	if err != nil {
		return err
	}

	if remaining.IsZero() {
		cs.state.ClearDebt(scenario.PatronID)
	}

	return nil
}

// executeBrowseOverdue lists the currently overdue loans, a read-only desk query.
func (cs *CirculationSimulation) executeBrowseOverdue(ctx context.Context) error {
	cs.library.OverdueLoans(ctx)

	return nil
}

// updateCounters classifies the outcome and updates the metrics counters.
func (cs *CirculationSimulation) updateCounters(workerID int, scenario Scenario, err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.requestCount++
	stats := cs.perScenario[scenario.Type]
	stats.attempted++

	switch {
	case err == nil:
		stats.succeeded++

	case isRefusal(err):
		cs.refusalCount++
		stats.refused++
		if cs.config.Verbose {
			if scenario.IsError {
				log.Printf("Worker %d expected refusal (%s - %s): %v", workerID, scenario.Type, scenario.Reason, err)
			} else {
				log.Printf("Worker %d refusal (%s): %v", workerID, scenario.Type, err)
			}
		}

	default:
		cs.errorCount++
		stats.failed++
		log.Printf("Worker %d unexpected error (%s): %v", workerID, scenario.Type, err)
	}
}

// isRefusal reports whether the error is an expected domain refusal rather
// than a malfunction.
func isRefusal(err error) bool {
	refusals := []error{
		catalog.ErrPatronNotFound,
		catalog.ErrPublicationNotFound,
		catalog.ErrPublicationUnavailable,
		catalog.ErrLoanNotFound,
		core.ErrBorrowingNotAllowed,
		core.ErrLoanAlreadyReturned,
		core.ErrPaymentExceedsBalance,
	}

	for _, refusal := range refusals {
		if errors.Is(err, refusal) {
			return true
		}
	}

	return false
}

// statsReporter periodically logs simulation statistics.
func (cs *CirculationSimulation) statsReporter(ctx context.Context) {
	defer cs.wg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cs.stopChan:
			return
		case <-ticker.C:
			cs.logCurrentStats(ctx)
		}
	}
}

func (cs *CirculationSimulation) logCurrentStats(ctx context.Context) {
	cs.mu.RLock()
	duration := time.Since(cs.startTime)
	requests := cs.requestCount
	refusals := cs.refusalCount
	errorCount := cs.errorCount
	backpressure := cs.backpressureCount
	cs.mu.RUnlock()

	if requests == 0 || duration <= 0 {
		return
	}

	activeLoans := len(cs.library.ActiveLoans(ctx))
	overdueLoans := len(cs.library.OverdueLoans(ctx))
	_, completed, latePenalties, paidPenalties, indebted := cs.state.GetDetailedStats()

	rps := float64(requests) / duration.Seconds()
	refusalRate := float64(refusals) / float64(requests) * 100
	errorRate := float64(errorCount) / float64(requests) * 100

	log.Printf("Stats: %d req in %v (%.1f req/s), %d refused (%.1f%%), %d err (%.1f%%), %d backpressure, queue: %d, %d goroutines",
		requests, duration.Truncate(time.Second), rps, refusals, refusalRate, errorCount, errorRate,
		backpressure, len(cs.requestQueue), runtime.NumGoroutine())
	log.Printf("State: %d active loans (%d overdue), %d completed, %d late penalties, %d settled, %d patrons in debt, journal: %d, simulated time: %s",
		activeLoans, overdueLoans, completed, latePenalties, paidPenalties, indebted,
		cs.library.Journal().Len(), cs.clock.Now().Format("2006-01-02 15:04"))
}

func (cs *CirculationSimulation) logFinalStats() {
	cs.mu.RLock()
	duration := time.Since(cs.startTime)
	requests := cs.requestCount
	refusals := cs.refusalCount
	errorCount := cs.errorCount
	backpressure := cs.backpressureCount
	cs.mu.RUnlock()

	ctx := context.Background()
	activeLoans := len(cs.library.ActiveLoans(ctx))
	overdueLoans := len(cs.library.OverdueLoans(ctx))
	_, completed, latePenalties, paidPenalties, indebted := cs.state.GetDetailedStats()

	if duration <= 0 || requests == 0 {
		return
	}

	rps := float64(requests) / duration.Seconds()
	refusalRate := float64(refusals) / float64(requests) * 100
	errorRate := float64(errorCount) / float64(requests) * 100

	log.Printf("Final stats: %d req in %v (%.1f req/s), %d refused (%.1f%%), %d err (%.1f%%), %d backpressure",
		requests, duration.Truncate(time.Second), rps, refusals, refusalRate, errorCount, errorRate, backpressure)
	log.Printf("Final state: %d active loans (%d overdue), %d completed, %d late penalties, %d settled, %d patrons in debt, journal: %d, simulated time: %s",
		activeLoans, overdueLoans, completed, latePenalties, paidPenalties, indebted,
		cs.library.Journal().Len(), cs.clock.Now().Format("2006-01-02 15:04"))

	cs.mu.RLock()
	for _, scenarioType := range scenarioOrder {
		stats := cs.perScenario[scenarioType]
		if stats.attempted == 0 {
			continue
		}
		log.Printf("Scenario %s: %d attempted, %d succeeded, %d refused, %d failed",
			scenarioType, stats.attempted, stats.succeeded, stats.refused, stats.failed)
	}
	cs.mu.RUnlock()
}
