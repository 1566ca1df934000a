package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-go/core"
)

// ScenarioType represents different types of scenarios the simulation can execute.
type ScenarioType string

const (
	ScenarioLend          ScenarioType = "lend"
	ScenarioReturnOnTime  ScenarioType = "return_on_time"
	ScenarioReturnLate    ScenarioType = "return_late"
	ScenarioPayPenalty    ScenarioType = "pay_penalty"
	ScenarioBrowseOverdue ScenarioType = "browse_overdue"
)

// Scenario represents a single operation to be executed by the simulation.
type Scenario struct {
	Type          ScenarioType
	PatronID      uuid.UUID
	PublicationID uuid.UUID
	LoanID        core.LoanIDUint
	IsError       bool   // True if this is an intentional error scenario
	Reason        string // Description of why this is an error scenario
}

// StateSnapshot holds cached state data to avoid mutex contention during scenario selection.
type StateSnapshot struct {
	patrons               []uuid.UUID
	availablePublications []uuid.UUID
	onTimeLoans           []core.LoanIDUint
	overdueLoans          []core.LoanIDUint
	indebtedPatrons       []uuid.UUID
	returnedLoans         []core.LoanIDUint
	lastUpdated           time.Time
	mu                    sync.RWMutex
}

// ScenarioSelector selects realistic scenarios based on the current
// simulation state and the simulated clock.
type ScenarioSelector struct {
	state    *SimulationState
	config   Config
	now      core.Clock
	rng      *rand.Rand
	snapshot *StateSnapshot
}

// NewScenarioSelector creates a new scenario selector with the given state,
// configuration and simulated clock. The selector is driven from a single
// goroutine, so the seeded random source needs no locking.
func NewScenarioSelector(state *SimulationState, config Config, now core.Clock) *ScenarioSelector {
	selector := &ScenarioSelector{
		state:    state,
		config:   config,
		now:      now,
		rng:      rand.New(rand.NewSource(config.Seed)), //nolint:gosec // weak random is fine for scenario selection
		snapshot: &StateSnapshot{},
	}

	selector.refreshSnapshot()

	return selector
}

// refreshSnapshot updates the cached state snapshot from the actual state.
func (s *ScenarioSelector) refreshSnapshot() {
	patrons := s.state.PatronIDs()
	availablePublications := s.state.AvailablePublicationIDs()
	onTimeLoans, overdueLoans := s.state.LoanPartition(s.now())
	indebtedPatrons := s.state.IndebtedPatronIDs()
	returnedLoans := s.state.ReturnedLoanIDs()

	s.snapshot.mu.Lock()
	s.snapshot.patrons = patrons
	s.snapshot.availablePublications = availablePublications
	s.snapshot.onTimeLoans = onTimeLoans
	s.snapshot.overdueLoans = overdueLoans
	s.snapshot.indebtedPatrons = indebtedPatrons
	s.snapshot.returnedLoans = returnedLoans
	s.snapshot.lastUpdated = time.Now()
	s.snapshot.mu.Unlock()
}

// ensureFreshSnapshot refreshes the snapshot if it's older than 100ms.
func (s *ScenarioSelector) ensureFreshSnapshot() {
	s.snapshot.mu.RLock()
	needsRefresh := time.Since(s.snapshot.lastUpdated) > 100*time.Millisecond
	s.snapshot.mu.RUnlock()

	if needsRefresh {
		s.refreshSnapshot()
	}
}

// getSnapshotData returns cached state data (refreshing if stale).
func (s *ScenarioSelector) getSnapshotData() (patrons, availablePublications, indebtedPatrons []uuid.UUID, onTimeLoans, overdueLoans, returnedLoans []core.LoanIDUint) {
	s.ensureFreshSnapshot()

	s.snapshot.mu.RLock()
	defer s.snapshot.mu.RUnlock()

	return s.snapshot.patrons, s.snapshot.availablePublications, s.snapshot.indebtedPatrons,
		s.snapshot.onTimeLoans, s.snapshot.overdueLoans, s.snapshot.returnedLoans
}

// SelectScenario chooses a realistic scenario based on current state and error injection probabilities.
func (s *ScenarioSelector) SelectScenario() Scenario {
	patrons, availablePublications, indebtedPatrons, onTimeLoans, overdueLoans, returnedLoans := s.getSnapshotData()

	weights := s.calculateScenarioWeights(availablePublications, indebtedPatrons, onTimeLoans, overdueLoans)
	scenarioType := s.selectWeightedScenario(weights)

	if s.shouldInjectError(scenarioType) {
		return s.createErrorScenario(scenarioType, patrons, availablePublications, returnedLoans)
	}

	switch scenarioType {
	case ScenarioLend:
		return s.createLendScenario(patrons, availablePublications)
	case ScenarioReturnOnTime:
		return s.createReturnScenario(ScenarioReturnOnTime, onTimeLoans, patrons, availablePublications)
	case ScenarioReturnLate:
		return s.createReturnScenario(ScenarioReturnLate, overdueLoans, patrons, availablePublications)
	case ScenarioPayPenalty:
		return s.createPayPenaltyScenario(indebtedPatrons, patrons, availablePublications)
	case ScenarioBrowseOverdue:
		return s.createBrowseOverdueScenario()
	default:
		return s.createLendScenario(patrons, availablePublications)
	}
}

// calculateScenarioWeights determines realistic weights from cached snapshot data.
// Lending and returning dominate; penalty payments and overdue browsing are occasional.
func (s *ScenarioSelector) calculateScenarioWeights(availablePublications, indebtedPatrons []uuid.UUID, onTimeLoans, overdueLoans []core.LoanIDUint) map[ScenarioType]int {
	weights := make(map[ScenarioType]int)

	if len(availablePublications) > 0 {
		weights[ScenarioLend] = 200 // DOMINANT: most common operation
	}

	if len(onTimeLoans) > 0 {
		weights[ScenarioReturnOnTime] = 120
	}

	if len(overdueLoans) > 0 {
		weights[ScenarioReturnLate] = 60 // Overdue loans come back eventually
	}

	if len(indebtedPatrons) > 0 {
		weights[ScenarioPayPenalty] = 40 // Patrons settle at the front desk
	}

	weights[ScenarioBrowseOverdue] = 10 // Occasional desk queries

	return weights
}

// selectWeightedScenario selects a scenario type based on weighted probabilities.
func (s *ScenarioSelector) selectWeightedScenario(weights map[ScenarioType]int) ScenarioType {
	totalWeight := 0
	for _, weight := range weights {
		totalWeight += weight
	}

	if totalWeight == 0 {
		return ScenarioBrowseOverdue // Fallback
	}

	r := s.rng.Intn(totalWeight)
	currentWeight := 0

	for scenarioType, weight := range weights {
		currentWeight += weight
		if r < currentWeight {
			return scenarioType
		}
	}

	return ScenarioBrowseOverdue // Fallback
}

// shouldInjectError determines if this scenario should be an error scenario.
func (s *ScenarioSelector) shouldInjectError(scenarioType ScenarioType) bool {
	r := s.rng.Float64() * 100

	switch scenarioType {
	case ScenarioLend:
		return r < s.config.ErrorRates.UnknownPatron+s.config.ErrorRates.UnknownPublication
	case ScenarioReturnOnTime, ScenarioReturnLate:
		return r < s.config.ErrorRates.DoubleReturn
	default:
		return false
	}
}

// createLendScenario creates a lending scenario from cached data.
func (s *ScenarioSelector) createLendScenario(patrons, availablePublications []uuid.UUID) Scenario {
	if len(patrons) == 0 || len(availablePublications) == 0 {
		return s.createBrowseOverdueScenario()
	}

	return Scenario{
		Type:          ScenarioLend,
		PatronID:      patrons[s.rng.Intn(len(patrons))],
		PublicationID: availablePublications[s.rng.Intn(len(availablePublications))],
	}
}

// createReturnScenario creates a return scenario for one of the given loans.
func (s *ScenarioSelector) createReturnScenario(scenarioType ScenarioType, loans []core.LoanIDUint, patrons, availablePublications []uuid.UUID) Scenario {
	if len(loans) == 0 {
		// Nothing to return, lend instead
		return s.createLendScenario(patrons, availablePublications)
	}

	return Scenario{
		Type:   scenarioType,
		LoanID: loans[s.rng.Intn(len(loans))],
	}
}

// createPayPenaltyScenario creates a penalty settlement scenario for an indebted patron.
func (s *ScenarioSelector) createPayPenaltyScenario(indebtedPatrons, patrons, availablePublications []uuid.UUID) Scenario {
	if len(indebtedPatrons) == 0 {
		return s.createLendScenario(patrons, availablePublications)
	}

	return Scenario{
		Type:     ScenarioPayPenalty,
		PatronID: indebtedPatrons[s.rng.Intn(len(indebtedPatrons))],
	}
}

// createBrowseOverdueScenario creates a read-only overdue listing scenario.
func (s *ScenarioSelector) createBrowseOverdueScenario() Scenario {
	return Scenario{
		Type: ScenarioBrowseOverdue,
	}
}

// createErrorScenario creates intentional error scenarios using cached data.
func (s *ScenarioSelector) createErrorScenario(scenarioType ScenarioType, patrons, availablePublications []uuid.UUID, returnedLoans []core.LoanIDUint) Scenario {
	switch scenarioType {
	case ScenarioLend:
		unknownPatronShare := s.config.ErrorRates.UnknownPatron
		totalShare := unknownPatronShare + s.config.ErrorRates.UnknownPublication

		if totalShare > 0 && s.rng.Float64()*totalShare < unknownPatronShare {
			// Lend to a patron whose card is not on file
			var publicationID uuid.UUID
			if len(availablePublications) > 0 {
				publicationID = availablePublications[s.rng.Intn(len(availablePublications))]
			} else {
				publicationID = uuid.New()
			}

			return Scenario{
				Type:          ScenarioLend,
				PatronID:      uuid.New(),
				PublicationID: publicationID,
				IsError:       true,
				Reason:        "patron card not on file",
			}
		}

		// Lend a publication the catalog does not know
		var patronID uuid.UUID
		if len(patrons) > 0 {
			patronID = patrons[s.rng.Intn(len(patrons))]
		} else {
			patronID = uuid.New()
		}

		return Scenario{
			Type:          ScenarioLend,
			PatronID:      patronID,
			PublicationID: uuid.New(),
			IsError:       true,
			Reason:        "publication id not in the catalog",
		}

	case ScenarioReturnOnTime, ScenarioReturnLate:
		// Return a loan slip that was already processed
		if len(returnedLoans) > 0 {
			return Scenario{
				Type:    scenarioType,
				LoanID:  returnedLoans[s.rng.Intn(len(returnedLoans))],
				IsError: true,
				Reason:  "loan slip already processed",
			}
		}
	}

	// No error scenario possible yet, fall back to normal lending
	return s.createLendScenario(patrons, availablePublications)
}
