package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

const (
	defaultRate           = 40
	defaultPatrons        = 200
	defaultPublications   = 600
	defaultWorkers        = 8
	defaultDurationSecs   = 60
	defaultAcceleration   = 21600 // 1 real second = 6 simulated hours
	defaultLoanPeriodDays = 7
)

// Config holds all simulation configuration parameters.
type Config struct {
	Rate                 int
	Patrons              int
	Publications         int
	Workers              int
	Duration             time.Duration
	Acceleration         int
	LoanPeriodDays       int
	Seed                 int64
	ObservabilityEnabled bool
	Verbose              bool
	ErrorRates           ErrorConfig
}

// ErrorConfig holds probabilities for intentional error scenarios (as percentages 0-100).
type ErrorConfig struct {
	UnknownPatron      float64 // lend attempt with an unregistered patron id
	UnknownPublication float64 // lend attempt with an unknown publication id
	DoubleReturn       float64 // return attempt for an already-returned loan
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() Config {
	var (
		rate           = flag.Int("rate", defaultRate, "Requests per second")
		patrons        = flag.Int("patrons", defaultPatrons, "Number of patrons to register at startup")
		publications   = flag.Int("publications", defaultPublications, "Number of publications to register at startup")
		workers        = flag.Int("workers", defaultWorkers, "Number of worker goroutines")
		durationSecs   = flag.Int("duration", defaultDurationSecs, "Simulation duration in seconds (0 = run until interrupted)")
		acceleration   = flag.Int("acceleration", defaultAcceleration, "Simulated seconds per real second")
		loanPeriodDays = flag.Int("loan-period-days", defaultLoanPeriodDays, "Default loan period in days")
		seed           = flag.Int64("seed", 0, "Random seed for scenario selection (0 = time-based)")
		observability  = flag.Bool("observability-enabled", false, "Enable OpenTelemetry observability")
		verbose        = flag.Bool("verbose", false, "Log every refused or failed operation")
		errorRates     = flag.String("error-rates", "0.5,0.5,0.5", "Comma-separated error probabilities: unknown-patron,unknown-publication,double-return")
	)

	flag.Parse()

	errorConfig, err := parseErrorRates(*errorRates)
	if err != nil {
		log.Fatalf("Invalid error rates '%s': %v", *errorRates, err)
	}

	if *rate <= 0 {
		log.Fatalf("rate (%d) must be positive", *rate)
	}

	if *patrons <= 0 || *publications <= 0 {
		log.Fatalf("patrons (%d) and publications (%d) must be positive", *patrons, *publications)
	}

	if *workers <= 0 {
		log.Fatalf("workers (%d) must be positive", *workers)
	}

	if *acceleration < 1 {
		log.Fatalf("acceleration (%d) must be at least 1", *acceleration)
	}

	if *loanPeriodDays <= 0 {
		log.Fatalf("loan-period-days (%d) must be positive", *loanPeriodDays)
	}

	resolvedSeed := *seed
	if resolvedSeed == 0 {
		resolvedSeed = time.Now().UnixNano()
	}

	return Config{
		Rate:                 *rate,
		Patrons:              *patrons,
		Publications:         *publications,
		Workers:              *workers,
		Duration:             time.Duration(*durationSecs) * time.Second,
		Acceleration:         *acceleration,
		LoanPeriodDays:       *loanPeriodDays,
		Seed:                 resolvedSeed,
		ObservabilityEnabled: *observability,
		Verbose:              *verbose,
		ErrorRates:           errorConfig,
	}
}

// parseErrorRates parses comma-separated error probability percentages.
func parseErrorRates(ratesStr string) (ErrorConfig, error) {
	parts := strings.Split(ratesStr, ",")
	if len(parts) != 3 {
		return ErrorConfig{}, fmt.Errorf("expected 3 probabilities, got %d", len(parts))
	}

	probabilities := make([]float64, 3)
	for i, part := range parts {
		prob, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return ErrorConfig{}, fmt.Errorf("invalid probability '%s': %w", part, err)
		}
		if prob < 0 || prob > 100 {
			return ErrorConfig{}, fmt.Errorf("probability %f out of range [0, 100]", prob)
		}
		probabilities[i] = prob
	}

	return ErrorConfig{
		UnknownPatron:      probabilities[0],
		UnknownPublication: probabilities[1],
		DoubleReturn:       probabilities[2],
	}, nil
}
