// Package main implements a circulation simulation for the lending catalog.
//
// The simulation drives realistic lending traffic against a single in-process
// catalog: many worker goroutines lend, return and settle penalties while the
// catalog's mutex serializes every check-then-act sequence. An accelerated
// adjustable clock compresses simulated weeks into real seconds, so loans go
// overdue and late-return penalties accrue during a short run.
//
// ## State-Aware Scenario Generation
// The ScenarioSelector uses SimulationState to generate realistic scenarios:
//   - Weighted selection: lending and returning dominate, penalty payments
//     and overdue browsing are occasional
//   - Clock-aware returns: on-time and late returns are picked from the
//     actual due-date partition of the outstanding loans
//   - Error injection: configurable rates for unknown patron cards, unknown
//     publication ids and double returns
//
// ## Worker Pool Architecture
// Concurrent request processing with a bounded queue:
//   - Rate-limited request generation matching target throughput, with
//     batching above 50 req/s to sidestep OS timer precision
//   - Backpressure counting when the queue is full
//   - Graceful shutdown on duration expiry, SIGINT or SIGTERM
//
// ## Observability
// With -observability-enabled the catalog runs with OpenTelemetry adapters:
// a manual-reader meter whose metrics are summarized at exit, the global
// tracer, and contextual slog logging for every operation outcome.
package main
