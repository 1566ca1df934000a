package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/opencirc/circulation-go/catalog"
	"github.com/opencirc/circulation-go/catalog/oteladapters"
	"github.com/opencirc/circulation-go/testutil/clock"
)

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	simClock := clock.NewAdjustableAt(time.Now().UTC())

	catalogOptions := []catalog.Option{
		catalog.WithClock(simClock.Now),
		catalog.WithDefaultLoanPeriod(time.Duration(cfg.LoanPeriodDays) * 24 * time.Hour),
	}

	var obs *observabilityBundle
	if cfg.ObservabilityEnabled {
		obs = cfg.newObservability()
		catalogOptions = append(catalogOptions, obs.options...)
		log.Printf("Observability enabled: metrics, tracing and contextual logging wired")
	}

	library, err := catalog.New(catalogOptions...)
	if err != nil {
		log.Fatalf("Failed to create catalog: %v", err)
	}

	simulation := NewCirculationSimulation(library, simClock, cfg)

	errChan := make(chan error, 1)
	go func() {
		errChan <- simulation.Start(ctx)
	}()

	log.Printf("Circulation simulation started")
	log.Printf("Configuration: rate=%d req/s, patrons=%d, publications=%d, workers=%d, duration=%v, acceleration=%dx, loan-period=%dd, seed=%d",
		cfg.Rate, cfg.Patrons, cfg.Publications, cfg.Workers, cfg.Duration, cfg.Acceleration, cfg.LoanPeriodDays, cfg.Seed)
	log.Printf("Error rates: unknown-patron=%.1f%%, unknown-publication=%.1f%%, double-return=%.1f%%",
		cfg.ErrorRates.UnknownPatron, cfg.ErrorRates.UnknownPublication, cfg.ErrorRates.DoubleReturn)
	log.Printf("Press Ctrl+C to stop...")

	// Wait for a shutdown signal, an error, or natural completion
	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if stopErr := simulation.Stop(shutdownCtx); stopErr != nil {
			log.Printf("Error during shutdown: %v", stopErr)
		}

	case runErr := <-errChan:
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			log.Printf("Simulation failed: %v", runErr)
		}
	}

	if obs != nil {
		obs.dumpMetrics()
	}

	log.Printf("Circulation simulation stopped")
}

// observabilityBundle holds the wired catalog options and the manual reader
// the final metrics summary is collected from.
type observabilityBundle struct {
	options []catalog.Option
	reader  *sdkmetric.ManualReader
}

// newObservability wires OpenTelemetry adapters for the catalog: an SDK
// meter with a manual reader for the exit summary, the global tracer, and a
// slog text handler for contextual logging.
func (c Config) newObservability() *observabilityBundle {
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := meterProvider.Meter("circulation-simulation")

	logLevel := slog.LevelInfo
	if c.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})

	metricsCollector := oteladapters.NewMetricsCollector(meter)
	tracingCollector := oteladapters.NewTracingCollector(otel.Tracer("circulation-simulation"))
	contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)

	return &observabilityBundle{
		options: []catalog.Option{
			catalog.WithMetrics(metricsCollector),
			catalog.WithTracing(tracingCollector),
			catalog.WithContextualLogger(contextualLogger),
		},
		reader: reader,
	}
}

// dumpMetrics collects from the manual reader and logs a compact summary of
// every recorded metric.
func (b *observabilityBundle) dumpMetrics() {
	var resourceMetrics metricdata.ResourceMetrics
	if err := b.reader.Collect(context.Background(), &resourceMetrics); err != nil {
		log.Printf("Failed to collect metrics: %v", err)
		return
	}

	log.Printf("Collected metrics:")
	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Histogram[float64]:
				var count uint64
				for _, dataPoint := range data.DataPoints {
					count += dataPoint.Count
				}
				log.Printf("  %s: %d recordings across %d label sets", m.Name, count, len(data.DataPoints))

			case metricdata.Sum[int64]:
				var total int64
				for _, dataPoint := range data.DataPoints {
					total += dataPoint.Value
				}
				log.Printf("  %s: %d total across %d label sets", m.Name, total, len(data.DataPoints))

			case metricdata.Gauge[float64]:
				for _, dataPoint := range data.DataPoints {
					log.Printf("  %s: %.0f", m.Name, dataPoint.Value)
				}
			}
		}
	}
}
